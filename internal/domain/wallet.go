package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeRentalIncome     TransactionType = "RENTAL_INCOME"
	TransactionTypeCommissionIncome TransactionType = "COMMISSION_INCOME"
	TransactionTypeAdjustment       TransactionType = "ADJUSTMENT"
)

// Wallet holds a company's running balance. The balance always equals the
// sum of all transaction amounts ever applied; both are written together
// inside one unit of work.
type Wallet struct {
	ID        int32           `json:"id"`
	CompanyID int32           `json:"company_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedOn time.Time       `json:"created_on"`
	UpdatedOn time.Time       `json:"updated_on"`
}

// WalletTransaction is append-only; entries are never edited or removed.
type WalletTransaction struct {
	ID       int32  `json:"id"`
	WalletID int32  `json:"wallet_id"`
	// Reference is a uuid correlating the two entries written by one
	// settlement.
	Reference       string          `json:"reference"`
	Amount          decimal.Decimal `json:"amount"` // positive for credit, negative for debit
	Type            TransactionType `json:"type"`
	RelatedRentalID *int32          `json:"related_rental_id,omitempty"`
	Description     string          `json:"description"`
	CreatedOn       time.Time       `json:"created_on"`
}
