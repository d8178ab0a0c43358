package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusPendingDelivery   RentalStatus = "PENDING_DELIVERY"
	RentalStatusInProgress        RentalStatus = "IN_PROGRESS"
	RentalStatusFinishedCorrect   RentalStatus = "FINISHED_CORRECT"
	RentalStatusFinishedWithIssue RentalStatus = "FINISHED_WITH_ISSUE"
)

// Terminal reports whether no further transition may leave the status.
func (s RentalStatus) Terminal() bool {
	return s == RentalStatusFinishedCorrect || s == RentalStatusFinishedWithIssue
}

type Rental struct {
	ID        int32     `json:"id"`
	ClientID  int32     `json:"client_id"`
	CompanyID int32     `json:"company_id"`
	CarID     int32     `json:"car_id"`
	StartDate time.Time `json:"start_date"`
	// EstimatedEndDate is the end requested at booking time. Until completion
	// the total price is charged against this date; it also bounds the window
	// used by the availability overlap check.
	EstimatedEndDate time.Time  `json:"estimated_end_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	// PricePerHour is snapshotted from the car at booking time and never
	// changes afterwards, regardless of later catalog price updates.
	PricePerHour  decimal.Decimal `json:"price_per_hour"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Status        RentalStatus    `json:"status"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	CreatedOn     time.Time       `json:"created_on"`
	UpdatedOn     time.Time       `json:"updated_on"`
}
