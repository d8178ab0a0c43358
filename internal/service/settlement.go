package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/logger"
	"rentwi-backend/internal/pricing"
	"rentwi-backend/internal/repository"
)

// settlementEngine performs the completion-time split of a rental's total
// price between the owning company's wallet and the platform wallet. It runs
// inside the caller's unit of work, so both credits land atomically with the
// rental status change or not at all.
type settlementEngine struct {
	commissionRate    decimal.Decimal
	platformTaxNumber string
}

func (e settlementEngine) Settle(ctx context.Context, uow repository.UnitOfWork, rental *domain.Rental) error {
	commission, companyNet := pricing.Split(rental.TotalPrice, e.commissionRate)

	companyWallet, err := uow.Wallets().GetByCompanyID(ctx, rental.CompanyID)
	if err != nil {
		return err
	}

	// An unresolvable platform wallet fails the whole completion. Completing
	// without recording the commission would silently drop platform revenue.
	platform, err := uow.Companies().GetByTaxNumber(ctx, e.platformTaxNumber)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.Errorf(domain.KindNotFound,
				"platform company %q is not provisioned", e.platformTaxNumber)
		}
		return err
	}
	platformWallet, err := uow.Wallets().GetByCompanyID(ctx, platform.ID)
	if err != nil {
		return err
	}

	ref := uuid.NewString()
	rentalID := rental.ID
	err = uow.Wallets().ApplyDelta(ctx, companyWallet.ID, companyNet, &domain.WalletTransaction{
		Reference:       ref,
		Type:            domain.TransactionTypeRentalIncome,
		RelatedRentalID: &rentalID,
		Description:     fmt.Sprintf("Income from rental %d", rental.ID),
	})
	if err != nil {
		return err
	}
	err = uow.Wallets().ApplyDelta(ctx, platformWallet.ID, commission, &domain.WalletTransaction{
		Reference:       ref,
		Type:            domain.TransactionTypeCommissionIncome,
		RelatedRentalID: &rentalID,
		Description:     fmt.Sprintf("Commission from rental %d", rental.ID),
	})
	if err != nil {
		return err
	}

	logger.Info("rental settled", "rental_id", rental.ID, "reference", ref,
		"company_net", companyNet.String(), "commission", commission.String())
	return nil
}
