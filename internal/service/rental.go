package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/logger"
	"rentwi-backend/internal/pricing"
	"rentwi-backend/internal/repository"
)

// RentalConfig carries the business constants of the lifecycle manager.
type RentalConfig struct {
	// CommissionRate is the platform's share of a completed rental, e.g. 0.10.
	CommissionRate decimal.Decimal
	// DepositRate is the fraction of a car's commercial value held as deposit.
	DepositRate decimal.Decimal
	// BookingGrace is how far in the past a start time may lie before the
	// booking is rejected. Absorbs clock differences between caller and server.
	BookingGrace time.Duration
	// PlatformTaxNumber identifies the platform operator's company record.
	PlatformTaxNumber string
}

type rentalService struct {
	store       repository.Store
	settle      settlementEngine
	depositRate decimal.Decimal
	grace       time.Duration
	now         func() time.Time
}

func NewRentalService(store repository.Store, cfg RentalConfig) RentalService {
	return &rentalService{
		store: store,
		settle: settlementEngine{
			commissionRate:    cfg.CommissionRate,
			platformTaxNumber: cfg.PlatformTaxNumber,
		},
		depositRate: cfg.DepositRate,
		grace:       cfg.BookingGrace,
		now:         time.Now,
	}
}

func (s *rentalService) Book(ctx context.Context, clientUserID, carID int32, start, end time.Time) (*domain.Rental, error) {
	if !start.Before(end) {
		return nil, domain.Errorf(domain.KindInvalidInput, "start %s must be before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if start.Before(s.now().Add(-s.grace)) {
		return nil, domain.Errorf(domain.KindInvalidInput, "start %s is in the past", start.Format(time.RFC3339))
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, err, "begin unit of work")
	}
	defer uow.Rollback()

	client, err := uow.Clients().GetByUserID(ctx, clientUserID)
	if err != nil {
		return nil, err
	}
	if client.VerificationStatus != domain.ClientVerificationAccepted {
		return nil, domain.Errorf(domain.KindUnauthorized, "client %d is not verified to rent", client.ID)
	}

	// Lock the car row first: the overlap check and the insert below must be
	// serialized per car, or two concurrent bookings could both pass the
	// check and double-book.
	car, err := uow.Cars().GetByIDForUpdate(ctx, carID)
	if err != nil {
		return nil, err
	}

	// The overlap query is the availability gate. The car status flag is
	// deliberately not consulted: it cannot represent future reservations.
	overlaps, err := uow.Rentals().ExistsOverlapping(ctx, carID, start, end)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, domain.Errorf(domain.KindUnavailable, "car %d is already booked in the requested window", carID)
	}

	rental := &domain.Rental{
		ClientID:         client.ID,
		CompanyID:        car.CompanyID,
		CarID:            car.ID,
		StartDate:        start,
		EstimatedEndDate: end,
		PricePerHour:     car.PricePerHour,
		TotalPrice:       pricing.RentalTotal(car.PricePerHour, start, end),
		DepositAmount:    pricing.Deposit(car.CommercialValue, s.depositRate),
		Status:           domain.RentalStatusPendingDelivery,
	}
	if err := uow.Rentals().Create(ctx, rental); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, domain.WrapError(domain.KindInternal, err, "commit booking")
	}

	logger.Info("rental booked", "rental_id", rental.ID, "car_id", car.ID,
		"client_id", client.ID, "total_price", rental.TotalPrice.String())
	return rental, nil
}

func (s *rentalService) Deliver(ctx context.Context, companyUserID, rentalID int32) (*domain.Rental, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, err, "begin unit of work")
	}
	defer uow.Rollback()

	rental, err := s.lockOwnedRental(ctx, uow, companyUserID, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusPendingDelivery {
		return nil, domain.Errorf(domain.KindConflict,
			"rental %d is %s, expected %s", rental.ID, rental.Status, domain.RentalStatusPendingDelivery)
	}

	rental.Status = domain.RentalStatusInProgress
	if err := uow.Rentals().Update(ctx, rental); err != nil {
		return nil, err
	}

	// Secondary possession flag; the overlap query stays authoritative for
	// availability.
	car, err := uow.Cars().GetByIDForUpdate(ctx, rental.CarID)
	if err != nil {
		return nil, err
	}
	car.Status = domain.CarStatusInUse
	if err := uow.Cars().Update(ctx, car); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.WrapError(domain.KindInternal, err, "commit delivery")
	}

	logger.Info("rental delivered", "rental_id", rental.ID, "car_id", car.ID)
	return rental, nil
}

func (s *rentalService) Complete(ctx context.Context, companyUserID, rentalID int32) (*domain.Rental, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, err, "begin unit of work")
	}
	defer uow.Rollback()

	rental, err := s.lockOwnedRental(ctx, uow, companyUserID, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusInProgress {
		return nil, domain.Errorf(domain.KindConflict,
			"rental %d is %s, expected %s", rental.ID, rental.Status, domain.RentalStatusInProgress)
	}

	// Recompute from the snapshot rate fixed at booking, never from the
	// car's possibly-changed catalog rate. Negative elapsed time clamps to
	// zero inside the pricing package.
	now := s.now()
	rental.EndDate = &now
	rental.TotalPrice = pricing.RentalTotal(rental.PricePerHour, rental.StartDate, now)
	rental.Status = domain.RentalStatusFinishedCorrect
	if err := uow.Rentals().Update(ctx, rental); err != nil {
		return nil, err
	}

	car, err := uow.Cars().GetByIDForUpdate(ctx, rental.CarID)
	if err != nil {
		return nil, err
	}
	car.Status = domain.CarStatusAvailable
	if err := uow.Cars().Update(ctx, car); err != nil {
		return nil, err
	}

	// The split is part of the same unit of work: a rental never completes
	// without its commission being recorded.
	if err := s.settle.Settle(ctx, uow, rental); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.WrapError(domain.KindInternal, err, "commit completion")
	}

	logger.Info("rental completed", "rental_id", rental.ID, "car_id", car.ID,
		"total_price", rental.TotalPrice.String())
	return rental, nil
}

func (s *rentalService) Cancel(ctx context.Context, rentalID int32, reason string) (*domain.Rental, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, err, "begin unit of work")
	}
	defer uow.Rollback()

	rental, err := uow.Rentals().GetByIDForUpdate(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status.Terminal() {
		return nil, domain.Errorf(domain.KindConflict,
			"rental %d is already %s", rental.ID, rental.Status)
	}

	rental.Status = domain.RentalStatusFinishedWithIssue
	rental.CancelReason = reason
	if err := uow.Rentals().Update(ctx, rental); err != nil {
		return nil, err
	}

	car, err := uow.Cars().GetByIDForUpdate(ctx, rental.CarID)
	if err != nil {
		return nil, err
	}
	if car.Status == domain.CarStatusInUse {
		car.Status = domain.CarStatusAvailable
		if err := uow.Cars().Update(ctx, car); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.WrapError(domain.KindInternal, err, "commit cancellation")
	}

	logger.Info("rental cancelled", "rental_id", rental.ID, "reason", reason)
	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	return s.store.Rentals().GetByID(ctx, rentalID)
}

func (s *rentalService) ListClientRentals(ctx context.Context, clientUserID int32) ([]domain.Rental, error) {
	client, err := s.store.Clients().GetByUserID(ctx, clientUserID)
	if err != nil {
		return nil, err
	}
	return s.store.Rentals().ListByClient(ctx, client.ID)
}

func (s *rentalService) ListCompanyRentals(ctx context.Context, companyUserID int32) ([]domain.Rental, error) {
	company, err := s.store.Companies().GetByUserID(ctx, companyUserID)
	if err != nil {
		return nil, err
	}
	return s.store.Rentals().ListByCompany(ctx, company.ID)
}

// lockOwnedRental resolves the acting company, locks the rental row and
// verifies ownership. Locking before the status check keeps concurrent
// transitions on the same rental mutually exclusive.
func (s *rentalService) lockOwnedRental(ctx context.Context, uow repository.UnitOfWork, companyUserID, rentalID int32) (*domain.Rental, error) {
	company, err := uow.Companies().GetByUserID(ctx, companyUserID)
	if err != nil {
		return nil, err
	}
	rental, err := uow.Rentals().GetByIDForUpdate(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.CompanyID != company.ID {
		return nil, domain.Errorf(domain.KindUnauthorized,
			"rental %d does not belong to company %d", rental.ID, company.ID)
	}
	return rental, nil
}
