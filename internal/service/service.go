package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentwi-backend/internal/domain"
)

// RentalService drives the rental lifecycle. Actors arrive as user ids
// already authenticated by the identity collaborator; the service resolves
// them to client or company records through the store.
type RentalService interface {
	Book(ctx context.Context, clientUserID, carID int32, start, end time.Time) (*domain.Rental, error)
	Deliver(ctx context.Context, companyUserID, rentalID int32) (*domain.Rental, error)
	Complete(ctx context.Context, companyUserID, rentalID int32) (*domain.Rental, error)
	Cancel(ctx context.Context, rentalID int32, reason string) (*domain.Rental, error)
	GetRental(ctx context.Context, rentalID int32) (*domain.Rental, error)
	ListClientRentals(ctx context.Context, clientUserID int32) ([]domain.Rental, error)
	ListCompanyRentals(ctx context.Context, companyUserID int32) ([]domain.Rental, error)
}

// LedgerService is the read surface over company wallets.
type LedgerService interface {
	GetWallet(ctx context.Context, companyUserID int32) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, companyUserID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
}

// CarService covers the catalog operations a company performs on its fleet.
// Price changes never touch existing rentals; they snapshot the rate at
// booking time.
type CarService interface {
	RegisterCar(ctx context.Context, companyUserID int32, car *domain.Car) error
	GetCar(ctx context.Context, id int32) (*domain.Car, error)
	ListMyCars(ctx context.Context, companyUserID int32) ([]domain.Car, error)
	UpdatePricing(ctx context.Context, companyUserID, carID int32, pricePerHour, commercialValue decimal.Decimal) (*domain.Car, error)
}
