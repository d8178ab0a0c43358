// Package repository defines the storage contract consumed by the lifecycle
// manager. Any persistence technology can back it; the module ships a postgres
// implementation and an in-memory test double with identical semantics.
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentwi-backend/internal/domain"
)

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// GetByIDForUpdate locks the rental row for the rest of the unit of
	// work, serializing concurrent transitions on the same rental.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	ListByClient(ctx context.Context, clientID int32) ([]domain.Rental, error)
	ListByCompany(ctx context.Context, companyID int32) ([]domain.Rental, error)
	ListByCar(ctx context.Context, carID int32) ([]domain.Rental, error)
	// ExistsOverlapping reports whether any non-terminal rental of the car
	// overlaps [start, end). Terminal rentals are never obstacles.
	ExistsOverlapping(ctx context.Context, carID int32, start, end time.Time) (bool, error)
	// ListInProgressPastEnd returns in-progress rentals whose estimated end
	// is before asOf. Used by the overdue report job.
	ListInProgressPastEnd(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	// GetByIDForUpdate locks the car row, serializing the
	// check-then-insert of concurrent bookings on the same car.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	ListByCompany(ctx context.Context, companyID int32) ([]domain.Car, error)
}

type ClientRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.Client, error)
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Company, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.Company, error)
	GetByTaxNumber(ctx context.Context, taxNumber string) (*domain.Company, error)
}

type WalletRepository interface {
	GetByCompanyID(ctx context.Context, companyID int32) (*domain.Wallet, error)
	// ApplyDelta adjusts the wallet balance by the signed amount and appends
	// the transaction record describing it. Both writes belong to the
	// surrounding unit of work; the balance update is a monotonic delta, not
	// a read-modify-write.
	ApplyDelta(ctx context.Context, walletID int32, amount decimal.Decimal, tx *domain.WalletTransaction) error
	ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
}

// Repositories is the accessor set shared by the plain store and a unit of
// work in flight.
type Repositories interface {
	Rentals() RentalRepository
	Cars() CarRepository
	Clients() ClientRepository
	Companies() CompanyRepository
	Wallets() WalletRepository
}

// UnitOfWork scopes a group of mutations to one atomic commit. Rollback
// after a successful Commit is a no-op, so callers can defer it.
type UnitOfWork interface {
	Repositories
	Commit() error
	Rollback() error
}

// Store hands out auto-committed repositories for reads and fresh units of
// work for lifecycle mutations. There is no long-lived mutable handle shared
// across operations; every mutation obtains its own unit of work.
type Store interface {
	Repositories
	Begin(ctx context.Context) (UnitOfWork, error)
}
