package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/repository/memory"
)

const platformTaxNumber = "99999999999999"

// fixture wires a rental service against the in-memory store with a
// controllable clock.
type fixture struct {
	store    *memory.Store
	svc      *rentalService
	clock    time.Time
	client   domain.Client
	company  domain.Company
	platform domain.Company
	car      domain.Car
	wallet   domain.Wallet
	platWlt  domain.Wallet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()

	f := &fixture{
		store: store,
		clock: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC),
	}

	f.client = store.AddClient(domain.Client{
		UserID:             101,
		FirstName:          "Ana",
		LastName:           "Silva",
		VerificationStatus: domain.ClientVerificationAccepted,
	})
	f.company = store.AddCompany(domain.Company{
		UserID:    201,
		TradeName: "Fast Wheels",
		TaxNumber: "11111111111111",
	})
	f.platform = store.AddCompany(domain.Company{
		UserID:    999,
		TradeName: "Platform Operator",
		TaxNumber: platformTaxNumber,
	})
	f.car = store.AddCar(domain.Car{
		CompanyID:       f.company.ID,
		Brand:           "Fiat",
		Model:           "Argo",
		Plate:           "ABC1D23",
		PricePerHour:    decimal.RequireFromString("20"),
		CommercialValue: decimal.RequireFromString("1000"),
	})
	f.wallet = store.AddWallet(domain.Wallet{CompanyID: f.company.ID})
	f.platWlt = store.AddWallet(domain.Wallet{CompanyID: f.platform.ID})

	svc := NewRentalService(store, RentalConfig{
		CommissionRate:    decimal.RequireFromString("0.10"),
		DepositRate:       decimal.RequireFromString("0.10"),
		BookingGrace:      5 * time.Minute,
		PlatformTaxNumber: platformTaxNumber,
	}).(*rentalService)
	svc.now = func() time.Time { return f.clock }
	f.svc = svc
	return f
}

func (f *fixture) at(hour, minute int) time.Time {
	return time.Date(2026, 1, 2, hour, minute, 0, 0, time.UTC)
}

func (f *fixture) balance(t *testing.T, walletID int32) decimal.Decimal {
	t.Helper()
	ctx := context.Background()
	for _, companyID := range []int32{f.company.ID, f.platform.ID} {
		w, err := f.store.Wallets().GetByCompanyID(ctx, companyID)
		require.NoError(t, err)
		if w.ID == walletID {
			return w.Balance
		}
	}
	t.Fatalf("wallet %d not seeded", walletID)
	return decimal.Zero
}

func TestRentalService_Book(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots price and computes totals", func(t *testing.T) {
		f := newFixture(t)

		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)

		assert.Equal(t, domain.RentalStatusPendingDelivery, rental.Status)
		assert.Equal(t, f.client.ID, rental.ClientID)
		assert.Equal(t, f.company.ID, rental.CompanyID)
		assert.True(t, rental.PricePerHour.Equal(decimal.RequireFromString("20")))
		assert.True(t, rental.TotalPrice.Equal(decimal.RequireFromString("40")),
			"expected 40, got %s", rental.TotalPrice)
		assert.True(t, rental.DepositAmount.Equal(decimal.RequireFromString("100")),
			"expected 100, got %s", rental.DepositAmount)
	})

	t.Run("rejects overlapping window", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)

		_, err = f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(11, 0), f.at(13, 0))
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindUnavailable), "got %v", err)
	})

	t.Run("allows back to back windows", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)

		// [12:00, 14:00) does not overlap a half-open [10:00, 12:00).
		_, err = f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(12, 0), f.at(14, 0))
		assert.NoError(t, err)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(12, 0), f.at(10, 0))
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
	})

	t.Run("rejects start before grace window", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(8, 0), f.at(12, 0))
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
	})

	t.Run("rejects unverified client", func(t *testing.T) {
		f := newFixture(t)
		pending := f.store.AddClient(domain.Client{
			UserID:             102,
			VerificationStatus: domain.ClientVerificationPending,
		})

		_, err := f.svc.Book(ctx, pending.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindUnauthorized), "got %v", err)
	})

	t.Run("unknown car", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.client.UserID, 9999, f.at(10, 0), f.at(12, 0))
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})
}

func TestRentalService_Deliver(t *testing.T) {
	ctx := context.Background()

	t.Run("marks rental in progress and car in use", func(t *testing.T) {
		f := newFixture(t)
		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)

		delivered, err := f.svc.Deliver(ctx, f.company.UserID, rental.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusInProgress, delivered.Status)

		car, err := f.store.Cars().GetByID(ctx, f.car.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CarStatusInUse, car.Status)
	})

	t.Run("rejects foreign company", func(t *testing.T) {
		f := newFixture(t)
		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)

		other := f.store.AddCompany(domain.Company{UserID: 202, TaxNumber: "22222222222222"})
		_, err = f.svc.Deliver(ctx, other.UserID, rental.ID)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
	})

	t.Run("rejects repeat delivery", func(t *testing.T) {
		f := newFixture(t)
		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)

		_, err = f.svc.Deliver(ctx, f.company.UserID, rental.ID)
		require.NoError(t, err)
		_, err = f.svc.Deliver(ctx, f.company.UserID, rental.ID)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindConflict))
	})
}

func TestRentalService_Complete(t *testing.T) {
	ctx := context.Background()

	book := func(t *testing.T, f *fixture) *domain.Rental {
		t.Helper()
		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)
		_, err = f.svc.Deliver(ctx, f.company.UserID, rental.ID)
		require.NoError(t, err)
		return rental
	}

	t.Run("recomputes total and splits commission", func(t *testing.T) {
		f := newFixture(t)
		rental := book(t, f)

		// Returned half an hour late: 2.5h at 20/hr.
		f.clock = f.at(12, 30)
		done, err := f.svc.Complete(ctx, f.company.UserID, rental.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.RentalStatusFinishedCorrect, done.Status)
		require.NotNil(t, done.EndDate)
		assert.True(t, done.EndDate.Equal(f.at(12, 30)))
		assert.True(t, done.TotalPrice.Equal(decimal.RequireFromString("50")),
			"expected 50, got %s", done.TotalPrice)

		assert.True(t, f.balance(t, f.wallet.ID).Equal(decimal.RequireFromString("45")))
		assert.True(t, f.balance(t, f.platWlt.ID).Equal(decimal.RequireFromString("5")))

		car, err := f.store.Cars().GetByID(ctx, f.car.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CarStatusAvailable, car.Status)
	})

	t.Run("uses booking-time rate after catalog change", func(t *testing.T) {
		f := newFixture(t)
		rental := book(t, f)

		// Raise the catalog rate mid-rental; the snapshot must win.
		car, err := f.store.Cars().GetByID(ctx, f.car.ID)
		require.NoError(t, err)
		car.PricePerHour = decimal.RequireFromString("80")
		require.NoError(t, f.store.Cars().Update(ctx, car))

		f.clock = f.at(12, 0)
		done, err := f.svc.Complete(ctx, f.company.UserID, rental.ID)
		require.NoError(t, err)
		assert.True(t, done.TotalPrice.Equal(decimal.RequireFromString("40")),
			"expected 40, got %s", done.TotalPrice)
	})

	t.Run("second completion conflicts and wallets stay credited once", func(t *testing.T) {
		f := newFixture(t)
		rental := book(t, f)

		f.clock = f.at(12, 0)
		_, err := f.svc.Complete(ctx, f.company.UserID, rental.ID)
		require.NoError(t, err)

		_, err = f.svc.Complete(ctx, f.company.UserID, rental.ID)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindConflict))

		assert.True(t, f.balance(t, f.wallet.ID).Equal(decimal.RequireFromString("36")))
		assert.True(t, f.balance(t, f.platWlt.ID).Equal(decimal.RequireFromString("4")))
	})

	t.Run("fails before delivery", func(t *testing.T) {
		f := newFixture(t)
		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)

		_, err = f.svc.Complete(ctx, f.company.UserID, rental.ID)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindConflict))
	})

	t.Run("missing platform wallet aborts completion atomically", func(t *testing.T) {
		f := newFixture(t)
		rental := book(t, f)

		// Point the engine at a tax number no company has.
		f.svc.settle.platformTaxNumber = "00000000000000"

		f.clock = f.at(12, 0)
		_, err := f.svc.Complete(ctx, f.company.UserID, rental.ID)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))

		// Nothing moved: rental still in progress, wallet untouched.
		got, err := f.store.Rentals().GetByID(ctx, rental.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusInProgress, got.Status)
		assert.True(t, f.balance(t, f.wallet.ID).IsZero())
	})

	t.Run("settlement entries share a reference", func(t *testing.T) {
		f := newFixture(t)
		rental := book(t, f)

		f.clock = f.at(12, 0)
		_, err := f.svc.Complete(ctx, f.company.UserID, rental.ID)
		require.NoError(t, err)

		companyTxs, _, err := f.store.Wallets().ListTransactions(ctx, f.wallet.ID, 1, 10)
		require.NoError(t, err)
		platformTxs, _, err := f.store.Wallets().ListTransactions(ctx, f.platWlt.ID, 1, 10)
		require.NoError(t, err)
		require.Len(t, companyTxs, 1)
		require.Len(t, platformTxs, 1)

		assert.Equal(t, domain.TransactionTypeRentalIncome, companyTxs[0].Type)
		assert.Equal(t, domain.TransactionTypeCommissionIncome, platformTxs[0].Type)
		assert.Equal(t, companyTxs[0].Reference, platformTxs[0].Reference)
		require.NotNil(t, companyTxs[0].RelatedRentalID)
		assert.Equal(t, rental.ID, *companyTxs[0].RelatedRentalID)
	})
}

func TestRentalService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("before delivery leaves car available", func(t *testing.T) {
		f := newFixture(t)
		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)

		cancelled, err := f.svc.Cancel(ctx, rental.ID, "client no-show")
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusFinishedWithIssue, cancelled.Status)
		assert.Equal(t, "client no-show", cancelled.CancelReason)

		car, err := f.store.Cars().GetByID(ctx, f.car.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CarStatusAvailable, car.Status)
	})

	t.Run("mid rental restores car", func(t *testing.T) {
		f := newFixture(t)
		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)
		_, err = f.svc.Deliver(ctx, f.company.UserID, rental.ID)
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, rental.ID, "accident reported")
		require.NoError(t, err)

		car, err := f.store.Cars().GetByID(ctx, f.car.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CarStatusAvailable, car.Status)
	})

	t.Run("frees the window for new bookings", func(t *testing.T) {
		f := newFixture(t)
		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, rental.ID, "changed plans")
		require.NoError(t, err)

		_, err = f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		assert.NoError(t, err)
	})

	t.Run("terminal rental conflicts", func(t *testing.T) {
		f := newFixture(t)
		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, rental.ID, "first")
		require.NoError(t, err)
		_, err = f.svc.Cancel(ctx, rental.ID, "second")
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindConflict))

		got, err := f.store.Rentals().GetByID(ctx, rental.ID)
		require.NoError(t, err)
		assert.Equal(t, "first", got.CancelReason)
	})

	t.Run("no settlement on cancellation", func(t *testing.T) {
		f := newFixture(t)
		rental, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
		require.NoError(t, err)
		_, err = f.svc.Deliver(ctx, f.company.UserID, rental.ID)
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, rental.ID, "dispute")
		require.NoError(t, err)

		assert.True(t, f.balance(t, f.wallet.ID).IsZero())
		assert.True(t, f.balance(t, f.platWlt.ID).IsZero())
	})
}

func TestRentalService_Listing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(10, 0), f.at(12, 0))
	require.NoError(t, err)
	second, err := f.svc.Book(ctx, f.client.UserID, f.car.ID, f.at(14, 0), f.at(16, 0))
	require.NoError(t, err)

	byClient, err := f.svc.ListClientRentals(ctx, f.client.UserID)
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	byCompany, err := f.svc.ListCompanyRentals(ctx, f.company.UserID)
	require.NoError(t, err)
	assert.Len(t, byCompany, 2)

	got, err := f.svc.GetRental(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = f.svc.GetRental(ctx, second.ID+100)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
