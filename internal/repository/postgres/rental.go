package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/repository"
)

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, client_id, company_id, car_id, start_date, estimated_end_date, end_date,
	price_per_hour, total_price, deposit_amount, status, COALESCE(cancel_reason, ''), created_on, updated_on`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (client_id, company_id, car_id, start_date, estimated_end_date,
	          price_per_hour, total_price, deposit_amount, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	rt.CreatedOn = now
	rt.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		rt.ClientID, rt.CompanyID, rt.CarID, rt.StartDate, rt.EstimatedEndDate,
		rt.PricePerHour, rt.TotalPrice, rt.DepositAmount, rt.Status, now, now,
	).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	return r.get(ctx, id, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1`)
}

func (r *rentalRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Rental, error) {
	return r.get(ctx, id, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1 FOR UPDATE`)
}

func (r *rentalRepository) get(ctx context.Context, id int32, query string) (*domain.Rental, error) {
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.KindNotFound, "rental %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, end_date=$2, total_price=$3, cancel_reason=$4, updated_on=$5 WHERE id=$6`
	rt.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, rt.Status, rt.EndDate, rt.TotalPrice, rt.CancelReason, rt.UpdatedOn, rt.ID)
	return err
}

func (r *rentalRepository) ListByClient(ctx context.Context, clientID int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE client_id = $1 ORDER BY start_date DESC`
	return r.list(ctx, query, clientID)
}

func (r *rentalRepository) ListByCompany(ctx context.Context, companyID int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE company_id = $1 ORDER BY start_date DESC`
	return r.list(ctx, query, companyID)
}

func (r *rentalRepository) ListByCar(ctx context.Context, carID int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE car_id = $1 ORDER BY start_date DESC`
	return r.list(ctx, query, carID)
}

// ExistsOverlapping implements the authoritative availability gate:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1. Only non-terminal
// rentals count as obstacles.
func (r *rentalRepository) ExistsOverlapping(ctx context.Context, carID int32, start, end time.Time) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM rentals
	            WHERE car_id = $1
	              AND status IN ($2, $3)
	              AND start_date < $5
	              AND $4 < estimated_end_date
	          )`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, carID,
		domain.RentalStatusPendingDelivery, domain.RentalStatusInProgress,
		start, end,
	).Scan(&exists)
	return exists, err
}

func (r *rentalRepository) ListInProgressPastEnd(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = $1 AND estimated_end_date < $2 ORDER BY estimated_end_date`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusInProgress, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *rentalRepository) list(ctx context.Context, query string, arg any) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.ClientID, &rt.CompanyID, &rt.CarID,
		&rt.StartDate, &rt.EstimatedEndDate, &rt.EndDate,
		&rt.PricePerHour, &rt.TotalPrice, &rt.DepositAmount,
		&rt.Status, &rt.CancelReason, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func collectRentals(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}
