package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/repository"
)

type carRepository struct {
	db DBTX
}

func NewCarRepository(db DBTX) repository.CarRepository {
	return &carRepository{db: db}
}

const carColumns = `id, company_id, brand, model, plate, price_per_hour, commercial_value, status, created_on, updated_on`

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `INSERT INTO cars (company_id, brand, model, plate, price_per_hour, commercial_value, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	car.CreatedOn = now
	car.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		car.CompanyID, car.Brand, car.Model, car.Plate,
		car.PricePerHour, car.CommercialValue, car.Status, now, now,
	).Scan(&car.ID)
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	return r.get(ctx, id, `SELECT `+carColumns+` FROM cars WHERE id = $1`)
}

// GetByIDForUpdate locks the car row for the duration of the transaction.
// Booking takes this lock before the overlap check so concurrent bookings on
// the same car serialize instead of both passing the check.
func (r *carRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Car, error) {
	return r.get(ctx, id, `SELECT `+carColumns+` FROM cars WHERE id = $1 FOR UPDATE`)
}

func (r *carRepository) get(ctx context.Context, id int32, query string) (*domain.Car, error) {
	car := &domain.Car{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&car.ID, &car.CompanyID, &car.Brand, &car.Model, &car.Plate,
		&car.PricePerHour, &car.CommercialValue, &car.Status, &car.CreatedOn, &car.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.KindNotFound, "car %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (r *carRepository) Update(ctx context.Context, car *domain.Car) error {
	query := `UPDATE cars SET brand=$1, model=$2, plate=$3, price_per_hour=$4, commercial_value=$5, status=$6, updated_on=$7 WHERE id=$8`
	car.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		car.Brand, car.Model, car.Plate, car.PricePerHour, car.CommercialValue,
		car.Status, car.UpdatedOn, car.ID)
	return err
}

func (r *carRepository) ListByCompany(ctx context.Context, companyID int32) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE company_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var car domain.Car
		if err := rows.Scan(&car.ID, &car.CompanyID, &car.Brand, &car.Model, &car.Plate,
			&car.PricePerHour, &car.CommercialValue, &car.Status, &car.CreatedOn, &car.UpdatedOn); err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}
