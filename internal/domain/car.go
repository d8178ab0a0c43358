package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CarStatus string

const (
	CarStatusAvailable   CarStatus = "AVAILABLE"
	CarStatusInUse       CarStatus = "IN_USE"
	CarStatusMaintenance CarStatus = "MAINTENANCE"
)

// Car is a fleet vehicle owned by exactly one company. Status is a
// best-effort indicator of physical possession; whether the car can be
// booked for a window is decided by the rental overlap check, not by
// this flag, since a flag cannot represent multiple future reservations.
type Car struct {
	ID        int32  `json:"id"`
	CompanyID int32  `json:"company_id"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Plate     string `json:"plate"`
	// PricePerHour is the current catalog rate; rentals copy it at booking.
	PricePerHour decimal.Decimal `json:"price_per_hour"`
	// CommercialValue is the declared value used as the deposit basis.
	CommercialValue decimal.Decimal `json:"commercial_value"`
	Status          CarStatus       `json:"status"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}
