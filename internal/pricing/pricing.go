// Package pricing holds the money arithmetic for rentals: elapsed-hours
// measurement, rental totals from a snapshot rate, deposit calculation and
// the completion-time commission split. All amounts are decimals rounded to
// two places; callers never do raw float math on prices.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

// Hours returns the span between start and end in fractional hours with
// second precision. Negative spans (clock skew) clamp to zero so a charge
// can never be negative.
func Hours(start, end time.Time) decimal.Decimal {
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return decimal.NewFromInt(secs).Div(secondsPerHour)
}

// RentalTotal is pricePerHour × elapsed hours, rounded to cents.
func RentalTotal(pricePerHour decimal.Decimal, start, end time.Time) decimal.Decimal {
	return pricePerHour.Mul(Hours(start, end)).Round(2)
}

// Deposit is the fixed fraction of the car's declared value held at booking.
func Deposit(commercialValue, depositRate decimal.Decimal) decimal.Decimal {
	return commercialValue.Mul(depositRate).Round(2)
}

// Split divides a completed rental's total between the owning company and
// the platform. The commission is rounded to cents and the company net is
// the exact complement, so the two always sum back to the total.
func Split(total, commissionRate decimal.Decimal) (commission, companyNet decimal.Decimal) {
	commission = total.Mul(commissionRate).Round(2)
	companyNet = total.Sub(commission)
	return commission, companyNet
}
