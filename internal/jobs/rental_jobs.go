package jobs

import (
	"context"
	"time"

	"rentwi-backend/internal/logger"
)

// ReconcileCarStatus flips cars back to AVAILABLE when they are marked IN_USE
// but no rental is currently in progress for them. A crash between a rental
// reaching a terminal state and the car update could leave such strays.
func (jr *JobRunner) ReconcileCarStatus() {
	jr.runWithRecovery("ReconcileCarStatus", func() {
		ctx := context.Background()

		query := `
			UPDATE cars
			SET status = 'AVAILABLE',
			    updated_on = $1
			WHERE status = 'IN_USE'
			  AND NOT EXISTS (
			      SELECT 1 FROM rentals
			      WHERE rentals.car_id = cars.id
			        AND rentals.status = 'IN_PROGRESS'
			  )
			RETURNING id, company_id, plate
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to reconcile car status", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, companyID int32
			var plate string
			if err := rows.Scan(&id, &companyID, &plate); err != nil {
				logger.Error("Failed to scan reconciled car", "error", err)
				continue
			}
			logger.Debug("Reconciled car status",
				"car_id", id,
				"company_id", companyID,
				"plate", plate)
			count++
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating reconciled cars", "error", err)
			return
		}

		logger.Info("Reconciled car statuses", "count", count)
	})
}

// ReportOverdueRentals logs rentals still in progress past their estimated
// end. The rental stays IN_PROGRESS and keeps accruing until the company
// completes it; this job only surfaces the condition for operators.
func (jr *JobRunner) ReportOverdueRentals() {
	jr.runWithRecovery("ReportOverdueRentals", func() {
		ctx := context.Background()

		rentals, err := jr.store.Rentals().ListInProgressPastEnd(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		for _, rental := range rentals {
			logger.Warn("Rental past estimated end",
				"rental_id", rental.ID,
				"client_id", rental.ClientID,
				"company_id", rental.CompanyID,
				"car_id", rental.CarID,
				"estimated_end_date", rental.EstimatedEndDate)
		}

		logger.Info("Reported overdue rentals", "count", len(rentals))
	})
}
