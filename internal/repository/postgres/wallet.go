package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/repository"
)

type walletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) repository.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetByCompanyID(ctx context.Context, companyID int32) (*domain.Wallet, error) {
	query := `SELECT id, company_id, balance, created_on, updated_on FROM wallets WHERE company_id = $1`
	w := &domain.Wallet{}
	err := r.db.QueryRowContext(ctx, query, companyID).Scan(
		&w.ID, &w.CompanyID, &w.Balance, &w.CreatedOn, &w.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.KindNotFound, "wallet for company %d not found", companyID)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ApplyDelta adjusts the balance by a monotonic delta and appends the
// transaction record. Run inside a unit of work so the rental state change
// and both ledger entries commit or roll back together.
func (r *walletRepository) ApplyDelta(ctx context.Context, walletID int32, amount decimal.Decimal, wtx *domain.WalletTransaction) error {
	now := time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE wallets SET balance = balance + $1, updated_on = $2 WHERE id = $3`,
		amount, now, walletID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.Errorf(domain.KindNotFound, "wallet %d not found", walletID)
	}

	wtx.WalletID = walletID
	wtx.Amount = amount
	wtx.CreatedOn = now
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, reference, amount, type, related_rental_id, description, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		wtx.WalletID, wtx.Reference, wtx.Amount, wtx.Type, wtx.RelatedRentalID, wtx.Description, now,
	).Scan(&wtx.ID)
	if err != nil {
		return fmt.Errorf("append wallet transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM wallet_transactions WHERE wallet_id = $1`, walletID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, wallet_id, reference, amount, type, related_rental_id, COALESCE(description, ''), created_on
	          FROM wallet_transactions WHERE wallet_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, walletID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		var tx domain.WalletTransaction
		if err := rows.Scan(&tx.ID, &tx.WalletID, &tx.Reference, &tx.Amount, &tx.Type,
			&tx.RelatedRentalID, &tx.Description, &tx.CreatedOn); err != nil {
			return nil, 0, err
		}
		txs = append(txs, tx)
	}
	return txs, count, rows.Err()
}
