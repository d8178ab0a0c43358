package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/repository"
)

type companyRepository struct {
	db DBTX
}

func NewCompanyRepository(db DBTX) repository.CompanyRepository {
	return &companyRepository{db: db}
}

const companyColumns = `id, user_id, trade_name, tax_number, created_on`

func (r *companyRepository) GetByID(ctx context.Context, id int32) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *companyRepository) GetByUserID(ctx context.Context, userID int32) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE user_id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, userID))
}

func (r *companyRepository) GetByTaxNumber(ctx context.Context, taxNumber string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE tax_number = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, taxNumber))
}

func (r *companyRepository) scan(row *sql.Row) (*domain.Company, error) {
	c := &domain.Company{}
	err := row.Scan(&c.ID, &c.UserID, &c.TradeName, &c.TaxNumber, &c.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.KindNotFound, "company not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
