package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/repository"
)

type clientRepository struct {
	db DBTX
}

func NewClientRepository(db DBTX) repository.ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, user_id, first_name, last_name, verification_status, created_on`

func (r *clientRepository) GetByID(ctx context.Context, id int32) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *clientRepository) GetByUserID(ctx context.Context, userID int32) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, userID))
}

func (r *clientRepository) scan(row *sql.Row) (*domain.Client, error) {
	c := &domain.Client{}
	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.VerificationStatus, &c.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.KindNotFound, "client not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
