package postgres

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	"rentwi-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so one repository
// implementation serves auto-committed reads and units of work alike.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repos struct {
	rentals   repository.RentalRepository
	cars      repository.CarRepository
	clients   repository.ClientRepository
	companies repository.CompanyRepository
	wallets   repository.WalletRepository
}

func newRepos(db DBTX) repos {
	return repos{
		rentals:   NewRentalRepository(db),
		cars:      NewCarRepository(db),
		clients:   NewClientRepository(db),
		companies: NewCompanyRepository(db),
		wallets:   NewWalletRepository(db),
	}
}

func (r repos) Rentals() repository.RentalRepository    { return r.rentals }
func (r repos) Cars() repository.CarRepository          { return r.cars }
func (r repos) Clients() repository.ClientRepository    { return r.clients }
func (r repos) Companies() repository.CompanyRepository { return r.companies }
func (r repos) Wallets() repository.WalletRepository    { return r.wallets }

// Store backs the repository contract with postgres.
type Store struct {
	db *sql.DB
	repos
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, repos: newRepos(db)}
}

// Begin opens a transaction-scoped unit of work. Row locks taken through the
// ForUpdate accessors are held until Commit or Rollback.
func (s *Store) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &unitOfWork{tx: tx, repos: newRepos(tx)}, nil
}

type unitOfWork struct {
	tx *sql.Tx
	repos
}

func (u *unitOfWork) Commit() error {
	return u.tx.Commit()
}

func (u *unitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
