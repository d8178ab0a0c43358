// Package memory backs the repository contract with in-process maps. It is
// the test double for the lifecycle manager: a unit of work copies the whole
// state under the store mutex and swaps it back on Commit, giving the same
// serialization and all-or-nothing guarantees the postgres store provides
// with row locks and transactions.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/repository"
)

type state struct {
	rentals   map[int32]domain.Rental
	cars      map[int32]domain.Car
	clients   map[int32]domain.Client
	companies map[int32]domain.Company
	wallets   map[int32]domain.Wallet
	walletTxs []domain.WalletTransaction
	seq       int32
}

func newState() *state {
	return &state{
		rentals:   make(map[int32]domain.Rental),
		cars:      make(map[int32]domain.Car),
		clients:   make(map[int32]domain.Client),
		companies: make(map[int32]domain.Company),
		wallets:   make(map[int32]domain.Wallet),
	}
}

func (st *state) clone() *state {
	cp := newState()
	for k, v := range st.rentals {
		cp.rentals[k] = v
	}
	for k, v := range st.cars {
		cp.cars[k] = v
	}
	for k, v := range st.clients {
		cp.clients[k] = v
	}
	for k, v := range st.companies {
		cp.companies[k] = v
	}
	for k, v := range st.wallets {
		cp.wallets[k] = v
	}
	cp.walletTxs = append([]domain.WalletTransaction(nil), st.walletTxs...)
	cp.seq = st.seq
	return cp
}

func (st *state) nextID() int32 {
	st.seq++
	return st.seq
}

// Store is an in-memory repository.Store.
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

// access abstracts how repositories reach the state: direct accessors lock
// the store per call, unit-of-work accessors use the already-held copy.
type access struct {
	acquire func() *state
	release func()
}

func (s *Store) direct() access {
	return access{
		acquire: func() *state { s.mu.Lock(); return s.st },
		release: s.mu.Unlock,
	}
}

func (s *Store) Rentals() repository.RentalRepository    { return &rentalRepo{a: s.direct()} }
func (s *Store) Cars() repository.CarRepository          { return &carRepo{a: s.direct()} }
func (s *Store) Clients() repository.ClientRepository    { return &clientRepo{a: s.direct()} }
func (s *Store) Companies() repository.CompanyRepository { return &companyRepo{a: s.direct()} }
func (s *Store) Wallets() repository.WalletRepository    { return &walletRepo{a: s.direct()} }

// Begin locks the store for the duration of the unit of work, so concurrent
// check-then-insert sequences serialize the same way the postgres row locks
// make them serialize.
func (s *Store) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	s.mu.Lock()
	return &unitOfWork{s: s, st: s.st.clone()}, nil
}

type unitOfWork struct {
	s    *Store
	st   *state
	done bool
}

func (u *unitOfWork) held() access {
	return access{
		acquire: func() *state { return u.st },
		release: func() {},
	}
}

func (u *unitOfWork) Rentals() repository.RentalRepository    { return &rentalRepo{a: u.held()} }
func (u *unitOfWork) Cars() repository.CarRepository          { return &carRepo{a: u.held()} }
func (u *unitOfWork) Clients() repository.ClientRepository    { return &clientRepo{a: u.held()} }
func (u *unitOfWork) Companies() repository.CompanyRepository { return &companyRepo{a: u.held()} }
func (u *unitOfWork) Wallets() repository.WalletRepository    { return &walletRepo{a: u.held()} }

func (u *unitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	u.s.st = u.st
	u.s.mu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.s.mu.Unlock()
	return nil
}

// Seeding helpers for tests.

func (s *Store) AddClient(c domain.Client) domain.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.st.nextID()
	}
	s.st.clients[c.ID] = c
	return c
}

func (s *Store) AddCompany(c domain.Company) domain.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.st.nextID()
	}
	s.st.companies[c.ID] = c
	return c
}

func (s *Store) AddCar(c domain.Car) domain.Car {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.st.nextID()
	}
	if c.Status == "" {
		c.Status = domain.CarStatusAvailable
	}
	s.st.cars[c.ID] = c
	return c
}

func (s *Store) AddWallet(w domain.Wallet) domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = s.st.nextID()
	}
	s.st.wallets[w.ID] = w
	return w
}

type rentalRepo struct {
	a access
}

func (r *rentalRepo) Create(ctx context.Context, rt *domain.Rental) error {
	st := r.a.acquire()
	defer r.a.release()
	rt.ID = st.nextID()
	now := time.Now()
	rt.CreatedOn = now
	rt.UpdatedOn = now
	st.rentals[rt.ID] = *rt
	return nil
}

func (r *rentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	st := r.a.acquire()
	defer r.a.release()
	rt, ok := st.rentals[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "rental %d not found", id)
	}
	return &rt, nil
}

func (r *rentalRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Rental, error) {
	// The unit of work already holds the store mutex.
	return r.GetByID(ctx, id)
}

func (r *rentalRepo) Update(ctx context.Context, rt *domain.Rental) error {
	st := r.a.acquire()
	defer r.a.release()
	if _, ok := st.rentals[rt.ID]; !ok {
		return domain.Errorf(domain.KindNotFound, "rental %d not found", rt.ID)
	}
	rt.UpdatedOn = time.Now()
	st.rentals[rt.ID] = *rt
	return nil
}

func (r *rentalRepo) ListByClient(ctx context.Context, clientID int32) ([]domain.Rental, error) {
	return r.filter(func(rt domain.Rental) bool { return rt.ClientID == clientID })
}

func (r *rentalRepo) ListByCompany(ctx context.Context, companyID int32) ([]domain.Rental, error) {
	return r.filter(func(rt domain.Rental) bool { return rt.CompanyID == companyID })
}

func (r *rentalRepo) ListByCar(ctx context.Context, carID int32) ([]domain.Rental, error) {
	return r.filter(func(rt domain.Rental) bool { return rt.CarID == carID })
}

func (r *rentalRepo) ExistsOverlapping(ctx context.Context, carID int32, start, end time.Time) (bool, error) {
	st := r.a.acquire()
	defer r.a.release()
	for _, rt := range st.rentals {
		if rt.CarID != carID || rt.Status.Terminal() {
			continue
		}
		if rt.StartDate.Before(end) && start.Before(rt.EstimatedEndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *rentalRepo) ListInProgressPastEnd(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	return r.filter(func(rt domain.Rental) bool {
		return rt.Status == domain.RentalStatusInProgress && rt.EstimatedEndDate.Before(asOf)
	})
}

func (r *rentalRepo) filter(keep func(domain.Rental) bool) ([]domain.Rental, error) {
	st := r.a.acquire()
	defer r.a.release()
	var rentals []domain.Rental
	for _, rt := range st.rentals {
		if keep(rt) {
			rentals = append(rentals, rt)
		}
	}
	sort.Slice(rentals, func(i, j int) bool { return rentals[i].ID < rentals[j].ID })
	return rentals, nil
}

type carRepo struct {
	a access
}

func (r *carRepo) Create(ctx context.Context, car *domain.Car) error {
	st := r.a.acquire()
	defer r.a.release()
	car.ID = st.nextID()
	now := time.Now()
	car.CreatedOn = now
	car.UpdatedOn = now
	st.cars[car.ID] = *car
	return nil
}

func (r *carRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	st := r.a.acquire()
	defer r.a.release()
	car, ok := st.cars[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "car %d not found", id)
	}
	return &car, nil
}

func (r *carRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Car, error) {
	return r.GetByID(ctx, id)
}

func (r *carRepo) Update(ctx context.Context, car *domain.Car) error {
	st := r.a.acquire()
	defer r.a.release()
	if _, ok := st.cars[car.ID]; !ok {
		return domain.Errorf(domain.KindNotFound, "car %d not found", car.ID)
	}
	car.UpdatedOn = time.Now()
	st.cars[car.ID] = *car
	return nil
}

func (r *carRepo) ListByCompany(ctx context.Context, companyID int32) ([]domain.Car, error) {
	st := r.a.acquire()
	defer r.a.release()
	var cars []domain.Car
	for _, car := range st.cars {
		if car.CompanyID == companyID {
			cars = append(cars, car)
		}
	}
	sort.Slice(cars, func(i, j int) bool { return cars[i].ID < cars[j].ID })
	return cars, nil
}

type clientRepo struct {
	a access
}

func (r *clientRepo) GetByID(ctx context.Context, id int32) (*domain.Client, error) {
	st := r.a.acquire()
	defer r.a.release()
	c, ok := st.clients[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "client not found")
	}
	return &c, nil
}

func (r *clientRepo) GetByUserID(ctx context.Context, userID int32) (*domain.Client, error) {
	st := r.a.acquire()
	defer r.a.release()
	for _, c := range st.clients {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, domain.Errorf(domain.KindNotFound, "client not found")
}

type companyRepo struct {
	a access
}

func (r *companyRepo) GetByID(ctx context.Context, id int32) (*domain.Company, error) {
	st := r.a.acquire()
	defer r.a.release()
	c, ok := st.companies[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "company not found")
	}
	return &c, nil
}

func (r *companyRepo) GetByUserID(ctx context.Context, userID int32) (*domain.Company, error) {
	st := r.a.acquire()
	defer r.a.release()
	for _, c := range st.companies {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, domain.Errorf(domain.KindNotFound, "company not found")
}

func (r *companyRepo) GetByTaxNumber(ctx context.Context, taxNumber string) (*domain.Company, error) {
	st := r.a.acquire()
	defer r.a.release()
	for _, c := range st.companies {
		if c.TaxNumber == taxNumber {
			return &c, nil
		}
	}
	return nil, domain.Errorf(domain.KindNotFound, "company not found")
}

type walletRepo struct {
	a access
}

func (r *walletRepo) GetByCompanyID(ctx context.Context, companyID int32) (*domain.Wallet, error) {
	st := r.a.acquire()
	defer r.a.release()
	for _, w := range st.wallets {
		if w.CompanyID == companyID {
			return &w, nil
		}
	}
	return nil, domain.Errorf(domain.KindNotFound, "wallet for company %d not found", companyID)
}

func (r *walletRepo) ApplyDelta(ctx context.Context, walletID int32, amount decimal.Decimal, wtx *domain.WalletTransaction) error {
	st := r.a.acquire()
	defer r.a.release()
	w, ok := st.wallets[walletID]
	if !ok {
		return domain.Errorf(domain.KindNotFound, "wallet %d not found", walletID)
	}
	now := time.Now()
	w.Balance = w.Balance.Add(amount)
	w.UpdatedOn = now
	st.wallets[walletID] = w

	wtx.ID = st.nextID()
	wtx.WalletID = walletID
	wtx.Amount = amount
	wtx.CreatedOn = now
	st.walletTxs = append(st.walletTxs, *wtx)
	return nil
}

func (r *walletRepo) ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	st := r.a.acquire()
	defer r.a.release()
	var txs []domain.WalletTransaction
	for _, tx := range st.walletTxs {
		if tx.WalletID == walletID {
			txs = append(txs, tx)
		}
	}
	count := int32(len(txs))
	// Newest first, matching the postgres ordering.
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID > txs[j].ID })
	from := (page - 1) * pageSize
	if from >= count {
		return nil, count, nil
	}
	to := from + pageSize
	if to > count {
		to = count
	}
	return txs[from:to], count, nil
}
