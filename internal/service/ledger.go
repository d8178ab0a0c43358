package service

import (
	"context"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/repository"
)

type ledgerService struct {
	store repository.Store
}

func NewLedgerService(store repository.Store) LedgerService {
	return &ledgerService{store: store}
}

func (s *ledgerService) GetWallet(ctx context.Context, companyUserID int32) (*domain.Wallet, error) {
	company, err := s.store.Companies().GetByUserID(ctx, companyUserID)
	if err != nil {
		return nil, err
	}
	return s.store.Wallets().GetByCompanyID(ctx, company.ID)
}

func (s *ledgerService) ListTransactions(ctx context.Context, companyUserID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	company, err := s.store.Companies().GetByUserID(ctx, companyUserID)
	if err != nil {
		return nil, 0, err
	}
	wallet, err := s.store.Wallets().GetByCompanyID(ctx, company.ID)
	if err != nil {
		return nil, 0, err
	}
	return s.store.Wallets().ListTransactions(ctx, wallet.ID, page, pageSize)
}
