package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/repository/memory"
)

func TestLedgerService_GetWallet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	company := store.AddCompany(domain.Company{UserID: 201, TaxNumber: "11111111111111"})
	store.AddWallet(domain.Wallet{CompanyID: company.ID, Balance: decimal.RequireFromString("12.34")})

	svc := NewLedgerService(store)

	wallet, err := svc.GetWallet(ctx, company.UserID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.RequireFromString("12.34")))

	_, err = svc.GetWallet(ctx, 555)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestLedgerService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	company := store.AddCompany(domain.Company{UserID: 201, TaxNumber: "11111111111111"})
	wallet := store.AddWallet(domain.Wallet{CompanyID: company.ID})

	for i := 0; i < 25; i++ {
		err := store.Wallets().ApplyDelta(ctx, wallet.ID, decimal.NewFromInt(1), &domain.WalletTransaction{
			Reference:   uuid.NewString(),
			Type:        domain.TransactionTypeAdjustment,
			Description: fmt.Sprintf("adjustment %d", i),
		})
		require.NoError(t, err)
	}

	svc := NewLedgerService(store)

	t.Run("first page", func(t *testing.T) {
		txs, total, err := svc.ListTransactions(ctx, company.UserID, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int32(25), total)
		assert.Len(t, txs, 10)
	})

	t.Run("last page is partial", func(t *testing.T) {
		txs, total, err := svc.ListTransactions(ctx, company.UserID, 3, 10)
		require.NoError(t, err)
		assert.Equal(t, int32(25), total)
		assert.Len(t, txs, 5)
	})

	t.Run("out of range page is empty", func(t *testing.T) {
		txs, total, err := svc.ListTransactions(ctx, company.UserID, 9, 10)
		require.NoError(t, err)
		assert.Equal(t, int32(25), total)
		assert.Empty(t, txs)
	})

	t.Run("defaults applied to bad paging input", func(t *testing.T) {
		txs, _, err := svc.ListTransactions(ctx, company.UserID, 0, 0)
		require.NoError(t, err)
		assert.Len(t, txs, 20)
	})

	t.Run("newest first", func(t *testing.T) {
		txs, _, err := svc.ListTransactions(ctx, company.UserID, 1, 5)
		require.NoError(t, err)
		require.Len(t, txs, 5)
		assert.Equal(t, "adjustment 24", txs[0].Description)
	})
}
