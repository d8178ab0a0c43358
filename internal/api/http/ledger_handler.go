package http

import (
	"net/http"
	"strconv"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/security"
	"rentwi-backend/internal/service"
)

type LedgerHandler struct {
	ledgerSvc service.LedgerService
}

func NewLedgerHandler(ledgerSvc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

func (h *LedgerHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireRole(w, r, security.RoleCompany)
	if !ok {
		return
	}

	wallet, err := h.ledgerSvc.GetWallet(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

type transactionsResponse struct {
	Transactions []domain.WalletTransaction `json:"transactions"`
	Total        int32                      `json:"total"`
	Page         int32                      `json:"page"`
	PageSize     int32                      `json:"page_size"`
}

func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireRole(w, r, security.RoleCompany)
	if !ok {
		return
	}

	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	txs, total, err := h.ledgerSvc.ListTransactions(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionsResponse{
		Transactions: txs,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	})
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
