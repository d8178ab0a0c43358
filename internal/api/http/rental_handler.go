package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/security"
	"rentwi-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type bookRentalRequest struct {
	CarID     int32     `json:"car_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type cancelRentalRequest struct {
	Reason string `json:"reason"`
}

func (h *RentalHandler) Book(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireRole(w, r, security.RoleClient)
	if !ok {
		return
	}

	var req bookRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Errorf(domain.KindInvalidInput, "invalid request body"))
		return
	}

	rental, err := h.rentalSvc.Book(r.Context(), claims.UserID, req.CarID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireRole(w, r, security.RoleCompany)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rental, err := h.rentalSvc.Deliver(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireRole(w, r, security.RoleCompany)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rental, err := h.rentalSvc.Complete(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorFrom(r); !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error: "not authenticated", Kind: domain.KindUnauthorized})
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req cancelRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Errorf(domain.KindInvalidInput, "invalid request body"))
		return
	}

	rental, err := h.rentalSvc.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rental, err := h.rentalSvc.GetRental(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ListMyRentals(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireRole(w, r, security.RoleClient)
	if !ok {
		return
	}

	rentals, err := h.rentalSvc.ListClientRentals(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) ListCompanyRentals(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireRole(w, r, security.RoleCompany)
	if !ok {
		return
	}

	rentals, err := h.rentalSvc.ListCompanyRentals(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func pathID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeError(w, domain.Errorf(domain.KindInvalidInput, "invalid id %q", raw))
		return 0, false
	}
	return int32(id), true
}
