package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/security"
	"rentwi-backend/internal/service"
)

type CarHandler struct {
	carSvc service.CarService
}

func NewCarHandler(carSvc service.CarService) *CarHandler {
	return &CarHandler{carSvc: carSvc}
}

type registerCarRequest struct {
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	Plate           string          `json:"plate"`
	PricePerHour    decimal.Decimal `json:"price_per_hour"`
	CommercialValue decimal.Decimal `json:"commercial_value"`
}

type updatePricingRequest struct {
	PricePerHour    decimal.Decimal `json:"price_per_hour"`
	CommercialValue decimal.Decimal `json:"commercial_value"`
}

func (h *CarHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireRole(w, r, security.RoleCompany)
	if !ok {
		return
	}

	var req registerCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Errorf(domain.KindInvalidInput, "invalid request body"))
		return
	}

	car := &domain.Car{
		Brand:           req.Brand,
		Model:           req.Model,
		Plate:           req.Plate,
		PricePerHour:    req.PricePerHour,
		CommercialValue: req.CommercialValue,
	}
	if err := h.carSvc.RegisterCar(r.Context(), claims.UserID, car); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	car, err := h.carSvc.GetCar(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) ListMyCars(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireRole(w, r, security.RoleCompany)
	if !ok {
		return
	}

	cars, err := h.carSvc.ListMyCars(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *CarHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireRole(w, r, security.RoleCompany)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updatePricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Errorf(domain.KindInvalidInput, "invalid request body"))
		return
	}

	car, err := h.carSvc.UpdatePricing(r.Context(), claims.UserID, id, req.PricePerHour, req.CommercialValue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}
