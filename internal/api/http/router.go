package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentwi-backend/internal/security"
	"rentwi-backend/internal/service"
)

// NewRouter wires the authenticated API surface. Every route sits behind the
// bearer token middleware; identity issuance lives elsewhere.
func NewRouter(tm security.TokenManager, rentalSvc service.RentalService, ledgerSvc service.LedgerService, carSvc service.CarService) *mux.Router {
	rentals := NewRentalHandler(rentalSvc)
	ledger := NewLedgerHandler(ledgerSvc)
	cars := NewCarHandler(carSvc)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(Authenticate(tm))

	api.HandleFunc("/rentals", rentals.Book).Methods(http.MethodPost)
	api.HandleFunc("/rentals/my-rentals", rentals.ListMyRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals/company-rentals", rentals.ListCompanyRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", rentals.Get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}/deliver", rentals.Deliver).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/complete", rentals.Complete).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/cancel", rentals.Cancel).Methods(http.MethodPost)

	api.HandleFunc("/cars", cars.Register).Methods(http.MethodPost)
	api.HandleFunc("/cars/my", cars.ListMyCars).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id}", cars.Get).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id}/pricing", cars.UpdatePricing).Methods(http.MethodPut)

	api.HandleFunc("/wallet", ledger.GetWallet).Methods(http.MethodGet)
	api.HandleFunc("/wallet/transactions", ledger.ListTransactions).Methods(http.MethodGet)

	return r
}
