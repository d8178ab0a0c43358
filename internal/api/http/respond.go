package http

import (
	"encoding/json"
	"net/http"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/logger"
)

type errorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)

	msg := err.Error()
	if kind == domain.KindInternal {
		// Do not leak infrastructure details to callers.
		logger.Error("internal error", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusForbidden
	case domain.KindConflict, domain.KindUnavailable:
		return http.StatusConflict
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
