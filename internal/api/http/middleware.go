package http

import (
	"context"
	"net/http"
	"strings"

	"rentwi-backend/internal/domain"
	"rentwi-backend/internal/security"
)

type contextKey string

const actorKey contextKey = "actor"

// Authenticate validates the bearer token and stores the actor claims in the
// request context. Token issuance is the identity collaborator's job; here we
// only verify.
func Authenticate(tm security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{
					Error: "missing bearer token", Kind: domain.KindUnauthorized})
				return
			}

			claims, err := tm.ValidateToken(token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{
					Error: err.Error(), Kind: domain.KindUnauthorized})
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func actorFrom(r *http.Request) (*security.ActorClaims, bool) {
	claims, ok := r.Context().Value(actorKey).(*security.ActorClaims)
	return claims, ok
}

// requireRole resolves the actor and enforces its role in one place.
func requireRole(w http.ResponseWriter, r *http.Request, role security.Role) (*security.ActorClaims, bool) {
	claims, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error: "not authenticated", Kind: domain.KindUnauthorized})
		return nil, false
	}
	if claims.Role != role {
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error: "insufficient role", Kind: domain.KindUnauthorized})
		return nil, false
	}
	return claims, true
}
