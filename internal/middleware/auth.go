package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vaultpass/passgen/internal/crypto"
)

type contextKey string

const subjectKey contextKey = "subject"

var (
	errMissingAuth   = errors.New("missing authorization header")
	errBadAuthFormat = errors.New("invalid authorization format")
)

// JWTAuth guards operator routes. Requests need a Bearer token minted by
// `passgen token` with the same secret.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				deny(w, r, err.Error(), err)
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				deny(w, r, "invalid or expired token", err)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext returns the authenticated operator, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(subjectKey).(string)
	return sub, ok && sub != ""
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingAuth
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errBadAuthFormat
	}
	return strings.TrimSpace(token), nil
}

// deny answers 401. The token itself is never logged.
func deny(w http.ResponseWriter, r *http.Request, msg string, cause error) {
	slog.Warn("operator request denied",
		"request_id", RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"reason", cause,
	)
	w.Header().Set("WWW-Authenticate", `Bearer realm="passgen"`)
	writeJSONError(w, http.StatusUnauthorized, msg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
