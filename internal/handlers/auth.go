package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned when a webhook call carries no valid bearer token.
var ErrUnauthorized = errors.New("unauthorized")

func (s *Server) requireJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := parseBearer(r.Header.Get("Authorization"), s.jwtSecret)
		if err != nil {
			s.logger.Warn("webhook auth rejected", "error", err, "remote", r.RemoteAddr)
			s.metrics.ObserveError("auth")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		s.logger.Debug("webhook auth accepted", "sub", claims["sub"])
		next.ServeHTTP(w, r)
	})
}

// parseBearer validates an HS256 "Bearer <token>" header against secret.
func parseBearer(header string, secret []byte) (jwt.MapClaims, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	return claims, nil
}
