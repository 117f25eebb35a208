package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/earlysigns/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	IsAdminKey contextKey = "is_admin"
)

// Auth validates bearer tokens and enforces the account approval workflow.
type Auth struct {
	secret []byte
	db     *sql.DB
}

func NewAuth(secret []byte, db *sql.DB) *Auth {
	return &Auth{secret: secret, db: db}
}

// RequireAuth validates the Authorization header and stores the user ID in
// the request context.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		userID, err := a.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireApproved rejects accounts that an admin has not approved yet. It
// must run after RequireAuth. The admin flag it looks up is stored in the
// context so handlers can make owner-or-admin decisions.
func (a *Auth) RequireApproved(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		status, isAdmin, err := a.lookupUser(userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}
		if status != models.StatusApproved {
			writeError(w, http.StatusForbidden, "Account is awaiting approval")
			return
		}

		ctx := context.WithValue(r.Context(), IsAdminKey, isAdmin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows only approved administrator accounts through. It must
// run after RequireAuth.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		status, isAdmin, err := a.lookupUser(userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}
		if status != models.StatusApproved || !isAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}

		ctx := context.WithValue(r.Context(), IsAdminKey, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// VerifyToken parses and validates a signed token, returning the user ID it
// carries. Exposed for the live feed, which receives its token as a query
// parameter instead of a header.
func (a *Auth) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("unexpected claims type")
	}
	uid, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("token missing user_id claim")
	}
	return int64(uid), nil
}

// VerifyAdminToken validates a token and additionally requires the account
// to be an approved administrator.
func (a *Auth) VerifyAdminToken(tokenString string) (int64, error) {
	userID, err := a.VerifyToken(tokenString)
	if err != nil {
		return 0, err
	}
	status, isAdmin, err := a.lookupUser(userID)
	if err != nil {
		return 0, err
	}
	if status != models.StatusApproved || !isAdmin {
		return 0, fmt.Errorf("admin access required")
	}
	return userID, nil
}

func (a *Auth) lookupUser(userID int64) (models.UserStatus, bool, error) {
	var status models.UserStatus
	var isAdmin bool
	err := a.db.QueryRow(
		`SELECT status, is_admin FROM users WHERE id = $1`,
		userID,
	).Scan(&status, &isAdmin)
	if err != nil {
		return "", false, err
	}
	return status, isAdmin, nil
}

// GetUserID extracts the authenticated user ID from a request context.
func GetUserID(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(UserIDKey).(int64)
	return uid, ok
}

// IsAdmin reports whether the request passed an admin-aware middleware as
// an administrator.
func IsAdmin(ctx context.Context) bool {
	v, ok := ctx.Value(IsAdminKey).(bool)
	return ok && v
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: msg})
}
