package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/esttuapp/painel/internal/auth"
)

type contextKey string

const contextKeySession contextKey = "session"

// Auth valida o bearer token e injeta a sessão no contexto.
// Qualquer falha de verificação devolve 401 genérico, sem detalhe interno.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "AUTH", "token ausente")
				return
			}

			payload := jwtManager.VerifyToken(parts[1])
			if payload == nil {
				writeError(w, http.StatusUnauthorized, "AUTH", "token inválido")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeySession, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession recupera a sessão do contexto.
func GetSession(ctx context.Context) *auth.SessionPayload {
	val, _ := ctx.Value(contextKeySession).(*auth.SessionPayload)
	return val
}

// RequireAdminRole garante papel admin para operações de escrita em admins.
func RequireAdminRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSession(r.Context())
		if session == nil || !strings.EqualFold(session.Role, "admin") {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "acesso restrito a administradores")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
