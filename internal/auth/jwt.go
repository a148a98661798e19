package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/esttuapp/painel/internal/apperr"
)

// SessionPayload identifica o admin autenticado em um token verificado.
type SessionPayload struct {
	AdminID string
	Email   string
	Role    string
	App     string
}

// Claims representa as informações presentes nos JWTs emitidos.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	App   string `json:"app"`
	Kind  string `json:"kind"` // "access" ou "refresh"
	jwt.RegisteredClaims
}

// TokenPair agrupa o retorno padrão de emissão de tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JWTManager encapsula geração e verificação de tokens.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTManager valida a configuração na construção, não na requisição.
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, apperr.Config("segredo JWT ausente")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, apperr.Config("expiração JWT inválida")
	}
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// GenerateTokens emite o par access/refresh para a sessão informada.
func (m *JWTManager) GenerateTokens(payload SessionPayload) (*TokenPair, error) {
	access, err := m.sign(payload, "access", m.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := m.sign(payload, "refresh", m.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

func (m *JWTManager) sign(payload SessionPayload, kind string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		Email: payload.Email,
		Role:  payload.Role,
		App:   payload.App,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.AdminID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyToken valida assinatura e expiração de um token de acesso.
// Falha fechada: devolve nil em qualquer erro, nunca propaga exceção.
func (m *JWTManager) VerifyToken(tokenString string) *SessionPayload {
	claims := m.parse(tokenString)
	if claims == nil || claims.Kind != "access" {
		return nil
	}
	return sessionFromClaims(claims)
}

// VerifyRefreshToken valida um token de refresh. Mesma semântica fechada.
func (m *JWTManager) VerifyRefreshToken(tokenString string) *SessionPayload {
	claims := m.parse(tokenString)
	if claims == nil || claims.Kind != "refresh" {
		return nil
	}
	return sessionFromClaims(claims)
}

func (m *JWTManager) parse(tokenString string) *Claims {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil
	}
	return claims
}

func sessionFromClaims(claims *Claims) *SessionPayload {
	return &SessionPayload{
		AdminID: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
		App:     claims.App,
	}
}
