package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/esttuapp/painel/internal/admin"
	"github.com/esttuapp/painel/internal/apperr"
	"github.com/esttuapp/painel/internal/auth"
)

type adminAuthenticator interface {
	Authenticate(ctx context.Context, email, senha string) (*admin.Admin, error)
	Get(ctx context.Context, id string) (*admin.Admin, error)
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentra login, refresh e logout do painel.
// Refresh tokens são JWTs, mas o hash de cada um vive no Redis para
// permitir revogação e rotação.
type AuthService struct {
	admins     adminAuthenticator
	redis      redisCommander
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

// NewAuthService cria novo serviço.
func NewAuthService(admins adminAuthenticator, redisClient redisCommander, jwtMgr *auth.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{admins: admins, redis: redisClient, jwt: jwtMgr, refreshTTL: refreshTTL}
}

// JWT expõe o gerenciador de tokens (útil em middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// LoginResult agrupa tokens e o perfil autenticado.
type LoginResult struct {
	Tokens *auth.TokenPair `json:"tokens"`
	Admin  *admin.Admin    `json:"admin"`
}

// Login autentica o admin e emite o par de tokens.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*LoginResult, error) {
	a, err := s.admins.Authenticate(ctx, email, senha)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issue(ctx, a)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Tokens: tokens, Admin: a}, nil
}

// Refresh valida e rotaciona o refresh token, emitindo novo par.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	payload := s.jwt.VerifyRefreshToken(refreshToken)
	if payload == nil {
		return nil, apperr.Auth("refresh token inválido")
	}

	key := auth.RefreshRedisKey(payload.App, auth.HashRefreshToken(refreshToken))
	if err := s.redis.Get(ctx, key).Err(); err != nil {
		return nil, apperr.Auth("refresh token inválido")
	}

	a, err := s.admins.Get(ctx, payload.AdminID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Auth("refresh token inválido")
		}
		return nil, err
	}

	if err := s.redis.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Msg("refresh: falha ao revogar token anterior")
	}

	tokens, err := s.issue(ctx, a)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Tokens: tokens, Admin: a}, nil
}

// Logout revoga o refresh token; idempotente.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	payload := s.jwt.VerifyRefreshToken(refreshToken)
	if payload == nil {
		return
	}

	key := auth.RefreshRedisKey(payload.App, auth.HashRefreshToken(refreshToken))
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Msg("logout: falha ao revogar refresh")
	}
}

// Me devolve o perfil do admin da sessão.
func (s *AuthService) Me(ctx context.Context, payload *auth.SessionPayload) (*admin.Admin, error) {
	return s.admins.Get(ctx, payload.AdminID)
}

func (s *AuthService) issue(ctx context.Context, a *admin.Admin) (*auth.TokenPair, error) {
	tokens, err := s.jwt.GenerateTokens(auth.SessionPayload{
		AdminID: a.ID,
		Email:   a.Email,
		Role:    a.Role,
		App:     a.App,
	})
	if err != nil {
		return nil, err
	}

	key := auth.RefreshRedisKey(a.App, auth.HashRefreshToken(tokens.RefreshToken))
	if err := s.redis.Set(ctx, key, "1", s.refreshTTL).Err(); err != nil {
		return nil, apperr.Persistence(err)
	}
	return tokens, nil
}
