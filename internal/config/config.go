package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig guarda as credenciais do banco de um app.
type AppConfig struct {
	MongoURI string
	Database string
}

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port              int
	Apps              map[string]AppConfig
	RedisURL          string
	JWTSecret         string
	JWTAccessTTL      time.Duration
	JWTRefreshTTL     time.Duration
	AsaasWebhookToken string
	AllowOrigins      []string
	RateLimitPublic   RateLimitConfig
	RateLimitAuth     RateLimitConfig
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// AppNames são os escopos válidos de aplicação.
var AppNames = []string{"esttu", "gittu", "admin"}

// Load carrega variáveis de ambiente e falha na ausência de qualquer uma.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.Apps = make(map[string]AppConfig, len(AppNames))
	for _, app := range AppNames {
		suffix := strings.ToUpper(app)
		uri := getEnv("MONGO_URI_"+suffix, "")
		if uri == "" {
			return nil, errors.New("MONGO_URI_" + suffix + " obrigatório")
		}
		database := getEnv("MONGO_DB_"+suffix, "")
		if database == "" {
			return nil, errors.New("MONGO_DB_" + suffix + " obrigatório")
		}
		cfg.Apps[app] = AppConfig{MongoURI: uri, Database: database}
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET deve ter pelo menos 32 caracteres")
	}

	accessTTL, err := parseDurationEnv("JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.JWTAccessTTL = accessTTL

	refreshTTL, err := parseDurationEnv("JWT_REFRESH_TTL", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWTRefreshTTL = refreshTTL

	cfg.AsaasWebhookToken = strings.TrimSpace(getEnv("ASAAS_WEBHOOK_TOKEN", ""))
	if cfg.AsaasWebhookToken == "" {
		return nil, errors.New("ASAAS_WEBHOOK_TOKEN obrigatório")
	}

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitAuth = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	return cfg, nil
}

// IsValidApp informa se o nome corresponde a um escopo conhecido.
func IsValidApp(name string) bool {
	for _, app := range AppNames {
		if app == name {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
