package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for _, app := range []string{"ESTTU", "GITTU", "ADMIN"} {
		t.Setenv("MONGO_URI_"+app, "mongodb://localhost:27017")
		t.Setenv("MONGO_DB_"+app, "painel_"+app)
	}
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "um-segredo-de-teste-com-32-bytes!")
	t.Setenv("ASAAS_WEBHOOK_TOKEN", "tok-webhook")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("Port = %d, esperado 8080", cfg.Port)
	}
	if cfg.JWTAccessTTL != 15*time.Minute {
		t.Fatalf("JWTAccessTTL = %v", cfg.JWTAccessTTL)
	}
	if cfg.JWTRefreshTTL != 30*24*time.Hour {
		t.Fatalf("JWTRefreshTTL = %v", cfg.JWTRefreshTTL)
	}
	if len(cfg.Apps) != 3 {
		t.Fatalf("Apps = %d, esperado 3", len(cfg.Apps))
	}
	if cfg.Apps["esttu"].Database != "painel_ESTTU" {
		t.Fatalf("Database esttu = %q", cfg.Apps["esttu"].Database)
	}
}

func TestLoadParsesTTLAndOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("JWT_REFRESH_TTL", "72h")
	t.Setenv("ALLOW_ORIGINS", "https://painel.esttu.com , https://painel.gittu.com,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTAccessTTL != 5*time.Minute || cfg.JWTRefreshTTL != 72*time.Hour {
		t.Fatalf("TTLs = %v/%v", cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	}
	if len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[0] != "https://painel.esttu.com" {
		t.Fatalf("AllowOrigins = %v", cfg.AllowOrigins)
	}
}

func TestLoadFailsFast(t *testing.T) {
	cases := map[string]func(t *testing.T){
		"sem mongo": func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("MONGO_URI_GITTU", "")
		},
		"sem redis": func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("REDIS_URL", "")
		},
		"segredo curto": func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("JWT_SECRET", "curto")
		},
		"sem token de webhook": func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("ASAAS_WEBHOOK_TOKEN", "")
		},
		"porta inválida": func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("PORT", "abc")
		},
		"ttl inválido": func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("JWT_ACCESS_TTL", "quinze-minutos")
		},
	}

	for name, arrange := range cases {
		t.Run(name, func(t *testing.T) {
			arrange(t)
			if _, err := Load(); err == nil {
				t.Fatal("esperava erro de configuração")
			}
		})
	}
}
