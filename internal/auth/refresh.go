package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// HashRefreshToken produz hash SHA-256 base64 do refresh emitido.
// Apenas o hash vai para o Redis, nunca o token bruto.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// RefreshRedisKey monta chave única para guardar estado do refresh.
func RefreshRedisKey(app, hash string) string {
	return fmt.Sprintf("refresh:%s:%s", app, hash)
}
