package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Códigos fechados da taxonomia de erros do painel.
const (
	CodeValidation  = "VALIDATION"
	CodeAuth        = "AUTH"
	CodeNotFound    = "NOT_FOUND"
	CodeDuplicate   = "DUPLICATE"
	CodePersistence = "PERSISTENCE"
	CodeConfig      = "CONFIG"
	CodeWebhook     = "WEBHOOK"
)

// Error é o tipo único de erro de domínio trafegado até a borda HTTP.
type Error struct {
	Code    string
	Status  int
	Message string
	Details any
	cause   error
}

// Error implementa a interface error.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap expõe a causa interna para errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause devolve o erro interno (nunca exposto ao cliente).
func (e *Error) Cause() error {
	return e.cause
}

// Validation cria erro 400 com detalhes estruturados opcionais.
func Validation(message string, details any) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message, Details: details}
}

// Auth cria erro 401.
func Auth(message string) *Error {
	return &Error{Code: CodeAuth, Status: http.StatusUnauthorized, Message: message}
}

// NotFound cria erro 404.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

// Duplicate cria erro 409.
func Duplicate(message string) *Error {
	return &Error{Code: CodeDuplicate, Status: http.StatusConflict, Message: message}
}

// Persistence normaliza falha de armazenamento em 500 genérico.
// A causa fica disponível apenas para log no servidor.
func Persistence(cause error) *Error {
	return &Error{Code: CodePersistence, Status: http.StatusInternalServerError, Message: "erro de persistência", cause: cause}
}

// Config cria erro de configuração (fatal na inicialização).
func Config(message string) *Error {
	return &Error{Code: CodeConfig, Status: http.StatusInternalServerError, Message: message}
}

// Webhook cria erro de validação de token de webhook.
func Webhook(message string) *Error {
	return &Error{Code: CodeWebhook, Status: http.StatusUnauthorized, Message: message}
}

// As extrai *Error de qualquer cadeia de erros.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}

// IsNotFound verifica se o erro é NOT_FOUND.
func IsNotFound(err error) bool {
	ae, ok := As(err)
	return ok && ae.Code == CodeNotFound
}

// IsDuplicate verifica se o erro é DUPLICATE.
func IsDuplicate(err error) bool {
	ae, ok := As(err)
	return ok && ae.Code == CodeDuplicate
}
