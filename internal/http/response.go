package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/esttuapp/painel/internal/apperr"
)

// SuccessEnvelope padroniza respostas com dados.
type SuccessEnvelope struct {
	Data  any `json:"data"`
	Error any `json:"error"`
}

// ErrorEnvelope padroniza respostas de erro.
type ErrorEnvelope struct {
	Data  any        `json:"data"`
	Error *ErrorBody `json:"error"`
}

// ErrorBody descreve falhas normalizadas.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// WriteJSON escreve envelope de sucesso.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SuccessEnvelope{Data: data, Error: nil})
}

// WriteError escreve envelope de erro e mantém formato consistente.
func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Data:  nil,
		Error: &ErrorBody{Code: code, Message: message, Details: details},
	})
}

// Dispatch mapeia qualquer erro do domínio para a resposta HTTP.
// Chamado exatamente uma vez por handler, na borda, após a lógica.
// Erros desconhecidos são logados e reportados como 500 genérico,
// sem vazar detalhe interno.
func Dispatch(w http.ResponseWriter, err error) {
	if ae, ok := apperr.As(err); ok {
		if cause := ae.Cause(); cause != nil {
			log.Error().Err(cause).Str("code", ae.Code).Msg("erro interno despachado")
		}
		WriteError(w, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}

	log.Error().Err(err).Msg("erro não mapeado")
	WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
}
