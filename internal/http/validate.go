package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/esttuapp/painel/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate decodifica o corpo JSON e valida as tags do payload.
// Falhas viram erro de validação com detalhes por campo.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("corpo da requisição não pode ser vazio", nil)
		}
		return apperr.Validation("JSON inválido", nil)
	}

	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return apperr.Validation("payload inválido", nil)
		}

		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				details[fieldName(fe)] = ruleMessage(fe)
			}
			return apperr.Validation("campos inválidos", details)
		}
		return apperr.Validation("payload inválido", nil)
	}

	return nil
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if len(name) > 0 {
		return strings.ToLower(name[:1]) + name[1:]
	}
	return name
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "e-mail inválido"
	case "min":
		return "tamanho mínimo " + fe.Param()
	case "oneof":
		return "valor deve ser um de: " + fe.Param()
	default:
		return "valor inválido"
	}
}
