package http

import (
	"net/http"

	httpmiddleware "github.com/esttuapp/painel/internal/http/middleware"
)

type loginPayload struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type refreshPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Login autentica um admin e devolve o par de tokens.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		Dispatch(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), payload.Email, payload.Senha)
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// Refresh rotaciona o refresh token.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		Dispatch(w, err)
		return
	}

	result, err := h.authService.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// Logout revoga o refresh token; sempre responde 200.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		Dispatch(w, err)
		return
	}

	h.authService.Logout(r.Context(), payload.RefreshToken)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me devolve o perfil do admin autenticado.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session := httpmiddleware.GetSession(r.Context())

	profile, err := h.authService.Me(r.Context(), session)
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}
