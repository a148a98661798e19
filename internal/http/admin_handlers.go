package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/esttuapp/painel/internal/admin"
	httpmiddleware "github.com/esttuapp/painel/internal/http/middleware"
)

type adminCreatePayload struct {
	Nome  string `json:"nome" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=8"`
	Role  string `json:"role" validate:"required,oneof=admin user"`
	App   string `json:"app" validate:"required,oneof=esttu gittu admin"`
}

type adminUpdatePayload struct {
	Nome  *string `json:"nome"`
	Email *string `json:"email" validate:"omitempty,email"`
	Senha *string `json:"senha" validate:"omitempty,min=8"`
	Role  *string `json:"role" validate:"omitempty,oneof=admin user"`
	App   *string `json:"app" validate:"omitempty,oneof=esttu gittu admin"`
}

// ListAdmins pagina admins com nomes de auditoria resolvidos.
func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.admins.List(r.Context(), parseLimit(query.Get("limit")), query.Get("startAfter"))
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// GetAdmin busca um admin pelo id.
func (h *Handler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	found, err := h.admins.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, found)
}

// CreateAdmin cadastra novo admin carimbando o criador.
func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var payload adminCreatePayload
	if err := decodeAndValidate(r, &payload); err != nil {
		Dispatch(w, err)
		return
	}

	session := httpmiddleware.GetSession(r.Context())

	created, err := h.admins.Create(r.Context(), admin.CreateInput{
		Nome:  payload.Nome,
		Email: payload.Email,
		Senha: payload.Senha,
		Role:  payload.Role,
		App:   payload.App,
	}, session.AdminID)
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, created)
}

// UpdateAdmin aplica alteração parcial carimbando o editor.
func (h *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var payload adminUpdatePayload
	if err := decodeAndValidate(r, &payload); err != nil {
		Dispatch(w, err)
		return
	}

	session := httpmiddleware.GetSession(r.Context())

	updated, err := h.admins.Update(r.Context(), chi.URLParam(r, "id"), admin.UpdateInput{
		Nome:  payload.Nome,
		Email: payload.Email,
		Senha: payload.Senha,
		Role:  payload.Role,
		App:   payload.App,
	}, session.AdminID)
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, updated)
}

// DeleteAdmin remove um admin.
func (h *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.admins.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
