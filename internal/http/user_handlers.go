package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/esttuapp/painel/internal/user"
)

type signupPayload struct {
	Nome          string `json:"nome" validate:"required"`
	Sobrenome     string `json:"sobrenome" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Celular       string `json:"celular" validate:"required"`
	CPF           string `json:"cpf" validate:"required"`
	RG            string `json:"rg"`
	Instituicao   string `json:"instituicao"`
	Curso         string `json:"curso"`
	CID           string `json:"cid"`
	TipoSanguineo string `json:"tipoSanguineo"`
	Senha         string `json:"senha" validate:"required,min=8"`
}

type userUpdatePayload struct {
	Nome              *string `json:"nome"`
	Sobrenome         *string `json:"sobrenome"`
	Email             *string `json:"email" validate:"omitempty,email"`
	Celular           *string `json:"celular"`
	RG                *string `json:"rg"`
	Instituicao       *string `json:"instituicao"`
	Curso             *string `json:"curso"`
	CID               *string `json:"cid"`
	TipoSanguineo     *string `json:"tipoSanguineo"`
	Senha             *string `json:"senha" validate:"omitempty,min=8"`
	PagamentoEfetuado *bool   `json:"pagamentoEfetuado"`
}

// SignupUser cadastra usuário; o corpo de resposta nunca inclui senha.
func (h *Handler) SignupUser(w http.ResponseWriter, r *http.Request) {
	svc, err := h.userService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	var payload signupPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		Dispatch(w, err)
		return
	}

	created, err := svc.Register(r.Context(), user.RegisterInput{
		Nome:          payload.Nome,
		Sobrenome:     payload.Sobrenome,
		Email:         payload.Email,
		Celular:       payload.Celular,
		CPF:           payload.CPF,
		RG:            payload.RG,
		Instituicao:   payload.Instituicao,
		Curso:         payload.Curso,
		CID:           payload.CID,
		TipoSanguineo: payload.TipoSanguineo,
		Senha:         payload.Senha,
	})
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, created)
}

// ListUsers pagina usuários com filtros e cursor.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	svc, err := h.userService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	query := r.URL.Query()

	params := user.ListParams{
		Limit:       parseLimit(query.Get("limit")),
		StartAfter:  query.Get("startAfter"),
		Search:      query.Get("search"),
		FilterField: query.Get("filterType"),
		FilterValue: query.Get("filterValue"),
	}
	if raw := query.Get("pagamentoEfetuado"); raw != "" {
		val := raw == "true"
		params.PagamentoEfetuado = &val
	}

	page, err := svc.List(r.Context(), params)
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// GetUser busca um usuário pelo id.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	svc, err := h.userService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	found, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, found)
}

// UpdateUser aplica alteração parcial.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	svc, err := h.userService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	var payload userUpdatePayload
	if err := decodeAndValidate(r, &payload); err != nil {
		Dispatch(w, err)
		return
	}

	updated, err := svc.Update(r.Context(), chi.URLParam(r, "id"), user.UpdateInput{
		Nome:              payload.Nome,
		Sobrenome:         payload.Sobrenome,
		Email:             payload.Email,
		Celular:           payload.Celular,
		RG:                payload.RG,
		Instituicao:       payload.Instituicao,
		Curso:             payload.Curso,
		CID:               payload.CID,
		TipoSanguineo:     payload.TipoSanguineo,
		Senha:             payload.Senha,
		PagamentoEfetuado: payload.PagamentoEfetuado,
	})
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, updated)
}

// UserStats devolve contadores de total e pagantes.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	svc, err := h.userService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	stats, err := svc.Stats(r.Context())
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
