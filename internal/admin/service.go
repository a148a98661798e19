package admin

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/esttuapp/painel/internal/apperr"
	"github.com/esttuapp/painel/internal/auth"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type repository interface {
	Create(ctx context.Context, a *Admin) (*Admin, error)
	FindByID(ctx context.Context, id string) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByIDs(ctx context.Context, ids []string) ([]Admin, error)
	List(ctx context.Context, q ListQuery) ([]Admin, error)
	Update(ctx context.Context, id string, set bson.M) (*Admin, error)
	Delete(ctx context.Context, id string) error
}

// Service concentra os casos de uso de administradores.
type Service struct {
	repo repository
}

// NewService cria o serviço de admins.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carrega os dados de criação de um admin.
type CreateInput struct {
	Nome  string
	Email string
	Senha string
	Role  string
	App   string
}

// Create cadastra admin com e-mail único, carimbando o criador.
func (s *Service) Create(ctx context.Context, input CreateInput, actorID string) (*Admin, error) {
	if !IsValidRole(input.Role) {
		return nil, apperr.Validation("papel inválido", map[string]string{"role": input.Role})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Duplicate("e-mail já cadastrado")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.Hash(input.Senha)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &Admin{
		ID:            uuid.NewString(),
		Nome:          strings.TrimSpace(input.Nome),
		Email:         email,
		Role:          input.Role,
		App:           strings.TrimSpace(input.App),
		SenhaHash:     hash,
		AdminRegister: actorID,
		AdminUpdated:  actorID,
		CriadoEm:      now,
		AtualizadoEm:  now,
	})
	if err != nil {
		return nil, err
	}
	return strip(created), nil
}

// UpdateInput carrega alteração parcial de admin.
type UpdateInput struct {
	Nome  *string
	Email *string
	Senha *string
	Role  *string
	App   *string
}

// IsEmpty informa se nenhum campo foi enviado.
func (in UpdateInput) IsEmpty() bool {
	return in.Nome == nil && in.Email == nil && in.Senha == nil &&
		in.Role == nil && in.App == nil
}

// Update aplica alteração parcial, carimbando o último editor.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput, actorID string) (*Admin, error) {
	if input.IsEmpty() {
		return nil, apperr.Validation("corpo da requisição não pode ser vazio", nil)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"adminUpdated": actorID}
	if input.Nome != nil {
		set["nome"] = strings.TrimSpace(*input.Nome)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != current.Email {
			if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing.ID != id {
				return nil, apperr.Duplicate("e-mail já cadastrado")
			} else if err != nil && !apperr.IsNotFound(err) {
				return nil, err
			}
		}
		set["email"] = email
	}
	if input.Senha != nil {
		hash, err := auth.Hash(*input.Senha)
		if err != nil {
			return nil, err
		}
		set["senha"] = hash
	}
	if input.Role != nil {
		if !IsValidRole(*input.Role) {
			return nil, apperr.Validation("papel inválido", map[string]string{"role": *input.Role})
		}
		set["role"] = *input.Role
	}
	if input.App != nil {
		set["app"] = strings.TrimSpace(*input.App)
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	return strip(updated), nil
}

// Delete remove o admin.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Get devolve o admin sem o hash de senha.
func (s *Service) Get(ctx context.Context, id string) (*Admin, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return strip(a), nil
}

// List pagina admins e resolve os nomes da trilha de auditoria em um
// único lote: coleta ids únicos, busca com $in e mapeia.
func (s *Service) List(ctx context.Context, limit int, startAfter string) (*Page, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	admins, err := s.repo.List(ctx, ListQuery{Limit: limit + 1, StartAfter: startAfter})
	if err != nil {
		return nil, err
	}

	hasNext := len(admins) > limit
	if hasNext {
		admins = admins[:limit]
	}

	names, err := s.resolveAuditNames(ctx, admins)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(admins))
	for _, a := range admins {
		a.SenhaHash = ""
		views = append(views, View{
			Admin:             a,
			AdminRegisterNome: names[a.AdminRegister],
			AdminUpdatedNome:  names[a.AdminUpdated],
		})
	}

	return &Page{Items: views, HasNextPage: hasNext}, nil
}

// Authenticate valida credenciais para o login do painel.
func (s *Service) Authenticate(ctx context.Context, email, senha string) (*Admin, error) {
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Auth("credenciais inválidas")
		}
		return nil, err
	}

	ok, err := auth.Verify(senha, a.SenhaHash)
	if err != nil || !ok {
		return nil, apperr.Auth("credenciais inválidas")
	}
	return strip(a), nil
}

func (s *Service) resolveAuditNames(ctx context.Context, admins []Admin) (map[string]string, error) {
	unique := make(map[string]struct{})
	for _, a := range admins {
		if a.AdminRegister != "" {
			unique[a.AdminRegister] = struct{}{}
		}
		if a.AdminUpdated != "" {
			unique[a.AdminUpdated] = struct{}{}
		}
	}

	ids := make([]string, 0, len(unique))
	for id := range unique {
		ids = append(ids, id)
	}

	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(found))
	for _, a := range found {
		names[a.ID] = a.Nome
	}
	return names, nil
}

func strip(a *Admin) *Admin {
	a.SenhaHash = ""
	return a
}
