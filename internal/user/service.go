package user

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

// filterFields são os campos aceitos no filtro estruturado.
var filterFields = map[string]struct{}{
	"email":         {},
	"cpf":           {},
	"celular":       {},
	"rg":            {},
	"instituicao":   {},
	"curso":         {},
	"cid":           {},
	"tipoSanguineo": {},
}

type repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByCPF(ctx context.Context, cpf string) (*User, error)
	Update(ctx context.Context, id string, set bson.M) (*User, error)
	List(ctx context.Context, q ListQuery) ([]User, error)
	CountTotal(ctx context.Context) (int64, error)
	CountPagos(ctx context.Context) (int64, error)
}

// Service aplica as invariantes que o banco não garante: unicidade de
// e-mail/CPF, hashing de senha e remoção do segredo antes de devolver.
type Service struct {
	repo repository
}

// NewService cria o serviço de usuários de um app.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput carrega os dados de cadastro.
type RegisterInput struct {
	Nome          string
	Sobrenome     string
	Email         string
	Celular       string
	CPF           string
	RG            string
	Instituicao   string
	Curso         string
	CID           string
	TipoSanguineo string
	Senha         string
}

// Register cadastra usuário garantindo unicidade de e-mail e CPF.
// A checagem e a escrita não são atômicas; corrida aceita no design atual.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Duplicate("e-mail já cadastrado")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	cpf := NormalizeCPF(input.CPF)
	if _, err := s.repo.FindByCPF(ctx, cpf); err == nil {
		return nil, apperr.Duplicate("CPF já cadastrado")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.Hash(input.Senha)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &User{
		ID:            uuid.NewString(),
		Nome:          strings.TrimSpace(input.Nome),
		Sobrenome:     strings.TrimSpace(input.Sobrenome),
		Email:         email,
		Celular:       strings.TrimSpace(input.Celular),
		CPF:           cpf,
		RG:            strings.TrimSpace(input.RG),
		Instituicao:   strings.TrimSpace(input.Instituicao),
		Curso:         strings.TrimSpace(input.Curso),
		CID:           strings.TrimSpace(input.CID),
		TipoSanguineo: strings.TrimSpace(input.TipoSanguineo),
		SenhaHash:     hash,
		CriadoEm:      now,
		AtualizadoEm:  now,
	})
	if err != nil {
		return nil, err
	}

	return strip(created), nil
}

// UpdateInput carrega alteração parcial; campos nil não são tocados.
type UpdateInput struct {
	Nome              *string
	Sobrenome         *string
	Email             *string
	Celular           *string
	RG                *string
	Instituicao       *string
	Curso             *string
	CID               *string
	TipoSanguineo     *string
	Senha             *string
	PagamentoEfetuado *bool
}

// IsEmpty informa se nenhum campo foi enviado.
func (in UpdateInput) IsEmpty() bool {
	return in.Nome == nil && in.Sobrenome == nil && in.Email == nil &&
		in.Celular == nil && in.RG == nil && in.Instituicao == nil &&
		in.Curso == nil && in.CID == nil && in.TipoSanguineo == nil &&
		in.Senha == nil && in.PagamentoEfetuado == nil
}

// Update aplica alteração parcial, revalidando unicidade de e-mail e
// refazendo o hash quando a senha muda.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*User, error) {
	if input.IsEmpty() {
		return nil, apperr.Validation("corpo da requisição não pode ser vazio", nil)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if input.Nome != nil {
		set["nome"] = strings.TrimSpace(*input.Nome)
	}
	if input.Sobrenome != nil {
		set["sobrenome"] = strings.TrimSpace(*input.Sobrenome)
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
	if input.Celular != nil {
		set["celular"] = strings.TrimSpace(*input.Celular)
	}
	if input.RG != nil {
		set["rg"] = strings.TrimSpace(*input.RG)
	}
	if input.Instituicao != nil {
		set["instituicao"] = strings.TrimSpace(*input.Instituicao)
	}
	if input.Curso != nil {
		set["curso"] = strings.TrimSpace(*input.Curso)
	}
	if input.CID != nil {
		set["cid"] = strings.TrimSpace(*input.CID)
	}
	if input.TipoSanguineo != nil {
		set["tipoSanguineo"] = strings.TrimSpace(*input.TipoSanguineo)
	}
	if input.Senha != nil {
		hash, err := auth.Hash(*input.Senha)
		if err != nil {
			return nil, err
		}
		set["senha"] = hash
	}
	if input.PagamentoEfetuado != nil {
		set["pagamentoEfetuado"] = *input.PagamentoEfetuado
		if *input.PagamentoEfetuado {
			set["dataPagamento"] = time.Now().UTC()
		}
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	return strip(updated), nil
}

// Get devolve o usuário sem o hash de senha.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return strip(u), nil
}

// ListParams espelha os parâmetros de query aceitos na listagem.
type ListParams struct {
	Limit             int
	StartAfter        string
	Search            string
	FilterField       string
	FilterValue       string
	PagamentoEfetuado *bool
}

// List pagina usuários pedindo limite+1 ao repositório e aparando o
// excedente para calcular hasNextPage.
func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if params.FilterField != "" {
		if _, ok := filterFields[params.FilterField]; !ok {
			return nil, apperr.Validation("campo de filtro inválido", map[string]string{"filterType": params.FilterField})
		}
	}

	items, err := s.repo.List(ctx, ListQuery{
		Limit:             limit + 1,
		StartAfter:        params.StartAfter,
		Search:            params.Search,
		FilterField:       params.FilterField,
		FilterValue:       params.FilterValue,
		PagamentoEfetuado: params.PagamentoEfetuado,
	})
	if err != nil {
		return nil, err
	}

	hasNext := len(items) > limit
	if hasNext {
		items = items[:limit]
	}
	for i := range items {
		items[i].SenhaHash = ""
	}

	return &Page{Items: items, HasNextPage: hasNext}, nil
}

// Stats agrega contadores de total e pagantes.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	pagos, err := s.repo.CountPagos(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Total: total, Pagos: pagos}, nil
}

// MarkPaid registra o pagamento confirmado vindo do gateway.
func (s *Service) MarkPaid(ctx context.Context, id string, when time.Time) error {
	_, err := s.repo.Update(ctx, id, bson.M{
		"pagamentoEfetuado": true,
		"dataPagamento":     when.UTC(),
	})
	return err
}

func strip(u *User) *User {
	u.SenhaHash = ""
	return u
}
