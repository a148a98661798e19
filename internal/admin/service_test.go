package admin

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/esttuapp/painel/internal/apperr"
)

type stubAdminRepo struct {
	admins []Admin
}

func (s *stubAdminRepo) Create(ctx context.Context, a *Admin) (*Admin, error) {
	s.admins = append(s.admins, *a)
	return a, nil
}

func (s *stubAdminRepo) FindByID(ctx context.Context, id string) (*Admin, error) {
	for i := range s.admins {
		if s.admins[i].ID == id {
			a := s.admins[i]
			return &a, nil
		}
	}
	return nil, apperr.NotFound("admin não encontrado")
}

func (s *stubAdminRepo) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	for i := range s.admins {
		if s.admins[i].Email == strings.ToLower(email) {
			a := s.admins[i]
			return &a, nil
		}
	}
	return nil, apperr.NotFound("admin não encontrado")
}

func (s *stubAdminRepo) FindByIDs(ctx context.Context, ids []string) ([]Admin, error) {
	var out []Admin
	for _, id := range ids {
		for i := range s.admins {
			if s.admins[i].ID == id {
				out = append(out, s.admins[i])
			}
		}
	}
	return out, nil
}

func (s *stubAdminRepo) List(ctx context.Context, q ListQuery) ([]Admin, error) {
	items := make([]Admin, len(s.admins))
	copy(items, s.admins)
	sort.Slice(items, func(i, j int) bool { return items[i].Email < items[j].Email })
	if q.StartAfter != "" {
		for len(items) > 0 && items[0].Email <= q.StartAfter {
			items = items[1:]
		}
	}
	if q.Limit > 0 && len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return items, nil
}

func (s *stubAdminRepo) Update(ctx context.Context, id string, set bson.M) (*Admin, error) {
	for i := range s.admins {
		if s.admins[i].ID != id {
			continue
		}
		if v, ok := set["nome"].(string); ok {
			s.admins[i].Nome = v
		}
		if v, ok := set["email"].(string); ok {
			s.admins[i].Email = v
		}
		if v, ok := set["senha"].(string); ok {
			s.admins[i].SenhaHash = v
		}
		if v, ok := set["role"].(string); ok {
			s.admins[i].Role = v
		}
		if v, ok := set["adminUpdated"].(string); ok {
			s.admins[i].AdminUpdated = v
		}
		s.admins[i].AtualizadoEm = time.Now().UTC()
		a := s.admins[i]
		return &a, nil
	}
	return nil, apperr.NotFound("admin não encontrado")
}

func (s *stubAdminRepo) Delete(ctx context.Context, id string) error {
	for i := range s.admins {
		if s.admins[i].ID == id {
			s.admins = append(s.admins[:i], s.admins[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("admin não encontrado")
}

func TestCreateStampsAuditTrail(t *testing.T) {
	repo := &stubAdminRepo{}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateInput{
		Nome:  "Ana",
		Email: " ANA@Painel.com ",
		Senha: "senha-forte",
		Role:  RoleAdmin,
		App:   "esttu",
	}, "actor-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Email != "ana@painel.com" {
		t.Fatalf("Email = %q, esperado normalizado", created.Email)
	}
	if created.AdminRegister != "actor-1" || created.AdminUpdated != "actor-1" {
		t.Fatalf("trilha de auditoria = %q/%q", created.AdminRegister, created.AdminUpdated)
	}
	if created.SenhaHash != "" {
		t.Fatal("resposta não pode expor o hash de senha")
	}
	if repo.admins[0].SenhaHash == "" || repo.admins[0].SenhaHash == "senha-forte" {
		t.Fatal("senha deve ser persistida com hash")
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := &stubAdminRepo{admins: []Admin{{ID: "a1", Email: "ana@painel.com"}}}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{
		Nome: "Outra", Email: "ana@painel.com", Senha: "x", Role: RoleUser,
	}, "actor-1")
	if !apperr.IsDuplicate(err) {
		t.Fatalf("esperava DUPLICATE, veio %v", err)
	}
	if len(repo.admins) != 1 {
		t.Fatalf("repo tem %d admins, esperado 1", len(repo.admins))
	}
}

func TestCreateRejectsInvalidRole(t *testing.T) {
	svc := NewService(&stubAdminRepo{})

	_, err := svc.Create(context.Background(), CreateInput{
		Nome: "Ana", Email: "ana@painel.com", Senha: "x", Role: "root",
	}, "actor-1")
	appErr, ok := apperr.As(err)
	if !ok || appErr.Code != apperr.CodeValidation {
		t.Fatalf("esperava erro de validação, veio %v", err)
	}
}

func TestUpdateEmptyBody(t *testing.T) {
	svc := NewService(&stubAdminRepo{admins: []Admin{{ID: "a1"}}})

	_, err := svc.Update(context.Background(), "a1", UpdateInput{}, "actor-1")
	appErr, ok := apperr.As(err)
	if !ok || appErr.Code != apperr.CodeValidation {
		t.Fatalf("esperava erro de validação, veio %v", err)
	}
}

func TestUpdateStampsEditor(t *testing.T) {
	repo := &stubAdminRepo{admins: []Admin{{ID: "a1", Nome: "Ana", Email: "ana@painel.com", AdminUpdated: "actor-1"}}}
	svc := NewService(repo)

	nome := "Ana Clara"
	updated, err := svc.Update(context.Background(), "a1", UpdateInput{Nome: &nome}, "actor-2")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Nome != "Ana Clara" {
		t.Fatalf("Nome = %q", updated.Nome)
	}
	if updated.AdminUpdated != "actor-2" {
		t.Fatalf("AdminUpdated = %q, esperado actor-2", updated.AdminUpdated)
	}
}

func TestUpdateDuplicateEmail(t *testing.T) {
	repo := &stubAdminRepo{admins: []Admin{
		{ID: "a1", Email: "ana@painel.com"},
		{ID: "a2", Email: "bia@painel.com"},
	}}
	svc := NewService(repo)

	email := "bia@painel.com"
	_, err := svc.Update(context.Background(), "a1", UpdateInput{Email: &email}, "actor-1")
	if !apperr.IsDuplicate(err) {
		t.Fatalf("esperava DUPLICATE, veio %v", err)
	}
}

func TestListResolvesAuditNamesInBatch(t *testing.T) {
	repo := &stubAdminRepo{admins: []Admin{
		{ID: "root", Nome: "Raiz", Email: "a-raiz@painel.com"},
		{ID: "a2", Nome: "Bia", Email: "bia@painel.com", AdminRegister: "root", AdminUpdated: "root"},
		{ID: "a3", Nome: "Caio", Email: "caio@painel.com", AdminRegister: "root", AdminUpdated: "a2"},
	}}
	svc := NewService(repo)

	page, err := svc.List(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 3 || page.HasNextPage {
		t.Fatalf("len=%d hasNext=%v", len(page.Items), page.HasNextPage)
	}

	byID := make(map[string]View)
	for _, v := range page.Items {
		byID[v.ID] = v
		if v.SenhaHash != "" {
			t.Fatal("listagem não pode expor hash de senha")
		}
	}
	if byID["a2"].AdminRegisterNome != "Raiz" || byID["a2"].AdminUpdatedNome != "Raiz" {
		t.Fatalf("auditoria de a2 = %+v", byID["a2"])
	}
	if byID["a3"].AdminUpdatedNome != "Bia" {
		t.Fatalf("auditoria de a3 = %+v", byID["a3"])
	}
}

func TestListTrimsAndSignalsNextPage(t *testing.T) {
	repo := &stubAdminRepo{admins: []Admin{
		{ID: "a1", Email: "a@painel.com"},
		{ID: "a2", Email: "b@painel.com"},
		{ID: "a3", Email: "c@painel.com"},
	}}
	svc := NewService(repo)

	page, err := svc.List(context.Background(), 2, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 2 || !page.HasNextPage {
		t.Fatalf("len=%d hasNext=%v, esperado 2/true", len(page.Items), page.HasNextPage)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := &stubAdminRepo{}
	svc := NewService(repo)

	if _, err := svc.Create(context.Background(), CreateInput{
		Nome: "Ana", Email: "ana@painel.com", Senha: "senha-forte", Role: RoleAdmin,
	}, "actor-1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	a, err := svc.Authenticate(context.Background(), "ana@painel.com", "senha-forte")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if a.SenhaHash != "" {
		t.Fatal("resposta não pode expor hash de senha")
	}

	if _, err := svc.Authenticate(context.Background(), "ana@painel.com", "errada"); err == nil {
		t.Fatal("senha errada deveria falhar")
	}
	_, err = svc.Authenticate(context.Background(), "ninguem@painel.com", "x")
	appErr, ok := apperr.As(err)
	if !ok || appErr.Code != apperr.CodeAuth {
		t.Fatalf("esperava AUTH genérico, veio %v", err)
	}
}
