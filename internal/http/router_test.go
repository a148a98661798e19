package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/esttuapp/painel/internal/admin"
	"github.com/esttuapp/painel/internal/apperr"
	"github.com/esttuapp/painel/internal/auth"
	"github.com/esttuapp/painel/internal/config"
	"github.com/esttuapp/painel/internal/payment"
	"github.com/esttuapp/painel/internal/service"
	"github.com/esttuapp/painel/internal/user"
)

const testSecret = "um-segredo-de-teste-com-32-bytes!"

type stubUserRepo struct {
	mu    sync.Mutex
	users []user.User
}

func (s *stubUserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.IDDocument = primitive.NewObjectID()
	s.users = append(s.users, *u)
	return u, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, apperr.NotFound("usuário não encontrado")
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Email == strings.ToLower(email) {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, apperr.NotFound("usuário não encontrado")
}

func (s *stubUserRepo) FindByCPF(ctx context.Context, cpf string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].CPF == cpf {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, apperr.NotFound("usuário não encontrado")
}

func (s *stubUserRepo) Update(ctx context.Context, id string, set bson.M) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		if v, ok := set["email"].(string); ok {
			s.users[i].Email = v
		}
		if v, ok := set["nome"].(string); ok {
			s.users[i].Nome = v
		}
		if v, ok := set["senha"].(string); ok {
			s.users[i].SenhaHash = v
		}
		if v, ok := set["pagamentoEfetuado"].(bool); ok {
			s.users[i].PagamentoEfetuado = v
		}
		if v, ok := set["dataPagamento"].(time.Time); ok {
			s.users[i].DataPagamento = &v
		}
		u := s.users[i]
		return &u, nil
	}
	return nil, apperr.NotFound("usuário não encontrado")
}

func (s *stubUserRepo) List(ctx context.Context, q user.ListQuery) ([]user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]user.User, len(s.users))
	copy(items, s.users)
	sort.Slice(items, func(i, j int) bool { return items[i].Nome < items[j].Nome })
	if q.Limit > 0 && len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return items, nil
}

func (s *stubUserRepo) CountTotal(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *stubUserRepo) CountPagos(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if u.PagamentoEfetuado {
			n++
		}
	}
	return n, nil
}

type stubPayRepo struct {
	mu       sync.Mutex
	payments []payment.Payment
}

func (s *stubPayRepo) Create(ctx context.Context, p *payment.Payment) (*payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, *p)
	return p, nil
}

func (s *stubPayRepo) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == id {
			p := s.payments[i]
			return &p, nil
		}
	}
	return nil, apperr.NotFound("pagamento não encontrado")
}

func (s *stubPayRepo) FindByAsaasID(ctx context.Context, asaasID string) (*payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].AsaasID == asaasID {
			p := s.payments[i]
			return &p, nil
		}
	}
	return nil, apperr.NotFound("pagamento não encontrado")
}

func (s *stubPayRepo) List(ctx context.Context, q payment.ListQuery) ([]payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]payment.Payment, len(s.payments))
	copy(items, s.payments)
	if q.Limit > 0 && len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return items, nil
}

func (s *stubPayRepo) CountConfirmed(ctx context.Context, from, to time.Time) (int64, error) {
	return int64(len(s.payments)), nil
}

func (s *stubPayRepo) CountTotal(ctx context.Context) (int64, error) {
	return int64(len(s.payments)), nil
}

func (s *stubPayRepo) SumConfirmed(ctx context.Context, from, to time.Time) (int64, error) {
	var sum int64
	for _, p := range s.payments {
		sum += p.Valor
	}
	return sum, nil
}

func (s *stubPayRepo) FindConfirmedBetween(ctx context.Context, from, to time.Time) ([]payment.Payment, error) {
	return append([]payment.Payment(nil), s.payments...), nil
}

type stubAdminsRepo struct {
	mu     sync.Mutex
	admins []admin.Admin
}

func (s *stubAdminsRepo) Create(ctx context.Context, a *admin.Admin) (*admin.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins = append(s.admins, *a)
	return a, nil
}

func (s *stubAdminsRepo) FindByID(ctx context.Context, id string) (*admin.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].ID == id {
			a := s.admins[i]
			return &a, nil
		}
	}
	return nil, apperr.NotFound("admin não encontrado")
}

func (s *stubAdminsRepo) FindByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].Email == strings.ToLower(email) {
			a := s.admins[i]
			return &a, nil
		}
	}
	return nil, apperr.NotFound("admin não encontrado")
}

func (s *stubAdminsRepo) FindByIDs(ctx context.Context, ids []string) ([]admin.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []admin.Admin
	for _, id := range ids {
		for i := range s.admins {
			if s.admins[i].ID == id {
				out = append(out, s.admins[i])
			}
		}
	}
	return out, nil
}

func (s *stubAdminsRepo) List(ctx context.Context, q admin.ListQuery) ([]admin.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]admin.Admin, len(s.admins))
	copy(items, s.admins)
	sort.Slice(items, func(i, j int) bool { return items[i].Email < items[j].Email })
	if q.Limit > 0 && len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return items, nil
}

func (s *stubAdminsRepo) Update(ctx context.Context, id string, set bson.M) (*admin.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].ID == id {
			if v, ok := set["nome"].(string); ok {
				s.admins[i].Nome = v
			}
			a := s.admins[i]
			return &a, nil
		}
	}
	return nil, apperr.NotFound("admin não encontrado")
}

func (s *stubAdminsRepo) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].ID == id {
			s.admins = append(s.admins[:i], s.admins[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("admin não encontrado")
}

// fakeRedis emula os três comandos que o serviço de auth usa.
type fakeRedis struct {
	mu    sync.Mutex
	store map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: make(map[string]string)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[key] = fmt.Sprint(value)
	return redis.NewStatusCmd(ctx)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringCmd(ctx)
	if val, ok := f.store[key]; ok {
		cmd.SetVal(val)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, key := range keys {
		if _, ok := f.store[key]; ok {
			delete(f.store, key)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

type testEnv struct {
	server    *httptest.Server
	userRepos map[string]*stubUserRepo
	payRepos  map[string]*stubPayRepo
	admins    *admin.Service
	jwt       *auth.JWTManager
	redis     *fakeRedis
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *ErrorBody      `json:"error"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		AsaasWebhookToken: "tok-webhook",
		RateLimitPublic:   config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		RateLimitAuth:     config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
	}

	jwtMgr, err := auth.NewJWTManager(testSecret, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	adminRepo := &stubAdminsRepo{}
	adminSvc := admin.NewService(adminRepo)
	redisFake := newFakeRedis()
	authSvc := service.NewAuthService(adminSvc, redisFake, jwtMgr, time.Hour)

	userRepos := map[string]*stubUserRepo{}
	payRepos := map[string]*stubPayRepo{}
	users := map[string]*user.Service{}
	payments := map[string]*payment.Service{}
	for _, app := range ConsumerApps {
		userRepos[app] = &stubUserRepo{}
		payRepos[app] = &stubPayRepo{}
		users[app] = user.NewService(userRepos[app])
		payments[app] = payment.NewService(payRepos[app])
	}

	srv := httptest.NewServer(NewRouter(cfg, authSvc, adminSvc, users, payments))
	t.Cleanup(srv.Close)

	return &testEnv{
		server:    srv,
		userRepos: userRepos,
		payRepos:  payRepos,
		admins:    adminSvc,
		jwt:       jwtMgr,
		redis:     redisFake,
	}
}

func (e *testEnv) bearer(t *testing.T, role string) string {
	t.Helper()
	tokens, err := e.jwt.GenerateTokens(auth.SessionPayload{
		AdminID: "admin-1",
		Email:   "root@painel.com",
		Role:    role,
		App:     "admin",
	})
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	return "Bearer " + tokens.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func signupBody(email, cpf string) map[string]any {
	return map[string]any{
		"nome":      "Maria",
		"sobrenome": "Silva",
		"email":     email,
		"celular":   "11999990000",
		"cpf":       cpf,
		"senha":     "senha-muito-forte",
	}
}

func TestSignupCreatesUserWithoutSenha(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/apps/esttu/users/signup", "", signupBody("maria@exemplo.com", "123.456.789-09"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, esperado 201", resp.StatusCode)
	}
	if body.Error != nil {
		t.Fatalf("error = %+v", body.Error)
	}

	var created map[string]any
	if err := json.Unmarshal(body.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created["email"] != "maria@exemplo.com" {
		t.Fatalf("email = %v", created["email"])
	}
	if created["cpf"] != "12345678909" {
		t.Fatalf("cpf = %v, esperado normalizado", created["cpf"])
	}
	if _, ok := created["senha"]; ok {
		t.Fatal("resposta não pode conter senha")
	}
}

func TestSignupDuplicateEmailReturns409(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/apps/esttu/users/signup", "", signupBody("maria@exemplo.com", "111.111.111-11"))
	resp, body := env.do(t, http.MethodPost, "/apps/esttu/users/signup", "", signupBody("maria@exemplo.com", "222.222.222-22"))

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, esperado 409", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != apperr.CodeDuplicate {
		t.Fatalf("error = %+v", body.Error)
	}
}

func TestSignupInvalidBodyReturns400(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/apps/esttu/users/signup", "", map[string]any{
		"nome":  "Maria",
		"email": "não-é-email",
		"senha": "curta",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != apperr.CodeValidation {
		t.Fatalf("error = %+v", body.Error)
	}
}

func TestSignupUnknownAppReturns404(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/apps/naoexiste/users/signup", "", signupBody("x@exemplo.com", "111.111.111-11"))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, esperado 404", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != apperr.CodeNotFound {
		t.Fatalf("error = %+v", body.Error)
	}
}

func TestListUsersRequiresBearer(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/apps/esttu/users/", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperado 401", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != apperr.CodeAuth {
		t.Fatalf("error = %+v", body.Error)
	}

	resp, _ = env.do(t, http.MethodGet, "/apps/esttu/users/", "Bearer token-qualquer", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("token inválido: status = %d, esperado 401", resp.StatusCode)
	}
}

func TestListUsersPaginates(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.bearer(t, admin.RoleUser)

	for i, email := range []string{"a@exemplo.com", "b@exemplo.com", "c@exemplo.com"} {
		cpf := fmt.Sprintf("%03d.%03d.%03d-00", i, i, i)
		resp, _ := env.do(t, http.MethodPost, "/apps/esttu/users/signup", "", signupBody(email, cpf))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed %s: status %d", email, resp.StatusCode)
		}
	}

	resp, body := env.do(t, http.MethodGet, "/apps/esttu/users/?limit=2", bearer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var page struct {
		Items       []map[string]any `json:"items"`
		HasNextPage bool             `json:"hasNextPage"`
	}
	if err := json.Unmarshal(body.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Items) != 2 || !page.HasNextPage {
		t.Fatalf("items=%d hasNext=%v, esperado 2/true", len(page.Items), page.HasNextPage)
	}
}

func TestUpdateAdminEmptyBodyReturns400(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.bearer(t, admin.RoleAdmin)

	created, err := env.admins.Create(context.Background(), admin.CreateInput{
		Nome: "Bia", Email: "bia@painel.com", Senha: "senha-forte", Role: admin.RoleUser,
	}, "admin-1")
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	resp, body := env.do(t, http.MethodPatch, "/admins/"+created.ID, bearer, map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != apperr.CodeValidation {
		t.Fatalf("error = %+v", body.Error)
	}
}

func TestAdminWritesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.bearer(t, admin.RoleUser)

	resp, body := env.do(t, http.MethodPost, "/admins/", bearer, map[string]any{
		"nome": "Novo", "email": "novo@painel.com", "senha": "senha-forte", "role": "user", "app": "esttu",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, esperado 403", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "FORBIDDEN" {
		t.Fatalf("error = %+v", body.Error)
	}
}

func TestLoginRefreshLogoutFlow(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.admins.Create(context.Background(), admin.CreateInput{
		Nome: "Raiz", Email: "root@painel.com", Senha: "senha-forte", Role: admin.RoleAdmin, App: "admin",
	}, ""); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	resp, body := env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "root@painel.com", "senha": "senha-errada",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("login com senha errada: status %d", resp.StatusCode)
	}

	resp, body = env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "root@painel.com", "senha": "senha-forte",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d, erro %+v", resp.StatusCode, body.Error)
	}

	var login struct {
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
		Admin map[string]any `json:"admin"`
	}
	if err := json.Unmarshal(body.Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Tokens.AccessToken == "" || login.Tokens.RefreshToken == "" {
		t.Fatal("login sem par de tokens")
	}
	if _, ok := login.Admin["senha"]; ok {
		t.Fatal("login não pode expor senha")
	}

	resp, body = env.do(t, http.MethodGet, "/me", "Bearer "+login.Tokens.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/me: status %d, erro %+v", resp.StatusCode, body.Error)
	}

	resp, body = env.do(t, http.MethodPost, "/auth/refresh", "", map[string]any{
		"refresh_token": login.Tokens.RefreshToken,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: status %d, erro %+v", resp.StatusCode, body.Error)
	}

	// Rotação: o refresh antigo foi revogado e não vale mais.
	resp, body = env.do(t, http.MethodPost, "/auth/refresh", "", map[string]any{
		"refresh_token": login.Tokens.RefreshToken,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("refresh reutilizado: status %d, esperado 401", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != apperr.CodeAuth {
		t.Fatalf("error = %+v", body.Error)
	}
}

func TestWebhookRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/webhooks/asaas/esttu", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("x-asaas-webhook-token", "token-errado")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperado 401", resp.StatusCode)
	}
	var env2 envelope
	if err := json.NewDecoder(resp.Body).Decode(&env2); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env2.Error == nil || env2.Error.Code != apperr.CodeWebhook {
		t.Fatalf("error = %+v", env2.Error)
	}
}

func TestWebhookIngestsAndMarksUserPaid(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/apps/esttu/users/signup", "", signupBody("pagante@exemplo.com", "123.456.789-09"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed user: status %d", resp.StatusCode)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body.Data, &created); err != nil {
		t.Fatalf("decode user: %v", err)
	}

	event := map[string]any{
		"event": "PAYMENT_CONFIRMED",
		"payment": map[string]any{
			"id":                "pay_001",
			"customer":          "cus_001",
			"value":             49.90,
			"billingType":       "PIX",
			"status":            "CONFIRMED",
			"paymentDate":       "2026-02-10",
			"externalReference": created.ID,
		},
	}

	raw, _ := json.Marshal(event)
	send := func() *http.Response {
		req, err := http.NewRequest(http.MethodPost, env.server.URL+"/webhooks/asaas/esttu", bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		req.Header.Set("x-asaas-webhook-token", "tok-webhook")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		return resp
	}

	first := send()
	defer first.Body.Close()
	if first.StatusCode != http.StatusOK {
		t.Fatalf("webhook: status %d", first.StatusCode)
	}

	repo := env.userRepos["esttu"]
	repo.mu.Lock()
	paid := repo.users[0].PagamentoEfetuado
	repo.mu.Unlock()
	if !paid {
		t.Fatal("usuário deveria estar marcado como pagante")
	}

	// Reentrega do mesmo evento é aceita mas não duplica o registro.
	second := send()
	defer second.Body.Close()
	if second.StatusCode != http.StatusOK {
		t.Fatalf("reentrega: status %d", second.StatusCode)
	}
	payRepo := env.payRepos["esttu"]
	payRepo.mu.Lock()
	count := len(payRepo.payments)
	payRepo.mu.Unlock()
	if count != 1 {
		t.Fatalf("pagamentos = %d, esperado 1", count)
	}
}

func TestPaymentStatsRangeValidatesDates(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.bearer(t, admin.RoleUser)

	resp, body := env.do(t, http.MethodGet, "/apps/esttu/payments/stats/range", bearer, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != apperr.CodeValidation {
		t.Fatalf("error = %+v", body.Error)
	}

	resp, _ = env.do(t, http.MethodGet, "/apps/esttu/payments/stats/range?dateFrom=2026-02-01&dateTo=2026-02-28", bearer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", resp.StatusCode)
	}
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, body := env.do(t, http.MethodGet, path, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", path, resp.StatusCode)
		}
		if body.Error != nil {
			t.Fatalf("%s: error %+v", path, body.Error)
		}
	}
}
