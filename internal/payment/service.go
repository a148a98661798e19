package payment

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/esttuapp/painel/internal/apperr"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type repository interface {
	Create(ctx context.Context, p *Payment) (*Payment, error)
	FindByID(ctx context.Context, id string) (*Payment, error)
	FindByAsaasID(ctx context.Context, asaasID string) (*Payment, error)
	List(ctx context.Context, q ListQuery) ([]Payment, error)
	CountConfirmed(ctx context.Context, from, to time.Time) (int64, error)
	CountTotal(ctx context.Context) (int64, error)
	SumConfirmed(ctx context.Context, from, to time.Time) (int64, error)
	FindConfirmedBetween(ctx context.Context, from, to time.Time) ([]Payment, error)
}

// Service orquestra ingestão de eventos do gateway e agregações.
type Service struct {
	repo repository
}

// NewService cria o serviço de pagamentos de um app.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// GatewayEvent é o recorte do webhook do Asaas que o painel consome.
type GatewayEvent struct {
	Event   string `json:"event"`
	Payment struct {
		ID                string  `json:"id"`
		Customer          string  `json:"customer"`
		Value             float64 `json:"value"` // reais
		BillingType       string  `json:"billingType"`
		Status            string  `json:"status"`
		PaymentDate       string  `json:"paymentDate"`
		ConfirmedDate     string  `json:"confirmedDate"`
		ExternalReference string  `json:"externalReference"`
	} `json:"payment"`
}

// Ingest registra o evento uma única vez; reentrega do mesmo asaasId é
// no-op e devolve o registro existente.
func (s *Service) Ingest(ctx context.Context, ev GatewayEvent) (*Payment, bool, error) {
	if ev.Payment.ID == "" {
		return nil, false, apperr.Validation("evento sem id de pagamento", nil)
	}

	if existing, err := s.repo.FindByAsaasID(ctx, ev.Payment.ID); err == nil {
		return existing, false, nil
	} else if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	created, err := s.repo.Create(ctx, &Payment{
		ID:              uuid.NewString(),
		UserID:          ev.Payment.ExternalReference,
		AsaasID:         ev.Payment.ID,
		AsaasCustomerID: ev.Payment.Customer,
		Valor:           int64(math.Round(ev.Payment.Value * 100)),
		Metodo:          normalizeMetodo(ev.Payment.BillingType),
		Status:          strings.ToUpper(strings.TrimSpace(ev.Payment.Status)),
		DataPagamento:   eventDate(ev),
		CriadoEm:        time.Now().UTC(),
	})
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// Get busca pagamento por id.
func (s *Service) Get(ctx context.Context, id string) (*Payment, error) {
	return s.repo.FindByID(ctx, id)
}

// ListParams espelha os parâmetros de query da listagem.
type ListParams struct {
	Limit      int
	StartAfter string
	Status     string
	Metodo     string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// List pagina pagamentos com a mesma mecânica limite+1 dos usuários.
func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	items, err := s.repo.List(ctx, ListQuery{
		Limit:      limit + 1,
		StartAfter: params.StartAfter,
		Status:     params.Status,
		Metodo:     params.Metodo,
		DateFrom:   params.DateFrom,
		DateTo:     params.DateTo,
	})
	if err != nil {
		return nil, err
	}

	hasNext := len(items) > limit
	if hasNext {
		items = items[:limit]
	}
	return &Page{Items: items, HasNextPage: hasNext}, nil
}

// SummaryToday reduz os pagamentos efetivados de hoje (dia civil UTC).
func (s *Service) SummaryToday(ctx context.Context) (*Summary, error) {
	now := time.Now().UTC()
	return s.SummaryRange(ctx, now, now)
}

// SummaryCurrentMonth reduz os efetivados do mês corrente (UTC).
func (s *Service) SummaryCurrentMonth(ctx context.Context) (*Summary, error) {
	now := time.Now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.SummaryRange(ctx, first, now)
}

// SummaryRange reduz um intervalo arbitrário a contagem e soma.
func (s *Service) SummaryRange(ctx context.Context, from, to time.Time) (*Summary, error) {
	count, err := s.repo.CountConfirmed(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sum, err := s.repo.SumConfirmed(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &Summary{Count: count, Total: sum}, nil
}

// CountAll devolve o total de pagamentos registrados.
func (s *Service) CountAll(ctx context.Context) (int64, error) {
	return s.repo.CountTotal(ctx)
}

// CountsByDay agrupa os efetivados do intervalo por dia civil UTC,
// alimentando o gráfico do dashboard.
func (s *Service) CountsByDay(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	payments, err := s.repo.FindConfirmedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return BucketByDay(payments), nil
}

func normalizeMetodo(billingType string) string {
	switch strings.ToUpper(strings.TrimSpace(billingType)) {
	case "CREDIT_CARD":
		return MetodoCartao
	case "PIX":
		return MetodoPix
	case "BOLETO":
		return MetodoBoleto
	default:
		return strings.ToLower(strings.TrimSpace(billingType))
	}
}

// eventDate prefere a data de pagamento do gateway; cai para a data de
// confirmação e por fim para o instante da ingestão.
func eventDate(ev GatewayEvent) time.Time {
	for _, raw := range []string{ev.Payment.PaymentDate, ev.Payment.ConfirmedDate} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			return ts.UTC()
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}
