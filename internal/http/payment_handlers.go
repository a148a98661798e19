package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/esttuapp/painel/internal/apperr"
	"github.com/esttuapp/painel/internal/payment"
)

// ListPayments pagina pagamentos com filtros de status, método e datas.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	svc, err := h.paymentService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	query := r.URL.Query()

	params := payment.ListParams{
		Limit:      parseLimit(query.Get("limit")),
		StartAfter: query.Get("startAfter"),
		Status:     query.Get("status"),
		Metodo:     query.Get("metodo"),
	}

	from, to, err := parseDateRange(query.Get("dateFrom"), query.Get("dateTo"), false)
	if err != nil {
		Dispatch(w, err)
		return
	}
	params.DateFrom = from
	params.DateTo = to

	page, err := svc.List(r.Context(), params)
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// GetPayment busca um pagamento pelo id.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	svc, err := h.paymentService(r)
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

// PaymentStatsToday reduz os pagamentos efetivados de hoje.
func (h *Handler) PaymentStatsToday(w http.ResponseWriter, r *http.Request) {
	svc, err := h.paymentService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	summary, err := svc.SummaryToday(r.Context())
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// PaymentStatsMonth reduz os efetivados do mês corrente.
func (h *Handler) PaymentStatsMonth(w http.ResponseWriter, r *http.Request) {
	svc, err := h.paymentService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	summary, err := svc.SummaryCurrentMonth(r.Context())
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// PaymentStatsRange reduz um intervalo arbitrário (dateFrom/dateTo).
func (h *Handler) PaymentStatsRange(w http.ResponseWriter, r *http.Request) {
	svc, err := h.paymentService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	query := r.URL.Query()
	from, to, err := parseDateRange(query.Get("dateFrom"), query.Get("dateTo"), true)
	if err != nil {
		Dispatch(w, err)
		return
	}

	summary, err := svc.SummaryRange(r.Context(), *from, *to)
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// PaymentStatsTotal devolve o total de pagamentos registrados.
func (h *Handler) PaymentStatsTotal(w http.ResponseWriter, r *http.Request) {
	svc, err := h.paymentService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	total, err := svc.CountAll(r.Context())
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int64{"total": total})
}

// PaymentChart agrupa os efetivados do intervalo por dia civil UTC.
func (h *Handler) PaymentChart(w http.ResponseWriter, r *http.Request) {
	svc, err := h.paymentService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	query := r.URL.Query()
	from, to, err := parseDateRange(query.Get("dateFrom"), query.Get("dateTo"), true)
	if err != nil {
		Dispatch(w, err)
		return
	}

	buckets, err := svc.CountsByDay(r.Context(), *from, *to)
	if err != nil {
		Dispatch(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buckets)
}

// parseDateRange interpreta dateFrom/dateTo no formato 2006-01-02.
func parseDateRange(rawFrom, rawTo string, required bool) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if rawFrom != "" {
		ts, err := time.Parse("2006-01-02", rawFrom)
		if err != nil {
			return nil, nil, apperr.Validation("dateFrom inválido", nil)
		}
		from = &ts
	}
	if rawTo != "" {
		ts, err := time.Parse("2006-01-02", rawTo)
		if err != nil {
			return nil, nil, apperr.Validation("dateTo inválido", nil)
		}
		to = &ts
	}

	if required && (from == nil || to == nil) {
		return nil, nil, apperr.Validation("dateFrom e dateTo são obrigatórios", nil)
	}
	return from, to, nil
}
