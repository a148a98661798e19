package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/esttuapp/painel/internal/admin"
	"github.com/esttuapp/painel/internal/apperr"
	"github.com/esttuapp/painel/internal/config"
	httpmiddleware "github.com/esttuapp/painel/internal/http/middleware"
	"github.com/esttuapp/painel/internal/payment"
	"github.com/esttuapp/painel/internal/service"
	"github.com/esttuapp/painel/internal/user"
)

// ConsumerApps são os apps com usuários e pagamentos próprios.
var ConsumerApps = []string{"esttu", "gittu"}

// Handler agrupa as dependências dos handlers HTTP.
type Handler struct {
	cfg           *config.Config
	authService   *service.AuthService
	admins        *admin.Service
	users         map[string]*user.Service
	payments      map[string]*payment.Service
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter devolve roteador configurado com os serviços injetados.
func NewRouter(
	cfg *config.Config,
	authService *service.AuthService,
	admins *admin.Service,
	users map[string]*user.Service,
	payments map[string]*payment.Service,
) http.Handler {
	h := &Handler{
		cfg:           cfg,
		authService:   authService,
		admins:        admins,
		users:         users,
		payments:      payments,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)

		public.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Login)
			auth.Post("/refresh", h.Refresh)
			auth.Post("/logout", h.Logout)
		})

		public.Post("/apps/{app}/users/signup", h.SignupUser)
		public.Post("/webhooks/asaas/{app}", h.AsaasWebhook)
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(h.authService.JWT()))
		private.Use(httpmiddleware.SessionRateLimit(h.authLimiter))

		private.Get("/me", h.Me)

		private.Route("/apps/{app}/users", func(u chi.Router) {
			u.Get("/", h.ListUsers)
			u.Post("/", h.SignupUser)
			u.Get("/stats", h.UserStats)
			u.Get("/{id}", h.GetUser)
			u.Patch("/{id}", h.UpdateUser)
		})

		private.Route("/apps/{app}/payments", func(p chi.Router) {
			p.Get("/", h.ListPayments)
			p.Get("/chart", h.PaymentChart)
			p.Get("/stats/today", h.PaymentStatsToday)
			p.Get("/stats/month", h.PaymentStatsMonth)
			p.Get("/stats/range", h.PaymentStatsRange)
			p.Get("/stats/total", h.PaymentStatsTotal)
			p.Get("/{id}", h.GetPayment)
		})

		private.Route("/admins", func(a chi.Router) {
			a.Get("/", h.ListAdmins)
			a.Get("/{id}", h.GetAdmin)

			a.Group(func(writes chi.Router) {
				writes.Use(httpmiddleware.RequireAdminRole)
				writes.Post("/", h.CreateAdmin)
				writes.Patch("/{id}", h.UpdateAdmin)
				writes.Delete("/{id}", h.DeleteAdmin)
			})
		})
	})

	return r
}

// Health responde liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready responde readiness.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// userService resolve o serviço de usuários do app da URL.
func (h *Handler) userService(r *http.Request) (*user.Service, error) {
	app := chi.URLParam(r, "app")
	svc, ok := h.users[app]
	if !ok {
		return nil, apperr.NotFound("app desconhecido")
	}
	return svc, nil
}

// paymentService resolve o serviço de pagamentos do app da URL.
func (h *Handler) paymentService(r *http.Request) (*payment.Service, error) {
	app := chi.URLParam(r, "app")
	svc, ok := h.payments[app]
	if !ok {
		return nil, apperr.NotFound("app desconhecido")
	}
	return svc, nil
}
