package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/esttuapp/painel/internal/apperr"
	"github.com/esttuapp/painel/internal/payment"
)

// webhookTokenHeader é o token compartilhado configurado no gateway.
const webhookTokenHeader = "x-asaas-webhook-token"

// AsaasWebhook recebe eventos de cobrança do gateway. A validação é por
// token compartilhado no header, não por assinatura HMAC.
func (h *Handler) AsaasWebhook(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(webhookTokenHeader)
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.AsaasWebhookToken)) != 1 {
		Dispatch(w, apperr.Webhook("token de webhook inválido"))
		return
	}

	paymentSvc, err := h.paymentService(r)
	if err != nil {
		Dispatch(w, err)
		return
	}

	var ev payment.GatewayEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		Dispatch(w, apperr.Validation("JSON inválido", nil))
		return
	}

	ingested, created, err := paymentSvc.Ingest(r.Context(), ev)
	if err != nil {
		Dispatch(w, err)
		return
	}

	// Pagamento efetivado marca o usuário como pagante; falha aqui não
	// derruba o webhook, o gateway reenviaria o evento inteiro.
	if created && ingested.UserID != "" && isConfirmed(ingested.Status) {
		userSvc, err := h.userService(r)
		if err == nil {
			if err := userSvc.MarkPaid(r.Context(), ingested.UserID, ingested.DataPagamento); err != nil {
				log.Warn().Err(err).Str("userId", ingested.UserID).Msg("webhook: falha ao marcar pagamento do usuário")
			}
		}
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func isConfirmed(status string) bool {
	return status == payment.StatusConfirmed || status == payment.StatusReceived
}
