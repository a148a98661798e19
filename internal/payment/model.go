package payment

import "time"

// Métodos de pagamento aceitos pelo gateway.
const (
	MetodoCartao = "credit_card"
	MetodoPix    = "pix"
	MetodoBoleto = "boleto"
)

// Estados do gateway reconhecidos pelo painel.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusReceived  = "RECEIVED"
	StatusOverdue   = "OVERDUE"
	StatusRefunded  = "REFUNDED"
	StatusCancelled = "CANCELLED"
)

// Payment registra um evento de cobrança vindo do gateway.
// Imutável após a criação; apenas consultado e agregado.
type Payment struct {
	// ID (UUID) também é a chave do documento no banco.
	ID              string     `bson:"_id" json:"id"`
	UserID          string     `bson:"userId" json:"userId"`
	AsaasID         string     `bson:"asaasId" json:"asaasId"`
	AsaasCustomerID string     `bson:"asaasCustomerId,omitempty" json:"asaasCustomerId,omitempty"`
	Valor           int64      `bson:"valor" json:"valor"` // centavos
	Metodo          string     `bson:"metodo" json:"metodo"`
	Status          string     `bson:"status" json:"status"`

	// DataPagamento é o instante do pagamento no gateway,
	// distinto de CriadoEm (ingestão do webhook).
	DataPagamento time.Time `bson:"dataPagamento" json:"dataPagamento"`

	App      string    `bson:"app" json:"app"`
	CriadoEm time.Time `bson:"criadoEm" json:"criadoEm"`
}

// Page é o resultado de uma listagem paginada por cursor.
type Page struct {
	Items       []Payment `json:"items"`
	HasNextPage bool      `json:"hasNextPage"`
}

// Summary reduz um intervalo a contagem e soma.
type Summary struct {
	Count int64 `json:"count"`
	Total int64 `json:"total"` // centavos
}

// confirmedStatuses são os estados que contam como pagamento efetivado.
var confirmedStatuses = []string{StatusConfirmed, StatusReceived}
