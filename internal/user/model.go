package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User representa um usuário final dos apps esttu/gittu.
// Campos acadêmicos (esttu) e médicos (gittu) são opcionais conforme o app.
type User struct {
	// IDDocument é a chave atribuída pelo banco, distinta do id lógico.
	IDDocument primitive.ObjectID `bson:"_id,omitempty" json:"idDocument"`

	ID        string `bson:"id" json:"id"`
	Nome      string `bson:"nome" json:"nome"`
	Sobrenome string `bson:"sobrenome" json:"sobrenome"`
	Email     string `bson:"email" json:"email"`
	Celular   string `bson:"celular" json:"celular"`
	CPF       string `bson:"cpf" json:"cpf"`
	RG        string `bson:"rg,omitempty" json:"rg,omitempty"`

	Instituicao string `bson:"instituicao,omitempty" json:"instituicao,omitempty"`
	Curso       string `bson:"curso,omitempty" json:"curso,omitempty"`

	CID           string `bson:"cid,omitempty" json:"cid,omitempty"`
	TipoSanguineo string `bson:"tipoSanguineo,omitempty" json:"tipoSanguineo,omitempty"`

	PagamentoEfetuado bool       `bson:"pagamentoEfetuado" json:"pagamentoEfetuado"`
	DataPagamento     *time.Time `bson:"dataPagamento,omitempty" json:"dataPagamento,omitempty"`

	// SenhaHash nunca é serializado para o cliente.
	SenhaHash string `bson:"senha" json:"-"`

	App          string    `bson:"app" json:"app"`
	CriadoEm     time.Time `bson:"criadoEm" json:"criadoEm"`
	AtualizadoEm time.Time `bson:"atualizadoEm" json:"atualizadoEm"`
}

// Page é o resultado de uma listagem paginada por cursor.
type Page struct {
	Items       []User `json:"items"`
	HasNextPage bool   `json:"hasNextPage"`
}

// Stats agrega contadores para o dashboard.
type Stats struct {
	Total int64 `json:"total"`
	Pagos int64 `json:"pagos"`
}
