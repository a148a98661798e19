package admin

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Papéis aceitos para administradores.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Admin representa um operador do painel.
type Admin struct {
	IDDocument primitive.ObjectID `bson:"_id,omitempty" json:"idDocument"`

	ID    string `bson:"id" json:"id"`
	Nome  string `bson:"nome" json:"nome"`
	Email string `bson:"email" json:"email"`
	Role  string `bson:"role" json:"role"`
	App   string `bson:"app" json:"app"`

	// SenhaHash nunca é serializado para o cliente.
	SenhaHash string `bson:"senha" json:"-"`

	// Trilha de auditoria: ids do admin criador e do último editor.
	AdminRegister string `bson:"adminRegister,omitempty" json:"adminRegister,omitempty"`
	AdminUpdated  string `bson:"adminUpdated,omitempty" json:"adminUpdated,omitempty"`

	CriadoEm     time.Time `bson:"criadoEm" json:"criadoEm"`
	AtualizadoEm time.Time `bson:"atualizadoEm" json:"atualizadoEm"`
}

// View é o Admin devolvido nas listagens, com os nomes da trilha
// de auditoria já resolvidos.
type View struct {
	Admin
	AdminRegisterNome string `json:"adminRegisterNome,omitempty"`
	AdminUpdatedNome  string `json:"adminUpdatedNome,omitempty"`
}

// Page é o resultado de uma listagem paginada por cursor.
type Page struct {
	Items       []View `json:"items"`
	HasNextPage bool   `json:"hasNextPage"`
}

// IsValidRole valida o papel informado.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
