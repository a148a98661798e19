package user

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/esttuapp/painel/internal/apperr"
)

const collectionName = "users"

// ListQuery descreve filtros e paginação de uma listagem de usuários.
// StartAfter é o valor de `nome` do último item da página anterior.
type ListQuery struct {
	Limit             int
	StartAfter        string
	Search            string
	FilterField       string
	FilterValue       string
	PagamentoEfetuado *bool
}

// Repository traduz consultas tipadas em queries no banco de documentos.
// Cada instância é amarrada ao banco de um único app na construção.
type Repository struct {
	app        string
	collection *mongo.Collection
}

// NewRepository cria repositório preso ao banco do app informado.
func NewRepository(app string, database *mongo.Database) *Repository {
	return &Repository{app: app, collection: database.Collection(collectionName)}
}

// Create insere o usuário e devolve a chave atribuída pelo banco.
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	u.App = r.app
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CPF = NormalizeCPF(u.CPF)

	res, err := r.collection.InsertOne(ctx, u)
	if err != nil {
		return nil, r.fail("Create", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.IDDocument = oid
	}
	return u, nil
}

// FindByID recupera usuário pelo id lógico (UUID).
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "FindByID", bson.M{"id": id})
}

// FindByEmail recupera usuário pelo e-mail normalizado.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return r.findOne(ctx, "FindByEmail", bson.M{"email": normalized})
}

// FindByCPF recupera usuário pelo CPF (somente dígitos).
func (r *Repository) FindByCPF(ctx context.Context, cpf string) (*User, error) {
	return r.findOne(ctx, "FindByCPF", bson.M{"cpf": NormalizeCPF(cpf)})
}

// Update aplica alteração parcial e devolve o documento atualizado.
func (r *Repository) Update(ctx context.Context, id string, set bson.M) (*User, error) {
	set["atualizadoEm"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("usuário não encontrado")
		}
		return nil, r.fail("Update", err)
	}
	return &updated, nil
}

// List executa exatamente um dos três ramos de consulta:
// filtro estruturado, busca livre ou listagem padrão ordenada.
// O chamador pede limit+1 e apara para calcular hasNextPage.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]User, error) {
	if q.FilterField != "" && q.FilterValue != "" {
		return r.listEquality(ctx, q)
	}
	if strings.TrimSpace(q.Search) != "" {
		return r.listSearch(ctx, q)
	}
	return r.listDefault(ctx, q)
}

func (r *Repository) listEquality(ctx context.Context, q ListQuery) ([]User, error) {
	value := q.FilterValue
	switch q.FilterField {
	case "email":
		value = strings.ToLower(strings.TrimSpace(value))
	case "cpf":
		value = NormalizeCPF(value)
	}
	return r.sortedFind(ctx, "List", bson.M{q.FilterField: value}, q.Limit, q.StartAfter)
}

func (r *Repository) listSearch(ctx context.Context, q ListQuery) ([]User, error) {
	term := strings.TrimSpace(q.Search)

	switch ClassifySearch(term) {
	case SearchEmail:
		return r.sortedFind(ctx, "List", bson.M{"email": strings.ToLower(term)}, q.Limit, q.StartAfter)
	case SearchCPF:
		return r.sortedFind(ctx, "List", bson.M{"cpf": NormalizeCPF(term)}, q.Limit, q.StartAfter)
	default:
		return r.listTextPrefix(ctx, q, term)
	}
}

// listTextPrefix roda duas consultas por prefixo (nome e sobrenome) com o
// mesmo cursor e une os resultados deduplicando pela chave do documento.
// Com ordenações divergentes o cursor compartilhado pode pular ou repetir
// itens entre páginas; os clientes do painel dependem dessa paginação.
func (r *Repository) listTextPrefix(ctx context.Context, q ListQuery, term string) ([]User, error) {
	byNome, err := r.prefixFind(ctx, "nome", term, q.Limit, q.StartAfter)
	if err != nil {
		return nil, err
	}
	bySobrenome, err := r.prefixFind(ctx, "sobrenome", term, q.Limit, q.StartAfter)
	if err != nil {
		return nil, err
	}
	return mergePrefixResults(byNome, bySobrenome, q.Limit), nil
}

// mergePrefixResults une os dois conjuntos deduplicando pela chave do
// documento, reordena por nome e apara ao limite. Após a deduplicação a
// página pode ficar menor que o limite mesmo havendo mais resultados.
func mergePrefixResults(byNome, bySobrenome []User, limit int) []User {
	seen := make(map[primitive.ObjectID]struct{}, len(byNome)+len(bySobrenome))
	merged := make([]User, 0, len(byNome)+len(bySobrenome))
	for _, u := range append(byNome, bySobrenome...) {
		if _, ok := seen[u.IDDocument]; ok {
			continue
		}
		seen[u.IDDocument] = struct{}{}
		merged = append(merged, u)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].Nome < merged[j].Nome })

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func (r *Repository) prefixFind(ctx context.Context, field, term string, limit int, startAfter string) ([]User, error) {
	filter := bson.M{field: bson.M{"$gte": term, "$lt": term + prefixUpperBound}}
	if startAfter != "" {
		filter[field] = bson.M{"$gt": startAfter, "$lt": term + prefixUpperBound}
	}

	opts := options.Find().SetSort(bson.D{{Key: field, Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, r.fail("List", err)
	}

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, r.fail("List", err)
	}
	return users, nil
}

func (r *Repository) listDefault(ctx context.Context, q ListQuery) ([]User, error) {
	filter := bson.M{}
	if q.PagamentoEfetuado != nil {
		filter["pagamentoEfetuado"] = *q.PagamentoEfetuado
	}
	return r.sortedFind(ctx, "List", filter, q.Limit, q.StartAfter)
}

// sortedFind aplica ordenação por nome e o cursor startAfter ($gt).
func (r *Repository) sortedFind(ctx context.Context, method string, filter bson.M, limit int, startAfter string) ([]User, error) {
	if startAfter != "" {
		filter["nome"] = bson.M{"$gt": startAfter}
	}

	opts := options.Find().SetSort(bson.D{{Key: "nome", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, r.fail(method, err)
	}

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, r.fail(method, err)
	}
	return users, nil
}

// CountTotal usa agregação de contagem do servidor, sem buscar documentos.
func (r *Repository) CountTotal(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, r.fail("CountTotal", err)
	}
	return total, nil
}

// CountPagos conta usuários com pagamento efetuado.
func (r *Repository) CountPagos(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{"pagamentoEfetuado": true})
	if err != nil {
		return 0, r.fail("CountPagos", err)
	}
	return total, nil
}

func (r *Repository) findOne(ctx context.Context, method string, filter bson.M) (*User, error) {
	var u User
	err := r.collection.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("usuário não encontrado")
		}
		return nil, r.fail(method, err)
	}
	return &u, nil
}

// fail loga a falha com contexto de repositório e método e normaliza
// para erro de persistência; o tipo do erro do banco nunca vaza.
func (r *Repository) fail(method string, err error) error {
	log.Error().Err(err).Str("repo", "user").Str("method", method).Str("app", r.app).Msg("falha no banco de documentos")
	return apperr.Persistence(err)
}
