package payment

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/esttuapp/painel/internal/apperr"
)

const collectionName = "payments"

// ListQuery descreve filtros e paginação de uma listagem de pagamentos.
// StartAfter é o valor de dataPagamento do último item da página anterior,
// em RFC3339.
type ListQuery struct {
	Limit      int
	StartAfter string
	Status     string
	Metodo     string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// Repository consulta a coleção de pagamentos de um único app.
type Repository struct {
	app        string
	collection *mongo.Collection
}

// NewRepository cria repositório preso ao banco do app informado.
func NewRepository(app string, database *mongo.Database) *Repository {
	return &Repository{app: app, collection: database.Collection(collectionName)}
}

// Create insere o pagamento; nenhum caminho visível o altera depois.
func (r *Repository) Create(ctx context.Context, p *Payment) (*Payment, error) {
	p.App = r.app
	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return nil, r.fail("Create", err)
	}
	return p, nil
}

// FindByID recupera pagamento pela chave do documento.
func (r *Repository) FindByID(ctx context.Context, id string) (*Payment, error) {
	return r.findOne(ctx, "FindByID", bson.M{"_id": id})
}

// FindByAsaasID recupera pagamento pela referência do gateway.
func (r *Repository) FindByAsaasID(ctx context.Context, asaasID string) (*Payment, error) {
	return r.findOne(ctx, "FindByAsaasID", bson.M{"asaasId": asaasID})
}

// List devolve pagamentos ordenados por dataPagamento decrescente,
// com filtros opcionais de status, método e intervalo de datas.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]Payment, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Metodo != "" {
		filter["metodo"] = q.Metodo
	}

	dateFilter := bson.M{}
	if q.DateFrom != nil {
		dateFilter["$gte"] = DayStart(*q.DateFrom)
	}
	if q.DateTo != nil {
		dateFilter["$lte"] = DayEnd(*q.DateTo)
	}
	if q.StartAfter != "" {
		cursorTime, err := time.Parse(time.RFC3339Nano, q.StartAfter)
		if err != nil {
			return nil, apperr.Validation("cursor startAfter inválido", nil)
		}
		dateFilter["$lt"] = cursorTime
	}
	if len(dateFilter) > 0 {
		filter["dataPagamento"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "dataPagamento", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, r.fail("List", err)
	}

	var payments []Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, r.fail("List", err)
	}
	return payments, nil
}

// CountConfirmed conta pagamentos efetivados no intervalo (dias UTC).
func (r *Repository) CountConfirmed(ctx context.Context, from, to time.Time) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, r.confirmedFilter(from, to))
	if err != nil {
		return 0, r.fail("CountConfirmed", err)
	}
	return total, nil
}

// CountTotal conta todos os pagamentos registrados.
func (r *Repository) CountTotal(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, r.fail("CountTotal", err)
	}
	return total, nil
}

// SumConfirmed soma os valores efetivados no intervalo (dias UTC).
func (r *Repository) SumConfirmed(ctx context.Context, from, to time.Time) (int64, error) {
	cursor, err := r.collection.Find(ctx, r.confirmedFilter(from, to))
	if err != nil {
		return 0, r.fail("SumConfirmed", err)
	}

	var payments []Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return 0, r.fail("SumConfirmed", err)
	}

	var sum int64
	for _, p := range payments {
		sum += p.Valor
	}
	return sum, nil
}

// FindConfirmedBetween busca pagamentos efetivados no intervalo (dias UTC),
// usado pelo agrupamento por dia do gráfico.
func (r *Repository) FindConfirmedBetween(ctx context.Context, from, to time.Time) ([]Payment, error) {
	cursor, err := r.collection.Find(ctx, r.confirmedFilter(from, to))
	if err != nil {
		return nil, r.fail("FindConfirmedBetween", err)
	}

	var payments []Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, r.fail("FindConfirmedBetween", err)
	}
	return payments, nil
}

func (r *Repository) confirmedFilter(from, to time.Time) bson.M {
	return bson.M{
		"status": bson.M{"$in": confirmedStatuses},
		"dataPagamento": bson.M{
			"$gte": DayStart(from),
			"$lte": DayEnd(to),
		},
	}
}

func (r *Repository) findOne(ctx context.Context, method string, filter bson.M) (*Payment, error) {
	var p Payment
	err := r.collection.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("pagamento não encontrado")
		}
		return nil, r.fail(method, err)
	}
	return &p, nil
}

func (r *Repository) fail(method string, err error) error {
	log.Error().Err(err).Str("repo", "payment").Str("method", method).Str("app", r.app).Msg("falha no banco de documentos")
	return apperr.Persistence(err)
}
