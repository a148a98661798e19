package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/esttuapp/painel/internal/apperr"
)

const collectionName = "admins"

// ListQuery descreve a paginação da listagem de admins.
// StartAfter é o e-mail do último item da página anterior.
type ListQuery struct {
	Limit      int
	StartAfter string
}

// Repository consulta a coleção de administradores (banco admin).
type Repository struct {
	collection *mongo.Collection
}

// NewRepository cria o repositório sobre o banco administrativo.
func NewRepository(database *mongo.Database) *Repository {
	return &Repository{collection: database.Collection(collectionName)}
}

// Create insere novo admin.
func (r *Repository) Create(ctx context.Context, a *Admin) (*Admin, error) {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))

	res, err := r.collection.InsertOne(ctx, a)
	if err != nil {
		return nil, r.fail("Create", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.IDDocument = oid
	}
	return a, nil
}

// FindByID recupera admin pelo id lógico.
func (r *Repository) FindByID(ctx context.Context, id string) (*Admin, error) {
	return r.findOne(ctx, "FindByID", bson.M{"id": id})
}

// FindByEmail recupera admin pelo e-mail normalizado.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return r.findOne(ctx, "FindByEmail", bson.M{"email": normalized})
}

// FindByIDs busca em lote pelos ids informados ($in), para resolução
// dos nomes da trilha de auditoria.
func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]Admin, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, r.fail("FindByIDs", err)
	}

	var admins []Admin
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, r.fail("FindByIDs", err)
	}
	return admins, nil
}

// List devolve admins ordenados por e-mail com cursor startAfter.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]Admin, error) {
	filter := bson.M{}
	if q.StartAfter != "" {
		filter["email"] = bson.M{"$gt": q.StartAfter}
	}

	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, r.fail("List", err)
	}

	var admins []Admin
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, r.fail("List", err)
	}
	return admins, nil
}

// Update aplica alteração parcial e devolve o documento atualizado.
func (r *Repository) Update(ctx context.Context, id string, set bson.M) (*Admin, error) {
	set["atualizadoEm"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Admin
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("admin não encontrado")
		}
		return nil, r.fail("Update", err)
	}
	return &updated, nil
}

// Delete remove definitivamente um admin.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return r.fail("Delete", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("admin não encontrado")
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, method string, filter bson.M) (*Admin, error) {
	var a Admin
	err := r.collection.FindOne(ctx, filter).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("admin não encontrado")
		}
		return nil, r.fail(method, err)
	}
	return &a, nil
}

func (r *Repository) fail(method string, err error) error {
	log.Error().Err(err).Str("repo", "admin").Str("method", method).Msg("falha no banco de documentos")
	return apperr.Persistence(err)
}
