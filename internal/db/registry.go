package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/esttuapp/painel/internal/config"
)

// Registry mantém uma conexão por app (esttu, gittu, admin), construída
// uma única vez na inicialização e injetada nos repositórios.
type Registry struct {
	clients   map[string]*mongo.Client
	databases map[string]*mongo.Database
}

// Open conecta e valida (ping) o banco de cada app configurado.
func Open(ctx context.Context, cfg *config.Config) (*Registry, error) {
	reg := &Registry{
		clients:   make(map[string]*mongo.Client, len(cfg.Apps)),
		databases: make(map[string]*mongo.Database, len(cfg.Apps)),
	}

	for app, appCfg := range cfg.Apps {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
		if err != nil {
			_ = reg.Close(ctx)
			return nil, fmt.Errorf("mongo connect (%s): %w", app, err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			_ = reg.Close(ctx)
			return nil, fmt.Errorf("mongo ping (%s): %w", app, err)
		}
		reg.clients[app] = client
		reg.databases[app] = client.Database(appCfg.Database)
	}

	return reg, nil
}

// App devolve o banco associado ao escopo informado.
func (r *Registry) App(name string) (*mongo.Database, error) {
	database, ok := r.databases[name]
	if !ok {
		return nil, fmt.Errorf("app desconhecido: %s", name)
	}
	return database, nil
}

// Close encerra todas as conexões abertas.
func (r *Registry) Close(ctx context.Context) error {
	var firstErr error
	for app, client := range r.clients {
		if err := client.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("mongo disconnect (%s): %w", app, err)
		}
	}
	return firstErr
}
