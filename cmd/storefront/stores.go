package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/cart"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/catalog"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/config"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/database"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/orders"
	"go.mongodb.org/mongo-driver/mongo"
)

// stores holds the persistence backends selected by configuration.
type stores struct {
	sessions cart.SessionRepository
	catalog  catalog.Repository
	orders   orders.Store
	closers  []func(context.Context) error
}

func (s *stores) close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Printf("close store: %v", err)
		}
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	s := &stores{}

	var mongoDB *mongo.Database
	if cfg.StoreBackend == config.BackendMongo || cfg.OrderStore == config.BackendMongo {
		db, err := database.ConnectMongoDB(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		mongoDB = db
		s.closers = append(s.closers, func(ctx context.Context) error { return db.Client().Disconnect(ctx) })
		log.Printf("Connected to MongoDB database %s", cfg.Mongo.Database)
	}

	switch cfg.StoreBackend {
	case config.BackendMongo:
		sessions := cart.NewMongoRepository(mongoDB)
		if err := sessions.CreateIndexes(ctx); err != nil {
			s.close(ctx)
			return nil, fmt.Errorf("cart indexes: %w", err)
		}
		products := catalog.NewMongoRepository(mongoDB)
		if err := products.CreateIndexes(ctx); err != nil {
			s.close(ctx)
			return nil, fmt.Errorf("catalog indexes: %w", err)
		}
		s.sessions, s.catalog = sessions, products
	default:
		log.Println("Using in-memory session and catalog stores")
		s.sessions, s.catalog = cart.NewMemoryRepository(), catalog.NewMemoryRepository()
	}

	switch cfg.OrderStore {
	case config.BackendMongo:
		store := orders.NewMongoStore(mongoDB)
		if err := store.CreateIndexes(ctx); err != nil {
			s.close(ctx)
			return nil, fmt.Errorf("order indexes: %w", err)
		}
		s.orders = store
	case config.BackendPostgres:
		db, err := database.OpenPostgres(cfg.Postgres)
		if err != nil {
			s.close(ctx)
			return nil, err
		}
		store := orders.NewPostgresStore(db)
		s.closers = append(s.closers, func(context.Context) error { return store.Close() })
		migrations := orders.Migrations()
		if dir := cfg.Postgres.MigrationsDirPath; dir != "" {
			migrations = os.DirFS(dir)
		}
		if err := database.RunMigrations(db, migrations, "orders_schema_migrations"); err != nil {
			s.close(ctx)
			return nil, err
		}
		log.Println("Database migrations completed")
		s.orders = store
	default:
		log.Println("Using in-memory order store")
		s.orders = orders.NewMemoryStore()
	}

	return s, nil
}
