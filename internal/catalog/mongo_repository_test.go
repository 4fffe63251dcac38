package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/database"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) *MongoRepository {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := database.ConnectMongoDB(ctx, database.MongoOptions{URI: uri, Database: "testdb"})
	require.NoError(t, err)

	repo := NewMongoRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))
	return repo
}

func TestMongoRepository_Categories(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateCategory(ctx, &domain.Category{ID: "c1", Name: "Rings", CreatedAt: time.Now()}))
	err := repo.CreateCategory(ctx, &domain.Category{ID: "c2", Name: "rings", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	c, err := repo.GetCategoryByName(ctx, "RINGS")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)

	_, err = repo.GetCategoryByName(ctx, "Anklets")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestMongoRepository_Products(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	older := &domain.Product{ID: "p1", Name: "Topaz", Price: 4500, CountInStock: 3, CreatedAt: time.Now().Add(-time.Hour)}
	newer := &domain.Product{ID: "p2", Name: "Ruby", Price: 1355900, CountInStock: 1, CreatedAt: time.Now()}
	require.NoError(t, repo.CreateProduct(ctx, older))
	require.NoError(t, repo.CreateProduct(ctx, newer))

	p, err := repo.GetProduct(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1355900), p.Price)

	all, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p2", all[0].ID)

	_, err = repo.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
