package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautylens/backend/internal/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleProduct(brand, name string) *domain.StoredProduct {
	return &domain.StoredProduct{
		Brand:                 brand,
		Name:                  name,
		Category:              domain.CategorySkin,
		AnalysisJSON:          `{"pros":[],"cons":[],"hazards":"low","ingredients":[]}`,
		PriceEstimate:         "500 ₽",
		ImageBlobRef:          "blob.jpg",
		SkinCompatibilityJSON: `{"dry":{"status":"good","score":80}}`,
	}
}

func TestSQLiteRepository_InsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, sampleProduct("Nivea", "Soft"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Nivea", got.Brand)
	assert.Equal(t, "Soft", got.Name)
	assert.Equal(t, domain.CategorySkin, got.Category)
	assert.Equal(t, `{"dry":{"status":"good","score":80}}`, got.SkinCompatibilityJSON)
	assert.Empty(t, got.HairCompatibilityJSON)
}

func TestSQLiteRepository_GetByID_Unknown(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteRepository_ListAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := sampleProduct("Nivea", "Soft")
	first.CreatedAt = 100
	second := sampleProduct("Garnier", "Pure Active")
	second.CreatedAt = 200

	_, err := repo.Insert(ctx, first)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, second)
	require.NoError(t, err)

	products, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Garnier", products[0].Brand, "newest first")
}

func TestSQLiteRepository_Search(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, sampleProduct("Nivea", "Micellar Water"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, sampleProduct("Garnier", "Night Cream"))
	require.NoError(t, err)

	t.Run("matches name substring case-insensitively", func(t *testing.T) {
		products, err := repo.Search(ctx, "micellar")
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Micellar Water", products[0].Name)
	})

	t.Run("matches brand substring", func(t *testing.T) {
		products, err := repo.Search(ctx, "garn")
		require.NoError(t, err)
		require.Len(t, products, 1)
	})

	t.Run("no match yields empty", func(t *testing.T) {
		products, err := repo.Search(ctx, "loreal")
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestSQLiteRepository_Search_Cyrillic(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, sampleProduct("Чистая Линия", "Мицеллярная вода"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, sampleProduct("Nivea", "Night Cream"))
	require.NoError(t, err)

	t.Run("lowercase query matches mixed-case brand", func(t *testing.T) {
		products, err := repo.Search(ctx, "чистая")
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Чистая Линия", products[0].Brand)
	})

	t.Run("uppercase query matches name", func(t *testing.T) {
		products, err := repo.Search(ctx, "МИЦЕЛЛЯРНАЯ")
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Мицеллярная вода", products[0].Name)
	})
}

func TestSQLiteRepository_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	product := sampleProduct("Nivea", "Soft")
	id, err := repo.Insert(ctx, product)
	require.NoError(t, err)

	product.ID = id
	product.SkinCompatibilityJSON = `{"dry":{"status":"bad","score":20}}`
	require.NoError(t, repo.Update(ctx, product))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, `{"dry":{"status":"bad","score":20}}`, got.SkinCompatibilityJSON)

	t.Run("unknown id", func(t *testing.T) {
		missing := sampleProduct("X", "Y")
		missing.ID = "missing"
		assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrProductNotFound)
	})
}

func TestDiskBlobStore(t *testing.T) {
	blobs, err := NewDiskBlobStore(t.TempDir(), "/blobs/")
	require.NoError(t, err)

	ref, err := blobs.Store(context.Background(), []byte("jpeg bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, ref)

	assert.Equal(t, "/blobs/"+ref, blobs.URL(ref))
	assert.Empty(t, blobs.URL(""))
}
