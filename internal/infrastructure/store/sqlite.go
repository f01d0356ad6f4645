// Package store provides the SQLite-backed product catalog and the disk
// blob store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/beautylens/backend/internal/domain"
)

// SQLiteRepository implements domain.ProductRepository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens or creates the catalog database at dbPath and
// initializes the schema. Parent directories are created if missing.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		brand TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		analysis_json TEXT NOT NULL,
		price_estimate TEXT NOT NULL,
		image_blob_ref TEXT NOT NULL,
		skin_compatibility TEXT,
		hair_compatibility TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
	CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand);
	CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

const productColumns = `id, brand, name, category, analysis_json, price_estimate,
	image_blob_ref, COALESCE(skin_compatibility, ''), COALESCE(hair_compatibility, ''), created_at`

// Insert stores a new product record and returns its generated id
func (r *SQLiteRepository) Insert(ctx context.Context, product *domain.StoredProduct) (string, error) {
	id := product.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, brand, name, category, analysis_json, price_estimate,
			image_blob_ref, skin_compatibility, hair_compatibility, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, product.Brand, product.Name, string(product.Category), product.AnalysisJSON,
		product.PriceEstimate, product.ImageBlobRef,
		nullable(product.SkinCompatibilityJSON), nullable(product.HairCompatibilityJSON),
		product.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert product: %w", err)
	}
	return id, nil
}

// GetByID returns one product, or nil when the id is unknown
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*domain.StoredProduct, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListAll returns every product, newest first
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]domain.StoredProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Search returns products whose brand or name contains the query,
// case-insensitive. Matching happens in Go: SQLite's built-in lower()
// folds ASCII only, which would miss Cyrillic catalog entries.
func (r *SQLiteRepository) Search(ctx context.Context, query string) ([]domain.StoredProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	matched := make([]domain.StoredProduct, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Brand), query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Update rewrites an existing record. Only the legacy-format migration pass
// uses this; the catalog is otherwise append-only.
func (r *SQLiteRepository) Update(ctx context.Context, product *domain.StoredProduct) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products SET brand = ?, name = ?, category = ?, analysis_json = ?,
			price_estimate = ?, image_blob_ref = ?, skin_compatibility = ?, hair_compatibility = ?
		WHERE id = ?`,
		product.Brand, product.Name, string(product.Category), product.AnalysisJSON,
		product.PriceEstimate, product.ImageBlobRef,
		nullable(product.SkinCompatibilityJSON), nullable(product.HairCompatibilityJSON),
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Close closes the underlying database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// nullable maps an empty string to SQL NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.StoredProduct, error) {
	var p domain.StoredProduct
	var category string
	if err := row.Scan(&p.ID, &p.Brand, &p.Name, &category, &p.AnalysisJSON,
		&p.PriceEstimate, &p.ImageBlobRef,
		&p.SkinCompatibilityJSON, &p.HairCompatibilityJSON, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Category = domain.Category(category)
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]domain.StoredProduct, error) {
	var products []domain.StoredProduct
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
