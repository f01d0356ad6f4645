package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/beautylens/backend/internal/domain"
)

// MigrationService rewrites stored products still carrying the legacy
// compatibility encoding (bare status strings) into the structured
// {status, score} form. Intended as an explicit one-time pass; running it
// again is harmless because reconciliation is idempotent.
type MigrationService struct {
	products domain.ProductRepository
	log      *zap.SugaredLogger
}

// NewMigrationService creates a migration service
func NewMigrationService(products domain.ProductRepository, log *zap.SugaredLogger) *MigrationService {
	return &MigrationService{products: products, log: log}
}

// MigrateLegacyCompatibility scans the whole catalog and rewrites records
// whose compatibility maps contain string-only entries. Returns the number
// of records rewritten.
func (m *MigrationService) MigrateLegacyCompatibility(ctx context.Context) (int, error) {
	products, err := m.products.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for i := range products {
		product := &products[i]

		changedSkin, err := migrateColumn(&product.SkinCompatibilityJSON, domain.AllSkinTypes())
		if err != nil {
			m.log.Warnw("skipping product with unreadable skin compatibility", "productId", product.ID, "error", err)
			continue
		}
		changedHair, err := migrateColumn(&product.HairCompatibilityJSON, domain.AllHairTypes())
		if err != nil {
			m.log.Warnw("skipping product with unreadable hair compatibility", "productId", product.ID, "error", err)
			continue
		}
		if !changedSkin && !changedHair {
			continue
		}

		if err := m.products.Update(ctx, product); err != nil {
			return migrated, fmt.Errorf("%w: updating %s: %v", domain.ErrPersistence, product.ID, err)
		}
		migrated++
	}

	m.log.Infow("legacy compatibility migration finished", "migrated", migrated, "scanned", len(products))
	return migrated, nil
}

// migrateColumn upgrades one serialized compatibility column in place,
// reporting whether it contained legacy string entries
func migrateColumn[K ~string](column *string, keys []K) (bool, error) {
	if *column == "" {
		return false, nil
	}

	raw, err := decodeRawMap(*column)
	if err != nil {
		return false, err
	}

	legacy := false
	for _, v := range raw {
		if _, ok := v.(string); ok {
			legacy = true
			break
		}
	}
	if !legacy {
		return false, nil
	}

	upgraded, err := json.Marshal(ReconcileCompatibility(raw, keys))
	if err != nil {
		return false, err
	}
	*column = string(upgraded)
	return true, nil
}
