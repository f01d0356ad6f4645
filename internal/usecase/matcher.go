package usecase

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/beautylens/backend/internal/domain"
)

// minFuzzyLen is the minimum normalized rune count on both sides before the
// containment fallback may fire; shorter strings produce too many false hits
const minFuzzyLen = 3

// Matcher resolves a freshly recognized (brand, name) pair against the
// stored catalog. A linear scan is fine at the catalog sizes this service
// targets; the fuzzy pass only runs when the exact pass found nothing.
type Matcher struct {
	log                *zap.SugaredLogger
	enableDebugLogging bool
}

// NewMatcher creates a product identity matcher
func NewMatcher(log *zap.SugaredLogger, enableDebugLogging bool) *Matcher {
	return &Matcher{log: log, enableDebugLogging: enableDebugLogging}
}

// FindExisting returns the first stored product matching the candidate pair,
// or nil when the candidate is not cached. Exact normalized equality wins;
// otherwise containment matching applies on both brand and name.
func (m *Matcher) FindExisting(brand, name string, stored []domain.StoredProduct) *domain.StoredProduct {
	candBrand := normalizeIdentity(brand)
	candName := normalizeIdentity(name)

	for i := range stored {
		if normalizeIdentity(stored[i].Brand) == candBrand && normalizeIdentity(stored[i].Name) == candName {
			if m.enableDebugLogging {
				m.log.Debugw("exact catalog match", "brand", brand, "name", name, "productId", stored[i].ID)
			}
			return &stored[i]
		}
	}

	for i := range stored {
		if fuzzyEqual(candBrand, normalizeIdentity(stored[i].Brand)) &&
			fuzzyEqual(candName, normalizeIdentity(stored[i].Name)) {
			if m.enableDebugLogging {
				m.log.Debugw("fuzzy catalog match", "brand", brand, "name", name,
					"matchedBrand", stored[i].Brand, "matchedName", stored[i].Name, "productId", stored[i].ID)
			}
			return &stored[i]
		}
	}

	return nil
}

// normalizeIdentity prepares an identity component for comparison
func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// fuzzyEqual reports whether two normalized identity components match:
// equal, or both longer than minFuzzyLen with one containing the other
func fuzzyEqual(a, b string) bool {
	if a == b {
		return true
	}
	if utf8.RuneCountInString(a) <= minFuzzyLen || utf8.RuneCountInString(b) <= minFuzzyLen {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
