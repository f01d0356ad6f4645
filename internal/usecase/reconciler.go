package usecase

import (
	"math"

	"github.com/beautylens/backend/internal/domain"
)

// Score thresholds tying the categorical status to the numeric score
const (
	goodMinScore    = 70
	neutralMinScore = 40
)

// Default scores assigned when only the status is known
const (
	defaultGoodScore    = 75
	defaultNeutralScore = 50
	defaultBadScore     = 25
)

// DefaultScore returns the score assumed for a status when the model
// supplied no usable number
func DefaultScore(status domain.Status) int {
	switch status {
	case domain.StatusGood:
		return defaultGoodScore
	case domain.StatusBad:
		return defaultBadScore
	default:
		return defaultNeutralScore
	}
}

// StatusForScore derives the categorical status from a score using the
// fixed thresholds. The score is authoritative when the two disagree.
func StatusForScore(score int) domain.Status {
	switch {
	case score >= goodMinScore:
		return domain.StatusGood
	case score < neutralMinScore:
		return domain.StatusBad
	default:
		return domain.StatusNeutral
	}
}

// ReconcileCompatibility builds a compatibility map total over keys from an
// untrusted raw value. For every enumerated key it upgrades the legacy
// string-only encoding, validates and clamps {status, score} objects, fills
// gaps with neutral defaults, and re-derives status from the final score.
// Idempotent: reconciling an already-reconciled map is a no-op.
func ReconcileCompatibility[K ~string](raw any, keys []K) map[K]domain.CompatibilityItem {
	rawMap, _ := raw.(map[string]any)

	result := make(map[K]domain.CompatibilityItem, len(keys))
	for _, key := range keys {
		var value any
		if rawMap != nil {
			value = rawMap[string(key)]
		}
		result[key] = reconcileItem(value)
	}
	return result
}

// reconcileItem normalizes a single raw compatibility value
func reconcileItem(value any) domain.CompatibilityItem {
	item := domain.CompatibilityItem{Status: domain.StatusNeutral, Score: defaultNeutralScore}

	switch v := value.(type) {
	case string:
		// Legacy encoding: a bare status string
		status := domain.Status(v)
		if status.Valid() {
			item.Status = status
			item.Score = DefaultScore(status)
		}
	case map[string]any:
		status := domain.StatusNeutral
		if s, ok := v["status"].(string); ok && domain.Status(s).Valid() {
			status = domain.Status(s)
		}
		item.Status = status
		item.Score = clampScore(v["score"], status)
	}

	// Score is authoritative over status
	item.Status = StatusForScore(item.Score)
	return item
}

// clampScore rounds a raw score into the inclusive [0, 100] range, falling
// back to the status default when the value is not a finite number
func clampScore(v any, status domain.Status) int {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultScore(status)
	}
	score := int(math.Round(f))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
