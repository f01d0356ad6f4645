package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/beautylens/backend/internal/domain"
)

// Normalizer turns the raw text returned by the vision model into a
// validated, self-consistent RecognitionResult. Structural failures
// (no text, unparseable JSON, missing mandatory fields) abort; everything
// else recovers silently with documented defaults.
type Normalizer struct {
	log *zap.SugaredLogger
}

// NewNormalizer creates a normalizer logging recoveries through log
func NewNormalizer(log *zap.SugaredLogger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize runs the full pipeline: salvage parse, schema validation,
// category normalization, analysis sanitizing, compatibility reconciliation
// and category-conditional pruning.
func (n *Normalizer) Normalize(text string) (*domain.RecognitionResult, error) {
	parsed, err := SalvageJSON(text)
	if err != nil {
		return nil, err
	}

	if err := ValidateSchema(parsed); err != nil {
		n.log.Warnw("recognition payload failed schema validation", "payload", parsed)
		return nil, err
	}

	result := &domain.RecognitionResult{
		Brand:      parsed["brand"].(string),
		Name:       parsed["name"].(string),
		Confidence: toFloat(parsed["confidence"]),
		Category:   NormalizeCategory(parsed["category"]),
		Analysis:   n.SanitizeAnalysis(parsed["analysis"]),
	}

	result.SkinCompatibility = ReconcileCompatibility(parsed["skinCompatibility"], domain.AllSkinTypes())
	result.HairCompatibility = ReconcileCompatibility(parsed["hairCompatibility"], domain.AllHairTypes())
	PruneByCategory(result)

	return result, nil
}

// ExtractText pulls a single string out of a chat message content field,
// which is either a plain string or an ordered list of content parts.
// Parts yielding no text are skipped; parts are joined by newline.
func ExtractText(content any) (string, error) {
	switch c := content.(type) {
	case string:
		if c == "" {
			return "", domain.ErrEmptyResponse
		}
		return c, nil
	case []any:
		var parts []string
		for _, part := range c {
			if text := partText(part); text != "" {
				parts = append(parts, text)
			}
		}
		joined := strings.Join(parts, "\n")
		if joined == "" {
			return "", domain.ErrEmptyResponse
		}
		return joined, nil
	default:
		return "", domain.ErrEmptyResponse
	}
}

// partText extracts text from one content part: a bare string, or an object
// carrying a "text" or "content" string field. Unrecognized parts yield "".
func partText(part any) string {
	switch p := part.(type) {
	case string:
		return p
	case map[string]any:
		if text, ok := p["text"].(string); ok {
			return text
		}
		if text, ok := p["content"].(string); ok {
			return text
		}
	}
	return ""
}

// SalvageJSON extracts the first balanced-looking JSON object from noisy
// text and parses it. Models sometimes wrap the JSON in explanatory prose;
// the greedy first-{ to last-} match recovers those cases.
func SalvageJSON(text string) (map[string]any, error) {
	candidate := text
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first >= 0 && last > first {
		candidate = text[first : last+1]
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	return parsed, nil
}

// ValidateSchema checks presence and type of the mandatory top-level fields:
// string brand, string name, numeric confidence, present analysis.
func ValidateSchema(parsed map[string]any) error {
	if parsed == nil {
		return domain.ErrInvalidSchema
	}
	if _, ok := parsed["brand"].(string); !ok {
		return fmt.Errorf("%w: missing or non-string brand", domain.ErrInvalidSchema)
	}
	if _, ok := parsed["name"].(string); !ok {
		return fmt.Errorf("%w: missing or non-string name", domain.ErrInvalidSchema)
	}
	if !isNumber(parsed["confidence"]) {
		return fmt.Errorf("%w: missing or non-numeric confidence", domain.ErrInvalidSchema)
	}
	if parsed["analysis"] == nil {
		return fmt.Errorf("%w: missing analysis", domain.ErrInvalidSchema)
	}
	return nil
}

// categorySynonyms maps lowercase category hints (the model answers in
// either Russian or English) to the closed category set
var categorySynonyms = map[string]domain.Category{
	"skin":          domain.CategorySkin,
	"кожа":          domain.CategorySkin,
	"для кожи":      domain.CategorySkin,
	"лицо":          domain.CategorySkin,
	"face":          domain.CategorySkin,
	"hair":          domain.CategoryHair,
	"волос":         domain.CategoryHair,
	"волосы":        domain.CategoryHair,
	"для волос":     domain.CategoryHair,
	"mixed":         domain.CategoryMixed,
	"смешанный":     domain.CategoryMixed,
	"смешанная":     domain.CategoryMixed,
	"универсальный": domain.CategoryMixed,
}

// NormalizeCategory maps an arbitrary category hint to the closed set.
// Non-strings and unrecognized values map to unknown. Total, never fails.
func NormalizeCategory(v any) domain.Category {
	s, ok := v.(string)
	if !ok {
		return domain.CategoryUnknown
	}
	if category, ok := categorySynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return category
	}
	return domain.CategoryUnknown
}

// SanitizeAnalysis coerces the analysis block into well-typed form.
// Non-array pros/cons/ingredients become empty arrays; malformed ingredient
// entries are dropped whole rather than repaired; the hazards field is
// normalized to a valid level.
func (n *Normalizer) SanitizeAnalysis(raw any) domain.Analysis {
	block, ok := raw.(map[string]any)
	if !ok {
		n.log.Warnw("analysis block is not an object, using empty analysis")
		block = map[string]any{}
	}

	analysis := domain.Analysis{
		Pros:        n.toStringSlice(block["pros"], "pros"),
		Cons:        n.toStringSlice(block["cons"], "cons"),
		Hazards:     normalizeHazards(block["hazards"]),
		Ingredients: sanitizeIngredients(block["ingredients"]),
	}
	return analysis
}

// toStringSlice coerces a value to a string slice, replacing anything that
// is not an array with an empty slice
func (n *Normalizer) toStringSlice(v any, field string) []string {
	items, ok := v.([]any)
	if !ok {
		if v != nil {
			n.log.Warnw("analysis list field is not an array, replacing with empty", "field", field)
		}
		return []string{}
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// normalizeHazards maps the raw hazards value to a valid level. The model
// occasionally returns a hazard list instead of a level; the count heuristic
// (0 low, 1-2 medium, 3+ high) recovers that shape intentionally.
func normalizeHazards(v any) domain.HazardLevel {
	switch h := v.(type) {
	case string:
		level := domain.HazardLevel(h)
		if level.Valid() {
			return level
		}
	case []any:
		switch {
		case len(h) == 0:
			return domain.HazardLow
		case len(h) <= 2:
			return domain.HazardMedium
		default:
			return domain.HazardHigh
		}
	}
	return domain.HazardMedium
}

// sanitizeIngredients keeps only entries with string name, valid status and
// string desc. Bad entries are dropped whole, never partially repaired.
func sanitizeIngredients(v any) []domain.Ingredient {
	items, ok := v.([]any)
	if !ok {
		return []domain.Ingredient{}
	}
	result := make([]domain.Ingredient, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, ok := entry["name"].(string)
		if !ok {
			continue
		}
		statusStr, ok := entry["status"].(string)
		if !ok {
			continue
		}
		status := domain.IngredientStatus(statusStr)
		if !status.Valid() {
			continue
		}
		desc, ok := entry["desc"].(string)
		if !ok {
			continue
		}
		result = append(result, domain.Ingredient{Name: name, Status: status, Desc: desc})
	}
	return result
}

// PruneByCategory drops the irrelevant compatibility map when the category
// is unambiguously single-domain. Mixed and unknown keep both maps.
func PruneByCategory(r *domain.RecognitionResult) {
	switch r.Category {
	case domain.CategorySkin:
		r.HairCompatibility = nil
	case domain.CategoryHair:
		r.SkinCompatibility = nil
	}
}

// isNumber reports whether v is a JSON number
func isNumber(v any) bool {
	switch v.(type) {
	case float64, json.Number:
		return true
	}
	return false
}

// toFloat converts a JSON number value to float64
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}
