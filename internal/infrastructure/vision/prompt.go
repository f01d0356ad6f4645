package vision

import (
	"strings"

	"github.com/beautylens/backend/internal/domain"
)

// Russian labels for profile hints embedded into the prompt
var skinTypeLabels = map[string]string{
	"dry":         "сухая",
	"oily":        "жирная",
	"combination": "комбинированная",
	"normal":      "нормальная",
	"sensitive":   "чувствительная",
	"mature":      "зрелая",
	"acne_prone":  "склонная к акне",
	"dehydrated":  "обезвоженная",
	"pigmented":   "с пигментацией",
}

var hairTypeLabels = map[string]string{
	"straight": "прямые",
	"wavy":     "волнистые",
	"curly":    "кудрявые",
	"coily":    "очень кудрявые",
	"oily":     "жирные",
	"dry":      "сухие",
	"normal":   "нормальные",
	"damaged":  "повреждённые",
}

var lifestyleLabels = map[string]string{
	"active":    "активный образ жизни",
	"sedentary": "сидячий образ жизни",
	"outdoor":   "много времени на улице",
	"stress":    "высокий уровень стресса",
	"balanced":  "сбалансированный образ жизни",
}

// BuildPrompt assembles the recognition prompt. The model is instructed to
// answer with a single bare JSON object; everything downstream assumes only
// that the text contains one.
func BuildPrompt(profile domain.Profile) string {
	parts := []string{
		"Ты — эксперт косметики.",
		"Определи бренд, название, категорию продукта и проанализируй состав.",
	}
	parts = append(parts, profileHints(profile)...)
	parts = append(parts,
		"Верни ТОЛЬКО чистый JSON (без markdown ```json) в формате:",
		`{brand, name, confidence, category: "skin"|"hair"|"mixed",`+
			` analysis: {pros, cons, hazards: "low"|"medium"|"high", ingredients: [{name, status: "green"|"yellow"|"red", desc}]},`+
			` skinCompatibility: {<тип кожи>: {status: "good"|"bad"|"neutral", score: число от 0 до 100}},`+
			` hairCompatibility: {<тип волос>: {status, score}}}.`,
		"Типы кожи: dry, oily, combination, normal, sensitive, mature, acne_prone, dehydrated, pigmented.",
		"Типы волос: straight, wavy, curly, coily, oily, dry, normal, damaged.",
		"Для каждого типа укажи status: good (score >= 70), neutral (40-69), bad (< 40) и score от 0 до 100.",
		"Оценивай на основе состава: подходящие ингредиенты повышают score, неподходящие — понижают.",
	)
	return strings.Join(parts, " ")
}

// profileHints renders the optional user context as prompt sentences,
// skipping unknown values rather than guessing
func profileHints(profile domain.Profile) []string {
	var hints []string
	if label, ok := skinTypeLabels[profile.SkinType]; ok {
		hints = append(hints, "Учитывай, что у пользователя "+label+" кожа.")
	}
	if label, ok := hairTypeLabels[profile.HairType]; ok {
		hints = append(hints, "Учитывай, что у пользователя "+label+" волосы.")
	}
	if profile.AgeRange != "" {
		hints = append(hints, "Возраст пользователя: "+profile.AgeRange+".")
	}
	if label, ok := lifestyleLabels[profile.Lifestyle]; ok {
		hints = append(hints, "У пользователя "+label+".")
	}
	if profile.Location != "" {
		hints = append(hints, "Регион пользователя: "+profile.Location+".")
	}
	return hints
}
