package domain

// SkinType is one of the closed set of skin types the analysis scores against
type SkinType string

const (
	SkinDry         SkinType = "dry"
	SkinOily        SkinType = "oily"
	SkinCombination SkinType = "combination"
	SkinNormal      SkinType = "normal"
	SkinSensitive   SkinType = "sensitive"
	SkinMature      SkinType = "mature"
	SkinAcneProne   SkinType = "acne_prone"
	SkinDehydrated  SkinType = "dehydrated"
	SkinPigmented   SkinType = "pigmented"
)

// AllSkinTypes returns the full skin-type enumeration in canonical order
func AllSkinTypes() []SkinType {
	return []SkinType{
		SkinDry, SkinOily, SkinCombination, SkinNormal, SkinSensitive,
		SkinMature, SkinAcneProne, SkinDehydrated, SkinPigmented,
	}
}

// HairType is one of the closed set of hair types the analysis scores against
type HairType string

const (
	HairStraight HairType = "straight"
	HairWavy     HairType = "wavy"
	HairCurly    HairType = "curly"
	HairCoily    HairType = "coily"
	HairOily     HairType = "oily"
	HairDry      HairType = "dry"
	HairNormal   HairType = "normal"
	HairDamaged  HairType = "damaged"
)

// AllHairTypes returns the full hair-type enumeration in canonical order
func AllHairTypes() []HairType {
	return []HairType{
		HairStraight, HairWavy, HairCurly, HairCoily,
		HairOily, HairDry, HairNormal, HairDamaged,
	}
}

// Status is the categorical compatibility verdict for one skin/hair type
type Status string

const (
	StatusGood    Status = "good"
	StatusBad     Status = "bad"
	StatusNeutral Status = "neutral"
)

// Valid reports whether s is one of the three known statuses
func (s Status) Valid() bool {
	return s == StatusGood || s == StatusBad || s == StatusNeutral
}

// Category is the product domain classification
type Category string

const (
	CategorySkin    Category = "skin"
	CategoryHair    Category = "hair"
	CategoryMixed   Category = "mixed"
	CategoryUnknown Category = "unknown"
)

// HazardLevel is the overall ingredient hazard verdict
type HazardLevel string

const (
	HazardLow    HazardLevel = "low"
	HazardMedium HazardLevel = "medium"
	HazardHigh   HazardLevel = "high"
)

// Valid reports whether h is one of the three known hazard levels
func (h HazardLevel) Valid() bool {
	return h == HazardLow || h == HazardMedium || h == HazardHigh
}

// IngredientStatus is the per-ingredient safety verdict
type IngredientStatus string

const (
	IngredientGreen  IngredientStatus = "green"
	IngredientYellow IngredientStatus = "yellow"
	IngredientRed    IngredientStatus = "red"
)

// Valid reports whether s is one of the three known ingredient statuses
func (s IngredientStatus) Valid() bool {
	return s == IngredientGreen || s == IngredientYellow || s == IngredientRed
}

// CompatibilityItem expresses how well a product suits one skin/hair type.
// Score is authoritative over Status after reconciliation.
type CompatibilityItem struct {
	Status Status `json:"status"`
	Score  int    `json:"score"`
}

// Ingredient is a single analyzed ingredient entry
type Ingredient struct {
	Name   string           `json:"name"`
	Status IngredientStatus `json:"status"`
	Desc   string           `json:"desc"`
}

// Analysis is the sanitized analysis block of a recognition result
type Analysis struct {
	Pros        []string     `json:"pros"`
	Cons        []string     `json:"cons"`
	Hazards     HazardLevel  `json:"hazards"`
	Ingredients []Ingredient `json:"ingredients"`
}

// RecognitionResult is the normalized output of the vision model for one photo.
// Compatibility maps are total over their enumeration, or nil when the
// category excludes that domain.
type RecognitionResult struct {
	Brand             string                         `json:"brand"`
	Name              string                         `json:"name"`
	Confidence        float64                        `json:"confidence"`
	Category          Category                       `json:"category"`
	Analysis          Analysis                       `json:"analysis"`
	SkinCompatibility map[SkinType]CompatibilityItem `json:"skinCompatibility,omitempty"`
	HairCompatibility map[HairType]CompatibilityItem `json:"hairCompatibility,omitempty"`
}

// StoredProduct is a persisted catalog record, created once per distinct
// (brand, name) pair and never updated outside the legacy migration pass.
// Analysis and compatibility are persisted as serialized JSON text; the
// typed fields are decoded views populated on read.
type StoredProduct struct {
	ID                    string                         `json:"id"`
	Brand                 string                         `json:"brand"`
	Name                  string                         `json:"name"`
	Category              Category                       `json:"category"`
	AnalysisJSON          string                         `json:"-"`
	SkinCompatibilityJSON string                         `json:"-"`
	HairCompatibilityJSON string                         `json:"-"`
	PriceEstimate         string                         `json:"priceEstimate"`
	ImageBlobRef          string                         `json:"-"`
	ImageURL              string                         `json:"imageUrl,omitempty"`
	Analysis              *Analysis                      `json:"analysis,omitempty"`
	SkinCompatibility     map[SkinType]CompatibilityItem `json:"skinCompatibility,omitempty"`
	HairCompatibility     map[HairType]CompatibilityItem `json:"hairCompatibility,omitempty"`
	CreatedAt             int64                          `json:"createdAt"`
}

// Profile carries optional user context embedded into the vision prompt
type Profile struct {
	SkinType  string `json:"skinType,omitempty"`
	HairType  string `json:"hairType,omitempty"`
	AgeRange  string `json:"ageRange,omitempty"`
	Lifestyle string `json:"lifestyle,omitempty"`
	Location  string `json:"location,omitempty"`
}

// ProductResult is what the analyze entry point returns to the client
type ProductResult struct {
	ProductID string   `json:"productId"`
	Brand     string   `json:"brand"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Analysis  Analysis `json:"analysis"`
	Price     string   `json:"price"`
	ImageURL  string   `json:"imageUrl,omitempty"`
	Cached    bool     `json:"cached"`
}
