package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/beautylens/backend/internal/domain"
)

// PricePlaceholder is stored when the price lookup fails or yields no
// answer. Price search is the one non-critical external dependency: its
// failure degrades rather than aborting the workflow.
const PricePlaceholder = "Уточняется"

const (
	searchMinQueryLength = 2
	searchMaxResults     = 20
)

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	ConfidenceThreshold float64
	EnableDebugLogging  bool
}

// AnalysisService orchestrates one photo analysis: recognition, confidence
// gating, catalog cache lookup, price search and persistence. It also serves
// catalog reads (by id, history listing, substring search).
type AnalysisService struct {
	vision              domain.VisionClient
	prices              domain.PriceSearcher
	products            domain.ProductRepository
	blobs               domain.BlobStore
	normalizer          *Normalizer
	matcher             *Matcher
	log                 *zap.SugaredLogger
	confidenceThreshold float64
}

// NewAnalysisService creates an analysis service with its collaborators
func NewAnalysisService(
	vision domain.VisionClient,
	prices domain.PriceSearcher,
	products domain.ProductRepository,
	blobs domain.BlobStore,
	log *zap.SugaredLogger,
	config AnalysisServiceConfig,
) *AnalysisService {
	threshold := config.ConfidenceThreshold
	if threshold <= 0 {
		threshold = 0.7
	}

	return &AnalysisService{
		vision:              vision,
		prices:              prices,
		products:            products,
		blobs:               blobs,
		normalizer:          NewNormalizer(log),
		matcher:             NewMatcher(log, config.EnableDebugLogging),
		log:                 log,
		confidenceThreshold: threshold,
	}
}

// Analyze runs the full workflow for one photo.
// Flow: recognize -> normalize -> confidence gate -> cache lookup ->
// on miss: price search (degrading), persist blob + record.
// On a cache hit no external calls occur; the stored record is trusted
// as-is, including a possibly stale price.
func (s *AnalysisService) Analyze(ctx context.Context, imageBase64 string, profile domain.Profile) (*domain.ProductResult, error) {
	if imageBase64 == "" {
		return nil, domain.ErrInvalidRequest
	}

	text, err := s.vision.Identify(ctx, imageBase64, profile)
	if err != nil {
		return nil, err
	}

	result, err := s.normalizer.Normalize(text)
	if err != nil {
		return nil, err
	}

	if result.Confidence < s.confidenceThreshold {
		s.log.Infow("recognition below confidence threshold",
			"brand", result.Brand, "name", result.Name, "confidence", result.Confidence)
		return nil, domain.ErrLowConfidence
	}

	stored, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	if existing := s.matcher.FindExisting(result.Brand, result.Name, stored); existing != nil {
		return s.resultFromStored(existing, true)
	}

	price := s.lookupPrice(ctx, result.Brand, result.Name)

	product, err := s.persist(ctx, imageBase64, result, price)
	if err != nil {
		return nil, err
	}

	return &domain.ProductResult{
		ProductID: product.ID,
		Brand:     product.Brand,
		Name:      product.Name,
		Category:  product.Category,
		Analysis:  result.Analysis,
		Price:     price,
		ImageURL:  s.blobs.URL(product.ImageBlobRef),
	}, nil
}

// lookupPrice asks the search API for a price estimate, degrading to the
// placeholder on any failure or absent answer
func (s *AnalysisService) lookupPrice(ctx context.Context, brand, name string) string {
	price, err := s.prices.EstimatePrice(ctx, brand, name)
	if err != nil || price == "" {
		s.log.Warnw("price search degraded to placeholder", "brand", brand, "name", name, "error", err)
		return PricePlaceholder
	}
	return price
}

// persist writes the image blob and the normalized record. A record-insert
// failure after a successful blob write leaves the blob orphaned; there is
// no compensating delete.
func (s *AnalysisService) persist(ctx context.Context, imageBase64 string, result *domain.RecognitionResult, price string) (*domain.StoredProduct, error) {
	imageBytes, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64", domain.ErrInvalidRequest)
	}

	blobRef, err := s.blobs.Store(ctx, imageBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: storing image: %v", domain.ErrPersistence, err)
	}

	analysisJSON, err := json.Marshal(result.Analysis)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding analysis: %v", domain.ErrPersistence, err)
	}

	product := &domain.StoredProduct{
		Brand:         result.Brand,
		Name:          result.Name,
		Category:      result.Category,
		AnalysisJSON:  string(analysisJSON),
		PriceEstimate: price,
		ImageBlobRef:  blobRef,
		CreatedAt:     time.Now().Unix(),
	}
	if result.SkinCompatibility != nil {
		data, err := json.Marshal(result.SkinCompatibility)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding skin compatibility: %v", domain.ErrPersistence, err)
		}
		product.SkinCompatibilityJSON = string(data)
	}
	if result.HairCompatibility != nil {
		data, err := json.Marshal(result.HairCompatibility)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding hair compatibility: %v", domain.ErrPersistence, err)
		}
		product.HairCompatibilityJSON = string(data)
	}

	id, err := s.products.Insert(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("%w: inserting record: %v", domain.ErrPersistence, err)
	}
	product.ID = id

	return product, nil
}

// GetProduct returns one catalog record with its analysis and compatibility
// decoded. Legacy string-only compatibility encodings are upgraded on read
// without writing back.
func (s *AnalysisService) GetProduct(ctx context.Context, id string) (*domain.StoredProduct, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if err := s.decodeStored(product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListProducts returns the full scan history, newest first, with decoded
// views. Records whose analysis fails to decode are skipped rather than
// failing the listing.
func (s *AnalysisService) ListProducts(ctx context.Context) ([]domain.StoredProduct, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.StoredProduct, 0, len(products))
	for i := range products {
		if err := s.decodeStored(&products[i]); err != nil {
			s.log.Warnw("skipping corrupted catalog record", "productId", products[i].ID, "error", err)
			continue
		}
		result = append(result, products[i])
	}
	return result, nil
}

// SearchProducts performs a case-insensitive substring search over brand and
// name. Results are ordered name-prefix matches first, then brand-prefix
// matches, then by name, capped at 20.
func (s *AnalysisService) SearchProducts(ctx context.Context, query string) ([]domain.StoredProduct, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len([]rune(query)) < searchMinQueryLength {
		return []domain.StoredProduct{}, nil
	}

	matched, err := s.products.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := &matched[i], &matched[j]
		aName := strings.HasPrefix(strings.ToLower(a.Name), query)
		bName := strings.HasPrefix(strings.ToLower(b.Name), query)
		if aName != bName {
			return aName
		}
		aBrand := strings.HasPrefix(strings.ToLower(a.Brand), query)
		bBrand := strings.HasPrefix(strings.ToLower(b.Brand), query)
		if aBrand != bBrand {
			return aBrand
		}
		return a.Name < b.Name
	})

	if len(matched) > searchMaxResults {
		matched = matched[:searchMaxResults]
	}

	for i := range matched {
		if err := s.decodeStored(&matched[i]); err != nil {
			s.log.Warnw("returning search hit without decoded analysis", "productId", matched[i].ID, "error", err)
		}
	}
	return matched, nil
}

// resultFromStored converts a cache hit into a ProductResult
func (s *AnalysisService) resultFromStored(product *domain.StoredProduct, cached bool) (*domain.ProductResult, error) {
	if err := s.decodeStored(product); err != nil {
		return nil, err
	}

	return &domain.ProductResult{
		ProductID: product.ID,
		Brand:     product.Brand,
		Name:      product.Name,
		Category:  product.Category,
		Analysis:  *product.Analysis,
		Price:     product.PriceEstimate,
		ImageURL:  s.blobs.URL(product.ImageBlobRef),
		Cached:    cached,
	}, nil
}

// decodeStored populates the read-time views of a stored record: the typed
// analysis and compatibility fields from their serialized columns, and the
// public image URL from the blob ref. Compatibility maps run through the
// reconciler, which both totalizes them and upgrades legacy string encodings.
func (s *AnalysisService) decodeStored(product *domain.StoredProduct) error {
	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(product.AnalysisJSON), &analysis); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheCorrupted, err)
	}
	product.Analysis = &analysis
	product.ImageURL = s.blobs.URL(product.ImageBlobRef)

	if product.SkinCompatibilityJSON != "" {
		raw, err := decodeRawMap(product.SkinCompatibilityJSON)
		if err != nil {
			return err
		}
		product.SkinCompatibility = ReconcileCompatibility(raw, domain.AllSkinTypes())
	}
	if product.HairCompatibilityJSON != "" {
		raw, err := decodeRawMap(product.HairCompatibilityJSON)
		if err != nil {
			return err
		}
		product.HairCompatibility = ReconcileCompatibility(raw, domain.AllHairTypes())
	}
	return nil
}

// decodeRawMap parses a serialized compatibility column into an untyped map
func decodeRawMap(data string) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheCorrupted, err)
	}
	return raw, nil
}
