package domain

import "context"

// ProductRepository defines the interface for catalog persistence
type ProductRepository interface {
	Insert(ctx context.Context, product *StoredProduct) (string, error)
	GetByID(ctx context.Context, id string) (*StoredProduct, error)
	ListAll(ctx context.Context) ([]StoredProduct, error)
	Search(ctx context.Context, query string) ([]StoredProduct, error)
	Update(ctx context.Context, product *StoredProduct) error
}

// BlobStore defines the interface for image blob persistence
type BlobStore interface {
	Store(ctx context.Context, data []byte) (string, error)
	URL(ref string) string
}

// VisionClient defines the interface for the external vision model
type VisionClient interface {
	// Identify sends the prompt plus inline image and returns the raw text
	// of the first choice's message content.
	Identify(ctx context.Context, imageBase64 string, profile Profile) (string, error)
}

// PriceSearcher defines the interface for the external price lookup
type PriceSearcher interface {
	EstimatePrice(ctx context.Context, brand, name string) (string, error)
}
