package domain

import "errors"

var (
	// ErrVisionUnavailable is returned when the vision model endpoint returns a non-success status
	ErrVisionUnavailable = errors.New("vision service unavailable")

	// ErrEmptyResponse is returned when the model response contains no usable text
	ErrEmptyResponse = errors.New("empty model response")

	// ErrMalformedPayload is returned when no JSON object can be parsed out of the model text
	ErrMalformedPayload = errors.New("malformed model payload")

	// ErrInvalidSchema is returned when required fields are missing or mistyped after parse
	ErrInvalidSchema = errors.New("invalid recognition schema")

	// ErrLowConfidence is returned when recognition confidence is below the threshold
	ErrLowConfidence = errors.New("recognition confidence below threshold")

	// ErrProductNotFound is returned when a product id does not exist in the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrCacheCorrupted is returned when a cached record's serialized analysis fails to deserialize
	ErrCacheCorrupted = errors.New("cached analysis corrupted")

	// ErrPriceSearchFailure is returned when the price search call fails or yields no answer
	ErrPriceSearchFailure = errors.New("price search failed")

	// ErrPersistence is returned when the final write step fails
	ErrPersistence = errors.New("persistence failure")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
