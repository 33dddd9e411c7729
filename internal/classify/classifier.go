package classify

import "context"

// OtherCategory is the fallback label for descriptions the model did not
// classify.
const OtherCategory = "OTHER"

// ProductCategory is one record of a classification response.
type ProductCategory struct {
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
}

// Classifier defines the interface for the external classification
// provider. Implementations submit one batch of descriptions with the
// instruction template and return the raw response text.
type Classifier interface {
	// Classify submits a single batch and returns the provider's raw
	// textual response.
	Classify(ctx context.Context, batch []string, template string) (string, error)
	// Close closes the classifier and releases resources
	Close() error
}
