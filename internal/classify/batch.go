package classify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// DefaultBatchSize limits how many descriptions are submitted per call.
// Model output quality drops on oversized prompts, so batches stay small.
const DefaultBatchSize = 50

// Result holds the outcome of one categorization run.
type Result struct {
	// Assignments maps each classified description to its category label.
	// Descriptions absent from the map default to OtherCategory downstream.
	Assignments map[string]string
	// Other lists the descriptions labeled OtherCategory, sorted, for
	// manual review. Diagnostic only.
	Other []string
}

// Categorizer assigns category labels to a set of product descriptions by
// submitting them to a Classifier in fixed-size batches.
type Categorizer struct {
	classifier Classifier
	template   string
	batchSize  int
}

// NewCategorizer creates a Categorizer. An empty template selects
// DefaultTemplate; a non-positive batch size selects DefaultBatchSize.
func NewCategorizer(classifier Classifier, template string, batchSize int) *Categorizer {
	if template == "" {
		template = DefaultTemplate
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Categorizer{
		classifier: classifier,
		template:   template,
		batchSize:  batchSize,
	}
}

// Categorize classifies every description in the set. The set is sorted
// before slicing so batch boundaries are identical across runs of the same
// input. A batch whose call or response fails contributes no assignments and
// the run continues; an assignment from an earlier batch is never
// overwritten by a later one.
func (c *Categorizer) Categorize(ctx context.Context, descriptions []string) Result {
	sorted := append([]string(nil), descriptions...)
	sort.Strings(sorted)

	assignments := make(map[string]string)
	for i := 0; i < len(sorted); i += c.batchSize {
		end := i + c.batchSize
		if end > len(sorted) {
			end = len(sorted)
		}
		batch := sorted[i:end]

		partial, err := c.categorizeBatch(ctx, batch)
		if err != nil {
			slog.Warn("Could not categorize batch",
				"batch", i/c.batchSize+1,
				"size", len(batch),
				"error", err,
			)
			continue
		}

		assignments = merge(assignments, partial)
	}

	return Result{
		Assignments: assignments,
		Other:       otherDescriptions(assignments),
	}
}

func (c *Categorizer) categorizeBatch(ctx context.Context, batch []string) (map[string]string, error) {
	raw, err := c.classifier.Classify(ctx, batch, c.template)
	if err != nil {
		return nil, fmt.Errorf("classifying batch: %w", err)
	}

	records, err := ParseCategories(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing batch response: %w", err)
	}

	partial := make(map[string]string, len(records))
	for _, record := range records {
		if _, ok := partial[record.ProductName]; !ok {
			partial[record.ProductName] = record.Category
		}
	}

	return partial, nil
}

// merge folds one batch's partial mapping into the accumulated mapping.
// Earlier assignments win.
func merge(accumulated, partial map[string]string) map[string]string {
	for description, category := range partial {
		if _, ok := accumulated[description]; !ok {
			accumulated[description] = category
		}
	}
	return accumulated
}

func otherDescriptions(assignments map[string]string) []string {
	var other []string
	for description, category := range assignments {
		if category == OtherCategory {
			other = append(other, description)
		}
	}
	sort.Strings(other)
	return other
}
