package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockClassifier returns canned responses per call and records every batch
// it receives.
type mockClassifier struct {
	calls     [][]string
	responses []string
	errs      []error
}

func (m *mockClassifier) Classify(ctx context.Context, batch []string, template string) (string, error) {
	call := len(m.calls)
	m.calls = append(m.calls, append([]string(nil), batch...))

	if call < len(m.errs) && m.errs[call] != nil {
		return "", m.errs[call]
	}
	if call < len(m.responses) && m.responses[call] != "" {
		return m.responses[call], nil
	}
	return responseFor(batch, "PANTRY"), nil
}

func (m *mockClassifier) Close() error {
	return nil
}

// responseFor builds a well-formed response assigning every description in
// the batch the same category.
func responseFor(batch []string, category string) string {
	records := make([]ProductCategory, 0, len(batch))
	for _, description := range batch {
		records = append(records, ProductCategory{ProductName: description, Category: category})
	}
	data, err := json.Marshal(records)
	Expect(err).NotTo(HaveOccurred())
	return string(data)
}

var _ = Describe("Categorizer", func() {
	var (
		classifier   *mockClassifier
		batchSize    int
		descriptions []string
		result       Result
	)

	BeforeEach(func() {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		classifier = &mockClassifier{}
		batchSize = 50
		descriptions = nil
	})

	JustBeforeEach(func() {
		categorizer := NewCategorizer(classifier, "", batchSize)
		result = categorizer.Categorize(context.Background(), descriptions)
	})

	When("categorizing 120 descriptions with batch size 50", func() {
		BeforeEach(func() {
			for i := 0; i < 120; i++ {
				descriptions = append(descriptions, fmt.Sprintf("PRODUCT %03d", i))
			}
		})

		It("should issue exactly 3 calls", func() {
			Expect(classifier.calls).To(HaveLen(3))
		})

		It("should batch 50, 50 and 20 descriptions", func() {
			Expect(classifier.calls[0]).To(HaveLen(50))
			Expect(classifier.calls[1]).To(HaveLen(50))
			Expect(classifier.calls[2]).To(HaveLen(20))
		})

		It("should cover the full input set without overlap", func() {
			var union []string
			for _, batch := range classifier.calls {
				union = append(union, batch...)
			}
			Expect(union).To(HaveLen(120))
			Expect(union).To(ConsistOf(descriptions))
		})

		It("should assign every description", func() {
			Expect(result.Assignments).To(HaveLen(120))
		})
	})

	When("categorizing the same set twice", func() {
		BeforeEach(func() {
			descriptions = []string{"C PRODUCT", "A PRODUCT", "B PRODUCT"}
			batchSize = 2
		})

		It("should produce identical batch boundaries regardless of input order", func() {
			Expect(classifier.calls[0]).To(Equal([]string{"A PRODUCT", "B PRODUCT"}))
			Expect(classifier.calls[1]).To(Equal([]string{"C PRODUCT"}))

			shuffled := &mockClassifier{}
			categorizer := NewCategorizer(shuffled, "", batchSize)
			categorizer.Categorize(context.Background(), []string{"B PRODUCT", "C PRODUCT", "A PRODUCT"})
			Expect(shuffled.calls).To(Equal(classifier.calls))
		})
	})

	When("a later batch re-answers an earlier batch's description", func() {
		BeforeEach(func() {
			descriptions = []string{"A PRODUCT", "B PRODUCT", "C PRODUCT"}
			batchSize = 2
			classifier.responses = []string{
				responseFor([]string{"A PRODUCT", "B PRODUCT"}, "PRODUCE"),
				`[
					{"product_name": "C PRODUCT", "category": "PANTRY"},
					{"product_name": "A PRODUCT", "category": "SNACKS_SWEETS"}
				]`,
			}
		})

		It("should keep the earlier batch's assignment", func() {
			Expect(result.Assignments["A PRODUCT"]).To(Equal("PRODUCE"))
			Expect(result.Assignments["C PRODUCT"]).To(Equal("PANTRY"))
		})
	})

	When("one batch call fails", func() {
		BeforeEach(func() {
			for i := 0; i < 4; i++ {
				descriptions = append(descriptions, fmt.Sprintf("PRODUCT %d", i))
			}
			batchSize = 2
			classifier.errs = []error{nil, errors.New("model unreachable")}
		})

		It("should keep the other batches' assignments", func() {
			Expect(result.Assignments).To(HaveKey("PRODUCT 0"))
			Expect(result.Assignments).To(HaveKey("PRODUCT 1"))
		})

		It("should contribute no assignments from the failed batch", func() {
			Expect(result.Assignments).NotTo(HaveKey("PRODUCT 2"))
			Expect(result.Assignments).NotTo(HaveKey("PRODUCT 3"))
		})
	})

	When("one batch response cannot be parsed", func() {
		BeforeEach(func() {
			for i := 0; i < 4; i++ {
				descriptions = append(descriptions, fmt.Sprintf("PRODUCT %d", i))
			}
			batchSize = 2
			classifier.responses = []string{"", "I refuse to answer in JSON."}
		})

		It("should continue with the remaining batches", func() {
			Expect(classifier.calls).To(HaveLen(2))
			Expect(result.Assignments).To(HaveLen(2))
		})
	})

	When("every call fails", func() {
		BeforeEach(func() {
			descriptions = []string{"A PRODUCT", "B PRODUCT"}
			batchSize = 1
			classifier.errs = []error{errors.New("boom"), errors.New("boom")}
		})

		It("should return an empty mapping", func() {
			Expect(result.Assignments).To(BeEmpty())
		})
	})

	When("some products are categorized as OTHER", func() {
		BeforeEach(func() {
			descriptions = []string{"A PRODUCT", "B PRODUCT", "C PRODUCT"}
			classifier.responses = []string{`[
				{"product_name": "B PRODUCT", "category": "OTHER"},
				{"product_name": "A PRODUCT", "category": "OTHER"},
				{"product_name": "C PRODUCT", "category": "PANTRY"}
			]`}
		})

		It("should list them sorted in the diagnostics", func() {
			Expect(result.Other).To(Equal([]string{"A PRODUCT", "B PRODUCT"}))
		})
	})

	When("the description set is empty", func() {
		BeforeEach(func() {
			descriptions = nil
		})

		It("should not call the classifier", func() {
			Expect(classifier.calls).To(BeEmpty())
			Expect(result.Assignments).To(BeEmpty())
		})
	})
})
