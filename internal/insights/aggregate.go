package insights

import (
	"errors"
	"math"
	"sort"

	"github.com/zombor/receipt-insights/internal/classify"
	"github.com/zombor/receipt-insights/internal/receipts"
)

// ErrNoReceipts is returned when an aggregate is undefined because the
// receipt collection is empty.
var ErrNoReceipts = errors.New("no receipts to analyze")

// DefaultTopN is the ranking depth of the most-bought list.
const DefaultTopN = 10

const dayLayout = "2006-01-02"

// TotalSpending sums every receipt's amount.
func TotalSpending(rcpts []receipts.Receipt) float64 {
	var total float64
	for _, r := range rcpts {
		total += r.Amount.Value
	}
	return total
}

// AverageTransaction divides total spending by the number of receipts.
// It returns ErrNoReceipts for an empty collection instead of dividing by
// zero.
func AverageTransaction(rcpts []receipts.Receipt) (float64, error) {
	if len(rcpts) == 0 {
		return 0, ErrNoReceipts
	}
	return TotalSpending(rcpts) / float64(len(rcpts)), nil
}

// BonusSavings sums the absolute value of every bonus-marked line-item
// amount across all receipts.
func BonusSavings(rcpts []receipts.Receipt) float64 {
	var total float64
	for _, r := range rcpts {
		for _, item := range r.Products {
			if item.Quantity != nil && *item.Quantity == receipts.BonusQuantity {
				total += math.Abs(item.Amount.Value)
			}
		}
	}
	return total
}

// MostBoughtItems counts qualifying line-item descriptions and returns the
// topN most frequent. Ties rank by first encounter so the ordering is
// deterministic.
func MostBoughtItems(rcpts []receipts.Receipt, topN int) []ItemCount {
	if topN <= 0 {
		topN = DefaultTopN
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, r := range rcpts {
		for _, item := range r.Products {
			if !receipts.CountsTowardFrequency(item) {
				continue
			}
			if _, ok := counts[item.Description]; !ok {
				firstSeen[item.Description] = len(firstSeen)
			}
			counts[item.Description]++
		}
	}

	ranked := make([]ItemCount, 0, len(counts))
	for description, count := range counts {
		ranked = append(ranked, ItemCount{Description: description, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Description] < firstSeen[ranked[j].Description]
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// SpendingByDay sums receipt amounts keyed by calendar date. Days without
// receipts are absent, not zero-filled.
func SpendingByDay(rcpts []receipts.Receipt) map[string]float64 {
	daily := make(map[string]float64)
	for _, r := range rcpts {
		daily[r.Date.Format(dayLayout)] += r.Amount.Value
	}
	return daily
}

// SpendingByCategory accumulates qualifying line-item amounts under their
// assigned category. Descriptions absent from the mapping fall under
// OtherCategory.
func SpendingByCategory(rcpts []receipts.Receipt, assignments map[string]string) map[string]float64 {
	spending := make(map[string]float64)
	for _, r := range rcpts {
		for _, item := range r.Products {
			if !receipts.CountsTowardCategorySpending(item) {
				continue
			}
			category, ok := assignments[item.Description]
			if !ok {
				category = classify.OtherCategory
			}
			spending[category] += item.Amount.Value
		}
	}
	return spending
}
