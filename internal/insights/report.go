package insights

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zombor/receipt-insights/internal/receipts"
)

// ItemCount is one entry of the most-bought ranking. It marshals as a
// [description, count] pair, which is the shape the dashboard and chart
// tooling expect.
type ItemCount struct {
	Description string
	Count       int
}

// MarshalJSON encodes the entry as a two-element array.
func (ic ItemCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{ic.Description, ic.Count})
}

// UnmarshalJSON decodes a [description, count] pair.
func (ic *ItemCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("unmarshaling item count: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected [description, count] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &ic.Description); err != nil {
		return fmt.Errorf("unmarshaling item description: %w", err)
	}
	if err := json.Unmarshal(pair[1], &ic.Count); err != nil {
		return fmt.Errorf("unmarshaling item count: %w", err)
	}
	return nil
}

// Report is the result of one analysis run. The spending and ranking field
// names are stable; the dashboard and downstream tooling read them by name.
// id and created_at identify the run in history.
type Report struct {
	ID                 string             `json:"id"`
	CreatedAt          time.Time          `json:"created_at"`
	TotalSpending      float64            `json:"total_spending"`
	NumTransactions    int                `json:"num_transactions"`
	AverageTransaction float64            `json:"average_transaction"`
	TotalBonusSavings  float64            `json:"total_bonus_savings"`
	MostBoughtItems    []ItemCount        `json:"most_bought_items"`
	SpendingByDay      map[string]float64 `json:"spending_by_day"`
	SpendingByCategory map[string]float64 `json:"spending_by_category"`
}

// BuildReport composes the aggregates into one report. It performs no
// computation beyond composition and fails only when an aggregate is
// undefined, which happens for an empty receipt collection.
func BuildReport(rcpts []receipts.Receipt, assignments map[string]string, topN int) (*Report, error) {
	average, err := AverageTransaction(rcpts)
	if err != nil {
		return nil, err
	}

	return &Report{
		TotalSpending:      TotalSpending(rcpts),
		NumTransactions:    len(rcpts),
		AverageTransaction: average,
		TotalBonusSavings:  BonusSavings(rcpts),
		MostBoughtItems:    MostBoughtItems(rcpts, topN),
		SpendingByDay:      SpendingByDay(rcpts),
		SpendingByCategory: SpendingByCategory(rcpts, assignments),
	}, nil
}
