package receipts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// timestampLayout is the fixed textual pattern of receipt timestamps in the
// export format.
const timestampLayout = "2006-01-02 15:04"

// Receipt is one store transaction with its ordered product lines.
type Receipt struct {
	Date     time.Time
	Amount   Amount
	Products []LineItem
}

// LineItem is one product entry within a receipt. Quantity is nil when the
// export carries no quantity for the line; such items never participate in
// frequency or category statistics.
type LineItem struct {
	Quantity    *string
	Description string
	Amount      Amount
}

type rawReceipt struct {
	Date     string          `json:"date"`
	Amount   json.RawMessage `json:"amount"`
	Products []rawLineItem   `json:"products"`
}

type rawLineItem struct {
	Quantity    json.RawMessage `json:"quantity"`
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
}

// UnmarshalJSON decodes a receipt from the export format: a fixed-pattern
// timestamp, a textual amount, and a product list. A malformed timestamp is
// an error; malformed amounts degrade to zero.
func (r *Receipt) UnmarshalJSON(data []byte) error {
	var raw rawReceipt
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshaling receipt: %w", err)
	}

	date, err := time.Parse(timestampLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("parsing receipt date %q: %w", raw.Date, err)
	}

	r.Date = date
	r.Amount = parseRawAmount(raw.Amount)
	r.Products = make([]LineItem, 0, len(raw.Products))
	for _, p := range raw.Products {
		r.Products = append(r.Products, LineItem{
			Quantity:    parseRawQuantity(p.Quantity),
			Description: p.Description,
			Amount:      parseRawAmount(p.Amount),
		})
	}

	return nil
}

// parseRawAmount accepts the amount field as a JSON string, a bare number,
// or null. Exports normally use strings; numbers show up in hand-edited
// files.
func parseRawAmount(raw json.RawMessage) Amount {
	if len(raw) == 0 || string(raw) == "null" {
		return Amount{Degraded: true}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseAmount(s)
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return Amount{Value: f}
	}

	return Amount{Degraded: true}
}

// parseRawQuantity accepts a string, a bare number, or null. Numbers are
// normalized to their string form so sentinel checks stay uniform.
func parseRawQuantity(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		return &s
	}

	return nil
}
