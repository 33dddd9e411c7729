package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseCategories extracts category records from a raw model response.
// The response is free text expected to contain a JSON array of
// {product_name, category} objects; everything outside the first '[' and the
// last ']' is discarded. Records missing either field are skipped.
func ParseCategories(text string) ([]ProductCategory, error) {
	text = strings.TrimSpace(text)

	// Remove markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON array boundaries - look for first [ and last ]
	startIdx := strings.Index(text, "[")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	endIdx := strings.LastIndex(text, "]")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON array in response")
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal([]byte(text[startIdx:endIdx+1]), &rawRecords); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	records := make([]ProductCategory, 0, len(rawRecords))
	for _, raw := range rawRecords {
		var record ProductCategory
		if err := json.Unmarshal(raw, &record); err != nil {
			continue
		}
		if record.ProductName == "" || record.Category == "" {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
