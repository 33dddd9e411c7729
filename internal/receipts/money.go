package receipts

import (
	"strconv"
	"strings"
)

// Amount is the result of parsing a textual amount. Degraded is set when the
// input was missing, a placeholder, or unparseable and the value fell back to
// zero. Parsing never fails.
type Amount struct {
	Value    float64
	Degraded bool
}

// ParseAmount normalizes a textual amount into a signed numeric value.
// Receipt exports use euro-prefixed strings with a decimal comma
// (e.g. "€12,34"); missing values appear as "€None" and redacted values
// start with "€xx". Anything that cannot be parsed degrades to zero.
func ParseAmount(raw string) Amount {
	if raw == "" || raw == "€None" || strings.HasPrefix(raw, "€xx") {
		return Amount{Degraded: true}
	}

	cleaned := strings.ReplaceAll(raw, "€", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Amount{Degraded: true}
	}

	return Amount{Value: value}
}
