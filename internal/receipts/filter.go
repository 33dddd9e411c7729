package receipts

import "strings"

// Quantity sentinels used by the store for promotional lines instead of a
// purchased count.
const (
	// BonusQuantity marks a bonus discount line. Its negated amount counts
	// toward bonus savings; it is excluded from frequency and category
	// statistics.
	BonusQuantity = "BONUS"
	// PromoQuantity marks an action-priced line. It is excluded from
	// category spending only.
	PromoQuantity = "ACTIE"
)

// Kind classifies a line item for aggregation purposes.
type Kind int

const (
	// KindPurchase is a real purchasable good.
	KindPurchase Kind = iota
	// KindBonus is a bonus discount pseudo-item.
	KindBonus
	// KindPromo is an action-priced line, excluded from category spending.
	KindPromo
	// KindExcluded is an administrative line or an item without a quantity.
	KindExcluded
)

// excludedDescriptions are known non-product lines: payment methods, loyalty
// cards, deposits and administrative entries.
var excludedDescriptions = map[string]struct{}{
	"BONUSKAART":     {},
	"PINNEN":         {},
	"Waarvan":        {},
	"BONUS BOX":      {},
	"AIRMILES NR. *": {},
	"MIJN AH MILES":  {},
	"eSPAARZEGELS":   {},
	"eSPAARZEGEL":    {},
	"STATIEGELD":     {},
	"+STATIEGELD":    {},
	"-STATIEGELD":    {},
	"EMBALLAGE":      {},
	"Prijs per kg":   {},
	"BONUS":          {},
	"BONUSITEM":      {},
	"INCL.HEF.SUP":   {},
}

// classificationSkipWords disqualify a description from classification when
// they appear anywhere in its upper-cased form.
var classificationSkipWords = []string{
	"STATIEGELD",
	"BONUS",
	"PINNEN",
	"AIRMILES",
	"WAARVAN",
	"EMBALLAGE",
	"DIERENKAART",
	"DISNEYSPAREN",
	"ESPAARZEL",
	"ESPAARZEGELS",
}

// ClassifyItem decides what kind of line a product entry is. Items without a
// quantity are always excluded, regardless of description.
func ClassifyItem(item LineItem) Kind {
	if item.Quantity == nil {
		return KindExcluded
	}
	switch *item.Quantity {
	case BonusQuantity:
		return KindBonus
	case PromoQuantity:
		return KindPromo
	}
	if _, ok := excludedDescriptions[item.Description]; ok {
		return KindExcluded
	}
	return KindPurchase
}

// CountsTowardFrequency reports whether the item participates in purchase
// frequency statistics. Action-priced lines still count; bonus lines and
// anything whose description starts with "BONUS" do not.
func CountsTowardFrequency(item LineItem) bool {
	switch ClassifyItem(item) {
	case KindExcluded, KindBonus:
		return false
	}
	return !strings.HasPrefix(item.Description, "BONUS")
}

// CountsTowardCategorySpending reports whether the item's amount accumulates
// into per-category spending. Bonus and action lines, items without a
// quantity, and unparseable amounts are skipped.
func CountsTowardCategorySpending(item LineItem) bool {
	if item.Quantity == nil || item.Amount.Degraded {
		return false
	}
	q := *item.Quantity
	return q != BonusQuantity && q != PromoQuantity
}

// EligibleForClassification reports whether the item's description should be
// submitted for classification.
func EligibleForClassification(item LineItem) bool {
	if item.Quantity == nil || *item.Quantity == BonusQuantity {
		return false
	}
	upper := strings.ToUpper(item.Description)
	for _, word := range classificationSkipWords {
		if strings.Contains(upper, word) {
			return false
		}
	}
	return true
}
