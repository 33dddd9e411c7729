package classify

import "strings"

// DefaultTemplate is the shared instruction template used by all LLM
// providers for categorizing product descriptions. The batch's descriptions
// are appended below it, one per line.
const DefaultTemplate = `You are categorizing grocery receipt line items. Each line below the instructions is one product description exactly as printed on a receipt. Descriptions are often abbreviated Dutch product names.

Assign each description exactly one category from this list:
- PRODUCE (fruit, vegetables)
- DAIRY_EGGS (milk, yogurt, cheese, butter, eggs)
- MEAT_FISH (meat, poultry, fish)
- BAKERY (bread, pastry)
- SNACKS_SWEETS (chips, candy, chocolate, cookies)
- BEVERAGES (soda, juice, coffee, tea, alcohol)
- PANTRY (pasta, rice, canned goods, sauces, spices, baking)
- FROZEN (frozen meals, ice cream)
- HOUSEHOLD (cleaning, paper goods, kitchen supplies)
- PERSONAL_CARE (hygiene, cosmetics, medicine)
- PETS (pet food and supplies)
- OTHER (anything that fits nowhere else)

Return ONLY a JSON array in this exact format:
[
  {"product_name": "EXACT DESCRIPTION FROM INPUT", "category": "CATEGORY"}
]

Important:
- product_name must match the input description character for character
- category must be one of the listed categories
- Include every input description exactly once
- Do not include any text before or after the JSON array
- Do not use markdown code blocks

Descriptions:
`

// BuildPrompt instantiates the instruction template with exactly one batch
// of descriptions, newline separated.
func BuildPrompt(template string, batch []string) string {
	return template + strings.Join(batch, "\n")
}
