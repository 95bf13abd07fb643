package core

import "strings"

const variationSelector = "\ufe0f"

// Category is a fixed spending/earning tag. The zero value is CategoryUnknown.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryFood
	CategorySalary
	CategoryClothes
	CategoryCosmetics
	CategoryExchange
	CategoryMedical
	CategoryEducation
	CategoryElectricBill
	CategoryTransportation
	CategoryContactFee
	CategoryHousingExpense
	// CategoryEditMore is the synthetic picker entry; it never appears in reports.
	CategoryEditMore
)

type categoryInfo struct {
	slug  string
	name  string
	glyph string
}

var categoryTable = map[Category]categoryInfo{
	CategoryFood:           {"food", "Food", "🍴"},
	CategorySalary:         {"salary", "Salary", "💰"},
	CategoryClothes:        {"clothes", "Clothes", "👕"},
	CategoryCosmetics:      {"cosmetics", "Cosmetics", "💄"},
	CategoryExchange:       {"exchange", "Exchange", "💱"},
	CategoryMedical:        {"medical", "Medical", "💉"},
	CategoryEducation:      {"education", "Education", "📚"},
	CategoryElectricBill:   {"electric-bill", "Electric Bill", "🧾"},
	CategoryTransportation: {"transportation", "Transportation", "🚊"},
	CategoryContactFee:     {"contact-fee", "Contact Fee", "☎️"},
	CategoryHousingExpense: {"housing-expense", "Housing Expense", "🏡"},
	CategoryEditMore:       {"edit-more", "", "Edit"},
}

var reportCategories = []Category{
	CategoryFood,
	CategorySalary,
	CategoryClothes,
	CategoryCosmetics,
	CategoryExchange,
	CategoryMedical,
	CategoryEducation,
	CategoryElectricBill,
	CategoryTransportation,
	CategoryContactFee,
	CategoryHousingExpense,
}

// Categories returns the reportable categories in declaration order.
func Categories() []Category {
	return append([]Category(nil), reportCategories...)
}

// Valid reports whether c can be stored on a record.
func (c Category) Valid() bool {
	return c >= CategoryFood && c <= CategoryHousingExpense
}

// Slug is the stable identifier persisted in stores.
func (c Category) Slug() string { return categoryTable[c].slug }

// Name is the display name.
func (c Category) Name() string { return categoryTable[c].name }

// Glyph is the display icon.
func (c Category) Glyph() string { return categoryTable[c].glyph }

func (c Category) String() string {
	if n := c.Name(); n != "" {
		return n
	}
	if c == CategoryEditMore {
		return "Edit More"
	}
	return "Unknown"
}

// ParseCategory resolves a slug, display name or glyph. Tables written by older
// clients carry the glyph, so all three forms are accepted.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryUnknown, false
	}
	// glyphs may arrive with or without the emoji variation selector
	bare := strings.TrimSuffix(s, variationSelector)
	for c, info := range categoryTable {
		if c == CategoryEditMore {
			continue
		}
		if strings.EqualFold(s, info.slug) || strings.EqualFold(s, info.name) {
			return c, true
		}
		if s == info.glyph || bare == strings.TrimSuffix(info.glyph, variationSelector) {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// CategoryFromString never fails; unknown values decode to CategoryUnknown.
func CategoryFromString(s string) Category {
	c, _ := ParseCategory(s)
	return c
}
