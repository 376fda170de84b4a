package filters

import (
	"strconv"
	"strings"
	"unicode"

	"skouce/models"
)

// ChoiceAttribute reads the product value a choice group filters on.
type ChoiceAttribute func(models.Product) string

// RangeAttribute reads the numeric value a range group filters on. ok is
// false when the product has no usable value.
type RangeAttribute func(models.Product) (v float64, ok bool)

func defaultChoiceAttributes() map[string]ChoiceAttribute {
	return map[string]ChoiceAttribute{
		"brand":            func(p models.Product) string { return p.Brand },
		"style":            func(p models.Product) string { return p.Style },
		"color":            func(p models.Product) string { return p.Color },
		"strap":            func(p models.Product) string { return p.Specs.StrapMaterial },
		"movement":         func(p models.Product) string { return p.Specs.Movement },
		"water-resistance": func(p models.Product) string { return p.Specs.WaterResistance },
	}
}

func defaultRangeAttributes() map[string]RangeAttribute {
	return map[string]RangeAttribute{
		"price":     func(p models.Product) (float64, bool) { return float64(p.Price), true },
		"case-size": func(p models.Product) (float64, bool) { return leadingNumber(p.Specs.CaseSize) },
	}
}

// optionMatches compares an option with a product attribute. "Metal Bracelet"
// matches option id "metal" as its leading word, and label "Rubber/Silicone"
// is not required to equal "Rubber".
func optionMatches(opt models.FacetOption, value string) bool {
	if value == "" {
		return false
	}
	v := Slug(value)
	id := Slug(opt.ID)
	return v == id || strings.HasPrefix(v, id+"-") || strings.EqualFold(opt.Label, value)
}

// Slug lowercases s and joins alphanumeric runs with "-".
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// leadingNumber parses the number at the start of values like "42mm" or "40.5 mm".
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
