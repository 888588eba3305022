package transform

import (
	"regexp"
	"strings"
)

// ParsedIngredient is an ingredient line split into its parts. When no
// numeric prefix is found, Quantity and Unit stay empty and the whole line
// is the name.
type ParsedIngredient struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Name     string `json:"name"`
	Raw      string `json:"raw"`
}

// cookingUnits is the fixed vocabulary of non-metric units seen on the
// source site: spoons, glasses, sachets, tins, slices, cloves, sprigs,
// leaves, pinches, handfuls, cubes, knobs.
const cookingUnits = `cuillères?(?:\s+à\s+(?:soupe|café|thé))?|verres?|sachets?|boîtes?|bocaux|tranches?|gousses?|branches?|feuilles?|pincées?|poignées?|cubes?|noix`

var (
	reQtyMetricDe   = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s*([a-zA-Zéèàç]+)\s+(?:de |d')\s*(.+)$`)
	reQtyCookingDe  = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s+(` + cookingUnits + `)\s+(?:de |d')\s*(.+)$`)
	reFracCookingDe = regexp.MustCompile(`(?i)^(\d+/\d+)\s+(` + cookingUnits + `)\s+(?:de |d')\s*(.+)$`)
	reQtyName       = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s+(.+)$`)
	reFracName      = regexp.MustCompile(`^(\d+/\d+)\s+(.+)$`)
)

// leadingArticles are the French determiners stripped from the front of a
// name before it is used as a matching key.
var leadingArticles = []string{"d'", "de ", "du ", "la ", "le ", "les ", "un ", "une ", "des "}

// ParseIngredient splits a raw ingredient line into quantity, unit and
// name. Patterns are tried from most to least specific; decimal commas are
// converted to dots.
func ParseIngredient(text string) ParsedIngredient {
	trimmed := strings.TrimSpace(text)
	result := ParsedIngredient{Name: trimmed, Raw: trimmed}

	// Quantity + cooking unit + de/d' + name (2 cuillères à soupe de sauce)
	if m := reQtyCookingDe.FindStringSubmatch(trimmed); m != nil {
		result.Quantity = decimalDot(m[1])
		result.Unit = strings.TrimSpace(m[2])
		result.Name = strings.TrimSpace(m[3])
		return result
	}

	// Fraction + cooking unit + de/d' + name (1/2 verre de lait)
	if m := reFracCookingDe.FindStringSubmatch(trimmed); m != nil {
		result.Quantity = m[1]
		result.Unit = strings.TrimSpace(m[2])
		result.Name = strings.TrimSpace(m[3])
		return result
	}

	// Quantity + metric unit + de/d' + name (350 g de thon, 50 cl d'eau)
	if m := reQtyMetricDe.FindStringSubmatch(trimmed); m != nil {
		result.Quantity = decimalDot(m[1])
		result.Unit = strings.TrimSpace(m[2])
		result.Name = strings.TrimSpace(m[3])
		return result
	}

	// Quantity + simple name (2 oeufs, 1 pâte brisée)
	if m := reQtyName.FindStringSubmatch(trimmed); m != nil {
		result.Quantity = decimalDot(m[1])
		result.Name = strings.TrimSpace(m[2])
		return result
	}

	// Fraction + name (1/2 chou-fleur)
	if m := reFracName.FindStringSubmatch(trimmed); m != nil {
		result.Quantity = m[1]
		result.Name = strings.TrimSpace(m[2])
		return result
	}

	return result
}

func decimalDot(s string) string {
	return strings.ReplaceAll(s, ",", ".")
}

// NormalizeName produces the case-insensitive matching key for an
// ingredient name: lowercase, language prefix (en:, fr:) removed, leading
// determiners stripped, whitespace collapsed. Display code keeps the
// originally-cased name; only dedup and matching use this key.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}

	name = strings.ToLower(strings.TrimSpace(name))

	// Tags from OpenFoodFacts carry a language prefix
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}

	name = strings.Join(strings.Fields(name), " ")

	for _, article := range leadingArticles {
		if strings.HasPrefix(name, article) {
			name = name[len(article):]
			break
		}
	}

	return strings.TrimSpace(name)
}

// NormalizeTag is NormalizeName applied to an OpenFoodFacts ingredient tag
// with dashes and underscores flattened to spaces, the way tag values are
// written (en:olive-oil).
func NormalizeTag(tag string) string {
	tag = strings.ReplaceAll(tag, "-", " ")
	tag = strings.ReplaceAll(tag, "_", " ")
	return NormalizeName(tag)
}
