// Package match builds the derived association tables between products
// and ingredients. Everything here is a cache over products and
// ingredients and can be dropped and rebuilt at any time.
package match

import (
	"strings"

	"github.com/Ayfri/ETL-1/internal/database/models"
)

// minPartialLength guards containment matches: names shorter than this
// produce too many false positives ("riz" is inside "riziculture").
const minPartialLength = 4

// Scorer rates the similarity of two normalized ingredient names. A zero
// score means the strategy does not apply to the pair.
type Scorer interface {
	Score(a, b string) (float64, models.MatchMethod)
}

// ExactScorer matches identical names with full confidence.
type ExactScorer struct{}

func (ExactScorer) Score(a, b string) (float64, models.MatchMethod) {
	if a == "" || a != b {
		return 0, ""
	}
	return 1.0, models.MatchMethodExact
}

// ContainmentScorer matches when one name contains the other, provided
// the contained name is at least minPartialLength long.
type ContainmentScorer struct{}

func (ContainmentScorer) Score(a, b string) (float64, models.MatchMethod) {
	if a == "" || b == "" || a == b {
		return 0, ""
	}
	if !strings.Contains(a, b) && !strings.Contains(b, a) {
		return 0, ""
	}
	shorter := a
	if len(b) < len(a) {
		shorter = b
	}
	if len(shorter) < minPartialLength {
		return 0, ""
	}
	return 0.8, models.MatchMethodPartial
}

// WordOverlapScorer scores the Jaccard index over whitespace-split words.
type WordOverlapScorer struct{}

func (WordOverlapScorer) Score(a, b string) (float64, models.MatchMethod) {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0, ""
	}

	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}
	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}

	intersection := 0
	for w := range setB {
		if setA[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union), models.MatchMethodFuzzy
}

var (
	_ Scorer = (*ExactScorer)(nil)
	_ Scorer = (*ContainmentScorer)(nil)
	_ Scorer = (*WordOverlapScorer)(nil)
)

// DefaultScorers returns the standard chain, tried in order of
// decreasing confidence.
func DefaultScorers() []Scorer {
	return []Scorer{ExactScorer{}, ContainmentScorer{}, WordOverlapScorer{}}
}

// Score runs the default chain and returns the first positive score.
// When no strategy applies, the last attempted result is returned.
func Score(a, b string) (float64, models.MatchMethod) {
	return scoreWith(DefaultScorers(), a, b)
}

func scoreWith(scorers []Scorer, a, b string) (float64, models.MatchMethod) {
	var score float64
	var method models.MatchMethod
	for _, scorer := range scorers {
		score, method = scorer.Score(a, b)
		if score > 0 {
			return score, method
		}
	}
	return score, method
}

// nonIngredientPatterns appear in descriptive phrases rather than plain
// ingredient names ("gros sel de Guérande, au choix").
var nonIngredientPatterns = []string{
	"de ", "du ", "des ", "la ", "le ", "les ",
	"ou ", "et ", "au ", "aux ", "pour ", "avec ",
	"frais", "séché", "congelé", "surgelé", "pelé",
	"haché", "coupé", "râpé", "moulu", "entier",
	"boîte", "bocal", "sachet", "paquet",
	"taille", "moyenne", "moyen", "grosse", "gros",
	"facultatif", "optionnel", "choix", "préférence",
}

// IsSimpleName reports whether a name looks like a plain ingredient
// rather than a phrase or preparation note. Only simple names take part
// in product matching.
func IsSimpleName(name string) bool {
	if len(name) < 3 {
		return false
	}

	words := strings.Fields(name)
	if len(words) > 3 {
		return false
	}

	lower := strings.ToLower(name)
	if len(words) > 1 {
		for _, pattern := range nonIngredientPatterns {
			if strings.Contains(lower, pattern) {
				return false
			}
		}
	}

	for _, r := range lower {
		if r >= 'a' && r <= 'z' || r > 127 {
			return true
		}
	}
	return false
}
