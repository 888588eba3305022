package match

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ayfri/ETL-1/internal/database/models"
	"github.com/Ayfri/ETL-1/internal/etl/transform"
	"github.com/Ayfri/ETL-1/internal/logger"
)

const (
	batchSize = 500

	// fuzzyMappingFloor is the minimum word-overlap score accepted when
	// mapping an OpenFoodFacts tag to an ingredient without exact or
	// containment agreement.
	fuzzyMappingFloor = 0.75
)

// Result tallies one matching pass.
type Result struct {
	Products int `json:"products"`
	Matches  int `json:"matches"`
	Mappings int `json:"mappings"`
	Usable   int `json:"usable"`
}

// Matcher rebuilds the product/ingredient association tables from the
// loaded products and ingredients.
type Matcher struct {
	db        *gorm.DB
	threshold float64
	scorers   []Scorer
	log       *logger.Logger
}

func NewMatcher(db *gorm.DB, threshold float64) *Matcher {
	return &Matcher{db: db, threshold: threshold, scorers: DefaultScorers(), log: logger.ForComponent("match")}
}

type candidate struct {
	id   uint
	name string
}

// loadCandidates returns ingredients whose normalized name is a plain
// ingredient word, keyed for matching.
func (m *Matcher) loadCandidates(ctx context.Context) ([]candidate, map[string]uint, error) {
	var ingredients []models.Ingredient
	if err := m.db.WithContext(ctx).Find(&ingredients).Error; err != nil {
		return nil, nil, fmt.Errorf("load ingredients: %w", err)
	}

	var candidates []candidate
	exact := make(map[string]uint, len(ingredients))
	for _, ing := range ingredients {
		normalized := transform.NormalizeName(ing.Name)
		if normalized == "" || !IsSimpleName(normalized) {
			continue
		}
		if _, ok := exact[normalized]; ok {
			continue
		}
		exact[normalized] = ing.ID
		candidates = append(candidates, candidate{id: ing.ID, name: normalized})
	}
	return candidates, exact, nil
}

// MatchProducts drops and rebuilds product_ingredient_matches. Each
// product's ingredient tags are compared against every simple ingredient
// name; matches at or above the threshold are kept, the best score per
// product/ingredient pair wins.
func (m *Matcher) MatchProducts(ctx context.Context) (*Result, error) {
	candidates, exact, err := m.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}
	m.log.WithField("ingredients", len(candidates)).Info("matching products against ingredients")

	if err := m.db.WithContext(ctx).
		Exec("DELETE FROM product_ingredient_matches").Error; err != nil {
		return nil, fmt.Errorf("clear matches: %w", err)
	}

	var products []models.Product
	if err := m.db.WithContext(ctx).
		Select("code", "ingredients_tags").
		Where("ingredients_tags != ''").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	result := &Result{}
	var pending []models.ProductIngredientMatch

	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		matches := m.matchProduct(product, candidates, exact)
		if len(matches) == 0 {
			continue
		}
		result.Products++
		result.Matches += len(matches)
		pending = append(pending, matches...)

		if len(pending) >= batchSize {
			if err := m.insertMatches(ctx, pending); err != nil {
				return result, err
			}
			pending = pending[:0]
		}
	}
	if err := m.insertMatches(ctx, pending); err != nil {
		return result, err
	}

	m.log.WithFields(logrus.Fields{
		"products": result.Products, "matches": result.Matches,
	}).Info("product matching finished")
	return result, nil
}

func (m *Matcher) matchProduct(product models.Product, candidates []candidate, exact map[string]uint) []models.ProductIngredientMatch {
	tags := splitTags(product.IngredientsTags)
	if len(tags) == 0 {
		return nil
	}

	best := make(map[uint]models.ProductIngredientMatch)
	record := func(id uint, score float64, method models.MatchMethod) {
		if score < m.threshold {
			return
		}
		if prev, ok := best[id]; ok && prev.MatchScore >= score {
			return
		}
		best[id] = models.ProductIngredientMatch{
			ProductCode:  product.Code,
			IngredientID: id,
			MatchScore:   score,
			MatchMethod:  method,
		}
	}

	// Only exact and containment agreement binds products to
	// ingredients; word overlap is too loose for tag data.
	var containment ContainmentScorer
	for _, tag := range tags {
		if id, ok := exact[tag]; ok {
			record(id, 1.0, models.MatchMethodExact)
			continue
		}
		for _, cand := range candidates {
			if score, method := containment.Score(tag, cand.name); score > 0 {
				record(cand.id, score, method)
			}
		}
	}

	matches := make([]models.ProductIngredientMatch, 0, len(best))
	for _, match := range best {
		matches = append(matches, match)
	}
	return matches
}

func (m *Matcher) insertMatches(ctx context.Context, matches []models.ProductIngredientMatch) error {
	if len(matches) == 0 {
		return nil
	}
	if err := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(matches, batchSize).Error; err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}
	return nil
}

// BuildMappings rebuilds ingredient_mappings from the distinct ingredient
// tags found on products. Exact normalized agreement maps with full
// confidence; otherwise the best-scoring ingredient above the fuzzy floor
// is taken. maxTags caps the number of tags considered; zero or a
// negative value means no cap.
func (m *Matcher) BuildMappings(ctx context.Context, maxTags int) (*Result, error) {
	candidates, exact, err := m.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}

	var tagLists []string
	if err := m.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("ingredients_tags").
		Where("ingredients_tags != ''").
		Pluck("ingredients_tags", &tagLists).Error; err != nil {
		return nil, fmt.Errorf("load product tags: %w", err)
	}

	seen := make(map[string]bool)
	var tags []string
	for _, list := range tagLists {
		for _, tag := range strings.FieldsFunc(list, func(r rune) bool {
			return r == ',' || r == ';' || r == '|'
		}) {
			tag = strings.TrimSpace(tag)
			if len(tag) <= 2 || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
			if maxTags > 0 && len(tags) >= maxTags {
				break
			}
		}
		if maxTags > 0 && len(tags) >= maxTags {
			break
		}
	}

	result := &Result{}
	var mappings []models.IngredientMapping

	for _, tag := range tags {
		normalized := transform.NormalizeTag(tag)
		if len(normalized) < 2 {
			continue
		}

		if id, ok := exact[normalized]; ok {
			mappings = append(mappings, models.IngredientMapping{
				OffIngredientTag: tag,
				IngredientID:     id,
				MatchType:        models.MatchMethodExact,
				Confidence:       1.0,
				IsActive:         true,
			})
			continue
		}

		var bestID uint
		var bestScore float64
		var bestMethod models.MatchMethod
		for _, cand := range candidates {
			score, method := scoreWith(m.scorers, normalized, cand.name)
			if score > bestScore {
				bestID, bestScore, bestMethod = cand.id, score, method
			}
		}
		if bestScore > fuzzyMappingFloor {
			mappings = append(mappings, models.IngredientMapping{
				OffIngredientTag: tag,
				IngredientID:     bestID,
				MatchType:        bestMethod,
				Confidence:       bestScore,
				IsActive:         true,
			})
		}
	}

	if len(mappings) > 0 {
		if err := m.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "off_ingredient_tag"}},
				UpdateAll: true,
			}).
			CreateInBatches(mappings, batchSize).Error; err != nil {
			return result, fmt.Errorf("upsert mappings: %w", err)
		}
	}
	result.Mappings = len(mappings)

	m.log.WithField("mappings", result.Mappings).Info("ingredient mappings rebuilt")
	return result, nil
}

// splitTags splits a comma-separated tag list and normalizes each entry.
func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := transform.NormalizeTag(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// RebuildUsableSummaries recomputes the per-product match summary from
// the current matches. The total is the number of distinct simple
// ingredient names known; a product's percentage is its matched share.
func (m *Matcher) RebuildUsableSummaries(ctx context.Context) (*Result, error) {
	candidates, _, err := m.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}
	total := len(candidates)

	if err := m.db.WithContext(ctx).
		Exec("DELETE FROM products_marmiton_usable").Error; err != nil {
		return nil, fmt.Errorf("clear usable summaries: %w", err)
	}
	if total == 0 {
		return &Result{}, nil
	}

	type matchCount struct {
		ProductCode string
		Count       int
	}
	var counts []matchCount
	if err := m.db.WithContext(ctx).
		Model(&models.ProductIngredientMatch{}).
		Select("product_code", "COUNT(DISTINCT ingredient_id) AS count").
		Group("product_code").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count matches: %w", err)
	}

	now := time.Now()
	summaries := make([]models.ProductMarmitonUsable, 0, len(counts))
	for _, c := range counts {
		summaries = append(summaries, models.ProductMarmitonUsable{
			ProductCode:              c.ProductCode,
			MatchingIngredientsCount: c.Count,
			TotalIngredientsCount:    total,
			MatchPercentage:          float64(c.Count) / float64(total),
			UpdatedAt:                now,
		})
	}
	if len(summaries) > 0 {
		if err := m.db.WithContext(ctx).
			CreateInBatches(summaries, batchSize).Error; err != nil {
			return nil, fmt.Errorf("insert usable summaries: %w", err)
		}
	}

	result := &Result{Usable: len(summaries)}
	m.log.WithField("products", result.Usable).Info("usable summaries rebuilt")
	return result, nil
}
