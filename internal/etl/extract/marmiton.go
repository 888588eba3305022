package extract

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Ayfri/ETL-1/internal/etl"
	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/logger"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

var (
	reFirstNumber  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)`)
	reFirstInteger = regexp.MustCompile(`(\d+)`)
)

// Scraper fetches recipe and ingredient pages from Marmiton, one request
// at a time with a fixed delay between requests.
type Scraper struct {
	client      *http.Client
	baseURL     string
	delay       time.Duration
	lastRequest time.Time
	log         *logger.Logger
}

func NewScraper(baseURL string, delay, timeout time.Duration) *Scraper {
	return &Scraper{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		delay:   delay,
		log:     logger.ForComponent("extract"),
	}
}

// fetch rate-limits, fetches a page and parses it. A nil document with a
// nil error means the page does not exist (404), which callers use to
// stop pagination.
func (s *Scraper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if wait := s.delay - time.Since(s.lastRequest); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	s.lastRequest = time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewExtractionError("marmiton", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExtractionError("marmiton",
			fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, url))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperrors.NewExtractionError("marmiton", "parse page: "+err.Error())
	}
	return doc, nil
}

func (s *Scraper) absoluteURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return s.baseURL + href
	}
	return ""
}

// ScrapeIngredientIndex walks the alphabetical ingredient listing pages
// and returns every ingredient card found. For each letter, numbered
// pages are followed until one is missing or empty.
func (s *Scraper) ScrapeIngredientIndex(ctx context.Context, letters []string, maxPagesPerLetter int) ([]etl.RawIngredient, error) {
	seen := make(map[string]bool)
	var ingredients []etl.RawIngredient

	for _, letter := range letters {
		for page := 1; page <= maxPagesPerLetter; page++ {
			url := fmt.Sprintf("%s/recettes/index/ingredient/%s", s.baseURL, letter)
			if page > 1 {
				url = fmt.Sprintf("%s/%d", url, page)
			}

			doc, err := s.fetch(ctx, url)
			if err != nil {
				return ingredients, err
			}
			if doc == nil {
				break
			}

			found := 0
			doc.Find("a.card-needed__link").Each(func(_ int, card *goquery.Selection) {
				name := strings.TrimSpace(card.Find(".card-needed__name").Text())
				if name == "" || seen[strings.ToLower(name)] {
					return
				}
				seen[strings.ToLower(name)] = true

				imageURL, _ := card.Find("img.card-needed__image").Attr("src")
				ingredients = append(ingredients, etl.RawIngredient{
					Name:     name,
					ImageURL: imageURL,
				})
				found++
			})
			if found == 0 {
				break
			}
		}
		s.log.WithFields(logrus.Fields{"letter": letter, "total": len(ingredients)}).
			Debug("ingredient letter done")
	}

	s.log.WithField("ingredients", len(ingredients)).Info("ingredient index scraped")
	return ingredients, nil
}

// CollectRecipeURLs gathers recipe page links from a listing or search
// page, deduplicated, in page order.
func (s *Scraper) CollectRecipeURLs(ctx context.Context, pageURL string, maxResults int) ([]string, error) {
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	seen := make(map[string]bool)
	var urls []string
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if !strings.Contains(href, "/recettes/recette") {
			return true
		}
		href = s.absoluteURL(href)
		if href == "" || seen[href] {
			return true
		}
		seen[href] = true
		urls = append(urls, href)
		return len(urls) < maxResults
	})
	return urls, nil
}

// ScrapeRecipe extracts one recipe page. It returns nil when the page is
// missing or lacks the minimum data (a name plus ingredients or steps).
func (s *Scraper) ScrapeRecipe(ctx context.Context, url string) (*etl.RawRecipe, error) {
	doc, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	recipe := &etl.RawRecipe{URL: url}

	recipe.Name = strings.TrimSpace(doc.Find("h1.main-title").First().Text())
	if recipe.Name == "" {
		recipe.Name = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	ratingText := doc.Find("div.recipe-header__rating span.rating").First().Text()
	if m := reFirstNumber.FindStringSubmatch(ratingText); m != nil {
		recipe.Rate = strings.ReplaceAll(m[1], ",", ".")
	}
	commentsText := doc.Find("a.recipe-header__comments").First().Text()
	if m := reFirstInteger.FindStringSubmatch(commentsText); m != nil {
		recipe.NbComments = m[1]
	}

	doc.Find("div.recipe-infos__item").Each(func(_ int, item *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(item.Find("span.recipe-infos__item-label").Text()))
		value := strings.TrimSpace(item.Find("span.recipe-infos__item-value").Text())
		if label == "" || value == "" {
			return
		}
		switch {
		case strings.Contains(label, "difficulté") || strings.Contains(label, "niveau"):
			recipe.Difficulty = value
		case strings.Contains(label, "coût") || strings.Contains(label, "budget") || strings.Contains(label, "prix"):
			recipe.Budget = value
		case strings.Contains(label, "préparation") || strings.Contains(label, "prep"):
			recipe.PrepTime = value
		case strings.Contains(label, "cuisson") || strings.Contains(label, "cook"):
			recipe.CookTime = value
		case strings.Contains(label, "total"):
			recipe.TotalTime = value
		}
	})

	recipe.RecipeQuantity = strings.TrimSpace(doc.Find("span.recipe-infos__quantity").First().Text())

	doc.Find("div.recipe-ingredients li.recipe-ingredients__list-item").Each(func(_ int, item *goquery.Selection) {
		if text := normalizeSpace(item.Text()); text != "" {
			recipe.Ingredients = append(recipe.Ingredients, text)
		}
	})

	doc.Find("div.recipe-steps li.recipe-steps__list-item").Each(func(i int, item *goquery.Selection) {
		if text := normalizeSpace(item.Text()); text != "" {
			recipe.Steps = append(recipe.Steps, fmt.Sprintf("%d. %s", i+1, text))
		}
	})

	img := doc.Find("img.recipe-media__image").First()
	if src, ok := img.Attr("src"); ok && src != "" {
		recipe.Images = append(recipe.Images, src)
	} else if src, ok := img.Attr("data-src"); ok && src != "" {
		recipe.Images = append(recipe.Images, src)
	}

	if recipe.Name == "" || (len(recipe.Ingredients) == 0 && len(recipe.Steps) == 0) {
		return nil, nil
	}
	return recipe, nil
}

// ScrapeRecipes fetches every URL in order, skipping pages that fail to
// yield a usable recipe. Only transport-level errors abort the run.
func (s *Scraper) ScrapeRecipes(ctx context.Context, urls []string) ([]etl.RawRecipe, error) {
	recipes := make([]etl.RawRecipe, 0, len(urls))
	for i, url := range urls {
		recipe, err := s.ScrapeRecipe(ctx, url)
		if err != nil {
			return recipes, err
		}
		if recipe == nil {
			s.log.WithField("url", url).Debug("recipe skipped")
			continue
		}
		recipes = append(recipes, *recipe)

		if (i+1)%25 == 0 {
			s.log.WithFields(logrus.Fields{"scraped": len(recipes), "visited": i + 1}).
				Info("scraping progress")
		}
	}
	return recipes, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
