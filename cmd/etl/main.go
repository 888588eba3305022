package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Ayfri/ETL-1/internal/config"
	"github.com/Ayfri/ETL-1/internal/database"
	"github.com/Ayfri/ETL-1/internal/etl/extract"
	"github.com/Ayfri/ETL-1/internal/etl/load"
	"github.com/Ayfri/ETL-1/internal/etl/match"
	"github.com/Ayfri/ETL-1/internal/etl/transform"
	"github.com/Ayfri/ETL-1/internal/etl/verify"
)

// Intermediate file names inside the raw and processed data directories.
const (
	rawProductsFile       = "products_sample.csv"
	rawRecipesFile        = "recipes.json"
	rawIngredientsFile    = "ingredients.json"
	filteredProductsFile  = "products_filtered.csv"
	filteredRecipesFile   = "recipes_filtered.json"
	defaultRecipeListPath = "/recettes/top-recettes"
)

const usage = `Usage: etl <command> [flags]

Commands:
  download   Download and sample the OpenFoodFacts CSV dump
  scrape     Scrape the Marmiton ingredient index and recipes
  filter     Filter raw products and recipes into the processed directory
  load       Load filtered data into the SQLite database
  match      Match products to ingredients and rebuild usable summaries
  verify     Run consistency checks against the database
  all        Run every step in order
`

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	setupLogging(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "download":
		err = runDownload(ctx, cfg, args)
	case "scrape":
		err = runScrape(ctx, cfg, args)
	case "filter":
		err = runFilter(cfg)
	case "load":
		err = runLoad(ctx, cfg)
	case "match":
		err = runMatch(ctx, cfg, args)
	case "verify":
		err = runVerify(ctx, cfg)
	case "all":
		err = runAll(ctx, cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logrus.WithError(err).Fatalf("%s failed", command)
	}
}

func runDownload(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	rows := fs.Int("rows", cfg.ProductSampleRows, "maximum product rows to keep")
	url := fs.String("url", cfg.OpenFoodFactsURL, "OpenFoodFacts CSV dump URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.RawDataDir, 0o755); err != nil {
		return fmt.Errorf("create raw data dir: %w", err)
	}

	downloader := extract.NewDownloader(30 * time.Minute)
	count, err := downloader.DownloadProducts(ctx, *url, cfg.RawFile(rawProductsFile), *rows)
	if err != nil {
		return err
	}
	logrus.WithField("rows", count).Info("product sample downloaded")
	return nil
}

func runScrape(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	letters := fs.String("letters", "abcdefghijklmnopqrstuvwxyz", "index letters to scrape")
	maxPages := fs.Int("max-pages", 20, "maximum index pages per letter")
	maxRecipes := fs.Int("max-recipes", 200, "maximum recipes to scrape")
	listPath := fs.String("list", defaultRecipeListPath, "listing page path to collect recipe links from")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.RawDataDir, 0o755); err != nil {
		return fmt.Errorf("create raw data dir: %w", err)
	}

	scraper := extract.NewScraper(
		cfg.MarmitonBaseURL,
		time.Duration(cfg.ScrapeDelaySeconds*float64(time.Second)),
		time.Duration(cfg.ScrapeTimeoutSeconds)*time.Second,
	)

	ingredients, err := scraper.ScrapeIngredientIndex(ctx, splitLetters(*letters), *maxPages)
	if err != nil {
		return err
	}
	if err := writeJSON(cfg.RawFile(rawIngredientsFile), ingredients); err != nil {
		return err
	}

	urls, err := scraper.CollectRecipeURLs(ctx, cfg.MarmitonBaseURL+*listPath, *maxRecipes)
	if err != nil {
		return err
	}
	recipes, err := scraper.ScrapeRecipes(ctx, urls)
	if err != nil {
		return err
	}
	return writeJSON(cfg.RawFile(rawRecipesFile), recipes)
}

func runFilter(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.ProcessedDataDir, 0o755); err != nil {
		return fmt.Errorf("create processed data dir: %w", err)
	}

	productReport, err := transform.FilterProducts(
		cfg.RawFile(rawProductsFile), cfg.ProcessedFile(filteredProductsFile))
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"read": productReport.Read, "kept": productReport.Kept,
		"dropped": productReport.Dropped, "malformed": productReport.Malformed,
	}).Info("products filtered")

	recipeReport, err := transform.FilterRecipes(
		cfg.RawFile(rawRecipesFile), cfg.ProcessedFile(filteredRecipesFile))
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"read": recipeReport.Read, "kept": recipeReport.Kept, "dropped": recipeReport.Dropped,
	}).Info("recipes filtered")
	return nil
}

func runLoad(ctx context.Context, cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	loader := load.NewLoader(db)
	if _, err := loader.LoadProducts(ctx, cfg.ProcessedFile(filteredProductsFile)); err != nil {
		return err
	}
	if _, err := loader.LoadIngredients(ctx, cfg.RawFile(rawIngredientsFile)); err != nil {
		return err
	}
	if _, err := loader.LoadRecipes(ctx, cfg.ProcessedFile(filteredRecipesFile)); err != nil {
		return err
	}
	return nil
}

func runMatch(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	threshold := fs.Float64("threshold", cfg.MatchThreshold, "minimum match score to record")
	maxTags := fs.Int("max-tags", 0, "maximum distinct tags to map (0 means all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	matcher := match.NewMatcher(db, *threshold)
	result, err := matcher.MatchProducts(ctx)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"products": result.Products, "matches": result.Matches,
	}).Info("products matched")

	if result, err = matcher.BuildMappings(ctx, *maxTags); err != nil {
		return err
	}
	logrus.WithField("mappings", result.Mappings).Info("tag mappings built")

	if result, err = matcher.RebuildUsableSummaries(ctx); err != nil {
		return err
	}
	logrus.WithField("usable", result.Usable).Info("usable summaries rebuilt")
	return nil
}

func runVerify(ctx context.Context, cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	result, err := verify.NewVerifier(db).Run(ctx)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		logrus.Warn(warning)
	}
	for _, failure := range result.Errors {
		logrus.Error(failure)
	}
	logrus.WithFields(logrus.Fields{
		"passed": result.Passed, "warnings": len(result.Warnings), "errors": len(result.Errors),
	}).Info("verification finished")

	if !result.OK() {
		return fmt.Errorf("verification found %d error(s)", len(result.Errors))
	}
	return nil
}

func runAll(ctx context.Context, cfg *config.Config) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"download", func() error { return runDownload(ctx, cfg, nil) }},
		{"scrape", func() error { return runScrape(ctx, cfg, nil) }},
		{"filter", func() error { return runFilter(cfg) }},
		{"load", func() error { return runLoad(ctx, cfg) }},
		{"match", func() error { return runMatch(ctx, cfg, nil) }},
		{"verify", func() error { return runVerify(ctx, cfg) }},
	}
	for _, step := range steps {
		logrus.WithField("step", step.name).Info("pipeline step starting")
		if err := step.run(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	return database.Initialize(cfg.DatabasePath, nil)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func splitLetters(raw string) []string {
	var letters []string
	for _, r := range strings.ToLower(raw) {
		if r >= 'a' && r <= 'z' {
			letters = append(letters, string(r))
		}
	}
	return letters
}

func setupLogging(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	switch level {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
