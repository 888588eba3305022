package testutils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Ayfri/ETL-1/internal/database"
)

// BaseTestSuite provides a fresh SQLite database per suite, created in a
// temporary directory and migrated with the full schema and views.
// SetupTest truncates every table so each test starts clean.
type BaseTestSuite struct {
	suite.Suite
	DB *gorm.DB
}

// SetupTestSuite creates a migrated throwaway database for t.
func SetupTestSuite(t *testing.T) *BaseTestSuite {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"), &database.Options{
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("initialize test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &BaseTestSuite{DB: db}
}

func (s *BaseTestSuite) SetupTest()    { s.CleanTestDB() }
func (s *BaseTestSuite) TearDownTest() { s.CleanTestDB() }

// CleanTestDB removes all rows, children before parents so the foreign
// keys never object.
func (s *BaseTestSuite) CleanTestDB() {
	if s.DB == nil {
		return
	}
	tables := []string{
		"recipe_ingredients",
		"product_ingredient_matches",
		"ingredient_mappings",
		"products_marmiton_usable",
		"nutrition_facts",
		"recipes",
		"ingredients",
		"products",
	}
	for _, table := range tables {
		s.DB.Exec("DELETE FROM " + table)
	}
}
