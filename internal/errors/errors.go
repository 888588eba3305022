package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "with this URL"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ExtractionError represents a fatal failure while downloading or scraping
// raw data. Extraction failures abort the current run and are surfaced to
// the operator without automatic retry.
type ExtractionError struct {
	Source  string
	Message string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction from %s failed: %s", e.Source, e.Message)
}

// Entity Not Found Errors
var (
	ErrProductNotFound    = &NotFoundError{Entity: "product"}
	ErrRecipeNotFound     = &NotFoundError{Entity: "recipe"}
	ErrIngredientNotFound = &NotFoundError{Entity: "ingredient"}
)

// Already Exists Errors
var (
	ErrRecipeExists     = &AlreadyExistsError{Entity: "recipe", Context: "with this URL"}
	ErrIngredientExists = &AlreadyExistsError{Entity: "ingredient", Context: "with this name"}
)

// Query-layer errors
var (
	ErrInvalidPaginationParams = errors.New("invalid pagination parameters")
	ErrInvalidSortKey          = errors.New("invalid sort key")
	ErrInvalidSortOrder        = errors.New("invalid sort order")
)

// Pipeline errors
var (
	ErrDatabaseMissing = errors.New("database file not found, run the load step first")
	ErrRawFileMissing  = errors.New("raw input file not found, run the extract step first")
	ErrEmptyCSV        = errors.New("CSV file is empty or malformed")
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExtraction checks if an error is an ExtractionError
func IsExtraction(err error) bool {
	var extractionErr *ExtractionError
	return errors.As(err, &extractionErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewExtractionError creates a new ExtractionError
func NewExtractionError(source, message string) error {
	return &ExtractionError{Source: source, Message: message}
}
