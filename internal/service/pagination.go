package service

import (
	"strings"

	apperrors "github.com/Ayfri/ETL-1/internal/errors"
	"github.com/Ayfri/ETL-1/internal/repository"
)

const (
	DefaultLimit = 100
	MaxLimit     = 250
)

// ListParams carries the common pagination and sorting query parameters.
// Zero values take the defaults: page 1, limit 100, no sorting.
type ListParams struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

// normalize applies defaults and checks bounds.
func (p *ListParams) normalize() error {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Page < 1 || p.Limit < 1 || p.Limit > MaxLimit {
		return apperrors.ErrInvalidPaginationParams
	}
	return nil
}

func (p *ListParams) offset() int {
	return (p.Page - 1) * p.Limit
}

// resolveSort maps the API sort key to its database column through the
// caller's whitelist and validates the order keyword.
func (p *ListParams) resolveSort(columns map[string]string) (repository.Sort, error) {
	if p.Sort == "" {
		return repository.Sort{}, nil
	}
	column, ok := columns[p.Sort]
	if !ok {
		return repository.Sort{}, apperrors.ErrInvalidSortKey
	}

	direction := "ASC"
	switch strings.ToLower(p.Order) {
	case "", "asc":
	case "desc":
		direction = "DESC"
	default:
		return repository.Sort{}, apperrors.ErrInvalidSortOrder
	}
	return repository.Sort{Column: column, Direction: direction}, nil
}

// pageCount is ceil(total/limit).
func pageCount(total int64, limit int) int {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
