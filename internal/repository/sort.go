package repository

import "fmt"

// Sort is a validated sort request: Column is a real database column
// (the service layer maps API sort keys and rejects unknown ones) and
// Direction is "ASC" or "DESC".
type Sort struct {
	Column    string
	Direction string
}

// OrderClause renders the ORDER BY expression, pushing NULL values last
// regardless of direction. SQLite sorts NULLs first on ASC by default,
// which puts unrated rows at the top of every list.
func (s Sort) OrderClause() string {
	if s.Column == "" {
		return ""
	}
	direction := s.Direction
	if direction != "DESC" {
		direction = "ASC"
	}
	return fmt.Sprintf("CASE WHEN %s IS NULL THEN 1 ELSE 0 END, %s %s", s.Column, s.Column, direction)
}
