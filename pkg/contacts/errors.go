package contacts

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the contacts file does not exist
	ErrNotFound = errors.New("file not found")
	// ErrNoHeaders is returned when the file has no rows at all
	ErrNoHeaders = errors.New("CSV has no headers")
	// ErrMissingEmailColumn is returned when no header matches an email alias
	ErrMissingEmailColumn = errors.New("could not find email column")
	// ErrMalformed wraps CSV syntax errors
	ErrMalformed = errors.New("malformed CSV")
)

// RowError reports a data row whose email cell is empty.
// Row is the 1-based line in the file where the record starts.
type RowError struct {
	Row int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: missing email", e.Row)
}
