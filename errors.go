package seekpager

import "errors"

var (
	// ErrInvalidCursor indicates a malformed cursor token, an arity mismatch
	// with the sort specification, or a cursor produced with a different sort
	// specification. Mixing cursors across sort specs is rejected, not guessed.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrInvalidSortKey indicates a configuration error: an empty ordering
	// list, a forbidden column name, an invalid direction, or a terminal
	// column without a uniqueness guarantee. It is reported eagerly during
	// validation, never discovered via missing rows at runtime.
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrInvalidLimit indicates a non-positive page size request.
	ErrInvalidLimit = errors.New("invalid limit")
)
