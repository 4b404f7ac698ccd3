package seekpager

import (
	"encoding/base64"

	"gorm.io/gorm"
)

var _encoder = base64.RawURLEncoding

// Cursor marks a boundary position in an ordered dataset. A cursor is only
// valid against the sort specification it was produced with.
type Cursor interface {
	String() string
	IsEmpty() bool
	Apply(*gorm.DB, Traversal) *gorm.DB
	validate(orderings Orderings) error
	// requiresTieBreaker reports whether this cursor strategy needs a total
	// ordering (a unique terminal sort column) to traverse correctly.
	requiresTieBreaker() bool
}

// Page is a generic paginated result container.
type Page[T any, CursorType Cursor] struct {
	// Items result elements, always in canonical (forward) order regardless
	// of the traversal direction used to fetch them.
	Items []T
	// AppliedLimit effective limit used for the query.
	AppliedLimit int
	// NextPageToken token for the page after the last item. Empty when the
	// fetch reached the end of the dataset in the forward direction.
	NextPageToken CursorType
	// PrevPageToken token for the page before the first item. Empty when no
	// prior page can exist.
	PrevPageToken CursorType
}
