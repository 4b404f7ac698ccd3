package seekpager

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// KeysetCursor is an opaque pagination token marking the boundary row of the
// requested page. An empty cursor means the start of the dataset.
//
// IMPORTANT:
// The token MUST always contain a condition on a unique column!
//
// The token is a list of conditions of the following shape:
//
//	[(C1, O1, V1), (C2, O2, V2)... (Cn, On, Vn)]
//
// Operators are stored in canonical (forward) polarity; backward traversal
// inverts them at query-build time, never inside the token.
type KeysetCursor struct {
	elements []CursorElement
}

func NewCursor(elements ...CursorElement) *KeysetCursor {
	return NewKeysetCursor(elements...)
}

func NewKeysetCursor(elements ...CursorElement) *KeysetCursor {
	return &KeysetCursor{
		elements: elements,
	}
}

// DecodeKeysetCursor attempts to parse a base64-encoded string into
// *KeysetCursor. An empty token decodes to a nil cursor (start of dataset);
// a malformed token fails with ErrInvalidCursor.
func DecodeKeysetCursor(b64String string) (*KeysetCursor, error) {
	if len(b64String) == 0 {
		return nil, nil
	}

	jsonData, err := _encoder.DecodeString(b64String)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode base64 encoded cursor: %s", ErrInvalidCursor, err)
	}

	var elems []CursorElement
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	// Keep integers as integers across the round trip. Plain json.Unmarshal
	// would flatten every number to float64.
	decoder.UseNumber()
	if err = decoder.Decode(&elems); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal json encoded cursor: %s", ErrInvalidCursor, err)
	}

	for i := range elems {
		elems[i].Value, err = normalizeDecodedValue(elems[i].Value)
		if err != nil {
			return nil, fmt.Errorf("%w: column '%s': %s", ErrInvalidCursor, elems[i].Column, err)
		}
	}

	return &KeysetCursor{
		elements: elems,
	}, nil
}

func normalizeDecodedValue(v any) (any, error) {
	num, ok := v.(json.Number)
	if !ok {
		return v, nil
	}

	if i, err := num.Int64(); err == nil {
		return i, nil
	}
	if f, err := num.Float64(); err == nil {
		return f, nil
	}

	return nil, fmt.Errorf("cannot coerce numeric value '%s'", num)
}

// String - implements fmt.Stringer.
func (c *KeysetCursor) String() string {
	if c == nil || len(c.elements) == 0 {
		return ""
	}

	jTok, err := json.Marshal(c.elements)
	if err != nil {
		panic(fmt.Errorf("cannot marshal cursor value: %w", err))
	}

	var buf bytes.Buffer
	if err = json.Compact(&buf, jTok); err != nil {
		panic(fmt.Errorf("cannot compact cursor value: %w", err))
	}

	return _encoder.EncodeToString(buf.Bytes())
}

// IsEmpty - implements Cursor.
func (c *KeysetCursor) IsEmpty() bool {
	return c == nil || len(c.elements) == 0
}

// GetElements returns the token elements. The elements are a compressed set of
// filtering conditions.
//
// IMPORTANT:
// These conditions cannot be applied to the data directly because they are
// incomplete. During pagination they are expanded into the full boundary filter.
func (c *KeysetCursor) GetElements() []CursorElement {
	if c == nil {
		return nil
	}

	return c.elements
}

// WithElements sets the token elements explicitly.
func (c *KeysetCursor) WithElements(elements []CursorElement) *KeysetCursor {
	if c == nil {
		c = new(KeysetCursor)
	}

	c.elements = elements

	return c
}

// Apply - implements Cursor. Applies the boundary filter to a gorm query.
// Backward traversal inverts the comparison polarity of the filter.
func (c *KeysetCursor) Apply(db *gorm.DB, traversal Traversal) *gorm.DB {
	filter := c.toFilter()
	if traversal.orDefault() == TraversalBackward {
		filter = filter.invert()
	}

	exp := filter.toGORMExpression()
	if exp == nil {
		return db
	}

	return db.Clauses(exp)
}

// ToSQL - implements Cursor. Returns the string form of the boundary filter as
// an SQL expression.
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table WHERE %s", c.ToSQL())
func (c *KeysetCursor) ToSQL() (string, []driver.Value) {
	if c.IsEmpty() {
		return "TRUE", nil
	}

	return c.toFilter().toSQLClause()
}

// toFilter expands KeysetCursor into a seekFilter.
//
// The token is a list of conditions of the shape:
//
//	[(C1, O1, V1), (C2, O2, V2)... (Cn, On, Vn)]
//
// Each element i produces one branch that pins every preceding column to
// equality and applies the element's own operator:
//
//	(C1 O1 V1) or (C1 = V1 and C2 O2 V2) or ...
//
// In this form the token is a DNF sufficient for filtering: it unambiguously
// determines the position from which to resume reading the dataset.
func (c *KeysetCursor) toFilter() seekFilter {
	if c.IsEmpty() {
		return nil
	}

	filter := make(seekFilter, 0, len(c.elements))
	for i := range c.elements {
		pinnedPrefix := lo.Map(c.elements[:i], func(item CursorElement, _ int) seekCond {
			return item.toEqualityCond()
		})

		branch := make(seekBranch, 0, len(pinnedPrefix)+1)
		branch = append(branch, pinnedPrefix...)
		branch = append(branch, seekCond(c.elements[i]))

		filter = append(filter, branch)
	}

	return filter
}

// validate - implements Cursor. A cursor is only valid against the orderings
// it was produced with; any divergence is an ErrInvalidCursor.
func (c *KeysetCursor) validate(orderings Orderings) error {
	if c.IsEmpty() {
		return nil
	}

	// The number of columns in the token must match the ordering list.
	if len(c.elements) != len(orderings) && len(c.elements) != 0 {
		return fmt.Errorf("%w: cursor column number mismatch", ErrInvalidCursor)
	}

	// Check that filters agree with the sort specification. An empty element
	// list is allowed.
	for i := range c.elements {
		cond := c.elements[i]
		orderBy := orderings[i]

		if cond.Column != orderBy.Column {
			return fmt.Errorf("%w: unexpected cursor column '%s'", ErrInvalidCursor, cond.Column)
		}

		if !cond.Operator.Valid() {
			return fmt.Errorf("%w: invalid cursor operator '%s'", ErrInvalidCursor, cond.Operator)
		} else if cond.Operator.ForOrdering() != orderBy.Direction {
			return fmt.Errorf("%w: unexpected cursor operator '%s'", ErrInvalidCursor, cond.Operator)
		}
	}

	return nil
}

// requiresTieBreaker - implements Cursor. Keyset traversal is only correct
// over a total ordering.
func (c *KeysetCursor) requiresTieBreaker() bool {
	return true
}

var (
	_ Cursor       = (*KeysetCursor)(nil)
	_ fmt.Stringer = (*KeysetCursor)(nil)
)

// Getters is a dictionary of value getters for a model. List the columns the
// pagination is based on.
// Example:
//
//	seekpager.Getters[models.Player]{
//		"id":    func(last models.Player) any { return last.ID },
//		"score": func(last models.Player) any { return last.Score },
//	}
type Getters[T any] map[string]func(T) any

// cursorForRow builds a cursor whose boundary values are taken from the given
// row, with canonical operators derived from the sort directions.
func cursorForRow[T any](sort Orderings, getters Getters[T], row T) (*KeysetCursor, error) {
	ret := KeysetCursor{elements: nil}
	for _, orderBy := range sort {
		getter, ok := getters[orderBy.Column]
		if !ok {
			return nil, fmt.Errorf("cannot find getter for column '%s' met in ordering", orderBy.Column)
		}

		ret.elements = append(ret.elements, CursorElement{
			Column:   orderBy.Column,
			Value:    getter(row),
			Operator: orderBy.Direction.ForOperator(),
		})
	}

	return &ret, nil
}

// NextPageCursor builds the cursor for the next page of the dataset from a
// result set fetched via pager.Paginate. Returns the trimmed result set and
// a nil cursor when the result set is the last page.
func NextPageCursor[T any](
	initialPager *Pager[*KeysetCursor],
	resultSet []T,
	getters Getters[T],
) ([]T, *KeysetCursor, error) {
	err := initialPager.validate()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot build next page cursor: %w", err)
	}

	if IsLastPage(initialPager, resultSet) {
		return resultSet, nil, nil
	}
	resultSet = TrimResultSet(initialPager, resultSet)

	cursor, err := cursorForRow(initialPager.sort, getters, lo.LastOrEmpty(resultSet))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot build next page cursor: %w", err)
	}

	return resultSet, cursor, nil
}

// CursorElement is a triplet (c v o) where:
//
//   - "c" - model column.
//   - "v" - value the column is compared against.
//   - "o" - operator applied to the pair (c, v);
type CursorElement struct {
	Column   string   `json:"c"`
	Value    any      `json:"v"`
	Operator Operator `json:"o"`
}

func (c *CursorElement) toEqualityCond() seekCond {
	return seekCond{
		Column:   c.Column,
		Value:    c.Value,
		Operator: operatorEq,
	}
}
