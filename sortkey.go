package seekpager

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

// Invert flips the sort direction. Backward traversal executes with every
// ordering direction inverted.
func (o Direction) Invert() Direction {
	switch o {
	case DirectionASC:
		return DirectionDESC
	case DirectionDESC:
		return DirectionASC
	default:
		panic(fmt.Errorf("cannot invert direction '%s'", o))
	}
}

func (o Direction) ForOperator() Operator {
	switch o {
	case DirectionASC:
		return OperatorGT
	case DirectionDESC:
		return OperatorLT
	default:
		panic(fmt.Errorf("cannot map direction '%s' to operator", o))
	}
}

type (
	// Orderings is an ordered list of sort columns. To make the ordering total
	// and deterministic, the terminal column MUST be marked Unique (typically
	// a primary key used as a tie-breaker).
	Orderings []OrderBy
	OrderBy   struct {
		Column    string
		Direction Direction
		// Unique marks a column whose values are guaranteed distinct across
		// the dataset. Keyset pagination requires the terminal column to be
		// unique; otherwise rows sharing the boundary value are skipped.
		Unique bool
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error.
	// Key is an external alias, value is an internal column name.
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("%w: invalid ordering direction '%s'", ErrInvalidSortKey, o.Direction)
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("%w: ordering column name contains forbidden symbols '%s'", ErrInvalidSortKey, o.Column)
	}

	return nil
}

// WithTieBreaker appends a unique terminal column to the ordering list. If the
// column is already present, it is moved to the end and marked unique.
func (o Orderings) WithTieBreaker(column string, direction Direction) Orderings {
	ret := lo.Reject(o, func(item OrderBy, _ int) bool {
		return item.Column == column
	})

	return append(ret, OrderBy{Column: column, Direction: direction, Unique: true})
}

// Invert returns the orderings with every direction flipped. Used for backward
// traversal; uniqueness flags are preserved.
func (o Orderings) Invert() Orderings {
	return lo.Map(o, func(item OrderBy, _ int) OrderBy {
		item.Direction = item.Direction.Invert()
		return item
	})
}

// ToSQLSlice converts Orderings to a slice of strings in the form
// "<order_column> <order_direction>" suitable for SQL query builders.
//
// Example: for Orderings: [{"a", "ASC"}, {"b", "DESC"}] returns ["a ASC", "b DESC"].
func (o Orderings) ToSQLSlice() []string {
	ret := make([]string, 0, len(o))
	for _, ordering := range o {
		ret = append(ret, fmt.Sprintf("%s %s", ordering.Column, ordering.Direction))
	}

	return ret
}

// ToSQL converts Orderings to a single string
// "<order_column_1> <order_direction_1>, <order_column_2> <order_direction_2>"
// suitable for embedding into an SQL query.
// Example: for [{"a", "ASC"}, {"b", "DESC"}] returns "a ASC, b DESC".
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", orderings.ToSQL())
func (o Orderings) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

// Apply applies the ordering to a gorm query.
func (o Orderings) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.ToSQL())
}

func (o Orderings) validate() error {
	if len(o) == 0 {
		return fmt.Errorf("%w: empty ordering list", ErrInvalidSortKey)
	}

	var err error
	for _, ordering := range o {
		err = ordering.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// validateTieBreaker checks that the terminal ordering column is unique.
// Keyset pagination requires a total ordering; without a unique tie-breaker,
// rows sharing the boundary value are silently skipped. The check is eager:
// it runs at validation time, not when rows go missing.
func (o Orderings) validateTieBreaker() error {
	if len(o) == 0 {
		return fmt.Errorf("%w: empty ordering list", ErrInvalidSortKey)
	}

	if !o[len(o)-1].Unique {
		return fmt.Errorf("%w: terminal ordering column '%s' must be unique to break ties",
			ErrInvalidSortKey, o[len(o)-1].Column)
	}

	return nil
}

// ParseSort builds Orderings from a list of strings in the format
// "column asc|desc". Column aliases are resolved via ColumnMapping.
// Returns an error if an alias is not found in the mapping.
//
// The result carries no uniqueness flags; append the tie-breaker column via
// WithTieBreaker before paginating.
func ParseSort(stringsOrderings []string, columnMapping ColumnMapping) (Orderings, error) {
	ret := make([]OrderBy, 0, len(stringsOrderings))
	aliases := lo.Keys(columnMapping)

	for _, stringOrdering := range stringsOrderings {
		cutStringOrdering := strings.Split(strings.TrimSpace(stringOrdering), " ")
		if len(cutStringOrdering) != 2 {
			return nil, fmt.Errorf("%w: invalid ordering string format '%s'", ErrInvalidSortKey, stringOrdering)
		}

		columnAlias := cutStringOrdering[0]
		direction := Direction(strings.ToUpper(cutStringOrdering[1]))
		columnName := columnMapping[columnAlias]
		if columnName == "" {
			return nil, fmt.Errorf("%w: invalid column alias. closest: '%s'",
				ErrInvalidSortKey, closestAlias(columnAlias, aliases))
		}

		ret = append(ret, OrderBy{
			Column:    columnName,
			Direction: direction,
		})
	}

	return ret, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
