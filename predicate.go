package seekpager

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"
)

type (
	seekCond struct {
		Column   string
		Value    any
		Operator Operator
	}

	seekBranch []seekCond

	// seekFilter is the boundary filter in disjunctive normal form. Branches
	// are joined by OR; the conditions inside a branch are joined by AND.
	// A condition is the value of Operator(Column, Value).
	//
	// For an n-column sort key with boundary values (v1..vn) the filter is the
	// rowwise lexicographic OR-chain:
	//
	//	(c1 O1 v1) OR (c1 = v1 AND c2 O2 v2) OR ... OR (c1 = v1 AND ... AND cn On vn)
	//
	// Independent per-column filtering (c1 O1 v1 AND c2 O2 v2) is NOT
	// equivalent: it drops rows whenever only a prefix column advanced.
	seekFilter []seekBranch
)

// toGORMExpression converts a condition of the form Operator(Column, Value)
// into an SQL condition "Column Operator Value" represented as a clause.Expression.
//
// IMPORTANT: The method uses the SQL placeholder "?".
//
// Example:
//
//	seekCond = { Column: "id", Operator: ">", Value: "123"}
//
// Result:
//
//	"id > 123"
func (c seekCond) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a condition of the form Operator(Column, Value) to
// an SQL condition of the form "Column Operator ?" with a corresponding value.
// Returns the SQL string and the value for the placeholder.
//
// Example:
//
//	seekCond = { Column: "id", Operator: ">", Value: 123}
//
// Result:
//
//	("id > ?", 123)
func (c seekCond) toSQLClause() (string, driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), parseAnyValue(c.Value)
}

func parseAnyValue(v any) any {
	// Try parsing a value as time.Time. If it succeeds, return time.Time.
	// Otherwise return the original value.
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}

// toGORMExpression converts a branch (K1, K2, K3) into a gorm expression
// "K1 AND K2 AND K3" where each Ki is expanded via seekCond.toGORMExpression.
func (b seekBranch) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(b))
	for _, cond := range b {
		andExpressions = append(andExpressions, cond.toGORMExpression())
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts a branch (K1, K2, K3) into an SQL condition
// "(K1 AND K2 AND K3)" with corresponding values. Returns the SQL string and
// the list of values for placeholders.
//
// Example:
//
//	seekBranch = {
//		{Column: "id", Operator: ">", Value: 5},
//		{Column: "name", Operator: "<", Value: "abc"}
//	}
//
// Result:
//
//	("(id > ? AND name < ?)", [5, "abc"])
func (b seekBranch) toSQLClause() (string, []driver.Value) {
	andClauses := make([]string, 0, len(b))
	andValues := make([]driver.Value, 0, len(b))

	for _, cond := range b {
		andClause, andValue := cond.toSQLClause()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "", nil
}

// toGORMExpression converts a seekFilter into a clause.Expression.
// For each branch it calls seekBranch.toGORMExpression and joins branches with OR.
func (f seekFilter) toGORMExpression() clause.Expression {
	orExpressions := make([]clause.Expression, 0, len(f))

	for _, branch := range f {
		andExpressions := branch.toGORMExpression()
		if andExpressions == nil {
			continue
		}

		orExpressions = append(orExpressions, andExpressions)
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	} else if len(orExpressions) > 1 {
		return clause.Or(orExpressions...)
	}

	return nil
}

// toSQLClause converts a seekFilter into an SQL condition. For each branch it
// calls seekBranch.toSQLClause and joins branches with OR. Returns the SQL
// string and the list of values for placeholders.
//
// Example:
//
//	seekFilter = {
//		{{Column: "id", Operator: "<", Value: 10}},
//		{{Column: "id", Operator: "=", Value: 10}, {Column: "name", Operator: "<", Value: "abc"}},
//	}
//
// Result:
//
//	("((id < ?) OR (id = ? AND name < ?))", [10, 10, "abc"])
func (f seekFilter) toSQLClause() (string, []driver.Value) {
	orClauses := make([]string, 0, len(f))
	values := make([]driver.Value, 0, len(f))

	for _, branch := range f {
		orClause, orValues := branch.toSQLClause()
		if orClause == "" {
			continue
		}

		orClauses = append(orClauses, orClause)
		values = append(values, orValues...)
	}

	if len(orClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), values
	}

	return "TRUE", nil
}

// invert flips the comparison polarity of every non-equality condition.
// Equality conditions (prefix pinning) are left untouched. Used for backward
// traversal.
func (f seekFilter) invert() seekFilter {
	ret := make(seekFilter, 0, len(f))
	for _, branch := range f {
		invBranch := make(seekBranch, 0, len(branch))
		for _, cond := range branch {
			if cond.Operator != operatorEq {
				cond.Operator = cond.Operator.Invert()
			}
			invBranch = append(invBranch, cond)
		}
		ret = append(ret, invBranch)
	}

	return ret
}
