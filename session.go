package seekpager

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// FetchPage runs one bounded page fetch against db and assembles a Page with
// next/prev tokens. It is stateless across calls: the caller persists the
// returned tokens, nothing is kept server-side.
//
// The fetch always uses lookahead (limit+1) to detect whether a further page
// exists in the traversal direction without a separate count query. For
// backward traversal the rows are fetched in inverted order and re-reversed
// before being returned, so Items is always in canonical forward order.
//
// Errors:
//   - ErrInvalidLimit when the pager's limit is non-positive or exceeds MaxLimit.
//   - ErrInvalidSortKey / ErrInvalidCursor propagated from validation.
//   - Data-source errors from the underlying query are passed through unmodified.
//
// No partial page is returned on error.
func FetchPage[T any](
	db *gorm.DB,
	initialPager *Pager[*KeysetCursor],
	getters Getters[T],
) (*Page[T, *KeysetCursor], error) {
	if initialPager == nil {
		initialPager = new(Pager[*KeysetCursor])
	}

	err := ValidateLimit(initialPager.GetLimit())
	if err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	p := initialPager.clone().WithLookahead()

	paged, err := p.Paginate(db)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	var rows []T
	err = paged.Find(&rows).Error
	if err != nil {
		return nil, err
	}

	limit := p.GetLimit()
	hasMore := len(rows) > limit
	if hasMore {
		// Drop the lookahead row; it belongs to the further page.
		rows = rows[:limit]
	}

	if p.GetTraversal() == TraversalBackward {
		rows = lo.Reverse(rows)
	}

	page := &Page[T, *KeysetCursor]{
		Items:        rows,
		AppliedLimit: limit,
	}

	if len(rows) == 0 {
		return page, nil
	}

	page.NextPageToken, page.PrevPageToken, err = pageTokens(p, getters, rows, hasMore)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	return page, nil
}

// pageTokens derives the next/prev tokens from the trimmed, canonically
// ordered rows:
//   - next exists when walking forward found a lookahead row, or when the page
//     was reached by walking backward (the rows we came from are ahead of it).
//   - prev exists when walking backward found a lookahead row, or when the
//     page was reached forward from a cursor (it is not the first page).
func pageTokens[T any](
	p *Pager[*KeysetCursor],
	getters Getters[T],
	rows []T,
	hasMore bool,
) (next *KeysetCursor, prev *KeysetCursor, err error) {
	first, last := rows[0], rows[len(rows)-1]

	var hasNext, hasPrev bool
	if p.GetTraversal() == TraversalBackward {
		hasNext = true
		hasPrev = hasMore
	} else {
		hasNext = hasMore
		hasPrev = !p.GetCursor().IsEmpty()
	}

	if hasNext {
		next, err = cursorForRow(p.GetSort(), getters, last)
		if err != nil {
			return nil, nil, err
		}
	}

	if hasPrev {
		prev, err = cursorForRow(p.GetSort(), getters, first)
		if err != nil {
			return nil, nil, err
		}
	}

	return next, prev, nil
}
