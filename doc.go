// Package seekpager provides keyset (seek-based) pagination primitives for GORM.
//
// Overview
//
// seekpager implements two cursor strategies:
//   - KeysetCursor: seek pagination using comparison operators against a
//     boundary row taken from a previously returned page. This scales well on
//     large datasets and requires a deterministic ordering whose terminal
//     column is unique.
//   - OffsetCursor: a compatibility layer over LIMIT/OFFSET when true keyset
//     cursors are not possible.
//
// Key concepts
//   - Pager: orchestrates pagination, lookahead, sorting, traversal direction
//     and applying cursors to GORM queries.
//   - Orderings: defines multi-column ordering with explicit directions; the
//     terminal column must be marked Unique so the ordering is total.
//   - Getters: maps model columns to values for building page cursors.
//   - FetchPage: runs one bounded query and returns a Page with next/prev
//     tokens. It holds no state between calls; every cursor is self-contained.
//
// Boundary rows are compared by value, not identity. If the row a cursor was
// built from is deleted before the next fetch, traversal continues from where
// that row would have been. If a row's own sort-key values are mutated after a
// cursor referencing it was issued, the row may be skipped or revisited; the
// library does not detect this.
//
// See README for examples and usage details.
package seekpager
