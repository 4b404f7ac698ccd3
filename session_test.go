package seekpager

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

type tPlayer struct {
	ID    int
	Score int
}

var playerGetters = Getters[tPlayer]{
	"score": func(p tPlayer) any { return p.Score },
	"id":    func(p tPlayer) any { return p.ID },
}

var playerSort = Orderings{
	{Column: "score", Direction: DirectionDESC},
	{Column: "id", Direction: DirectionASC, Unique: true},
}

// Walks the dataset [(score=95,id=3), (score=95,id=7), (score=90,id=1)] with
// page size 1. Rows sharing score=95 must not be skipped: the tie-breaker id
// column keeps the traversal total.
func Test_FetchPage_TieBreakWalk(t *testing.T) {
	_, db, dbMock, err := newGORMMySQLMock()
	require.NoError(t, err)

	// Page 1: no cursor, lookahead fetches limit+1.
	dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]players[`'\"] ORDER BY score DESC, id ASC LIMIT 2$").
		WillReturnRows(sqlmock.NewRows([]string{"id", "score"}).
			AddRow(3, 95).
			AddRow(7, 95))

	page1, err := FetchPage(
		db.Select("*").Table("players"),
		NewPager[*KeysetCursor]().WithLimit(1).WithSubstitutedSort(playerSort...),
		playerGetters,
	)
	require.NoError(t, err)
	require.Equal(t, []tPlayer{{ID: 3, Score: 95}}, page1.Items)
	require.NotNil(t, page1.NextPageToken)
	require.Nil(t, page1.PrevPageToken, "first page has no predecessor")

	// Page 2: resumes after (95, 3); id=7 shares the score and must appear.
	dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]players[`'\"] WHERE \\(score < \\? OR \\(score = \\? AND id > \\?\\)\\) ORDER BY score DESC, id ASC LIMIT 2$").
		WithArgs(95, 95, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "score"}).
			AddRow(7, 95).
			AddRow(1, 90))

	page2, err := FetchPage(
		db.Select("*").Table("players"),
		NewPager[*KeysetCursor]().
			WithLimit(1).
			WithCursor(page1.NextPageToken).
			WithSubstitutedSort(playerSort...),
		playerGetters,
	)
	require.NoError(t, err)
	require.Equal(t, []tPlayer{{ID: 7, Score: 95}}, page2.Items, "tie on score must not skip id=7")
	require.NotNil(t, page2.NextPageToken)
	require.NotNil(t, page2.PrevPageToken)

	// Page 3: the remaining row count equals the limit; no further page.
	dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]players[`'\"] WHERE \\(score < \\? OR \\(score = \\? AND id > \\?\\)\\) ORDER BY score DESC, id ASC LIMIT 2$").
		WithArgs(95, 95, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "score"}).
			AddRow(1, 90))

	page3, err := FetchPage(
		db.Select("*").Table("players"),
		NewPager[*KeysetCursor]().
			WithLimit(1).
			WithCursor(page2.NextPageToken).
			WithSubstitutedSort(playerSort...),
		playerGetters,
	)
	require.NoError(t, err)
	require.Equal(t, []tPlayer{{ID: 1, Score: 90}}, page3.Items)
	require.Nil(t, page3.NextPageToken, "exhausted dataset yields no next token")
	require.NotNil(t, page3.PrevPageToken)

	// Concatenating the walk yields the full ordered dataset, no repeats,
	// nothing missing.
	var walked []tPlayer
	walked = append(walked, page1.Items...)
	walked = append(walked, page2.Items...)
	walked = append(walked, page3.Items...)
	require.Equal(t, []tPlayer{{3, 95}, {7, 95}, {1, 90}}, walked)

	require.NoError(t, dbMock.ExpectationsWereMet())
}

// Paginating forward to page 2 and then backward from its prev token must
// return page 1's rows in canonical order.
func Test_FetchPage_BackwardSymmetry(t *testing.T) {
	_, db, dbMock, err := newGORMMySQLMock()
	require.NoError(t, err)

	// Prev token of page 2 marks its first row (score=95, id=7). Backward
	// traversal inverts the filter and the ordering.
	prevToken := NewKeysetCursor(
		CursorElement{Column: "score", Value: 95, Operator: OperatorLT},
		CursorElement{Column: "id", Value: 7, Operator: OperatorGT},
	)

	dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]players[`'\"] WHERE \\(score > \\? OR \\(score = \\? AND id < \\?\\)\\) ORDER BY score ASC, id DESC LIMIT 2$").
		WithArgs(95, 95, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "score"}).
			AddRow(3, 95))

	page, err := FetchPage(
		db.Select("*").Table("players"),
		NewPager[*KeysetCursor]().
			WithLimit(1).
			WithCursor(prevToken).
			WithTraversal(TraversalBackward).
			WithSubstitutedSort(playerSort...),
		playerGetters,
	)
	require.NoError(t, err)
	require.Equal(t, []tPlayer{{ID: 3, Score: 95}}, page.Items, "backward page equals the preceding forward page")
	require.NotNil(t, page.NextPageToken, "a backward page always has rows ahead of it")
	require.Nil(t, page.PrevPageToken, "start of dataset reached")

	require.NoError(t, dbMock.ExpectationsWereMet())
}

// Backward traversal with more rows behind returns them most-recent-last:
// rows are fetched in inverted order and re-reversed in memory.
func Test_FetchPage_BackwardReversesRows(t *testing.T) {
	_, db, dbMock, err := newGORMMySQLMock()
	require.NoError(t, err)

	boundary := NewKeysetCursor(
		CursorElement{Column: "score", Value: 90, Operator: OperatorLT},
		CursorElement{Column: "id", Value: 1, Operator: OperatorGT},
	)

	// Inverted fetch returns (7,95) then (3,95) then lookahead row.
	dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]players[`'\"] WHERE \\(score > \\? OR \\(score = \\? AND id < \\?\\)\\) ORDER BY score ASC, id DESC LIMIT 3$").
		WithArgs(90, 90, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "score"}).
			AddRow(7, 95).
			AddRow(3, 95).
			AddRow(9, 99))

	page, err := FetchPage(
		db.Select("*").Table("players"),
		NewPager[*KeysetCursor]().
			WithLimit(2).
			WithCursor(boundary).
			WithTraversal(TraversalBackward).
			WithSubstitutedSort(playerSort...),
		playerGetters,
	)
	require.NoError(t, err)
	require.Equal(
		t,
		[]tPlayer{{ID: 3, Score: 95}, {ID: 7, Score: 95}},
		page.Items,
		"items must be re-reversed into canonical forward order",
	)
	require.NotNil(t, page.NextPageToken)
	require.NotNil(t, page.PrevPageToken, "lookahead found more rows behind")

	require.NoError(t, dbMock.ExpectationsWereMet())
}

func Test_FetchPage_EmptyDataset(t *testing.T) {
	_, db, dbMock, err := newGORMMySQLMock()
	require.NoError(t, err)

	dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]players[`'\"] ORDER BY score DESC, id ASC LIMIT 3$").
		WillReturnRows(sqlmock.NewRows([]string{"id", "score"}))

	page, err := FetchPage(
		db.Select("*").Table("players"),
		NewPager[*KeysetCursor]().WithLimit(2).WithSubstitutedSort(playerSort...),
		playerGetters,
	)
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Nil(t, page.NextPageToken)
	require.Nil(t, page.PrevPageToken)
	require.Equal(t, 2, page.AppliedLimit)

	require.NoError(t, dbMock.ExpectationsWereMet())
}

func Test_FetchPage_InvalidInput(t *testing.T) {
	_, db, _, err := newGORMMySQLMock()
	require.NoError(t, err)

	t.Run("zero limit", func(t *testing.T) {
		_, err := FetchPage(
			db.Select("*").Table("players"),
			(&Pager[*KeysetCursor]{limit: 0}).WithSubstitutedSort(playerSort...),
			playerGetters,
		)
		require.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("nil pager", func(t *testing.T) {
		_, err := FetchPage[tPlayer](db.Select("*").Table("players"), nil, playerGetters)
		require.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("no unique tie-breaker", func(t *testing.T) {
		_, err := FetchPage(
			db.Select("*").Table("players"),
			NewPager[*KeysetCursor]().
				WithLimit(2).
				WithSubstitutedSort(OrderBy{Column: "category", Direction: DirectionASC}),
			playerGetters,
		)
		require.ErrorIs(t, err, ErrInvalidSortKey)
	})

	t.Run("cursor from a different sort spec", func(t *testing.T) {
		foreign := NewKeysetCursor(
			CursorElement{Column: "name", Value: "abc", Operator: OperatorGT},
			CursorElement{Column: "id", Value: 1, Operator: OperatorGT},
		)

		_, err := FetchPage(
			db.Select("*").Table("players"),
			NewPager[*KeysetCursor]().
				WithLimit(2).
				WithCursor(foreign).
				WithSubstitutedSort(playerSort...),
			playerGetters,
		)
		require.ErrorIs(t, err, ErrInvalidCursor)
	})
}
