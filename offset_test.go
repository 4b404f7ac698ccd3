package seekpager

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_OffsetCursor_Decode(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedOffset int
		expectedEmpty  bool
	}{
		{
			"zero empty",
			"",
			0,
			true,
		},
		{
			"zero encoded",
			base64.RawURLEncoding.EncodeToString([]byte("0")),
			0,
			true,
		},
		{
			"non-zero encodes",
			base64.RawURLEncoding.EncodeToString([]byte("15")),
			15,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc, err := DecodeOffsetCursor(tt.input)
			if err != nil {
				t.Fatalf("decode failed: %v oc=%#v", err, oc)
			}

			if e := oc.IsEmpty(); e != tt.expectedEmpty {
				t.Errorf("%s: IsEmpty=%v want %v", tt.name, e, tt.expectedEmpty)
			}
			if off := oc.GetOffset(); off != tt.expectedOffset {
				t.Errorf("%s: GetOffset=%d want %d", tt.name, off, tt.expectedOffset)
			}
		})
	}
}

func Test_OffsetCursor_Decode_Invalid(t *testing.T) {
	_, err := DecodeOffsetCursor(base64.RawURLEncoding.EncodeToString([]byte("not-a-number")))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidCursor))
}

func Test_OffsetCursor_RoundTrip(t *testing.T) {
	c := NewOffsetCursor(25)

	decoded, err := DecodeOffsetCursor(c.String())
	require.NoError(t, err)
	require.Equal(t, 25, decoded.GetOffset())
	require.Equal(t, c.String(), decoded.String())
}

func Test_NextPageOffsetCursor(t *testing.T) {
	type item struct{ ID int }

	tests := []struct {
		name        string
		description string
		pager       *Pager[*OffsetCursor]
		input       []item
		expectedRes []item
		expectedCur *OffsetCursor
		expectError bool
	}{
		{
			name:        "last page without lookahead",
			description: "The result set is strictly smaller than the limit. With lookahead = false this signals the end of the dataset.",
			pager: func() *Pager[*OffsetCursor] {
				p := &Pager[*OffsetCursor]{limit: 3, cursor: &OffsetCursor{offset: 0}}
				p.WithSort(OrderBy{
					Column:    "id",
					Direction: DirectionASC,
				})
				return p
			}(),
			input:       []item{{1}, {2}},
			expectedRes: []item{{1}, {2}},
			expectedCur: nil,
			expectError: false,
		},
		{
			name:        "ordinary page without lookahead",
			description: "The result set exactly equals the limit. With lookahead = false this means either the dataset continues or the next page is empty.",
			pager: func() *Pager[*OffsetCursor] {
				p := &Pager[*OffsetCursor]{limit: 2, cursor: &OffsetCursor{offset: 4}}
				p.WithSort(OrderBy{
					Column:    "id",
					Direction: DirectionASC,
				})
				return p
			}(),
			input:       []item{{1}, {2}},
			expectedRes: []item{{1}, {2}},
			expectedCur: &OffsetCursor{offset: 6},
			expectError: false,
		},
		{
			name:        "last page with lookahead",
			description: "The result set exactly equals the limit. With lookahead = true this signals the end of the dataset; the full set is returned untrimmed.",
			pager: func() *Pager[*OffsetCursor] {
				p := (&Pager[*OffsetCursor]{limit: 2, cursor: &OffsetCursor{offset: 2}}).WithLookahead()
				p.WithSort(OrderBy{
					Column:    "id",
					Direction: DirectionASC,
				})
				return p
			}(),
			input:       []item{{1}, {2}},
			expectedRes: []item{{1}, {2}},
			expectedCur: nil,
			expectError: false,
		},
		{
			name:        "ordinary page with lookahead",
			description: "The result set is strictly larger than the limit. With lookahead = true the extra element only detects the end of the dataset and is trimmed.",
			pager: func() *Pager[*OffsetCursor] {
				p := (&Pager[*OffsetCursor]{limit: 2, cursor: &OffsetCursor{offset: 2}}).WithLookahead()
				p.WithSort(OrderBy{
					Column:    "id",
					Direction: DirectionASC,
				})
				return p
			}(),
			input:       []item{{1}, {2}, {3}},
			expectedRes: []item{{1}, {2}},
			expectedCur: &OffsetCursor{offset: 4},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Logf("Test description: %s", tt.description)

			res, cur, err := NextPageOffsetCursor(tt.pager, tt.input)

			if tt.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expectedRes, res)

			if tt.expectedCur == nil {
				require.Nil(t, cur, "expected nil cursor")
			} else {
				require.NotNil(t, cur, "expected non-nil cursor")
				require.Equal(t, tt.expectedCur.offset, cur.offset, "unexpected cursor offset")
			}
		})
	}
}
