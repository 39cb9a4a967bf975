package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "1790", CreatedAt: "2026-05-01T10:00:00Z"})
	require.NoError(t, err)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "1790", cursor.ID)

	_, err = DecodeCursor("%%%")
	assert.Error(t, err)
}

func TestSizeClamps(t *testing.T) {
	assert.Equal(t, DefaultPageSize, Pagination{}.Size())
	assert.Equal(t, MaxPageSize, Pagination{PageSize: 10_000}.Size())
	assert.Equal(t, 5, Pagination{PageSize: 5}.Size())
}

func TestBuildCursorPageInfo(t *testing.T) {
	ids := []string{"a", "b", "c"}
	rows := make([]*string, 0, len(ids))
	for i := range ids {
		rows = append(rows, &ids[i])
	}

	page, info := BuildCursorPageInfo(rows, 2, func(s *string) string { return *s })
	assert.Len(t, page, 2)
	assert.True(t, info.HasMore)
	assert.Equal(t, "b", info.NextPageToken)

	page, info = BuildCursorPageInfo(rows, 3, func(s *string) string { return *s })
	assert.Len(t, page, 3)
	assert.False(t, info.HasMore)
}
