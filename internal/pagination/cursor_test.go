package pagination_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/unimarket/internal/pagination"
)

func TestDecode(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		c, err := pagination.Decode("")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		ts := time.Date(2026, 3, 1, 12, 30, 0, 123, time.UTC)
		id := uuid.New()

		c, err := pagination.Decode(pagination.Encode(ts, id))
		require.NoError(t, err)
		assert.True(t, ts.Equal(c.CreatedAt))
		assert.Equal(t, id, c.ID)
	})

	t.Run("Garbage", func(t *testing.T) {
		for _, s := range []string{"!!!", "bm9waXBl", "MTIzfG5vdC1hLXV1aWQ"} {
			_, err := pagination.Decode(s)
			assert.ErrorIs(t, err, pagination.ErrInvalidCursor, s)
		}
	})
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, pagination.DefaultLimit, pagination.ClampLimit(0))
	assert.Equal(t, 25, pagination.ClampLimit(25))
	assert.Equal(t, pagination.MaxLimit, pagination.ClampLimit(1000))
}

func TestPage(t *testing.T) {
	type row struct {
		id uuid.UUID
		at time.Time
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []row{
		{id: uuid.New(), at: base.Add(3 * time.Minute)},
		{id: uuid.New(), at: base.Add(2 * time.Minute)},
		{id: uuid.New(), at: base.Add(1 * time.Minute)},
	}
	key := func(r row) (time.Time, uuid.UUID) { return r.at, r.id }

	t.Run("HasMore", func(t *testing.T) {
		got, next := pagination.Page(rows, 2, key)
		assert.Len(t, got, 2)
		require.NotEmpty(t, next)

		c, err := pagination.Decode(next)
		require.NoError(t, err)
		assert.Equal(t, rows[1].id, c.ID)
	})

	t.Run("LastPage", func(t *testing.T) {
		got, next := pagination.Page(rows, 3, key)
		assert.Len(t, got, 3)
		assert.Empty(t, next)
	})
}
