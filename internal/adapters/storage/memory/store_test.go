package memory

import (
	"context"
	"testing"
	"time"

	"pet-services/internal/ports/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Kind      string    `bson:"kind" json:"kind"`
	Qty       int       `bson:"qty" json:"qty"`
	Booked    bool      `bson:"isBooked" json:"isBooked"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func TestCollection_InsertGetDuplicate(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[widget](NewStore(), "widgets")

	require.NoError(t, c.Insert(ctx, "w1", widget{Name: "bolt", Qty: 3}))
	err := c.Insert(ctx, "w1", widget{Name: "again"})
	require.ErrorIs(t, err, docstore.ErrDuplicate)

	got, err := c.Get(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "w1", got.ID)
	assert.Equal(t, "bolt", got.Name)
	assert.Equal(t, 3, got.Qty)

	_, err = c.Get(ctx, "missing")
	require.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestCollection_FindFilterSortLimit(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[widget](NewStore(), "widgets")

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	_ = c.Insert(ctx, "a", widget{Name: "a", Kind: "x", Qty: 5, CreatedAt: base.Add(2 * time.Hour)})
	_ = c.Insert(ctx, "b", widget{Name: "b", Kind: "y", Qty: 1, CreatedAt: base})
	_ = c.Insert(ctx, "c", widget{Name: "c", Kind: "x", Qty: 9, CreatedAt: base.Add(time.Hour)})

	xs, err := c.Find(ctx, docstore.Filter{"kind": "x"}, docstore.FindOptions{Sort: "qty", Desc: true})
	require.NoError(t, err)
	require.Len(t, xs, 2)
	assert.Equal(t, "c", xs[0].ID)
	assert.Equal(t, "a", xs[1].ID)

	byDate, err := c.Find(ctx, nil, docstore.FindOptions{Sort: "createdAt", Limit: 2})
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "b", byDate[0].ID)
	assert.Equal(t, "c", byDate[1].ID)

	n, err := c.Count(ctx, docstore.Filter{"qty": 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCollection_ConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[widget](NewStore(), "widgets")
	require.NoError(t, c.Insert(ctx, "s1", widget{Name: "slot"}))

	require.NoError(t, c.Update(ctx, "s1", docstore.Filter{"isBooked": false}, docstore.Fields{"isBooked": true}))

	err := c.Update(ctx, "s1", docstore.Filter{"isBooked": false}, docstore.Fields{"isBooked": true})
	require.ErrorIs(t, err, docstore.ErrConflict)

	err = c.Update(ctx, "nope", nil, docstore.Fields{"isBooked": true})
	require.ErrorIs(t, err, docstore.ErrNotFound)

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.Booked)
	assert.Equal(t, "slot", got.Name)
}

func TestCollection_ReplaceDelete(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[widget](NewStore(), "widgets")

	require.ErrorIs(t, c.Replace(ctx, "x", widget{}), docstore.ErrNotFound)
	require.NoError(t, c.Insert(ctx, "x", widget{Name: "old"}))
	require.NoError(t, c.Replace(ctx, "x", widget{Name: "new"}))

	got, err := c.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)

	require.NoError(t, c.Delete(ctx, "x"))
	require.ErrorIs(t, c.Delete(ctx, "x"), docstore.ErrNotFound)

	all, err := c.Find(ctx, nil, docstore.FindOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
