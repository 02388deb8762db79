package gridfs

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DoneContextFailsBeforeMongo(t *testing.T) {
	// sin bucket: si se llegara a Mongo el test entraría en pánico
	s := &Store{baseURL: "http://localhost:8080"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, "products/a.png", "image/png", bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, context.Canceled)

	_, _, err = s.Open(ctx, "products/a.png")
	assert.ErrorIs(t, err, context.Canceled)

	assert.ErrorIs(t, s.Delete(ctx, "products/a.png"), context.Canceled)
}

func TestWithDeadline(t *testing.T) {
	var got time.Time
	set := func(d time.Time) error {
		got = d
		return nil
	}

	require.NoError(t, withDeadline(context.Background(), set))
	assert.True(t, got.IsZero())

	dl := time.Now().Add(time.Minute)
	ctx, cancel := context.WithDeadline(context.Background(), dl)
	defer cancel()
	require.NoError(t, withDeadline(ctx, set))
	assert.True(t, got.Equal(dl))

	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	assert.ErrorIs(t, withDeadline(expired, set), context.DeadlineExceeded)
}
