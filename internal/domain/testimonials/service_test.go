package testimonials

import (
	"context"
	"strings"
	"testing"

	blobmem "pet-services/internal/adapters/blob/memory"
	"pet-services/internal/adapters/storage/memory"
	"pet-services/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *blobmem.Store) {
	blobs := blobmem.NewStore("")
	repo := NewRepository(memory.NewCollection[Testimonial](memory.NewStore(), Collection))
	return NewService(repo, blobs, logger.Nop()), blobs
}

func TestCreate_RatingBounds(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(ctx, Input{Name: "Ana", Message: "Excelente", Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}
	for _, rating := range []int{1, 5} {
		_, err := svc.Create(ctx, Input{Name: "Ana", Message: "Excelente", Rating: rating})
		assert.NoError(t, err)
	}
}

func TestList_PublishedOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Name: "Ana", Message: "Muy buena atención", Rating: 5, Published: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{Name: "Luis", Message: "Pendiente de revisar", Rating: 3})
	require.NoError(t, err)

	pub, err := svc.List(ctx, true, 0)
	require.NoError(t, err)
	require.Len(t, pub, 1)
	assert.Equal(t, "Ana", pub[0].Name)

	all, err := svc.List(ctx, false, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSetImage_ReplacesAndDeleteRemovesBlob(t *testing.T) {
	svc, blobs := newTestService()
	ctx := context.Background()

	tm, err := svc.Create(ctx, Input{Name: "Ana", Message: "Genial", Rating: 4})
	require.NoError(t, err)

	_, err = svc.SetImage(ctx, tm.ID, "a.txt", "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotImage)

	tm, err = svc.SetImage(ctx, tm.ID, "a.jpg", "image/jpeg", strings.NewReader("1"))
	require.NoError(t, err)
	first := tm.ImagePath
	assert.True(t, strings.HasPrefix(first, "testimonials/"))

	tm, err = svc.SetImage(ctx, tm.ID, "b.jpg", "image/jpeg", strings.NewReader("2"))
	require.NoError(t, err)
	assert.False(t, blobs.Has(first))
	assert.True(t, blobs.Has(tm.ImagePath))

	require.NoError(t, svc.Delete(ctx, tm.ID))
	assert.False(t, blobs.Has(tm.ImagePath))
	_, err = svc.GetByID(ctx, tm.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
