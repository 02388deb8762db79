package products

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	blobmem "pet-services/internal/adapters/blob/memory"
	"pet-services/internal/adapters/storage/memory"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gets  int
	hits  int
}

func newMapCache() *mapCache { return &mapCache{items: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dest)
}

func (c *mapCache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items[key] = b
	c.mu.Unlock()
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.items, k)
	}
	c.mu.Unlock()
	return nil
}

// failingBlobs sube bien pero nunca puede borrar.
type failingBlobs struct {
	*blobmem.Store
	deletes int
}

func (f *failingBlobs) Delete(context.Context, string) error {
	f.deletes++
	return errors.New("storage unavailable")
}

func newTestService(blobs blob.Store, c *mapCache) *Service {
	repo := NewRepository(memory.NewCollection[Product](memory.NewStore(), Collection))
	if c == nil {
		return NewService(repo, blobs, nil, time.Minute, logger.Nop())
	}
	return NewService(repo, blobs, c, time.Minute, logger.Nop())
}

func validInput() Input {
	return Input{
		Name:     "Collar antipulgas",
		Category: "Accesorios",
		Price:    2500,
		Stock:    10,
		Tags:     []string{"Perros", "perros", " gatos "},
	}
}

func TestCreate_NormalizesAndValidates(t *testing.T) {
	svc := newTestService(blobmem.NewStore(""), nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "accesorios", p.Category)
	assert.Equal(t, []string{"perros", "gatos"}, p.Tags)
	assert.True(t, p.Active)

	in := validInput()
	in.Price = 0
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	in = validInput()
	in.SalePrice = 3000
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidSale)

	in = validInput()
	in.Name = "  "
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_FiltersByCategoryAndTag(t *testing.T) {
	svc := newTestService(blobmem.NewStore(""), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	in := validInput()
	in.Name = "Rascador"
	in.Tags = []string{"gatos"}
	_, err = svc.Create(ctx, in)
	require.NoError(t, err)
	in = validInput()
	in.Name = "Alimento"
	in.Category = "comida"
	inactive := false
	in.Active = &inactive
	_, err = svc.Create(ctx, in)
	require.NoError(t, err)

	items, err := svc.List(ctx, ListFilter{Category: "ACCESORIOS"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.List(ctx, ListFilter{Tag: "perros"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Collar antipulgas", items[0].Name)

	items, err = svc.List(ctx, ListFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.List(ctx, ListFilter{Tag: "gatos", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestGet_ReadThroughCacheAndInvalidation(t *testing.T) {
	c := newMapCache()
	svc := newTestService(blobmem.NewStore(""), c)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)
	assert.Equal(t, p.Name, got.Name)

	in := validInput()
	in.Name = "Collar premium"
	_, err = svc.Update(ctx, p.ID, in)
	require.NoError(t, err)

	got, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Collar premium", got.Name)
	assert.Equal(t, 1, c.hits)
}

func TestAddImage_RejectsNonImages(t *testing.T) {
	blobs := blobmem.NewStore("http://localhost:8080")
	svc := newTestService(blobs, nil)
	ctx := context.Background()
	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.AddImage(ctx, p.ID, "doc.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotImage)

	p, err = svc.AddImage(ctx, p.ID, "foto.PNG", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.Len(t, p.Images, 1)
	img := p.Images[0]
	assert.True(t, strings.HasPrefix(img.Path, blob.PrefixProducts+"/"))
	assert.True(t, strings.HasSuffix(img.Path, ".png"))
	assert.Equal(t, "http://localhost:8080/files/"+img.Path, img.URL)
	assert.True(t, blobs.Has(img.Path))

	p, err = svc.RemoveImage(ctx, p.ID, img.Path)
	require.NoError(t, err)
	assert.Empty(t, p.Images)
	assert.False(t, blobs.Has(img.Path))

	_, err = svc.RemoveImage(ctx, p.ID, img.Path)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestDelete_RemovesDocumentEvenIfBlobsFail(t *testing.T) {
	blobs := &failingBlobs{Store: blobmem.NewStore("")}
	svc := newTestService(blobs, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	for _, name := range []string{"a.jpg", "b.webp"} {
		_, err = svc.AddImage(ctx, p.ID, name, "image/jpeg", io.LimitReader(strings.NewReader("data"), 4))
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Equal(t, 2, blobs.deletes)

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
