package repository

import (
	"context"
	"sync"
	"testing"

	"overlaysvc/internal/overlay/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	id, err := repo.Create(ctx, model.Overlay{Type: "text", Content: "Hello", X: 10.0, Y: 20.0, Width: 100.0, Height: 50.0})
	require.NoError(t, err)

	overlays, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, overlays, 1)
	assert.Equal(t, id, overlays[0].ID)

	n, err := repo.Update(ctx, id, model.UpdateOverlayRequest{Content: "Updated", X: 15.0})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	overlays, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Overlay{ID: id, Type: "text", Content: "Updated", X: 15.0}, overlays[0])

	n, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, n)

	overlays, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, overlays)
}

func TestMemoryRepositoryUnknownAndMalformedIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	n, err := repo.Update(ctx, model.NewID(), model.UpdateOverlayRequest{X: 1.0})
	require.NoError(t, err)
	assert.Zero(t, n)

	overlays, _ := repo.List(ctx)
	assert.Empty(t, overlays, "update of unknown id must not create a document")

	_, err = repo.Update(ctx, "nope", model.UpdateOverlayRequest{})
	assert.ErrorIs(t, err, model.ErrInvalidID)
	_, err = repo.Delete(ctx, "nope")
	assert.ErrorIs(t, err, model.ErrInvalidID)
}

func TestMemoryRepositoryListIsACopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.Create(ctx, model.Overlay{Content: "a"})
	require.NoError(t, err)

	overlays, _ := repo.List(ctx)
	overlays[0].Content = "mutated"

	again, _ := repo.List(ctx)
	assert.Equal(t, "a", again[0].Content)
}

func TestMemoryRepositoryConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Create(ctx, model.Overlay{Type: "text"})
		}()
	}
	wg.Wait()

	overlays, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, overlays, 50)
}
