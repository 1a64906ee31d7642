package repository

import (
	"context"
	"slices"
	"sync"

	"overlaysvc/internal/overlay/model"
)

// MemoryRepository keeps overlays in process, in insertion order. Used for
// STORE_DRIVER=memory and in tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	overlays []model.Overlay
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, o model.Overlay) (string, error) {
	o.ID = model.NewID()

	r.mu.Lock()
	r.overlays = append(r.overlays, o)
	r.mu.Unlock()
	return o.ID, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]model.Overlay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Overlay, len(r.overlays))
	copy(out, r.overlays)
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, req model.UpdateOverlayRequest) (int64, error) {
	if _, err := model.ParseID(id); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	req.Apply(&r.overlays[i])
	return 1, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) (int64, error) {
	if _, err := model.ParseID(id); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	r.overlays = slices.Delete(r.overlays, i, i+1)
	return 1, nil
}

func (r *MemoryRepository) Ping(context.Context) error { return nil }

func (r *MemoryRepository) indexOf(id string) int {
	return slices.IndexFunc(r.overlays, func(o model.Overlay) bool { return o.ID == id })
}
