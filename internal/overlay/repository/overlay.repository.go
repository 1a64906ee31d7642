package repository

import (
	"context"

	"overlaysvc/internal/overlay/model"
)

// OverlayRepository is the document store behind the service. Update and Delete
// report how many documents they touched; zero is not an error.
type OverlayRepository interface {
	Create(ctx context.Context, o model.Overlay) (string, error)
	List(ctx context.Context) ([]model.Overlay, error)
	Update(ctx context.Context, id string, req model.UpdateOverlayRequest) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	Ping(ctx context.Context) error
}
