package service

import (
	"context"
	"encoding/json"
	"time"

	"overlaysvc/internal/overlay/model"
	"overlaysvc/internal/overlay/repository"
	"overlaysvc/pkg/logger"
	"overlaysvc/socket"
)

// Notifier receives overlay change events. *socket.Hub implements it.
type Notifier interface {
	Publish(ev socket.Event)
}

type OverlayService struct {
	Repo     repository.OverlayRepository
	Notifier Notifier
	Timeout  time.Duration
}

func NewOverlayService(repo repository.OverlayRepository, notifier Notifier, timeout time.Duration) *OverlayService {
	return &OverlayService{Repo: repo, Notifier: notifier, Timeout: timeout}
}

func (s *OverlayService) CreateOverlay(ctx context.Context, req model.CreateOverlayRequest) (model.Overlay, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	overlay := model.NewOverlay(req)
	id, err := s.Repo.Create(ctx, overlay)
	if err != nil {
		return model.Overlay{}, err
	}
	overlay.ID = id

	s.publish(socket.OverlayCreatedType, id, overlay)
	return overlay, nil
}

func (s *OverlayService) GetOverlays(ctx context.Context) ([]model.Overlay, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.Repo.List(ctx)
}

// UpdateOverlay succeeds whether or not a document matched id.
func (s *OverlayService) UpdateOverlay(ctx context.Context, id string, req model.UpdateOverlayRequest) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	matched, err := s.Repo.Update(ctx, id, req)
	if err != nil {
		return err
	}
	if matched == 0 {
		logger.Sugar.Debugf("Update matched no overlay with id %s", id)
		return nil
	}

	fields := req.Fields()
	fields["_id"] = id
	s.publish(socket.OverlayUpdatedType, id, fields)
	return nil
}

// DeleteOverlay succeeds whether or not a document matched id.
func (s *OverlayService) DeleteOverlay(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		logger.Sugar.Debugf("Delete matched no overlay with id %s", id)
		return nil
	}

	s.publish(socket.OverlayDeletedType, id, nil)
	return nil
}

func (s *OverlayService) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.Repo.Ping(ctx)
}

func (s *OverlayService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func (s *OverlayService) publish(eventType, id string, payload any) {
	if s.Notifier == nil {
		return
	}

	ev := socket.Event{Type: eventType, OverlayID: id}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			logger.Sugar.Errorf("Error marshalling %s event for overlay %s: %v", eventType, id, err)
			return
		}
		ev.Payload = b
	}
	s.Notifier.Publish(ev)
}
