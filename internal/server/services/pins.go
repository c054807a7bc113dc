package services

import (
	"context"
	"fmt"
	"time"

	"github.com/storyatlas/storyatlas/internal/common"
	"github.com/storyatlas/storyatlas/internal/geox"
	"github.com/storyatlas/storyatlas/internal/logging"
	"github.com/storyatlas/storyatlas/internal/server/models"
	"github.com/storyatlas/storyatlas/internal/server/repositories/pins"
)

// PinService persists story pins for deployments that opt into durable
// pins instead of session-only ones.
type PinService struct {
	repo   pins.Repository
	logger logging.Logger

	now func() time.Time
}

func NewPinService(repo pins.Repository, logger logging.Logger) *PinService {
	return &PinService{repo: repo, logger: logger, now: time.Now}
}

// List returns all pins in submission order.
func (s *PinService) List(ctx context.Context) ([]models.StoryPin, error) {
	return s.repo.SelectAll(ctx)
}

// Create validates and stores a pin with rounded coordinates and a
// timestamp-derived id. Returns the refreshed pin list.
func (s *PinService) Create(ctx context.Context, lat, lng float64, note string) ([]models.StoryPin, error) {
	note = trimmed(note)
	if note == "" {
		return nil, fmt.Errorf("%w: note is required", common.ErrValidation)
	}
	if !geox.ValidLat(lat) || !geox.ValidLng(lng) {
		return nil, fmt.Errorf("%w: coordinates out of range", common.ErrValidation)
	}

	pin := &models.StoryPin{
		ID:   fmt.Sprintf("pin-%d", s.now().UnixMilli()),
		Lat:  geox.Round(lat),
		Lng:  geox.Round(lng),
		Note: note,
	}
	if err := s.repo.Insert(ctx, pin); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "story pin created", "id", pin.ID)
	return s.repo.SelectAll(ctx)
}
