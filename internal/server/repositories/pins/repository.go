package pins

import (
	"context"

	"github.com/storyatlas/storyatlas/internal/server/models"
)

// Repository is the persistence surface for story pins.
type Repository interface {
	// SelectAll returns all pins in submission order (created_at ascending).
	SelectAll(ctx context.Context) ([]models.StoryPin, error)

	// Insert stores a new pin.
	Insert(ctx context.Context, pin *models.StoryPin) error
}
