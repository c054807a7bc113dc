package entries

import (
	"context"

	"github.com/storyatlas/storyatlas/internal/server/models"
)

// Repository is the persistence surface for archive entries.
type Repository interface {
	// SelectAll returns all entries ordered by creation time, newest first.
	SelectAll(ctx context.Context) ([]models.ArchiveEntry, error)

	// GetByID returns a single entry or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.ArchiveEntry, error)

	// Insert stores a new entry row.
	Insert(ctx context.Context, entry *models.ArchiveEntry) error

	// Update applies a partial scalar patch and replaces the media list.
	// Nil patch fields leave the corresponding columns unchanged.
	// Returns common.ErrNotFound if no row matches id.
	Update(ctx context.Context, id string, patch models.EntryPatch, media []models.MediaAsset) error

	// Delete removes an entry row. Returns common.ErrNotFound if no row
	// matches id.
	Delete(ctx context.Context, id string) error
}
