// Package services implements the archive and pin workflows between the
// HTTP surface, the database repositories, and the blob store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storyatlas/storyatlas/internal/common"
	"github.com/storyatlas/storyatlas/internal/dataurl"
	"github.com/storyatlas/storyatlas/internal/logging"
	"github.com/storyatlas/storyatlas/internal/server/models"
	"github.com/storyatlas/storyatlas/internal/server/repositories/entries"
	"github.com/storyatlas/storyatlas/internal/server/storage"
)

// CreateEntryInput carries a new archive entry and its media payloads
// (base64 data URLs).
type CreateEntryInput struct {
	Title       string
	Type        string
	Description string
	Meta        string
	Href        string
	Media       []models.MediaAsset
}

// UpdateEntryInput carries a partial edit: nil patch fields stay unchanged,
// Media holds new payloads to upload, RemoveMediaKeys lists the public URLs
// of already-stored assets to drop.
type UpdateEntryInput struct {
	ID              string
	Patch           models.EntryPatch
	Media           []models.MediaAsset
	RemoveMediaKeys []string
}

// ArchiveService owns the create/read/update/delete flow for archive
// entries, including media upload and cleanup ordering.
type ArchiveService struct {
	repo   entries.Repository
	blobs  storage.BlobStore
	logger logging.Logger

	// seams for deterministic ids and object keys in tests
	now   func() time.Time
	newID func() string
}

func NewArchiveService(repo entries.Repository, blobs storage.BlobStore, logger logging.Logger) *ArchiveService {
	return &ArchiveService{
		repo:   repo,
		blobs:  blobs,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// List returns all entries, newest first.
func (s *ArchiveService) List(ctx context.Context) ([]models.ArchiveEntry, error) {
	return s.repo.SelectAll(ctx)
}

// uploadMedia decodes each data-URL payload and writes it to the blob
// store under a timestamp-and-filename key. Payloads without a comma
// separator are silently skipped; any upload failure aborts the batch.
func (s *ArchiveService) uploadMedia(ctx context.Context, media []models.MediaAsset) ([]models.MediaAsset, error) {
	uploaded := make([]models.MediaAsset, 0, len(media))
	for _, m := range media {
		data, ok, err := dataurl.Decode(m.URL)
		if err != nil {
			return nil, fmt.Errorf("media %q: %w", m.Name, err)
		}
		if !ok {
			continue
		}
		key := fmt.Sprintf("entries/%d-%s", s.now().UnixMilli(), m.Name)
		url, err := s.blobs.Put(ctx, key, m.Type, data)
		if err != nil {
			return nil, fmt.Errorf("upload media %q: %w", m.Name, err)
		}
		uploaded = append(uploaded, models.MediaAsset{Name: m.Name, Type: m.Type, URL: url})
	}
	return uploaded, nil
}

// Create validates required fields, uploads all media, then inserts the
// row. Any upload failure aborts before the insert so no partial row
// appears. Returns the refreshed entry list.
func (s *ArchiveService) Create(ctx context.Context, in CreateEntryInput) ([]models.ArchiveEntry, error) {
	if in.Title == "" || in.Description == "" || in.Meta == "" {
		return nil, fmt.Errorf("%w: title, description, and context are required", common.ErrValidation)
	}

	uploaded, err := s.uploadMedia(ctx, in.Media)
	if err != nil {
		return nil, err
	}

	entryType := in.Type
	if entryType == "" {
		entryType = models.EntryTypePhoto
	}

	entry := &models.ArchiveEntry{
		ID:          s.newID(),
		Title:       in.Title,
		Type:        entryType,
		Description: in.Description,
		Meta:        in.Meta,
		Href:        in.Href,
		Media:       uploaded,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "archive entry created", "id", entry.ID, "media", len(uploaded))
	return s.repo.SelectAll(ctx)
}

// Update loads the entry, drops flagged media, uploads new payloads
// (uploaded first, retained after), writes the row, then best-effort
// deletes the orphaned blobs. Blob cleanup runs only after the row update
// succeeds so a storage failure cannot leave the row pointing at deleted
// objects. Returns the refreshed entry list.
func (s *ArchiveService) Update(ctx context.Context, in UpdateEntryInput) ([]models.ArchiveEntry, error) {
	if in.ID == "" {
		return nil, fmt.Errorf("%w: entry id is required", common.ErrValidation)
	}

	existing, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	removed := make(map[string]struct{}, len(in.RemoveMediaKeys))
	for _, url := range in.RemoveMediaKeys {
		removed[url] = struct{}{}
	}

	retained := make([]models.MediaAsset, 0, len(existing.Media))
	for _, m := range existing.Media {
		if _, drop := removed[m.URL]; !drop {
			retained = append(retained, m)
		}
	}

	uploaded, err := s.uploadMedia(ctx, in.Media)
	if err != nil {
		return nil, err
	}

	merged := append(uploaded, retained...)

	if err := s.repo.Update(ctx, in.ID, in.Patch, merged); err != nil {
		return nil, err
	}

	for _, url := range in.RemoveMediaKeys {
		key, ok := s.blobs.KeyFromURL(url)
		if !ok {
			continue
		}
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "orphaned media object left behind", "key", key, "error", err.Error())
		}
	}

	s.logger.Info(ctx, "archive entry updated", "id", in.ID, "added", len(uploaded), "removed", len(in.RemoveMediaKeys))
	return s.repo.SelectAll(ctx)
}

// Delete removes the entry's stored media best-effort, then the row.
// Deleting an id that no longer exists is a no-op. Returns the refreshed
// entry list.
func (s *ArchiveService) Delete(ctx context.Context, id string) ([]models.ArchiveEntry, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: entry id is required", common.ErrValidation)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		for _, m := range existing.Media {
			key, ok := s.blobs.KeyFromURL(m.URL)
			if !ok {
				continue
			}
			if err := s.blobs.Delete(ctx, key); err != nil {
				s.logger.Warn(ctx, "orphaned media object left behind", "key", key, "error", err.Error())
			}
		}
		if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		s.logger.Info(ctx, "archive entry deleted", "id", id)
	}

	return s.repo.SelectAll(ctx)
}

// trimmed is a helper for callers that accept user input with incidental
// whitespace.
func trimmed(s string) string {
	return strings.TrimSpace(s)
}
