package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyatlas/storyatlas/internal/common"
	"github.com/storyatlas/storyatlas/internal/dataurl"
	"github.com/storyatlas/storyatlas/internal/logging"
	"github.com/storyatlas/storyatlas/internal/server/models"
)

// -------- test fakes --------

type fakeEntriesRepo struct {
	rows map[string]models.ArchiveEntry

	insertErr error
	updateErr error
	selectErr error

	// ordered events let tests assert cleanup ordering
	events []string
}

func newFakeEntriesRepo() *fakeEntriesRepo {
	return &fakeEntriesRepo{rows: map[string]models.ArchiveEntry{}}
}

func (f *fakeEntriesRepo) SelectAll(ctx context.Context) ([]models.ArchiveEntry, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	out := make([]models.ArchiveEntry, 0, len(f.rows))
	for _, e := range f.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeEntriesRepo) GetByID(ctx context.Context, id string) (*models.ArchiveEntry, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &e, nil
}

func (f *fakeEntriesRepo) Insert(ctx context.Context, entry *models.ArchiveEntry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	e := *entry
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	f.rows[e.ID] = e
	f.events = append(f.events, "insert:"+e.ID)
	return nil
}

func (f *fakeEntriesRepo) Update(ctx context.Context, id string, patch models.EntryPatch, media []models.MediaAsset) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	e, ok := f.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Meta != nil {
		e.Meta = *patch.Meta
	}
	if patch.Href != nil {
		e.Href = *patch.Href
	}
	e.Media = media
	f.rows[id] = e
	f.events = append(f.events, "update:"+id)
	return nil
}

func (f *fakeEntriesRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.rows, id)
	f.events = append(f.events, "delete:"+id)
	return nil
}

type fakeBlobStore struct {
	prefix string

	putErr    error
	deleteErr error

	puts    []string
	deletes []string
	events  *[]string // shared with repo when ordering matters
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{prefix: "http://blob/archive-media/"}
}

func (f *fakeBlobStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.puts = append(f.puts, key)
	return f.prefix + key, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, key)
	if f.events != nil {
		*f.events = append(*f.events, "blobdelete:"+key)
	}
	return nil
}

func (f *fakeBlobStore) KeyFromURL(url string) (string, bool) {
	key, found := strings.CutPrefix(url, f.prefix)
	if !found || key == "" {
		return "", false
	}
	return key, true
}

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newService(repo *fakeEntriesRepo, blobs *fakeBlobStore) *ArchiveService {
	s := NewArchiveService(repo, blobs, nopLogger())
	ts := time.Unix(1700000000, 0)
	s.now = func() time.Time { return ts }
	n := 0
	s.newID = func() string {
		n++
		return "entry-" + string(rune('0'+n))
	}
	return s
}

// -------- tests --------

func TestCreate_MissingRequiredField(t *testing.T) {
	repo := newFakeEntriesRepo()
	blobs := newFakeBlobStore()
	s := newService(repo, blobs)

	_, err := s.Create(context.Background(), CreateEntryInput{
		Title: "", Description: "d", Meta: "m",
	})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, repo.rows, "no row may be written on validation failure")
	assert.Empty(t, blobs.puts, "no upload may happen on validation failure")
}

func TestCreate_RoundTrip(t *testing.T) {
	repo := newFakeEntriesRepo()
	blobs := newFakeBlobStore()
	s := newService(repo, blobs)

	list, err := s.Create(context.Background(), CreateEntryInput{
		Title:       "1967 Act leaflet",
		Type:        models.EntryTypeArtifact,
		Description: "Pamphlet",
		Meta:        "London · 1966",
		Href:        "https://example.org",
		Media: []models.MediaAsset{
			{Name: "scan.png", Type: "image/png", URL: dataurl.Encode("image/png", []byte("img"))},
		},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, "1967 Act leaflet", got.Title)
	assert.Equal(t, models.EntryTypeArtifact, got.Type)
	assert.Equal(t, "Pamphlet", got.Description)
	assert.Equal(t, "London · 1966", got.Meta)
	assert.Equal(t, "https://example.org", got.Href)
	require.Len(t, got.Media, 1)
	assert.Equal(t, "http://blob/archive-media/entries/1700000000000-scan.png", got.Media[0].URL)
}

func TestCreate_SkipsMalformedDataURL(t *testing.T) {
	repo := newFakeEntriesRepo()
	blobs := newFakeBlobStore()
	s := newService(repo, blobs)

	list, err := s.Create(context.Background(), CreateEntryInput{
		Title: "t", Description: "d", Meta: "m",
		Media: []models.MediaAsset{
			{Name: "broken", Type: "image/png", URL: "data:image/png;base64"},
			{Name: "ok.png", Type: "image/png", URL: dataurl.Encode("image/png", []byte("x"))},
		},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Media, 1)
	assert.Equal(t, "ok.png", list[0].Media[0].Name)
}

func TestCreate_UploadFailureAbortsBeforeInsert(t *testing.T) {
	repo := newFakeEntriesRepo()
	blobs := newFakeBlobStore()
	blobs.putErr = errors.New("storage down")
	s := newService(repo, blobs)

	_, err := s.Create(context.Background(), CreateEntryInput{
		Title: "t", Description: "d", Meta: "m",
		Media: []models.MediaAsset{
			{Name: "a.png", Type: "image/png", URL: dataurl.Encode("image/png", []byte("x"))},
		},
	})
	require.Error(t, err)
	assert.Empty(t, repo.rows, "upload failure must abort before the row insert")
}

func TestCreate_DefaultsType(t *testing.T) {
	repo := newFakeEntriesRepo()
	blobs := newFakeBlobStore()
	s := newService(repo, blobs)

	list, err := s.Create(context.Background(), CreateEntryInput{
		Title: "t", Description: "d", Meta: "m",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EntryTypePhoto, list[0].Type)
}

func TestUpdate_RequiresID(t *testing.T) {
	s := newService(newFakeEntriesRepo(), newFakeBlobStore())

	_, err := s.Update(context.Background(), UpdateEntryInput{})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdate_NotFound(t *testing.T) {
	s := newService(newFakeEntriesRepo(), newFakeBlobStore())

	_, err := s.Update(context.Background(), UpdateEntryInput{ID: "missing"})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_TitleOnlyLeavesRestUntouched(t *testing.T) {
	repo := newFakeEntriesRepo()
	blobs := newFakeBlobStore()
	s := newService(repo, blobs)

	media := []models.MediaAsset{{Name: "a", Type: "image/png", URL: "http://blob/archive-media/entries/1-a"}}
	repo.rows["e1"] = models.ArchiveEntry{
		ID: "e1", Title: "old", Type: "Essay", Description: "desc", Meta: "meta",
		Href: "https://x", Media: media, CreatedAt: time.Now(),
	}

	title := "new"
	list, err := s.Update(context.Background(), UpdateEntryInput{ID: "e1", Patch: models.EntryPatch{Title: &title}})
	require.NoError(t, err)

	got := list[0]
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "Essay", got.Type)
	assert.Equal(t, "desc", got.Description)
	assert.Equal(t, "meta", got.Meta)
	assert.Equal(t, "https://x", got.Href)
	assert.Equal(t, media, got.Media)
	assert.Empty(t, blobs.deletes)
}

func TestUpdate_MediaRemovalAndOrdering(t *testing.T) {
	repo := newFakeEntriesRepo()
	blobs := newFakeBlobStore()
	blobs.events = &repo.events
	s := newService(repo, blobs)

	repo.rows["e1"] = models.ArchiveEntry{
		ID: "e1", Title: "t", Type: "Photo", Description: "d", Meta: "m",
		Media: []models.MediaAsset{
			{Name: "keep", Type: "image/png", URL: "http://blob/archive-media/entries/1-keep"},
			{Name: "drop", Type: "image/png", URL: "http://blob/archive-media/entries/2-drop"},
		},
		CreatedAt: time.Now(),
	}

	list, err := s.Update(context.Background(), UpdateEntryInput{
		ID: "e1",
		Media: []models.MediaAsset{
			{Name: "fresh.png", Type: "image/png", URL: dataurl.Encode("image/png", []byte("new"))},
		},
		RemoveMediaKeys: []string{"http://blob/archive-media/entries/2-drop"},
	})
	require.NoError(t, err)

	got := list[0].Media
	require.Len(t, got, 2)
	assert.Equal(t, "fresh.png", got[0].Name, "new uploads come first")
	assert.Equal(t, "keep", got[1].Name, "retained assets come after")

	// removed asset's URL must be gone
	for _, m := range got {
		assert.NotEqual(t, "http://blob/archive-media/entries/2-drop", m.URL)
	}

	// blob cleanup runs only after the row update
	require.Equal(t, []string{"update:e1", "blobdelete:entries/2-drop"}, repo.events)
}

func TestUpdate_BlobCleanupFailureDoesNotFail(t *testing.T) {
	repo := newFakeEntriesRepo()
	blobs := newFakeBlobStore()
	blobs.deleteErr = errors.New("storage down")
	s := newService(repo, blobs)

	repo.rows["e1"] = models.ArchiveEntry{
		ID: "e1", Title: "t", Type: "Photo", Description: "d", Meta: "m",
		Media: []models.MediaAsset{
			{Name: "drop", Type: "image/png", URL: "http://blob/archive-media/entries/2-drop"},
		},
		CreatedAt: time.Now(),
	}

	list, err := s.Update(context.Background(), UpdateEntryInput{
		ID:              "e1",
		RemoveMediaKeys: []string{"http://blob/archive-media/entries/2-drop"},
	})
	require.NoError(t, err, "a storage-delete failure must not corrupt the update")
	assert.Empty(t, list[0].Media)
}

func TestDelete_RemovesRowAndBlobs(t *testing.T) {
	repo := newFakeEntriesRepo()
	blobs := newFakeBlobStore()
	s := newService(repo, blobs)

	repo.rows["e1"] = models.ArchiveEntry{
		ID: "e1", Title: "t", Type: "Photo", Description: "d", Meta: "m",
		Media: []models.MediaAsset{
			{Name: "a", Type: "image/png", URL: "http://blob/archive-media/entries/1-a"},
			{Name: "b", Type: "image/png", URL: "https://elsewhere.example/not-ours"},
		},
		CreatedAt: time.Now(),
	}

	list, err := s.Delete(context.Background(), "e1")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, []string{"entries/1-a"}, blobs.deletes, "foreign URLs are skipped")
}

func TestDelete_RequiresID(t *testing.T) {
	s := newService(newFakeEntriesRepo(), newFakeBlobStore())

	_, err := s.Delete(context.Background(), "")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestDelete_MissingEntryIsNoOp(t *testing.T) {
	repo := newFakeEntriesRepo()
	repo.rows["other"] = models.ArchiveEntry{ID: "other", CreatedAt: time.Now()}
	s := newService(repo, newFakeBlobStore())

	list, err := s.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDelete_BlobFailureStillRemovesRow(t *testing.T) {
	repo := newFakeEntriesRepo()
	blobs := newFakeBlobStore()
	blobs.deleteErr = errors.New("storage down")
	s := newService(repo, blobs)

	repo.rows["e1"] = models.ArchiveEntry{
		ID: "e1", Title: "t", Type: "Photo", Description: "d", Meta: "m",
		Media: []models.MediaAsset{
			{Name: "a", Type: "image/png", URL: "http://blob/archive-media/entries/1-a"},
		},
		CreatedAt: time.Now(),
	}

	list, err := s.Delete(context.Background(), "e1")
	require.NoError(t, err)
	assert.Empty(t, list, "row removal proceeds even when blob cleanup fails")
}
