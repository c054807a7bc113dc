// Package entries provides the PostgreSQL-backed repository for archive
// entry persistence. The media list is stored as a JSONB document on the
// entry row; the blobs themselves live in object storage.
package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/storyatlas/storyatlas/internal/common"
	"github.com/storyatlas/storyatlas/internal/dbx"
	"github.com/storyatlas/storyatlas/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func marshalMedia(media []models.MediaAsset) ([]byte, error) {
	if media == nil {
		media = []models.MediaAsset{}
	}
	b, err := json.Marshal(media)
	if err != nil {
		return nil, fmt.Errorf("marshal media: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]models.ArchiveEntry, error) {
	query := `
		SELECT id, title, type, description, meta, href, media, created_at
		FROM archive_entries
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := make([]models.ArchiveEntry, 0)
	for rows.Next() {
		var item models.ArchiveEntry
		var mediaRaw []byte
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Type, &item.Description, &item.Meta,
			&item.Href, &mediaRaw, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(mediaRaw, &item.Media); err != nil {
			return nil, fmt.Errorf("unmarshal media for entry %s: %w", item.ID, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ArchiveEntry, error) {
	query := `
		SELECT id, title, type, description, meta, href, media, created_at
		FROM archive_entries
		WHERE id = $1
	`
	var item models.ArchiveEntry
	var mediaRaw []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Title, &item.Type, &item.Description, &item.Meta,
		&item.Href, &mediaRaw, &item.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(mediaRaw, &item.Media); err != nil {
		return nil, fmt.Errorf("unmarshal media for entry %s: %w", item.ID, err)
	}
	return &item, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, entry *models.ArchiveEntry) error {
	mediaRaw, err := marshalMedia(entry.Media)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO archive_entries (id, title, type, description, meta, href, media)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.Title, entry.Type, entry.Description, entry.Meta, entry.Href, mediaRaw)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update writes the merged media list and only the scalar columns the patch
// provides; NULL arguments fall through COALESCE and keep the stored value.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.EntryPatch, media []models.MediaAsset) error {
	mediaRaw, err := marshalMedia(media)
	if err != nil {
		return err
	}
	query := `
		UPDATE archive_entries SET
			title = COALESCE($2, title),
			type = COALESCE($3, type),
			description = COALESCE($4, description),
			meta = COALESCE($5, meta),
			href = COALESCE($6, href),
			media = $7
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		id, patch.Title, patch.Type, patch.Description, patch.Meta, patch.Href, mediaRaw)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM archive_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
