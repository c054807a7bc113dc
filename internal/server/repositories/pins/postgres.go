// Package pins provides the PostgreSQL-backed repository for story pins.
// Pin persistence is a deployment choice; the map works purely in-session
// when the server-side store is not configured.
package pins

import (
	"context"
	"fmt"

	"github.com/storyatlas/storyatlas/internal/dbx"
	"github.com/storyatlas/storyatlas/internal/server/models"
)

// PostgresRepository implements pin storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]models.StoryPin, error) {
	query := `
		SELECT id, lat, lng, note, created_at
		FROM story_pins
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select pins: %w", err)
	}
	defer rows.Close()

	result := make([]models.StoryPin, 0)
	for rows.Next() {
		var item models.StoryPin
		if err := rows.Scan(&item.ID, &item.Lat, &item.Lng, &item.Note, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, pin *models.StoryPin) error {
	query := `
		INSERT INTO story_pins (id, lat, lng, note)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, pin.ID, pin.Lat, pin.Lng, pin.Note)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
