package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// MySQLArtistRepository implements ArtistRepository for MySQL.
type MySQLArtistRepository struct {
	db *sql.DB
}

// NewMySQLArtistRepository creates a new MySQL artist repository.
func NewMySQLArtistRepository(db *sql.DB) *MySQLArtistRepository {
	return &MySQLArtistRepository{db: db}
}

func (r *MySQLArtistRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Artist, error) {
	query := `SELECT id, name, label_id FROM artists WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	artist := &model.Artist{}
	err := row.Scan(&artist.ID, &artist.Name, &artist.LabelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan artist %s: %w", id, err)
	}
	return artist, nil
}

func (r *MySQLArtistRepository) Save(ctx context.Context, artist *model.Artist) error {
	query := `INSERT INTO artists (id, name, label_id) VALUES (?, ?, ?)
	          ON DUPLICATE KEY UPDATE name = VALUES(name), label_id = VALUES(label_id)`
	if _, err := r.db.ExecContext(ctx, query, artist.ID, artist.Name, artist.LabelID); err != nil {
		return fmt.Errorf("failed to save artist %s: %w", artist.ID, err)
	}
	return nil
}
