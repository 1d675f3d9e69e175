package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// MySQLSongRepository implements SongRepository for MySQL. Durations are
// stored as whole seconds.
type MySQLSongRepository struct {
	db *sql.DB
}

// NewMySQLSongRepository creates a new MySQL song repository.
func NewMySQLSongRepository(db *sql.DB) *MySQLSongRepository {
	return &MySQLSongRepository{db: db}
}

func scanSong(row interface{ Scan(dest ...any) error }) (*model.Song, error) {
	song := &model.Song{}
	var durationSeconds int64
	if err := row.Scan(&song.ID, &song.Title, &song.ArtistID, &durationSeconds); err != nil {
		return nil, err
	}
	song.Duration = time.Duration(durationSeconds) * time.Second
	return song, nil
}

func (r *MySQLSongRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Song, error) {
	query := `SELECT id, title, artist_id, duration_seconds FROM songs WHERE id = ?`
	song, err := scanSong(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan song %s: %w", id, err)
	}
	return song, nil
}

func (r *MySQLSongRepository) FindByArtistID(ctx context.Context, artistID uuid.UUID) ([]*model.Song, error) {
	query := `SELECT id, title, artist_id, duration_seconds FROM songs WHERE artist_id = ? ORDER BY created_at`
	return r.querySongs(ctx, query, artistID)
}

func (r *MySQLSongRepository) FindAll(ctx context.Context) ([]*model.Song, error) {
	query := `SELECT id, title, artist_id, duration_seconds FROM songs ORDER BY created_at`
	return r.querySongs(ctx, query)
}

func (r *MySQLSongRepository) querySongs(ctx context.Context, query string, args ...any) ([]*model.Song, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := make([]*model.Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		songs = append(songs, song)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during song rows iteration: %w", err)
	}
	return songs, nil
}

func (r *MySQLSongRepository) Save(ctx context.Context, song *model.Song) error {
	query := `INSERT INTO songs (id, title, artist_id, duration_seconds, created_at) VALUES (?, ?, ?, ?, ?)
	          ON DUPLICATE KEY UPDATE title = VALUES(title)`
	_, err := r.db.ExecContext(ctx, query,
		song.ID, song.Title, song.ArtistID, int64(song.Duration/time.Second), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save song %s: %w", song.ID, err)
	}
	return nil
}
