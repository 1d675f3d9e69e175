package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// MySQLReleaseRepository implements ReleaseRepository for MySQL. The song
// set lives in the release_songs join table; Save replaces it inside one
// transaction so the aggregate stays consistent.
type MySQLReleaseRepository struct {
	db *sql.DB
}

// NewMySQLReleaseRepository creates a new MySQL release repository.
func NewMySQLReleaseRepository(db *sql.DB) *MySQLReleaseRepository {
	return &MySQLReleaseRepository{db: db}
}

func (r *MySQLReleaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Release, error) {
	query := `SELECT id, title, artist_id, proposed_date, approved_date, published_date, status
	          FROM releases WHERE id = ?`
	release, err := r.scanRelease(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan release %s: %w", id, err)
	}
	if err := r.loadSongs(ctx, release); err != nil {
		return nil, err
	}
	return release, nil
}

func (r *MySQLReleaseRepository) FindByArtistID(ctx context.Context, artistID uuid.UUID) ([]*model.Release, error) {
	query := `SELECT id, title, artist_id, proposed_date, approved_date, published_date, status
	          FROM releases WHERE artist_id = ? ORDER BY created_at`
	return r.queryReleases(ctx, query, artistID)
}

func (r *MySQLReleaseRepository) FindBySongID(ctx context.Context, songID uuid.UUID) ([]*model.Release, error) {
	query := `SELECT r.id, r.title, r.artist_id, r.proposed_date, r.approved_date, r.published_date, r.status
	          FROM releases r
	          JOIN release_songs rs ON rs.release_id = r.id
	          WHERE rs.song_id = ? ORDER BY r.created_at`
	return r.queryReleases(ctx, query, songID)
}

func (r *MySQLReleaseRepository) FindReadyForPublishing(ctx context.Context, date time.Time) ([]*model.Release, error) {
	query := `SELECT id, title, artist_id, proposed_date, approved_date, published_date, status
	          FROM releases WHERE status = ? AND approved_date <= ? ORDER BY approved_date`
	return r.queryReleases(ctx, query, model.StatusApproved, date)
}

func (r *MySQLReleaseRepository) Save(ctx context.Context, release *model.Release) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin release save transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO releases (id, title, artist_id, proposed_date, approved_date, published_date, status, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	          ON DUPLICATE KEY UPDATE
	            title = VALUES(title), proposed_date = VALUES(proposed_date),
	            approved_date = VALUES(approved_date), published_date = VALUES(published_date),
	            status = VALUES(status)`
	_, err = tx.ExecContext(ctx, query,
		release.ID, release.Title, release.ArtistID,
		nullTime(release.ProposedDate), nullTime(release.ApprovedDate), nullTime(release.PublishedAt),
		release.Status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save release %s: %w", release.ID, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM release_songs WHERE release_id = ?`, release.ID); err != nil {
		return fmt.Errorf("failed to clear song set for release %s: %w", release.ID, err)
	}
	for _, songID := range release.SongIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO release_songs (release_id, song_id) VALUES (?, ?)`, release.ID, songID); err != nil {
			return fmt.Errorf("failed to save song set for release %s: %w", release.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit release save for %s: %w", release.ID, err)
	}
	return nil
}

func (r *MySQLReleaseRepository) scanRelease(row interface{ Scan(dest ...any) error }) (*model.Release, error) {
	release := &model.Release{}
	var proposed, approved, published sql.NullTime
	err := row.Scan(&release.ID, &release.Title, &release.ArtistID,
		&proposed, &approved, &published, &release.Status)
	if err != nil {
		return nil, err
	}
	release.ProposedDate = timePtr(proposed)
	release.ApprovedDate = timePtr(approved)
	release.PublishedAt = timePtr(published)
	release.SongIDs = []uuid.UUID{}
	return release, nil
}

func (r *MySQLReleaseRepository) queryReleases(ctx context.Context, query string, args ...any) ([]*model.Release, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query releases: %w", err)
	}
	defer rows.Close()

	releases := make([]*model.Release, 0)
	for rows.Next() {
		release, err := r.scanRelease(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan release row: %w", err)
		}
		releases = append(releases, release)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during release rows iteration: %w", err)
	}
	for _, release := range releases {
		if err := r.loadSongs(ctx, release); err != nil {
			return nil, err
		}
	}
	return releases, nil
}

func (r *MySQLReleaseRepository) loadSongs(ctx context.Context, release *model.Release) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT song_id FROM release_songs WHERE release_id = ?`, release.ID)
	if err != nil {
		return fmt.Errorf("failed to query song set for release %s: %w", release.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var songID uuid.UUID
		if err := rows.Scan(&songID); err != nil {
			return fmt.Errorf("failed to scan song id for release %s: %w", release.ID, err)
		}
		release.SongIDs = append(release.SongIDs, songID)
	}
	return rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
