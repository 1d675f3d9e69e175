package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// streamRow is the GORM mapping for the streams table. The domain model
// stays free of persistence tags; conversion happens at this boundary.
type streamRow struct {
	ID              uuid.UUID `gorm:"primaryKey;type:char(36)"`
	SongID          uuid.UUID `gorm:"type:char(36);index"`
	UserID          uuid.UUID `gorm:"type:char(36)"`
	StreamedAt      time.Time `gorm:"index"`
	DurationSeconds int64
	Monetized       bool
}

func (streamRow) TableName() string { return "streams" }

func toStreamRow(s *model.Stream) streamRow {
	return streamRow{
		ID:              s.ID,
		SongID:          s.SongID,
		UserID:          s.UserID,
		StreamedAt:      s.Timestamp,
		DurationSeconds: int64(s.Duration / time.Second),
		Monetized:       s.Monetized,
	}
}

func (row streamRow) toModel() *model.Stream {
	return &model.Stream{
		ID:        row.ID,
		SongID:    row.SongID,
		UserID:    row.UserID,
		Timestamp: row.StreamedAt,
		Duration:  time.Duration(row.DurationSeconds) * time.Second,
		Monetized: row.Monetized,
	}
}

// StreamMigration exposes the row type for gorm AutoMigrate at startup.
func StreamMigration() any { return &streamRow{} }

// GormStreamRepository implements StreamRepository on GORM. Streams are the
// high-volume table, so queries lean on indexed columns and SQL joins.
type GormStreamRepository struct {
	db *gorm.DB
}

// NewGormStreamRepository creates a new GORM stream repository.
func NewGormStreamRepository(db *gorm.DB) *GormStreamRepository {
	return &GormStreamRepository{db: db}
}

func (r *GormStreamRepository) FindBySongID(ctx context.Context, songID uuid.UUID) ([]*model.Stream, error) {
	var rows []streamRow
	err := r.db.WithContext(ctx).
		Where("song_id = ?", songID).
		Order("streamed_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

func (r *GormStreamRepository) FindByArtistID(ctx context.Context, artistID uuid.UUID) ([]*model.Stream, error) {
	var rows []streamRow
	err := r.db.WithContext(ctx).
		Joins("JOIN songs ON songs.id = streams.song_id").
		Where("songs.artist_id = ?", artistID).
		Order("streams.streamed_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

func (r *GormStreamRepository) FindMonetizableByArtistID(ctx context.Context, artistID uuid.UUID, from, to time.Time) ([]*model.Stream, error) {
	var rows []streamRow
	err := r.db.WithContext(ctx).
		Joins("JOIN songs ON songs.id = streams.song_id").
		Where("songs.artist_id = ? AND streams.monetized = ? AND streams.streamed_at BETWEEN ? AND ?",
			artistID, true, from, to).
		Order("streams.streamed_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

func (r *GormStreamRepository) Save(ctx context.Context, stream *model.Stream) error {
	row := toStreamRow(stream)
	return r.db.WithContext(ctx).Create(&row).Error
}

func toModels(rows []streamRow) []*model.Stream {
	out := make([]*model.Stream, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out
}
