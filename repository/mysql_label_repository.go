package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

// MySQLLabelRepository implements LabelRepository for MySQL.
type MySQLLabelRepository struct {
	db *sql.DB
}

// NewMySQLLabelRepository creates a new MySQL label repository.
func NewMySQLLabelRepository(db *sql.DB) *MySQLLabelRepository {
	return &MySQLLabelRepository{db: db}
}

func (r *MySQLLabelRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LabelRecord, error) {
	query := `SELECT id, name FROM labels WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	label := &model.LabelRecord{}
	err := row.Scan(&label.ID, &label.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan label %s: %w", id, err)
	}
	return label, nil
}

func (r *MySQLLabelRepository) Save(ctx context.Context, label *model.LabelRecord) error {
	query := `INSERT INTO labels (id, name) VALUES (?, ?)
	          ON DUPLICATE KEY UPDATE name = VALUES(name)`
	if _, err := r.db.ExecContext(ctx, query, label.ID, label.Name); err != nil {
		return fmt.Errorf("failed to save label %s: %w", label.ID, err)
	}
	return nil
}
