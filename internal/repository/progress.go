package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/model"
)

// ProgressRepository is append-only: entries are never edited or removed.
type ProgressRepository interface {
	Create(tx *sqlx.Tx, entry *model.ProgressEntry) error
	ByGoalID(goalID string) ([]*model.ProgressEntry, error)
}

type progressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(tx *sqlx.Tx, entry *model.ProgressEntry) error {
	query := `INSERT INTO goal_progress (id, goal_id, author_id, note, percent, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(query,
		entry.ID,
		entry.GoalID,
		entry.AuthorID,
		entry.Note,
		entry.Percent,
		entry.CreatedAt,
	)

	return err
}

func (r *progressRepository) ByGoalID(goalID string) ([]*model.ProgressEntry, error) {
	var entries []*model.ProgressEntry
	query := `SELECT * FROM goal_progress WHERE goal_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&entries, query, goalID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
