package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/model"
)

var (
	ErrCompletionNotFound = errors.New("goal completion not found")
)

type CompletionRepository interface {
	Create(tx *sqlx.Tx, completion *model.GoalCompletion) error
	ByID(completionID string) (*model.GoalCompletion, error)
	// Latest returns the most recent completion for a goal: the one the
	// approval sub-status cycles on.
	Latest(goalID string) (*model.GoalCompletion, error)
	LatestTx(tx *sqlx.Tx, goalID string) (*model.GoalCompletion, error)
	Update(tx *sqlx.Tx, completion *model.GoalCompletion) error
}

type completionRepository struct {
	db *sqlx.DB
}

func NewCompletionRepository(db *sqlx.DB) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) Create(tx *sqlx.Tx, completion *model.GoalCompletion) error {
	query := `INSERT INTO goal_completions (id, goal_id, narrative, status, progress_at_submission,
	                                        achievement_level, rating, submitted_at, reviewed_at,
	                                        reviewed_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := tx.Exec(query,
		completion.ID,
		completion.GoalID,
		completion.Narrative,
		completion.Status,
		completion.ProgressAtSubmission,
		completion.AchievementLevel,
		completion.Rating,
		completion.SubmittedAt,
		completion.ReviewedAt,
		completion.ReviewedBy,
		completion.CreatedAt,
		completion.UpdatedAt,
	)

	return err
}

func (r *completionRepository) ByID(completionID string) (*model.GoalCompletion, error) {
	completion := &model.GoalCompletion{}
	query := `SELECT * FROM goal_completions WHERE id = $1`

	err := r.db.Get(completion, query, completionID)
	if err == sql.ErrNoRows {
		return nil, ErrCompletionNotFound
	}

	return completion, err
}

func (r *completionRepository) Latest(goalID string) (*model.GoalCompletion, error) {
	return latestCompletion(r.db, goalID)
}

func (r *completionRepository) LatestTx(tx *sqlx.Tx, goalID string) (*model.GoalCompletion, error) {
	return latestCompletion(tx, goalID)
}

func latestCompletion(q sqlx.Queryer, goalID string) (*model.GoalCompletion, error) {
	completion := &model.GoalCompletion{}
	query := `SELECT * FROM goal_completions WHERE goal_id = $1 ORDER BY submitted_at DESC, created_at DESC LIMIT 1`

	err := sqlx.Get(q, completion, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrCompletionNotFound
	}

	return completion, err
}

func (r *completionRepository) Update(tx *sqlx.Tx, completion *model.GoalCompletion) error {
	query := `UPDATE goal_completions
	          SET narrative = $1, status = $2, progress_at_submission = $3, achievement_level = $4,
	              rating = $5, reviewed_at = $6, reviewed_by = $7, updated_at = $8
	          WHERE id = $9`

	result, err := tx.Exec(query,
		completion.Narrative,
		completion.Status,
		completion.ProgressAtSubmission,
		completion.AchievementLevel,
		completion.Rating,
		completion.ReviewedAt,
		completion.ReviewedBy,
		time.Now(),
		completion.ID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrCompletionNotFound
	}

	return nil
}
