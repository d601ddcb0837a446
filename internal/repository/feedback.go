package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/model"
)

type FeedbackRepository interface {
	Create(tx *sqlx.Tx, feedback *model.Feedback) error
	ByGoalID(goalID string) ([]*model.Feedback, error)
}

type feedbackRepository struct {
	db *sqlx.DB
}

func NewFeedbackRepository(db *sqlx.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(tx *sqlx.Tx, feedback *model.Feedback) error {
	query := `INSERT INTO goal_feedback (id, goal_id, completion_id, author_id, kind, message, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(query,
		feedback.ID,
		feedback.GoalID,
		feedback.CompletionID,
		feedback.AuthorID,
		feedback.Kind,
		feedback.Message,
		feedback.CreatedAt,
	)

	return err
}

func (r *feedbackRepository) ByGoalID(goalID string) ([]*model.Feedback, error) {
	var items []*model.Feedback
	query := `SELECT * FROM goal_feedback WHERE goal_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&items, query, goalID)
	if err != nil {
		return nil, err
	}

	return items, nil
}
