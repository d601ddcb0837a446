package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")

	// ErrGoalVersionConflict means a concurrent transition won the race.
	ErrGoalVersionConflict = errors.New("goal modified concurrently")
)

type GoalRepository interface {
	Create(tx *sqlx.Tx, goal *model.Goal) error
	ByID(goalID string) (*model.Goal, error)
	ByIDTx(tx *sqlx.Tx, goalID string) (*model.Goal, error)
	ForOwner(ownerID string) ([]*model.Goal, error)
	ForApprover(approverID string) ([]*model.Goal, error)
	All() ([]*model.Goal, error)
	Update(tx *sqlx.Tx, goal *model.Goal) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(tx *sqlx.Tx, goal *model.Goal) error {
	query := `INSERT INTO goals (id, owner_id, approver_id, title, description, category, priority,
	                             start_date, end_date, status, progress, change_requested, version,
	                             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := tx.Exec(query,
		goal.ID,
		goal.OwnerID,
		goal.ApproverID,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.Priority,
		goal.StartDate,
		goal.EndDate,
		goal.Status,
		goal.Progress,
		goal.ChangeRequested,
		goal.Version,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(goalID string) (*model.Goal, error) {
	return goalByID(r.db, goalID)
}

func (r *goalRepository) ByIDTx(tx *sqlx.Tx, goalID string) (*model.Goal, error) {
	return goalByID(tx, goalID)
}

func goalByID(q sqlx.Queryer, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND deleted_at IS NULL`

	err := sqlx.Get(q, goal, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) ForOwner(ownerID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE owner_id = $1 AND deleted_at IS NULL ORDER BY updated_at DESC`

	err := r.db.Select(&goals, query, ownerID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) ForApprover(approverID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE approver_id = $1 AND deleted_at IS NULL ORDER BY updated_at DESC`

	err := r.db.Select(&goals, query, approverID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) All() ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE deleted_at IS NULL ORDER BY updated_at DESC`

	err := r.db.Select(&goals, query)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// Update writes every mutable field and bumps the version. Zero rows means
// another transition committed first; the caller maps that to Conflict.
func (r *goalRepository) Update(tx *sqlx.Tx, goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, description = $2, category = $3, priority = $4,
	              start_date = $5, end_date = $6, status = $7, progress = $8,
	              change_requested = $9, approved_at = $10, resubmitted_at = $11,
	              completed_at = $12, deleted_at = $13, updated_at = $14,
	              version = version + 1
	          WHERE id = $15 AND version = $16 AND deleted_at IS NULL`

	result, err := tx.Exec(query,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.Priority,
		goal.StartDate,
		goal.EndDate,
		goal.Status,
		goal.Progress,
		goal.ChangeRequested,
		goal.ApprovedAt,
		goal.ResubmittedAt,
		goal.CompletedAt,
		goal.DeletedAt,
		time.Now(),
		goal.ID,
		goal.Version,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalVersionConflict
	}

	goal.Version++
	return nil
}
