package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/model"
)

var (
	ErrReviewNotFound = errors.New("review not found")
)

type ReviewRepository interface {
	Create(tx *sqlx.Tx, review *model.Review) error
	ByID(reviewID string) (*model.Review, error)
	ForEmployee(employeeID string) ([]*model.Review, error)
	ForReviewer(reviewerID string) ([]*model.Review, error)
	Update(tx *sqlx.Tx, review *model.Review) error
}

type reviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(tx *sqlx.Tx, review *model.Review) error {
	query := `INSERT INTO reviews (id, employee_id, reviewer_id, period, self_assessment,
	                               self_submitted_at, manager_comments, rating, status,
	                               created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(query,
		review.ID,
		review.EmployeeID,
		review.ReviewerID,
		review.Period,
		review.SelfAssessment,
		review.SelfSubmittedAt,
		review.ManagerComments,
		review.Rating,
		review.Status,
		review.CreatedAt,
		review.UpdatedAt,
	)

	return err
}

func (r *reviewRepository) ByID(reviewID string) (*model.Review, error) {
	review := &model.Review{}
	query := `SELECT * FROM reviews WHERE id = $1`

	err := r.db.Get(review, query, reviewID)
	if err == sql.ErrNoRows {
		return nil, ErrReviewNotFound
	}

	return review, err
}

func (r *reviewRepository) ForEmployee(employeeID string) ([]*model.Review, error) {
	var reviews []*model.Review
	query := `SELECT * FROM reviews WHERE employee_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&reviews, query, employeeID)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepository) ForReviewer(reviewerID string) ([]*model.Review, error) {
	var reviews []*model.Review
	query := `SELECT * FROM reviews WHERE reviewer_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&reviews, query, reviewerID)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepository) Update(tx *sqlx.Tx, review *model.Review) error {
	query := `UPDATE reviews
	          SET self_assessment = $1, self_submitted_at = $2, manager_comments = $3,
	              rating = $4, status = $5, updated_at = $6
	          WHERE id = $7`

	result, err := tx.Exec(query,
		review.SelfAssessment,
		review.SelfSubmittedAt,
		review.ManagerComments,
		review.Rating,
		review.Status,
		time.Now(),
		review.ID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrReviewNotFound
	}

	return nil
}
