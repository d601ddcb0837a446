package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/apperr"
	"github.com/talentloop/talentloop/internal/model"
	"github.com/talentloop/talentloop/internal/repository"
)

// ReviewService handles the cycle-ending self-assessment plus manager
// review. Cycle scheduling lives outside this service; a review names its
// period as free text.
type ReviewService struct {
	db       *sqlx.DB
	reviews  repository.ReviewRepository
	identity IdentityResolver
	audit    *AuditService
	notifier *NotificationService
}

func NewReviewService(db *sqlx.DB, reviews repository.ReviewRepository, identity IdentityResolver, audit *AuditService, notifier *NotificationService) *ReviewService {
	return &ReviewService{
		db:       db,
		reviews:  reviews,
		identity: identity,
		audit:    audit,
		notifier: notifier,
	}
}

func (s *ReviewService) Start(employeeID, period string) (*model.Review, error) {
	if period == "" {
		return nil, apperr.Validation("period is required")
	}

	employee, err := s.identity.Resolve(employeeID)
	if err != nil {
		return nil, err
	}
	if employee.ManagerID == nil {
		return nil, apperr.Validation("employee has no manager on record")
	}
	reviewer, err := s.identity.Resolve(*employee.ManagerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review := &model.Review{
		ID:         uuid.New().String(),
		EmployeeID: employee.ID,
		ReviewerID: reviewer.ID,
		Period:     period,
		Status:     model.ReviewStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperr.Internal("begin transaction", err)
	}
	defer tx.Rollback()

	err = s.reviews.Create(tx, review)
	if err != nil {
		return nil, apperr.Internal("create review", err)
	}
	err = s.audit.RecordTx(tx, employeeID, model.AuditActionReviewStarted, model.EntityTypeReview, review.ID, nil, review)
	if err != nil {
		return nil, err
	}
	err = tx.Commit()
	if err != nil {
		return nil, apperr.Internal("commit transaction", err)
	}

	return review, nil
}

func (s *ReviewService) SubmitSelfAssessment(reviewID, employeeID, selfAssessment string) (*model.Review, error) {
	if selfAssessment == "" {
		return nil, apperr.Validation("self-assessment text is required")
	}

	review, err := s.load(reviewID)
	if err != nil {
		return nil, err
	}
	if review.EmployeeID != employeeID {
		return nil, apperr.Unauthorized("only the reviewed employee may submit the self-assessment")
	}
	if review.Status != model.ReviewStatusDraft {
		return nil, apperr.Newf(apperr.KindConflict, "cannot submit a review in status %s", review.Status)
	}

	before := *review
	now := time.Now()
	review.SelfAssessment = selfAssessment
	review.SelfSubmittedAt = &now
	review.Status = model.ReviewStatusSelfSubmitted
	review.UpdatedAt = now

	err = s.save(review, employeeID, model.AuditActionReviewSubmitted, &before)
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(review.ReviewerID, model.NotificationTypeReviewSubmitted,
		fmt.Sprintf("Self-assessment for %s is ready for your review", review.Period),
		model.EntityTypeReview, review.ID, model.NotificationPriorityNormal, true)

	return review, nil
}

func (s *ReviewService) Complete(reviewID, reviewerID, comments string, rating int) (*model.Review, error) {
	if comments == "" {
		return nil, apperr.Validation("manager comments are required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	review, err := s.load(reviewID)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != reviewerID {
		return nil, apperr.Unauthorized("only the recorded reviewer may complete this review")
	}
	if review.Status != model.ReviewStatusSelfSubmitted {
		return nil, apperr.Newf(apperr.KindConflict, "cannot complete a review in status %s", review.Status)
	}

	before := *review
	review.ManagerComments = comments
	review.Rating = &rating
	review.Status = model.ReviewStatusCompleted
	review.UpdatedAt = time.Now()

	err = s.save(review, reviewerID, model.AuditActionReviewCompleted, &before)
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(review.EmployeeID, model.NotificationTypeReviewCompleted,
		fmt.Sprintf("Your %s performance review is complete", review.Period),
		model.EntityTypeReview, review.ID, model.NotificationPriorityHigh, false)

	return review, nil
}

func (s *ReviewService) ListForActor(actor model.Actor) ([]*model.Review, error) {
	reviews, err := s.reviews.ForEmployee(actor.ID)
	if err != nil {
		return nil, apperr.Internal("list reviews", err)
	}
	reviewing, err := s.reviews.ForReviewer(actor.ID)
	if err != nil {
		return nil, apperr.Internal("list reviews", err)
	}
	return append(reviews, reviewing...), nil
}

func (s *ReviewService) load(reviewID string) (*model.Review, error) {
	review, err := s.reviews.ByID(reviewID)
	if errors.Is(err, repository.ErrReviewNotFound) {
		return nil, apperr.NotFound("review not found")
	}
	if err != nil {
		return nil, apperr.Internal("load review", err)
	}
	return review, nil
}

func (s *ReviewService) save(review *model.Review, actorID, action string, before *model.Review) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return apperr.Internal("begin transaction", err)
	}
	defer tx.Rollback()

	err = s.reviews.Update(tx, review)
	if err != nil {
		return apperr.Internal("update review", err)
	}
	err = s.audit.RecordTx(tx, actorID, action, model.EntityTypeReview, review.ID, before, review)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return apperr.Internal("commit transaction", err)
	}
	return nil
}
