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

const dateLayout = "2006-01-02"

// GoalInput carries the fields an owner sets at creation. ApproverID falls
// back to the owner's manager when empty.
type GoalInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	ApproverID  string `json:"approverId"`
}

// GoalUpdate carries the editable fields of a resubmission; nil means keep.
type GoalUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

type EvidenceInput struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Reference string `json:"reference"`
}

type CompletionInput struct {
	Narrative string `json:"narrative"`
}

type CompletionDecision struct {
	AchievementLevel string `json:"achievementLevel"`
	Rating           int    `json:"rating"`
}

// GoalAggregate is the mutated aggregate returned by engine calls that touch
// the completion. UnverifiedEvidence is surfaced so approving over unverified
// items is visible, even though the engine does not hard-block on it.
type GoalAggregate struct {
	Goal               *model.Goal           `json:"goal"`
	Completion         *model.GoalCompletion `json:"completion,omitempty"`
	Evidence           []*model.GoalEvidence `json:"evidence,omitempty"`
	UnverifiedEvidence int                   `json:"unverifiedEvidence"`
}

// GoalService is the goal lifecycle engine. Every transition runs
// load-guard-mutate-audit in one transaction; the counter-party notification
// goes out after commit, best-effort.
type GoalService struct {
	db          *sqlx.DB
	goals       repository.GoalRepository
	completions repository.CompletionRepository
	evidence    repository.EvidenceRepository
	feedback    repository.FeedbackRepository
	progress    repository.ProgressRepository
	identity    IdentityResolver
	audit       *AuditService
	notifier    *NotificationService

	// evidenceRequired is the enclosing cycle's evidence policy.
	evidenceRequired bool
}

func NewGoalService(
	db *sqlx.DB,
	goals repository.GoalRepository,
	completions repository.CompletionRepository,
	evidence repository.EvidenceRepository,
	feedback repository.FeedbackRepository,
	progress repository.ProgressRepository,
	identity IdentityResolver,
	audit *AuditService,
	notifier *NotificationService,
	evidenceRequired bool,
) *GoalService {
	return &GoalService{
		db:               db,
		goals:            goals,
		completions:      completions,
		evidence:         evidence,
		feedback:         feedback,
		progress:         progress,
		identity:         identity,
		audit:            audit,
		notifier:         notifier,
		evidenceRequired: evidenceRequired,
	}
}

func (s *GoalService) Create(ownerID string, in GoalInput) (*model.Goal, error) {
	owner, err := s.identity.Resolve(ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsActive() {
		return nil, apperr.Validation("owner account is inactive")
	}

	approverID := in.ApproverID
	if approverID == "" {
		if owner.ManagerID == nil {
			return nil, apperr.Validation("no approver given and owner has no manager on record")
		}
		approverID = *owner.ManagerID
	}
	approver, err := s.identity.Resolve(approverID)
	if err != nil {
		return nil, err
	}
	if !approver.IsActive() {
		return nil, apperr.Validation("approver account is inactive")
	}

	if in.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return nil, apperr.Validation("startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		return nil, apperr.Validation("endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperr.Validation("endDate must not be before startDate")
	}

	priority := in.Priority
	if priority == "" {
		priority = model.GoalPriorityMedium
	}

	now := time.Now()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		OwnerID:     owner.ID,
		ApproverID:  approver.ID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    priority,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      model.GoalStatusPendingApproval,
		Progress:    0,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperr.Internal("begin transaction", err)
	}
	defer tx.Rollback()

	err = s.goals.Create(tx, goal)
	if err != nil {
		return nil, apperr.Internal("create goal", err)
	}
	err = s.audit.RecordTx(tx, owner.ID, model.AuditActionGoalCreated, model.EntityTypeGoal, goal.ID, nil, goal)
	if err != nil {
		return nil, err
	}
	err = tx.Commit()
	if err != nil {
		return nil, apperr.Internal("commit transaction", err)
	}

	s.notifier.Dispatch(goal.ApproverID, model.NotificationTypeGoalSubmitted,
		fmt.Sprintf("%s submitted goal %q for your approval", owner.Name, goal.Title),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityNormal, true)

	return goal, nil
}

func (s *GoalService) Approve(goalID, approverID string) (*model.Goal, error) {
	goal, err := s.transition(goalID, func(tx *sqlx.Tx, goal *model.Goal) error {
		if goal.ApproverID != approverID {
			return apperr.Unauthorized("only the recorded approver may approve this goal")
		}
		if goal.Status != model.GoalStatusPendingApproval {
			return apperr.Newf(apperr.KindConflict, "cannot approve a goal in status %s", goal.Status)
		}

		before := *goal
		now := time.Now()
		goal.Status = model.GoalStatusInProgress
		goal.ApprovedAt = &now
		goal.ChangeRequested = false
		goal.UpdatedAt = now

		err := s.updateGoal(tx, goal)
		if err != nil {
			return err
		}
		return s.audit.RecordTx(tx, approverID, model.AuditActionGoalApproved, model.EntityTypeGoal, goal.ID, &before, goal)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(goal.OwnerID, model.NotificationTypeGoalApproved,
		fmt.Sprintf("Your goal %q was approved", goal.Title),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityNormal, false)

	return goal, nil
}

// RequestChanges flags the goal for re-work without leaving PendingApproval.
// The flag is what separates "awaiting decision" from "awaiting re-decision".
func (s *GoalService) RequestChanges(goalID, approverID, comments string) (*model.Goal, error) {
	if comments == "" {
		return nil, apperr.Validation("comments are required when requesting changes")
	}

	goal, err := s.transition(goalID, func(tx *sqlx.Tx, goal *model.Goal) error {
		if goal.ApproverID != approverID {
			return apperr.Unauthorized("only the recorded approver may request changes")
		}
		if goal.Status != model.GoalStatusPendingApproval {
			return apperr.Newf(apperr.KindConflict, "cannot request changes on a goal in status %s", goal.Status)
		}

		before := *goal
		goal.ChangeRequested = true
		goal.UpdatedAt = time.Now()

		err := s.updateGoal(tx, goal)
		if err != nil {
			return err
		}
		err = s.feedback.Create(tx, &model.Feedback{
			ID:        uuid.New().String(),
			GoalID:    goal.ID,
			AuthorID:  approverID,
			Kind:      model.FeedbackKindChangeRequest,
			Message:   comments,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return apperr.Internal("record change request", err)
		}
		return s.audit.RecordTx(tx, approverID, model.AuditActionChangesRequested, model.EntityTypeGoal, goal.ID, &before, goal)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(goal.OwnerID, model.NotificationTypeChangesRequested,
		fmt.Sprintf("Changes requested on your goal %q: %s", goal.Title, comments),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityNormal, true)

	return goal, nil
}

// Resubmit is legal only while the change-requested flag is set.
func (s *GoalService) Resubmit(goalID, ownerID string, updates GoalUpdate) (*model.Goal, error) {
	goal, err := s.transition(goalID, func(tx *sqlx.Tx, goal *model.Goal) error {
		if goal.OwnerID != ownerID {
			return apperr.Unauthorized("only the goal owner may resubmit")
		}
		if goal.Status != model.GoalStatusPendingApproval || !goal.ChangeRequested {
			return apperr.Conflict("goal has no open change request")
		}

		before := *goal
		if updates.Title != nil {
			if *updates.Title == "" {
				return apperr.Validation("title cannot be empty")
			}
			goal.Title = *updates.Title
		}
		if updates.Description != nil {
			goal.Description = *updates.Description
		}
		if updates.Category != nil {
			goal.Category = *updates.Category
		}
		if updates.Priority != nil {
			goal.Priority = *updates.Priority
		}
		if updates.StartDate != nil {
			goal.StartDate = *updates.StartDate
		}
		if updates.EndDate != nil {
			goal.EndDate = *updates.EndDate
		}

		start, err := time.Parse(dateLayout, goal.StartDate)
		if err != nil {
			return apperr.Validation("startDate must be YYYY-MM-DD")
		}
		end, err := time.Parse(dateLayout, goal.EndDate)
		if err != nil {
			return apperr.Validation("endDate must be YYYY-MM-DD")
		}
		if end.Before(start) {
			return apperr.Validation("endDate must not be before startDate")
		}

		now := time.Now()
		goal.ChangeRequested = false
		goal.ResubmittedAt = &now
		goal.UpdatedAt = now

		err = s.updateGoal(tx, goal)
		if err != nil {
			return err
		}
		return s.audit.RecordTx(tx, ownerID, model.AuditActionGoalResubmitted, model.EntityTypeGoal, goal.ID, &before, goal)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(goal.ApproverID, model.NotificationTypeGoalResubmitted,
		fmt.Sprintf("Goal %q was resubmitted for your approval", goal.Title),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityNormal, true)

	return goal, nil
}

func (s *GoalService) Withdraw(goalID, ownerID string) (*model.Goal, error) {
	goal, err := s.transition(goalID, func(tx *sqlx.Tx, goal *model.Goal) error {
		if goal.OwnerID != ownerID {
			return apperr.Unauthorized("only the goal owner may withdraw")
		}
		if goal.Status != model.GoalStatusPendingApproval {
			return apperr.Newf(apperr.KindConflict, "cannot withdraw a goal in status %s", goal.Status)
		}

		before := *goal
		goal.Status = model.GoalStatusWithdrawn
		goal.ChangeRequested = false
		goal.UpdatedAt = time.Now()

		err := s.updateGoal(tx, goal)
		if err != nil {
			return err
		}
		return s.audit.RecordTx(tx, ownerID, model.AuditActionGoalWithdrawn, model.EntityTypeGoal, goal.ID, &before, goal)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(goal.ApproverID, model.NotificationTypeGoalWithdrawn,
		fmt.Sprintf("Goal %q was withdrawn by its owner", goal.Title),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityLow, false)

	return goal, nil
}

func (s *GoalService) SubmitCompletion(goalID, ownerID string, in CompletionInput, items []EvidenceInput) (*GoalAggregate, error) {
	if in.Narrative == "" {
		return nil, apperr.Validation("achievement narrative is required")
	}
	if len(items) == 0 && s.evidenceRequired {
		return nil, apperr.Validation("at least one evidence item is required by the current cycle policy")
	}

	var completion *model.GoalCompletion
	var created []*model.GoalEvidence

	goal, err := s.transition(goalID, func(tx *sqlx.Tx, goal *model.Goal) error {
		if goal.OwnerID != ownerID {
			return apperr.Unauthorized("only the goal owner may submit completion")
		}
		if goal.Status != model.GoalStatusInProgress {
			return apperr.Newf(apperr.KindConflict, "cannot submit completion for a goal in status %s", goal.Status)
		}

		before := *goal
		now := time.Now()
		completion = &model.GoalCompletion{
			ID:                   uuid.New().String(),
			GoalID:               goal.ID,
			Narrative:            in.Narrative,
			Status:               model.CompletionStatusPending,
			ProgressAtSubmission: goal.Progress,
			SubmittedAt:          now,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		err := s.completions.Create(tx, completion)
		if err != nil {
			return apperr.Internal("create completion", err)
		}

		created = created[:0]
		for _, item := range items {
			row := &model.GoalEvidence{
				ID:           uuid.New().String(),
				CompletionID: completion.ID,
				Type:         item.Type,
				Title:        item.Title,
				Reference:    item.Reference,
				Verdict:      model.EvidenceVerdictNotVerified,
				CreatedAt:    now,
			}
			err = s.evidence.Create(tx, row)
			if err != nil {
				return apperr.Internal("create evidence item", err)
			}
			created = append(created, row)
		}

		goal.Status = model.GoalStatusPendingCompletionApproval
		goal.Progress = 100
		goal.UpdatedAt = now

		err = s.updateGoal(tx, goal)
		if err != nil {
			return err
		}

		types := make([]string, len(created))
		for i, row := range created {
			types[i] = row.Type
		}
		after := struct {
			Goal          *model.Goal `json:"goal"`
			EvidenceCount int         `json:"evidenceCount"`
			EvidenceTypes []string    `json:"evidenceTypes"`
		}{goal, len(created), types}
		return s.audit.RecordTx(tx, ownerID, model.AuditActionCompletionSubmitted, model.EntityTypeGoal, goal.ID, &before, after)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(goal.ApproverID, model.NotificationTypeCompletionSubmitted,
		fmt.Sprintf("Goal %q was submitted as complete with %d evidence item(s)", goal.Title, len(created)),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityNormal, true)

	return &GoalAggregate{Goal: goal, Completion: completion, Evidence: created, UnverifiedEvidence: len(created)}, nil
}

// VerifyEvidence sets one item's verdict, independent of the goal's primary
// status. Each call writes its own audit entry.
func (s *GoalService) VerifyEvidence(evidenceID, approverID, verdict, notes string) (*model.GoalEvidence, error) {
	if !model.ValidEvidenceVerdict(verdict) {
		return nil, apperr.Newf(apperr.KindValidation, "unknown evidence verdict %q", verdict)
	}

	item, err := s.evidence.ByID(evidenceID)
	if errors.Is(err, repository.ErrEvidenceNotFound) {
		return nil, apperr.NotFound("evidence item not found")
	}
	if err != nil {
		return nil, apperr.Internal("load evidence", err)
	}

	completion, err := s.completions.ByID(item.CompletionID)
	if err != nil {
		return nil, apperr.Internal("load completion", err)
	}
	goal, err := s.goals.ByID(completion.GoalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, apperr.NotFound("goal not found")
	}
	if err != nil {
		return nil, apperr.Internal("load goal", err)
	}
	if goal.ApproverID != approverID {
		return nil, apperr.Unauthorized("only the recorded approver may verify evidence")
	}

	before := *item
	now := time.Now()

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperr.Internal("begin transaction", err)
	}
	defer tx.Rollback()

	err = s.evidence.UpdateVerdict(tx, item.ID, verdict, notes, approverID, now)
	if err != nil {
		return nil, apperr.Internal("update verdict", err)
	}

	item.Verdict = verdict
	item.VerificationNotes = notes
	item.VerifiedBy = &approverID
	item.VerifiedAt = &now

	err = s.audit.RecordTx(tx, approverID, model.AuditActionEvidenceVerified, model.EntityTypeEvidence, item.ID, &before, item)
	if err != nil {
		return nil, err
	}
	err = tx.Commit()
	if err != nil {
		return nil, apperr.Internal("commit transaction", err)
	}

	return item, nil
}

// ApproveCompletion does not hard-block on unverified evidence; the returned
// aggregate exposes the unverified count so the decision is accountable.
func (s *GoalService) ApproveCompletion(goalID, approverID string, decision CompletionDecision) (*GoalAggregate, error) {
	switch decision.AchievementLevel {
	case model.AchievementLevelPartial, model.AchievementLevelMet, model.AchievementLevelExceeded:
	default:
		return nil, apperr.Newf(apperr.KindValidation, "unknown achievement level %q", decision.AchievementLevel)
	}
	if decision.Rating < 1 || decision.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	var completion *model.GoalCompletion

	goal, err := s.transition(goalID, func(tx *sqlx.Tx, goal *model.Goal) error {
		if goal.ApproverID != approverID {
			return apperr.Unauthorized("only the recorded approver may approve completion")
		}
		if goal.Status != model.GoalStatusPendingCompletionApproval {
			return apperr.Newf(apperr.KindConflict, "cannot approve completion for a goal in status %s", goal.Status)
		}

		var err error
		completion, err = s.completions.LatestTx(tx, goal.ID)
		if err != nil {
			return apperr.Internal("load completion", err)
		}

		before := *goal
		now := time.Now()

		completion.Status = model.CompletionStatusApproved
		completion.AchievementLevel = &decision.AchievementLevel
		rating := decision.Rating
		completion.Rating = &rating
		completion.ReviewedAt = &now
		completion.ReviewedBy = &approverID
		err = s.completions.Update(tx, completion)
		if err != nil {
			return apperr.Internal("update completion", err)
		}

		goal.Status = model.GoalStatusCompleted
		goal.Progress = 100
		goal.CompletedAt = &now
		goal.UpdatedAt = now

		err = s.updateGoal(tx, goal)
		if err != nil {
			return err
		}
		return s.audit.RecordTx(tx, approverID, model.AuditActionCompletionApproved, model.EntityTypeGoal, goal.ID, &before, goal)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(goal.OwnerID, model.NotificationTypeCompletionApproved,
		fmt.Sprintf("Congratulations! Your goal %q was approved as %s", goal.Title, decision.AchievementLevel),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityHigh, false)

	evidence, unverified, err := s.evidenceState(completion.ID)
	if err != nil {
		return nil, err
	}
	return &GoalAggregate{Goal: goal, Completion: completion, Evidence: evidence, UnverifiedEvidence: unverified}, nil
}

// RejectCompletion reopens the goal. Progress reverts to its value at
// submission time, not to zero, and the reason is kept verbatim as feedback.
func (s *GoalService) RejectCompletion(goalID, approverID, reason string) (*GoalAggregate, error) {
	if reason == "" {
		return nil, apperr.Validation("a rejection reason is required")
	}

	var completion *model.GoalCompletion

	goal, err := s.transition(goalID, func(tx *sqlx.Tx, goal *model.Goal) error {
		if goal.ApproverID != approverID {
			return apperr.Unauthorized("only the recorded approver may reject completion")
		}
		if goal.Status != model.GoalStatusPendingCompletionApproval {
			return apperr.Newf(apperr.KindConflict, "cannot reject completion for a goal in status %s", goal.Status)
		}

		var err error
		completion, err = s.completions.LatestTx(tx, goal.ID)
		if err != nil {
			return apperr.Internal("load completion", err)
		}

		before := *goal
		now := time.Now()

		completion.Status = model.CompletionStatusRejected
		completion.ReviewedAt = &now
		completion.ReviewedBy = &approverID
		err = s.completions.Update(tx, completion)
		if err != nil {
			return apperr.Internal("update completion", err)
		}

		goal.Status = model.GoalStatusInProgress
		goal.Progress = completion.ProgressAtSubmission
		goal.UpdatedAt = now

		err = s.updateGoal(tx, goal)
		if err != nil {
			return err
		}
		err = s.feedback.Create(tx, &model.Feedback{
			ID:           uuid.New().String(),
			GoalID:       goal.ID,
			CompletionID: &completion.ID,
			AuthorID:     approverID,
			Kind:         model.FeedbackKindRejection,
			Message:      reason,
			CreatedAt:    now,
		})
		if err != nil {
			return apperr.Internal("record rejection", err)
		}
		return s.audit.RecordTx(tx, approverID, model.AuditActionCompletionRejected, model.EntityTypeGoal, goal.ID, &before, goal)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(goal.OwnerID, model.NotificationTypeCompletionRejected,
		fmt.Sprintf("Completion of goal %q was rejected: %s", goal.Title, reason),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityNormal, true)

	return &GoalAggregate{Goal: goal, Completion: completion}, nil
}

// RequestAdditionalEvidence is softer than rejection: the goal's primary
// status stays put, only the completion's sub-status flips.
func (s *GoalService) RequestAdditionalEvidence(goalID, approverID, reason string) (*GoalAggregate, error) {
	if reason == "" {
		return nil, apperr.Validation("a reason is required when requesting additional evidence")
	}

	var completion *model.GoalCompletion

	goal, err := s.transition(goalID, func(tx *sqlx.Tx, goal *model.Goal) error {
		if goal.ApproverID != approverID {
			return apperr.Unauthorized("only the recorded approver may request additional evidence")
		}
		if goal.Status != model.GoalStatusPendingCompletionApproval {
			return apperr.Newf(apperr.KindConflict, "cannot request evidence for a goal in status %s", goal.Status)
		}

		var err error
		completion, err = s.completions.LatestTx(tx, goal.ID)
		if err != nil {
			return apperr.Internal("load completion", err)
		}
		if completion.Status != model.CompletionStatusPending {
			return apperr.Conflict("completion is not awaiting review")
		}

		before := *completion
		now := time.Now()
		completion.Status = model.CompletionStatusAdditionalEvidenceRequired
		err = s.completions.Update(tx, completion)
		if err != nil {
			return apperr.Internal("update completion", err)
		}

		// Bump the goal's version so a racing transition observes Conflict.
		goal.UpdatedAt = now
		err = s.updateGoal(tx, goal)
		if err != nil {
			return err
		}

		err = s.feedback.Create(tx, &model.Feedback{
			ID:           uuid.New().String(),
			GoalID:       goal.ID,
			CompletionID: &completion.ID,
			AuthorID:     approverID,
			Kind:         model.FeedbackKindComment,
			Message:      reason,
			CreatedAt:    now,
		})
		if err != nil {
			return apperr.Internal("record evidence request", err)
		}
		return s.audit.RecordTx(tx, approverID, model.AuditActionAdditionalEvidenceRequested, model.EntityTypeCompletion, completion.ID, &before, completion)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(goal.OwnerID, model.NotificationTypeAdditionalEvidenceRequested,
		fmt.Sprintf("Additional evidence requested for goal %q: %s", goal.Title, reason),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityNormal, true)

	return &GoalAggregate{Goal: goal, Completion: completion}, nil
}

// AddEvidence appends items to the existing completion record while it sits
// in AdditionalEvidenceRequired, then puts it back under review.
func (s *GoalService) AddEvidence(goalID, ownerID string, items []EvidenceInput) (*GoalAggregate, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("at least one evidence item is required")
	}

	goal, err := s.goals.ByID(goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, apperr.NotFound("goal not found")
	}
	if err != nil {
		return nil, apperr.Internal("load goal", err)
	}
	if goal.OwnerID != ownerID {
		return nil, apperr.Unauthorized("only the goal owner may add evidence")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperr.Internal("begin transaction", err)
	}
	defer tx.Rollback()

	completion, err := s.completions.LatestTx(tx, goal.ID)
	if errors.Is(err, repository.ErrCompletionNotFound) {
		return nil, apperr.Conflict("goal has no submitted completion")
	}
	if err != nil {
		return nil, apperr.Internal("load completion", err)
	}
	if completion.Status != model.CompletionStatusAdditionalEvidenceRequired {
		return nil, apperr.Conflict("completion is not awaiting additional evidence")
	}

	before := *completion
	now := time.Now()
	for _, item := range items {
		row := &model.GoalEvidence{
			ID:           uuid.New().String(),
			CompletionID: completion.ID,
			Type:         item.Type,
			Title:        item.Title,
			Reference:    item.Reference,
			Verdict:      model.EvidenceVerdictNotVerified,
			CreatedAt:    now,
		}
		err = s.evidence.Create(tx, row)
		if err != nil {
			return nil, apperr.Internal("create evidence item", err)
		}
	}

	completion.Status = model.CompletionStatusPending
	err = s.completions.Update(tx, completion)
	if err != nil {
		return nil, apperr.Internal("update completion", err)
	}

	after := struct {
		Completion    *model.GoalCompletion `json:"completion"`
		EvidenceAdded int                   `json:"evidenceAdded"`
	}{completion, len(items)}
	err = s.audit.RecordTx(tx, ownerID, model.AuditActionEvidenceAdded, model.EntityTypeCompletion, completion.ID, &before, after)
	if err != nil {
		return nil, err
	}
	err = tx.Commit()
	if err != nil {
		return nil, apperr.Internal("commit transaction", err)
	}

	s.notifier.Dispatch(goal.ApproverID, model.NotificationTypeEvidenceAdded,
		fmt.Sprintf("New evidence added to goal %q", goal.Title),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityNormal, true)

	evidence, unverified, err := s.evidenceState(completion.ID)
	if err != nil {
		return nil, err
	}
	return &GoalAggregate{Goal: goal, Completion: completion, Evidence: evidence, UnverifiedEvidence: unverified}, nil
}

// AddProgress appends an immutable progress note. Prior entries are never
// edited or removed; the goal's cached percentage updates when one is given.
func (s *GoalService) AddProgress(goalID, ownerID, note string, percent *int) (*model.Goal, error) {
	if note == "" {
		return nil, apperr.Validation("a progress note is required")
	}
	if percent != nil && (*percent < 0 || *percent > 100) {
		return nil, apperr.Validation("progress percent must be between 0 and 100")
	}

	goal, err := s.transition(goalID, func(tx *sqlx.Tx, goal *model.Goal) error {
		if goal.OwnerID != ownerID {
			return apperr.Unauthorized("only the goal owner may record progress")
		}
		if goal.Status != model.GoalStatusInProgress {
			return apperr.Newf(apperr.KindConflict, "cannot record progress on a goal in status %s", goal.Status)
		}

		before := *goal
		now := time.Now()
		err := s.progress.Create(tx, &model.ProgressEntry{
			ID:        uuid.New().String(),
			GoalID:    goal.ID,
			AuthorID:  ownerID,
			Note:      note,
			Percent:   percent,
			CreatedAt: now,
		})
		if err != nil {
			return apperr.Internal("create progress entry", err)
		}

		if percent != nil {
			goal.Progress = *percent
		}
		goal.UpdatedAt = now

		err = s.updateGoal(tx, goal)
		if err != nil {
			return err
		}
		return s.audit.RecordTx(tx, ownerID, model.AuditActionProgressAdded, model.EntityTypeGoal, goal.ID, &before, goal)
	})
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Delete is a soft delete: a terminal rejected-equivalent status plus a
// deletion stamp. Rows are never hard-deleted.
func (s *GoalService) Delete(goalID string, actor model.Actor) (*model.Goal, error) {
	goal, err := s.transition(goalID, func(tx *sqlx.Tx, goal *model.Goal) error {
		if !actor.IsAdmin() && !actor.IsManager() && goal.OwnerID != actor.ID {
			return apperr.Unauthorized("employees may only delete their own goals")
		}

		before := *goal
		now := time.Now()
		goal.Status = model.GoalStatusRejected
		goal.DeletedAt = &now
		goal.UpdatedAt = now

		err := s.updateGoal(tx, goal)
		if err != nil {
			return err
		}
		return s.audit.RecordTx(tx, actor.ID, model.AuditActionGoalDeleted, model.EntityTypeGoal, goal.ID, &before, goal)
	})
	if err != nil {
		return nil, err
	}

	// Notify the counter-party of whoever deleted.
	recipient := goal.ApproverID
	if actor.ID != goal.OwnerID {
		recipient = goal.OwnerID
	}
	s.notifier.Dispatch(recipient, model.NotificationTypeGoalDeleted,
		fmt.Sprintf("Goal %q was deleted", goal.Title),
		model.EntityTypeGoal, goal.ID, model.NotificationPriorityLow, false)

	return goal, nil
}

func (s *GoalService) ByID(goalID string, actor model.Actor) (*GoalAggregate, error) {
	goal, err := s.goals.ByID(goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, apperr.NotFound("goal not found")
	}
	if err != nil {
		return nil, apperr.Internal("load goal", err)
	}
	err = s.guardRead(goal, actor)
	if err != nil {
		return nil, err
	}

	aggregate := &GoalAggregate{Goal: goal}

	completion, err := s.completions.Latest(goal.ID)
	if errors.Is(err, repository.ErrCompletionNotFound) {
		return aggregate, nil
	}
	if err != nil {
		return nil, apperr.Internal("load completion", err)
	}
	aggregate.Completion = completion

	evidence, unverified, err := s.evidenceState(completion.ID)
	if err != nil {
		return nil, err
	}
	aggregate.Evidence = evidence
	aggregate.UnverifiedEvidence = unverified

	return aggregate, nil
}

func (s *GoalService) ListForActor(actor model.Actor) ([]*model.Goal, error) {
	if actor.IsAdmin() {
		goals, err := s.goals.All()
		if err != nil {
			return nil, apperr.Internal("list goals", err)
		}
		return goals, nil
	}

	owned, err := s.goals.ForOwner(actor.ID)
	if err != nil {
		return nil, apperr.Internal("list goals", err)
	}
	approving, err := s.goals.ForApprover(actor.ID)
	if err != nil {
		return nil, apperr.Internal("list goals", err)
	}

	seen := make(map[string]bool, len(owned))
	for _, goal := range owned {
		seen[goal.ID] = true
	}
	for _, goal := range approving {
		if !seen[goal.ID] {
			owned = append(owned, goal)
		}
	}
	return owned, nil
}

func (s *GoalService) Feedback(goalID string, actor model.Actor) ([]*model.Feedback, error) {
	goal, err := s.goals.ByID(goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, apperr.NotFound("goal not found")
	}
	if err != nil {
		return nil, apperr.Internal("load goal", err)
	}
	err = s.guardRead(goal, actor)
	if err != nil {
		return nil, err
	}

	items, err := s.feedback.ByGoalID(goalID)
	if err != nil {
		return nil, apperr.Internal("list feedback", err)
	}
	return items, nil
}

func (s *GoalService) ProgressHistory(goalID string, actor model.Actor) ([]*model.ProgressEntry, error) {
	goal, err := s.goals.ByID(goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, apperr.NotFound("goal not found")
	}
	if err != nil {
		return nil, apperr.Internal("load goal", err)
	}
	err = s.guardRead(goal, actor)
	if err != nil {
		return nil, err
	}

	entries, err := s.progress.ByGoalID(goalID)
	if err != nil {
		return nil, apperr.Internal("list progress", err)
	}
	return entries, nil
}

// transition wraps one lifecycle step in a transaction: load the goal, run
// the step, commit. The step is responsible for guards, mutation, the
// version-checked update, and the audit write.
func (s *GoalService) transition(goalID string, step func(tx *sqlx.Tx, goal *model.Goal) error) (*model.Goal, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperr.Internal("begin transaction", err)
	}
	defer tx.Rollback()

	goal, err := s.goals.ByIDTx(tx, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, apperr.NotFound("goal not found")
	}
	if err != nil {
		return nil, apperr.Internal("load goal", err)
	}

	err = step(tx, goal)
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, apperr.Internal("commit transaction", err)
	}
	return goal, nil
}

func (s *GoalService) updateGoal(tx *sqlx.Tx, goal *model.Goal) error {
	err := s.goals.Update(tx, goal)
	if errors.Is(err, repository.ErrGoalVersionConflict) {
		return apperr.Conflict("goal was modified by a concurrent operation")
	}
	if err != nil {
		return apperr.Internal("update goal", err)
	}
	return nil
}

func (s *GoalService) evidenceState(completionID string) ([]*model.GoalEvidence, int, error) {
	evidence, err := s.evidence.ByCompletionID(completionID)
	if err != nil {
		return nil, 0, apperr.Internal("list evidence", err)
	}
	_, unverified, err := s.evidence.CountByCompletionID(completionID)
	if err != nil {
		return nil, 0, apperr.Internal("count evidence", err)
	}
	return evidence, unverified, nil
}

func (s *GoalService) guardRead(goal *model.Goal, actor model.Actor) error {
	if actor.IsAdmin() || goal.OwnerID == actor.ID || goal.ApproverID == actor.ID {
		return nil
	}
	return apperr.Unauthorized("not a party to this goal")
}
