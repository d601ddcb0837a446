package model

import (
	"time"
)

const (
	EntityTypeGoal         = "Goal"
	EntityTypeCompletion   = "GoalCompletion"
	EntityTypeEvidence     = "GoalEvidence"
	EntityTypeNotification = "Notification"
	EntityTypeReview       = "Review"
)

const (
	AuditActionGoalCreated                 = "GoalCreated"
	AuditActionGoalApproved                = "GoalApproved"
	AuditActionChangesRequested            = "ChangesRequested"
	AuditActionGoalResubmitted             = "GoalResubmitted"
	AuditActionGoalWithdrawn               = "GoalWithdrawn"
	AuditActionGoalDeleted                 = "GoalDeleted"
	AuditActionProgressAdded               = "ProgressAdded"
	AuditActionCompletionSubmitted         = "CompletionSubmitted"
	AuditActionCompletionApproved          = "CompletionApproved"
	AuditActionCompletionRejected          = "CompletionRejected"
	AuditActionAdditionalEvidenceRequested = "AdditionalEvidenceRequested"
	AuditActionEvidenceAdded               = "EvidenceAdded"
	AuditActionEvidenceVerified            = "EvidenceVerified"
	AuditActionReviewStarted               = "ReviewStarted"
	AuditActionReviewSubmitted             = "ReviewSubmitted"
	AuditActionReviewCompleted             = "ReviewCompleted"
)

const (
	AuditOutcomeSuccess = "Success"
)

// AuditLogEntry is immutable once written. Every state-mutating call records
// exactly one entry per logical transition, inside the same transaction.
type AuditLogEntry struct {
	ID         string    `db:"id" json:"id"`
	ActorID    string    `db:"actor_id" json:"actorId"`
	Action     string    `db:"action" json:"action"`
	EntityType string    `db:"entity_type" json:"entityType"`
	EntityID   string    `db:"entity_id" json:"entityId"`
	Before     string    `db:"before" json:"before,omitempty"`
	After      string    `db:"after" json:"after,omitempty"`
	Outcome    string    `db:"outcome" json:"outcome"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
