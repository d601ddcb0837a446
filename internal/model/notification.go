package model

import (
	"time"
)

const (
	NotificationPriorityLow    = "Low"
	NotificationPriorityNormal = "Normal"
	NotificationPriorityHigh   = "High"
)

const (
	NotificationTypeGoalSubmitted               = "GoalSubmitted"
	NotificationTypeGoalApproved                = "GoalApproved"
	NotificationTypeChangesRequested            = "ChangesRequested"
	NotificationTypeGoalResubmitted             = "GoalResubmitted"
	NotificationTypeGoalWithdrawn               = "GoalWithdrawn"
	NotificationTypeGoalDeleted                 = "GoalDeleted"
	NotificationTypeCompletionSubmitted         = "CompletionSubmitted"
	NotificationTypeCompletionApproved          = "CompletionApproved"
	NotificationTypeCompletionRejected          = "CompletionRejected"
	NotificationTypeAdditionalEvidenceRequested = "AdditionalEvidenceRequested"
	NotificationTypeEvidenceAdded               = "EvidenceAdded"
	NotificationTypeReviewSubmitted             = "ReviewSubmitted"
	NotificationTypeReviewCompleted             = "ReviewCompleted"
)

// Notification is an inbox row for the counter-party of a transition.
// Creation is best-effort; only the recipient mutates it, by marking it read.
type Notification struct {
	ID             string    `db:"id" json:"id"`
	RecipientID    string    `db:"recipient_id" json:"recipientId"`
	Type           string    `db:"type" json:"type"`
	Message        string    `db:"message" json:"message"`
	EntityType     string    `db:"entity_type" json:"entityType"`
	EntityID       string    `db:"entity_id" json:"entityId"`
	Priority       string    `db:"priority" json:"priority"`
	ActionRequired bool      `db:"action_required" json:"actionRequired"`
	Read           bool      `db:"read" json:"read"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
