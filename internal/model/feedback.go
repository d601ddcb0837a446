package model

import (
	"time"
)

const (
	FeedbackKindChangeRequest = "ChangeRequest"
	FeedbackKindRejection     = "Rejection"
	FeedbackKindComment       = "Comment"
)

// Feedback keeps change-request and rejection reasons as queryable records
// instead of inline strings on the goal.
type Feedback struct {
	ID           string    `db:"id" json:"id"`
	GoalID       string    `db:"goal_id" json:"goalId"`
	CompletionID *string   `db:"completion_id" json:"completionId,omitempty"`
	AuthorID     string    `db:"author_id" json:"authorId"`
	Kind         string    `db:"kind" json:"kind"`
	Message      string    `db:"message" json:"message"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
