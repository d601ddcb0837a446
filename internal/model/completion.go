package model

import (
	"time"
)

const (
	CompletionStatusPending                    = "Pending"
	CompletionStatusAdditionalEvidenceRequired = "AdditionalEvidenceRequired"
	CompletionStatusApproved                   = "Approved"
	CompletionStatusRejected                   = "Rejected"
)

const (
	AchievementLevelPartial  = "Partial"
	AchievementLevelMet      = "Met"
	AchievementLevelExceeded = "Exceeded"
)

// GoalCompletion is 1:1 with a submitted goal. Its status cycles through
// reject/resubmit independently of the goal's primary status.
type GoalCompletion struct {
	ID        string `db:"id" json:"id"`
	GoalID    string `db:"goal_id" json:"goalId"`
	Narrative string `db:"narrative" json:"narrative"`
	Status    string `db:"status" json:"status"`

	// ProgressAtSubmission is restored to the goal when the completion is
	// rejected.
	ProgressAtSubmission int `db:"progress_at_submission" json:"progressAtSubmission"`

	AchievementLevel *string    `db:"achievement_level" json:"achievementLevel,omitempty"`
	Rating           *int       `db:"rating" json:"rating,omitempty"`
	SubmittedAt      time.Time  `db:"submitted_at" json:"submittedAt"`
	ReviewedAt       *time.Time `db:"reviewed_at" json:"reviewedAt,omitempty"`
	ReviewedBy       *string    `db:"reviewed_by" json:"reviewedBy,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}
