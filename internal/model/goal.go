package model

import (
	"time"
)

const (
	GoalStatusPendingApproval           = "PendingApproval"
	GoalStatusInProgress                = "InProgress"
	GoalStatusPendingCompletionApproval = "PendingCompletionApproval"
	GoalStatusCompleted                 = "Completed"
	GoalStatusRejected                  = "Rejected"
	GoalStatusWithdrawn                 = "Withdrawn"
)

const (
	GoalPriorityLow    = "Low"
	GoalPriorityMedium = "Medium"
	GoalPriorityHigh   = "High"
)

type Goal struct {
	ID          string `db:"id" json:"id"`
	OwnerID     string `db:"owner_id" json:"ownerId"`
	ApproverID  string `db:"approver_id" json:"approverId"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"`
	Priority    string `db:"priority" json:"priority"`
	StartDate   string `db:"start_date" json:"startDate"`
	EndDate     string `db:"end_date" json:"endDate"`
	Status      string `db:"status" json:"status"`
	Progress    int    `db:"progress" json:"progress"`

	// ChangeRequested distinguishes "awaiting re-decision" from a fresh
	// review without leaving PendingApproval.
	ChangeRequested bool `db:"change_requested" json:"changeRequested"`

	// Version guards every transition; of two racing updates exactly one
	// commits, the other observes Conflict.
	Version int `db:"version" json:"-"`

	ApprovedAt    *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	ResubmittedAt *time.Time `db:"resubmitted_at" json:"resubmittedAt,omitempty"`
	CompletedAt   *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	DeletedAt     *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// Terminal reports whether no further transitions are legal.
func (g *Goal) Terminal() bool {
	switch g.Status {
	case GoalStatusCompleted, GoalStatusRejected, GoalStatusWithdrawn:
		return true
	}
	return false
}
