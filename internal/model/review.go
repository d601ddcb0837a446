package model

import (
	"time"
)

const (
	ReviewStatusDraft         = "Draft"
	ReviewStatusSelfSubmitted = "SelfSubmitted"
	ReviewStatusCompleted     = "Completed"
)

// Review is one cycle's self-assessment plus manager review for an employee.
// Cycle scheduling lives elsewhere; Period is the cycle's display name.
type Review struct {
	ID              string     `db:"id" json:"id"`
	EmployeeID      string     `db:"employee_id" json:"employeeId"`
	ReviewerID      string     `db:"reviewer_id" json:"reviewerId"`
	Period          string     `db:"period" json:"period"`
	SelfAssessment  string     `db:"self_assessment" json:"selfAssessment"`
	SelfSubmittedAt *time.Time `db:"self_submitted_at" json:"selfSubmittedAt,omitempty"`
	ManagerComments string     `db:"manager_comments" json:"managerComments"`
	Rating          *int       `db:"rating" json:"rating,omitempty"`
	Status          string     `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}
