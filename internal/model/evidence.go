package model

import (
	"time"
)

const (
	EvidenceVerdictNotVerified        = "NotVerified"
	EvidenceVerdictVerifiedAcceptable = "VerifiedAcceptable"
	EvidenceVerdictVerifiedExcellent  = "VerifiedExcellent"
	EvidenceVerdictIssuesFound        = "IssuesFound"
	EvidenceVerdictInvalid            = "Invalid"
)

// ValidEvidenceVerdict reports whether v is one of the named verdicts.
func ValidEvidenceVerdict(v string) bool {
	switch v {
	case EvidenceVerdictNotVerified,
		EvidenceVerdictVerifiedAcceptable,
		EvidenceVerdictVerifiedExcellent,
		EvidenceVerdictIssuesFound,
		EvidenceVerdictInvalid:
		return true
	}
	return false
}

// GoalEvidence is an opaque external reference submitted as completion proof.
// The reference is never fetched or checked for reachability.
type GoalEvidence struct {
	ID           string `db:"id" json:"id"`
	CompletionID string `db:"completion_id" json:"completionId"`
	Type         string `db:"type" json:"type"`
	Title        string `db:"title" json:"title"`
	Reference    string `db:"reference" json:"reference"`
	Verdict      string `db:"verdict" json:"verdict"`

	VerificationNotes string     `db:"verification_notes" json:"verificationNotes,omitempty"`
	VerifiedBy        *string    `db:"verified_by" json:"verifiedBy,omitempty"`
	VerifiedAt        *time.Time `db:"verified_at" json:"verifiedAt,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
}
