package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/model"
)

var (
	ErrEvidenceNotFound = errors.New("evidence item not found")
)

// EvidenceRepository is a pure data store: append items, update verdicts,
// count. Auditing verification calls is the engine's job.
type EvidenceRepository interface {
	Create(tx *sqlx.Tx, item *model.GoalEvidence) error
	ByID(evidenceID string) (*model.GoalEvidence, error)
	ByCompletionID(completionID string) ([]*model.GoalEvidence, error)
	UpdateVerdict(tx *sqlx.Tx, evidenceID, verdict, notes, verifiedBy string, verifiedAt time.Time) error
	CountByCompletionID(completionID string) (total, unverified int, err error)
}

type evidenceRepository struct {
	db *sqlx.DB
}

func NewEvidenceRepository(db *sqlx.DB) EvidenceRepository {
	return &evidenceRepository{db: db}
}

func (r *evidenceRepository) Create(tx *sqlx.Tx, item *model.GoalEvidence) error {
	query := `INSERT INTO goal_evidence (id, completion_id, type, title, reference, verdict,
	                                     verification_notes, verified_by, verified_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(query,
		item.ID,
		item.CompletionID,
		item.Type,
		item.Title,
		item.Reference,
		item.Verdict,
		item.VerificationNotes,
		item.VerifiedBy,
		item.VerifiedAt,
		item.CreatedAt,
	)

	return err
}

func (r *evidenceRepository) ByID(evidenceID string) (*model.GoalEvidence, error) {
	item := &model.GoalEvidence{}
	query := `SELECT * FROM goal_evidence WHERE id = $1`

	err := r.db.Get(item, query, evidenceID)
	if err == sql.ErrNoRows {
		return nil, ErrEvidenceNotFound
	}

	return item, err
}

func (r *evidenceRepository) ByCompletionID(completionID string) ([]*model.GoalEvidence, error) {
	var items []*model.GoalEvidence
	query := `SELECT * FROM goal_evidence WHERE completion_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&items, query, completionID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *evidenceRepository) UpdateVerdict(tx *sqlx.Tx, evidenceID, verdict, notes, verifiedBy string, verifiedAt time.Time) error {
	query := `UPDATE goal_evidence
	          SET verdict = $1, verification_notes = $2, verified_by = $3, verified_at = $4
	          WHERE id = $5`

	result, err := tx.Exec(query, verdict, notes, verifiedBy, verifiedAt, evidenceID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrEvidenceNotFound
	}

	return nil
}

func (r *evidenceRepository) CountByCompletionID(completionID string) (int, int, error) {
	var total, unverified int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM goal_evidence WHERE completion_id = $1`, completionID).Scan(&total)
	if err != nil {
		return 0, 0, err
	}

	err = r.db.QueryRow(`SELECT COUNT(*) FROM goal_evidence WHERE completion_id = $1 AND verdict = $2`,
		completionID, model.EvidenceVerdictNotVerified).Scan(&unverified)
	if err != nil {
		return 0, 0, err
	}

	return total, unverified, nil
}
