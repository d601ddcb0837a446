package repository

import (
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/model"
)

// AuditFilter narrows an audit query. Zero fields match everything.
type AuditFilter struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// AuditRepository is append-only by construction: there is no update or
// delete statement for audit_log.
type AuditRepository interface {
	Create(tx *sqlx.Tx, entry *model.AuditLogEntry) error
	Query(filter AuditFilter) ([]*model.AuditLogEntry, error)
	ByEntity(entityType, entityID string) ([]*model.AuditLogEntry, error)
}

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(tx *sqlx.Tx, entry *model.AuditLogEntry) error {
	query := `INSERT INTO audit_log (id, actor_id, action, entity_type, entity_id, before, after, outcome, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(query,
		entry.ID,
		entry.ActorID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Before,
		entry.After,
		entry.Outcome,
		entry.CreatedAt,
	)

	return err
}

func (r *auditRepository) Query(filter AuditFilter) ([]*model.AuditLogEntry, error) {
	query := `SELECT * FROM audit_log WHERE 1=1`
	var args []any

	bind := func(clause string, value any) {
		args = append(args, value)
		query += " AND " + clause + " $" + strconv.Itoa(len(args))
	}

	if filter.ActorID != "" {
		bind("actor_id =", filter.ActorID)
	}
	if filter.Action != "" {
		bind("action =", filter.Action)
	}
	if filter.EntityType != "" {
		bind("entity_type =", filter.EntityType)
	}
	if filter.EntityID != "" {
		bind("entity_id =", filter.EntityID)
	}
	if filter.From != nil {
		bind("created_at >=", *filter.From)
	}
	if filter.To != nil {
		bind("created_at <=", *filter.To)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += " LIMIT " + strconv.Itoa(limit)

	var entries []*model.AuditLogEntry
	err := r.db.Select(&entries, query, args...)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *auditRepository) ByEntity(entityType, entityID string) ([]*model.AuditLogEntry, error) {
	var entries []*model.AuditLogEntry
	query := `SELECT * FROM audit_log WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at ASC`

	err := r.db.Select(&entries, query, entityType, entityID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
