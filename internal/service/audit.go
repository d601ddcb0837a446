package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/apperr"
	"github.com/talentloop/talentloop/internal/model"
	"github.com/talentloop/talentloop/internal/repository"
)

// AuditService records one immutable entry per logical transition. Writes
// happen inside the caller's transaction, so a failed audit write rolls the
// whole transition back.
type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) RecordTx(tx *sqlx.Tx, actorID, action, entityType, entityID string, before, after any) error {
	entry := &model.AuditLogEntry{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     snapshot(before),
		After:      snapshot(after),
		Outcome:    model.AuditOutcomeSuccess,
		CreatedAt:  time.Now(),
	}

	err := s.repo.Create(tx, entry)
	if err != nil {
		return apperr.Internal("audit write failed", err)
	}
	return nil
}

// snapshot serializes an entity state for the before/after columns. nil
// marks the absent side of a create.
func snapshot(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Query is restricted to admins; the trail is an oversight tool, not a feed.
func (s *AuditService) Query(actor model.Actor, filter repository.AuditFilter) ([]*model.AuditLogEntry, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Unauthorized("audit log is admin-only")
	}

	entries, err := s.repo.Query(filter)
	if err != nil {
		return nil, apperr.Internal("audit query failed", err)
	}
	return entries, nil
}

func (s *AuditService) ByEntity(actor model.Actor, entityType, entityID string) ([]*model.AuditLogEntry, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Unauthorized("audit log is admin-only")
	}

	entries, err := s.repo.ByEntity(entityType, entityID)
	if err != nil {
		return nil, apperr.Internal("audit query failed", err)
	}
	return entries, nil
}
