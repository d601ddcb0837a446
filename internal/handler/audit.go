package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/talentloop/talentloop/internal/apperr"
	"github.com/talentloop/talentloop/internal/ctxkeys"
	"github.com/talentloop/talentloop/internal/repository"
	"github.com/talentloop/talentloop/internal/service"
)

type AuditHandler struct {
	auditService *service.AuditService
}

func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

func (h *AuditHandler) Query(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())
	q := r.URL.Query()

	filter := repository.AuditFilter{
		ActorID:    q.Get("actor"),
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		EntityID:   q.Get("entityId"),
	}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, apperr.Validation("from must be RFC3339"))
			return
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, apperr.Validation("to must be RFC3339"))
			return
		}
		filter.To = &t
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, apperr.Validation("limit must be an integer"))
			return
		}
		filter.Limit = limit
	}

	entries, err := h.auditService.Query(*actor, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
