package handler

import (
	"net/http"

	"github.com/talentloop/talentloop/internal/ctxkeys"
	"github.com/talentloop/talentloop/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in service.GoalInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	goal, err := h.goalService.Create(actor.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	goals, err := h.goalService.ListForActor(*actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Detail(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	aggregate, err := h.goalService.ByID(r.PathValue("id"), *actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate)
}

func (h *GoalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	goal, err := h.goalService.Approve(r.PathValue("id"), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) RequestChanges(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in struct {
		Comments string `json:"comments"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	goal, err := h.goalService.RequestChanges(r.PathValue("id"), actor.ID, in.Comments)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in service.GoalUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	goal, err := h.goalService.Resubmit(r.PathValue("id"), actor.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	goal, err := h.goalService.Withdraw(r.PathValue("id"), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) SubmitCompletion(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in struct {
		Narrative string                  `json:"narrative"`
		Evidence  []service.EvidenceInput `json:"evidence"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	aggregate, err := h.goalService.SubmitCompletion(r.PathValue("id"), actor.ID,
		service.CompletionInput{Narrative: in.Narrative}, in.Evidence)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate)
}

func (h *GoalHandler) ApproveCompletion(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in service.CompletionDecision
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	aggregate, err := h.goalService.ApproveCompletion(r.PathValue("id"), actor.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate)
}

func (h *GoalHandler) RejectCompletion(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	aggregate, err := h.goalService.RejectCompletion(r.PathValue("id"), actor.ID, in.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate)
}

func (h *GoalHandler) RequestAdditionalEvidence(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	aggregate, err := h.goalService.RequestAdditionalEvidence(r.PathValue("id"), actor.ID, in.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate)
}

func (h *GoalHandler) AddEvidence(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in struct {
		Evidence []service.EvidenceInput `json:"evidence"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	aggregate, err := h.goalService.AddEvidence(r.PathValue("id"), actor.ID, in.Evidence)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate)
}

func (h *GoalHandler) VerifyEvidence(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in struct {
		Verdict string `json:"verdict"`
		Notes   string `json:"notes"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.goalService.VerifyEvidence(r.PathValue("id"), actor.ID, in.Verdict, in.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *GoalHandler) AddProgress(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in struct {
		Note    string `json:"note"`
		Percent *int   `json:"percent"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	goal, err := h.goalService.AddProgress(r.PathValue("id"), actor.ID, in.Note, in.Percent)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) ProgressHistory(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	entries, err := h.goalService.ProgressHistory(r.PathValue("id"), *actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *GoalHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	items, err := h.goalService.Feedback(r.PathValue("id"), *actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	goal, err := h.goalService.Delete(r.PathValue("id"), *actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}
