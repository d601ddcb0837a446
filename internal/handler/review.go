package handler

import (
	"net/http"

	"github.com/talentloop/talentloop/internal/ctxkeys"
	"github.com/talentloop/talentloop/internal/service"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in struct {
		Period string `json:"period"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	review, err := h.reviewService.Start(actor.ID, in.Period)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) SubmitSelfAssessment(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in struct {
		SelfAssessment string `json:"selfAssessment"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	review, err := h.reviewService.SubmitSelfAssessment(r.PathValue("id"), actor.ID, in.SelfAssessment)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var in struct {
		Comments string `json:"comments"`
		Rating   int    `json:"rating"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	review, err := h.reviewService.Complete(r.PathValue("id"), actor.ID, in.Comments, in.Rating)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	reviews, err := h.reviewService.ListForActor(*actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}
