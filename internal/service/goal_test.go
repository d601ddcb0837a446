package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentloop/talentloop/internal/apperr"
	"github.com/talentloop/talentloop/internal/model"
)

func TestCreateGoal(t *testing.T) {
	e := newEnv(t)

	goal, err := e.goal.Create("e1", goalInput())
	require.NoError(t, err)

	assert.Equal(t, model.GoalStatusPendingApproval, goal.Status)
	assert.Equal(t, "e1", goal.OwnerID)
	assert.Equal(t, "m1", goal.ApproverID, "approver falls back to the owner's manager")
	assert.Equal(t, 0, goal.Progress)
	assert.Equal(t, 1, goal.Version)
	assert.False(t, goal.ChangeRequested)

	entries := e.auditEntries(t, model.AuditActionGoalCreated)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ActorID)
	assert.Equal(t, goal.ID, entries[0].EntityID)
	assert.Empty(t, entries[0].Before)
	assert.Contains(t, entries[0].After, `"status":"PendingApproval"`)

	inbox := e.inbox(t, "m1")
	require.Len(t, inbox, 1)
	assert.Equal(t, model.NotificationTypeGoalSubmitted, inbox[0].Type)
	assert.True(t, inbox[0].ActionRequired)
}

func TestCreateGoalExplicitApprover(t *testing.T) {
	e := newEnv(t)

	in := goalInput()
	in.ApproverID = "m2"
	goal, err := e.goal.Create("e1", in)
	require.NoError(t, err)
	assert.Equal(t, "m2", goal.ApproverID)
}

func TestCreateGoalValidation(t *testing.T) {
	e := newEnv(t)

	cases := []struct {
		name   string
		mutate func(*GoalInput)
		kind   apperr.Kind
	}{
		{"missing title", func(in *GoalInput) { in.Title = "" }, apperr.KindValidation},
		{"bad start date", func(in *GoalInput) { in.StartDate = "15-01-2026" }, apperr.KindValidation},
		{"bad end date", func(in *GoalInput) { in.EndDate = "soon" }, apperr.KindValidation},
		{"end before start", func(in *GoalInput) { in.EndDate = "2026-01-01" }, apperr.KindValidation},
		{"unknown approver", func(in *GoalInput) { in.ApproverID = "nobody" }, apperr.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := goalInput()
			tc.mutate(&in)
			_, err := e.goal.Create("e1", in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}

	_, err := e.goal.Create("nobody", goalInput())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestApproveGoal(t *testing.T) {
	e := newEnv(t)
	goal := createGoal(t, e)

	approved, err := e.goal.Approve(goal.ID, "m1")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusInProgress, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, goal.Version+1, approved.Version)

	entries := e.auditEntries(t, model.AuditActionGoalApproved)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Before, `"status":"PendingApproval"`)
	assert.Contains(t, entries[0].After, `"status":"InProgress"`)

	inbox := e.inbox(t, "e1")
	require.Len(t, inbox, 1)
	assert.Equal(t, model.NotificationTypeGoalApproved, inbox[0].Type)
}

func TestApproveGoalWrongActor(t *testing.T) {
	e := newEnv(t)
	goal := createGoal(t, e)

	_, err := e.goal.Approve(goal.ID, "m2")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	reloaded, err := e.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusPendingApproval, reloaded.Status)
	assert.Equal(t, goal.Version, reloaded.Version)
}

func TestApproveGoalTwice(t *testing.T) {
	e := newEnv(t)
	goal := createInProgressGoal(t, e)

	_, err := e.goal.Approve(goal.ID, "m1")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

// Full happy path: create, approve, submit with two evidence items, verify
// both, approve completion.
func TestGoalLifecycleHappyPath(t *testing.T) {
	e := newEnv(t)
	goal := createInProgressGoal(t, e)

	agg, err := e.goal.SubmitCompletion(goal.ID, "e1",
		CompletionInput{Narrative: "Shipped the revamp two weeks early"},
		[]EvidenceInput{
			{Type: "link", Title: "Launch announcement", Reference: "https://intranet/launch"},
			{Type: "document", Title: "Retrospective", Reference: "https://docs/retro"},
		})
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusPendingCompletionApproval, agg.Goal.Status)
	assert.Equal(t, 100, agg.Goal.Progress)
	assert.Equal(t, model.CompletionStatusPending, agg.Completion.Status)
	require.Len(t, agg.Evidence, 2)
	assert.Equal(t, 2, agg.UnverifiedEvidence)
	for _, item := range agg.Evidence {
		assert.Equal(t, model.EvidenceVerdictNotVerified, item.Verdict)
	}

	for i, item := range agg.Evidence {
		verdict := model.EvidenceVerdictVerifiedAcceptable
		if i == 1 {
			verdict = model.EvidenceVerdictVerifiedExcellent
		}
		verified, err := e.goal.VerifyEvidence(item.ID, "m1", verdict, "checked")
		require.NoError(t, err)
		assert.Equal(t, verdict, verified.Verdict)
		require.NotNil(t, verified.VerifiedBy)
		assert.Equal(t, "m1", *verified.VerifiedBy)
	}
	require.Len(t, e.auditEntries(t, model.AuditActionEvidenceVerified), 2)

	final, err := e.goal.ApproveCompletion(goal.ID, "m1", CompletionDecision{
		AchievementLevel: model.AchievementLevelExceeded,
		Rating:           5,
	})
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusCompleted, final.Goal.Status)
	assert.Equal(t, 100, final.Goal.Progress)
	require.NotNil(t, final.Goal.CompletedAt)
	assert.Equal(t, model.CompletionStatusApproved, final.Completion.Status)
	require.NotNil(t, final.Completion.Rating)
	assert.Equal(t, 5, *final.Completion.Rating)
	assert.Equal(t, 0, final.UnverifiedEvidence)

	// One audit entry per logical transition.
	require.Len(t, e.auditEntries(t, model.AuditActionGoalCreated), 1)
	require.Len(t, e.auditEntries(t, model.AuditActionGoalApproved), 1)
	require.Len(t, e.auditEntries(t, model.AuditActionCompletionSubmitted), 1)
	require.Len(t, e.auditEntries(t, model.AuditActionCompletionApproved), 1)

	// Owner hears about approval and completion; approver about submissions.
	ownerInbox := e.inbox(t, "e1")
	require.Len(t, ownerInbox, 2)
	var approvalNotice *model.Notification
	for _, n := range ownerInbox {
		if n.Type == model.NotificationTypeCompletionApproved {
			approvalNotice = n
		}
	}
	require.NotNil(t, approvalNotice)
	assert.Equal(t, model.NotificationPriorityHigh, approvalNotice.Priority)
}

// Rejecting a completion reopens the goal and restores progress to its value
// at submission time, not zero.
func TestRejectCompletionRestoresProgress(t *testing.T) {
	e := newEnv(t)
	goal := createInProgressGoal(t, e)

	_, err := e.goal.AddProgress(goal.ID, "e1", "halfway through rollout", intPtr(40))
	require.NoError(t, err)

	agg, err := e.goal.SubmitCompletion(goal.ID, "e1",
		CompletionInput{Narrative: "done"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, agg.Goal.Progress)
	assert.Equal(t, 40, agg.Completion.ProgressAtSubmission)

	rejected, err := e.goal.RejectCompletion(goal.ID, "m1", "rollout is not finished")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusInProgress, rejected.Goal.Status)
	assert.Equal(t, 40, rejected.Goal.Progress)
	assert.Equal(t, model.CompletionStatusRejected, rejected.Completion.Status)

	// The reason is kept verbatim as feedback.
	feedback, err := e.goal.Feedback(goal.ID, model.Actor{ID: "e1", Role: model.RoleEmployee})
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	assert.Equal(t, model.FeedbackKindRejection, feedback[0].Kind)
	assert.Equal(t, "rollout is not finished", feedback[0].Message)
	assert.Equal(t, "m1", feedback[0].AuthorID)

	var rejectionNotices int
	for _, n := range e.inbox(t, "e1") {
		if n.Type == model.NotificationTypeCompletionRejected {
			rejectionNotices++
		}
	}
	assert.Equal(t, 1, rejectionNotices)

	// The reopened goal can go around again.
	resubmitted, err := e.goal.SubmitCompletion(goal.ID, "e1",
		CompletionInput{Narrative: "rollout finished"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusPendingCompletionApproval, resubmitted.Goal.Status)
}

func TestRejectCompletionRequiresReason(t *testing.T) {
	e := newEnv(t)
	goal := createInProgressGoal(t, e)
	_, err := e.goal.SubmitCompletion(goal.ID, "e1", CompletionInput{Narrative: "done"}, nil)
	require.NoError(t, err)

	_, err = e.goal.RejectCompletion(goal.ID, "m1", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

// Requesting changes flags the goal without leaving PendingApproval; resubmit
// clears the flag and re-notifies the approver.
func TestChangeRequestLoop(t *testing.T) {
	e := newEnv(t)
	goal := createGoal(t, e)

	flagged, err := e.goal.RequestChanges(goal.ID, "m1", "scope the timeline down")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusPendingApproval, flagged.Status)
	assert.True(t, flagged.ChangeRequested)

	feedback, err := e.goal.Feedback(goal.ID, model.Actor{ID: "e1", Role: model.RoleEmployee})
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	assert.Equal(t, model.FeedbackKindChangeRequest, feedback[0].Kind)
	assert.Equal(t, "scope the timeline down", feedback[0].Message)

	resubmitted, err := e.goal.Resubmit(goal.ID, "e1", GoalUpdate{
		Title:   strPtr("Ship onboarding revamp, phase 1"),
		EndDate: strPtr("2026-02-28"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusPendingApproval, resubmitted.Status)
	assert.False(t, resubmitted.ChangeRequested)
	require.NotNil(t, resubmitted.ResubmittedAt)
	assert.Equal(t, "Ship onboarding revamp, phase 1", resubmitted.Title)

	var resubmitNotices int
	for _, n := range e.inbox(t, "m1") {
		if n.Type == model.NotificationTypeGoalResubmitted {
			resubmitNotices++
		}
	}
	assert.Equal(t, 1, resubmitNotices)

	// The resubmitted goal is approvable as usual.
	approved, err := e.goal.Approve(goal.ID, "m1")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusInProgress, approved.Status)
}

func TestResubmitWithoutOpenChangeRequest(t *testing.T) {
	e := newEnv(t)
	goal := createGoal(t, e)

	_, err := e.goal.Resubmit(goal.ID, "e1", GoalUpdate{})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestResubmitValidatesDates(t *testing.T) {
	e := newEnv(t)
	goal := createGoal(t, e)
	_, err := e.goal.RequestChanges(goal.ID, "m1", "fix the dates")
	require.NoError(t, err)

	_, err = e.goal.Resubmit(goal.ID, "e1", GoalUpdate{EndDate: strPtr("2025-01-01")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	reloaded, err := e.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.ChangeRequested, "failed resubmit leaves the flag set")
}

func TestWithdraw(t *testing.T) {
	e := newEnv(t)
	goal := createGoal(t, e)

	withdrawn, err := e.goal.Withdraw(goal.ID, "e1")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusWithdrawn, withdrawn.Status)
	assert.True(t, withdrawn.Terminal())

	_, err = e.goal.Approve(goal.ID, "m1")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestIllegalTransitions(t *testing.T) {
	e := newEnv(t)
	pending := createGoal(t, e)
	inProgress := createInProgressGoal(t, e)

	cases := []struct {
		name string
		call func() error
	}{
		{"submit completion while pending approval", func() error {
			_, err := e.goal.SubmitCompletion(pending.ID, "e1", CompletionInput{Narrative: "n"}, nil)
			return err
		}},
		{"progress while pending approval", func() error {
			_, err := e.goal.AddProgress(pending.ID, "e1", "note", nil)
			return err
		}},
		{"approve completion without submission", func() error {
			_, err := e.goal.ApproveCompletion(inProgress.ID, "m1", CompletionDecision{AchievementLevel: model.AchievementLevelMet, Rating: 3})
			return err
		}},
		{"reject completion without submission", func() error {
			_, err := e.goal.RejectCompletion(inProgress.ID, "m1", "nope")
			return err
		}},
		{"request changes after approval", func() error {
			_, err := e.goal.RequestChanges(inProgress.ID, "m1", "too late")
			return err
		}},
		{"withdraw after approval", func() error {
			_, err := e.goal.Withdraw(inProgress.ID, "e1")
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		})
	}

	// Nothing moved.
	reloaded, err := e.goals.ByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusPendingApproval, reloaded.Status)
	reloaded, err = e.goals.ByID(inProgress.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusInProgress, reloaded.Status)
}

func TestSubmitCompletionEvidencePolicy(t *testing.T) {
	e := newEnvWithPolicy(t, true)
	goal := createInProgressGoal(t, e)

	_, err := e.goal.SubmitCompletion(goal.ID, "e1", CompletionInput{Narrative: "done"}, nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	agg, err := e.goal.SubmitCompletion(goal.ID, "e1", CompletionInput{Narrative: "done"},
		[]EvidenceInput{{Type: "link", Title: "proof", Reference: "https://x"}})
	require.NoError(t, err)
	require.Len(t, agg.Evidence, 1)
}

func TestVerifyEvidenceGuards(t *testing.T) {
	e := newEnv(t)
	goal := createInProgressGoal(t, e)
	agg, err := e.goal.SubmitCompletion(goal.ID, "e1", CompletionInput{Narrative: "done"},
		[]EvidenceInput{{Type: "link", Title: "proof", Reference: "https://x"}})
	require.NoError(t, err)
	item := agg.Evidence[0]

	_, err = e.goal.VerifyEvidence(item.ID, "m2", model.EvidenceVerdictVerifiedAcceptable, "")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = e.goal.VerifyEvidence(item.ID, "m1", "LooksGreat", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = e.goal.VerifyEvidence("missing", "m1", model.EvidenceVerdictVerifiedAcceptable, "")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	reloaded, err := e.evidence.ByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EvidenceVerdictNotVerified, reloaded.Verdict)
}

// Additional-evidence requests flip only the completion's sub-status; the
// goal stays in PendingCompletionApproval throughout.
func TestAdditionalEvidenceLoop(t *testing.T) {
	e := newEnv(t)
	goal := createInProgressGoal(t, e)
	agg, err := e.goal.SubmitCompletion(goal.ID, "e1", CompletionInput{Narrative: "done"},
		[]EvidenceInput{{Type: "link", Title: "proof", Reference: "https://x"}})
	require.NoError(t, err)

	requested, err := e.goal.RequestAdditionalEvidence(goal.ID, "m1", "need the metrics dashboard")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusPendingCompletionApproval, requested.Goal.Status)
	assert.Equal(t, model.CompletionStatusAdditionalEvidenceRequired, requested.Completion.Status)
	assert.Equal(t, agg.Completion.ID, requested.Completion.ID, "same completion record")
	assert.Equal(t, agg.Goal.Version+1, requested.Goal.Version, "request participates in the version guard")

	// A second request finds the completion already flipped.
	_, err = e.goal.RequestAdditionalEvidence(goal.ID, "m1", "again")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	added, err := e.goal.AddEvidence(goal.ID, "e1",
		[]EvidenceInput{{Type: "link", Title: "dashboard", Reference: "https://metrics"}})
	require.NoError(t, err)
	assert.Equal(t, model.CompletionStatusPending, added.Completion.Status)
	require.Len(t, added.Evidence, 2)
	assert.Equal(t, 2, added.UnverifiedEvidence)

	_, err = e.goal.AddEvidence(goal.ID, "e1",
		[]EvidenceInput{{Type: "link", Title: "extra", Reference: "https://more"}})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err), "completion no longer awaiting evidence")

	final, err := e.goal.ApproveCompletion(goal.ID, "m1", CompletionDecision{
		AchievementLevel: model.AchievementLevelMet,
		Rating:           4,
	})
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusCompleted, final.Goal.Status)
}

// Of a rejection and an additional-evidence request racing on the same goal,
// only one commits: the request re-reads goal and completion inside its
// transaction, so once the rejection lands it observes Conflict instead of
// silently reopening the rejected completion.
func TestRequestAdditionalEvidenceAfterRejection(t *testing.T) {
	e := newEnv(t)
	goal := createInProgressGoal(t, e)
	_, err := e.goal.SubmitCompletion(goal.ID, "e1", CompletionInput{Narrative: "done"},
		[]EvidenceInput{{Type: "link", Title: "proof", Reference: "https://x"}})
	require.NoError(t, err)

	rejected, err := e.goal.RejectCompletion(goal.ID, "m1", "not there yet")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusInProgress, rejected.Goal.Status)

	_, err = e.goal.RequestAdditionalEvidence(goal.ID, "m1", "show the numbers")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	completion, err := e.completions.Latest(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CompletionStatusRejected, completion.Status)

	// With the completion still rejected, no evidence can sneak in while the
	// goal is back in progress.
	_, err = e.goal.AddEvidence(goal.ID, "e1",
		[]EvidenceInput{{Type: "link", Title: "late", Reference: "https://late"}})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	reloaded, err := e.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, rejected.Goal.Version, reloaded.Version, "failed request leaves the goal untouched")
}

func TestApproveCompletionValidatesDecision(t *testing.T) {
	e := newEnv(t)
	goal := createInProgressGoal(t, e)
	_, err := e.goal.SubmitCompletion(goal.ID, "e1", CompletionInput{Narrative: "done"}, nil)
	require.NoError(t, err)

	_, err = e.goal.ApproveCompletion(goal.ID, "m1", CompletionDecision{AchievementLevel: "Heroic", Rating: 3})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = e.goal.ApproveCompletion(goal.ID, "m1", CompletionDecision{AchievementLevel: model.AchievementLevelMet, Rating: 0})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = e.goal.ApproveCompletion(goal.ID, "m2", CompletionDecision{AchievementLevel: model.AchievementLevelMet, Rating: 3})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	reloaded, err := e.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusPendingCompletionApproval, reloaded.Status)
}

func TestAddProgressAppendsHistory(t *testing.T) {
	e := newEnv(t)
	goal := createInProgressGoal(t, e)

	_, err := e.goal.AddProgress(goal.ID, "e1", "kicked off", intPtr(10))
	require.NoError(t, err)
	_, err = e.goal.AddProgress(goal.ID, "e1", "no number this time", nil)
	require.NoError(t, err)
	updated, err := e.goal.AddProgress(goal.ID, "e1", "over halfway", intPtr(60))
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Progress)

	history, err := e.goal.ProgressHistory(goal.ID, model.Actor{ID: "m1", Role: model.RoleManager})
	require.NoError(t, err)
	require.Len(t, history, 3)

	_, err = e.goal.AddProgress(goal.ID, "e1", "bad", intPtr(120))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = e.goal.AddProgress(goal.ID, "m1", "not mine", intPtr(10))
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestDeleteIsSoft(t *testing.T) {
	e := newEnv(t)
	goal := createGoal(t, e)

	deleted, err := e.goal.Delete(goal.ID, model.Actor{ID: "e1", Role: model.RoleEmployee})
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	// Reads filter deleted rows out.
	_, err = e.goal.ByID(goal.ID, model.Actor{ID: "e1", Role: model.RoleEmployee})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// The row itself survives.
	var count int
	require.NoError(t, e.db.Get(&count, `SELECT COUNT(*) FROM goals WHERE id = $1`, goal.ID))
	assert.Equal(t, 1, count)
}

func TestDeleteAuthorization(t *testing.T) {
	e := newEnv(t)

	goal, err := e.goal.Create("e2", GoalInput{
		Title: "Mentor two juniors", Priority: model.GoalPriorityMedium,
		StartDate: "2026-02-01", EndDate: "2026-06-30",
	})
	require.NoError(t, err)

	_, err = e.goal.Delete(goal.ID, model.Actor{ID: "e1", Role: model.RoleEmployee})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = e.goal.Delete(goal.ID, model.Actor{ID: "a1", Role: model.RoleAdmin})
	require.NoError(t, err)
}

func TestListForActor(t *testing.T) {
	e := newEnv(t)
	createGoal(t, e)

	in := goalInput()
	in.Title = "Cross-team goal"
	in.ApproverID = "m2"
	_, err := e.goal.Create("e1", in)
	require.NoError(t, err)

	owned, err := e.goal.ListForActor(model.Actor{ID: "e1", Role: model.RoleEmployee})
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	approving, err := e.goal.ListForActor(model.Actor{ID: "m2", Role: model.RoleManager})
	require.NoError(t, err)
	assert.Len(t, approving, 1)

	all, err := e.goal.ListForActor(model.Actor{ID: "a1", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReadGuards(t *testing.T) {
	e := newEnv(t)
	goal := createGoal(t, e)

	_, err := e.goal.ByID(goal.ID, model.Actor{ID: "e2", Role: model.RoleEmployee})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = e.goal.ByID(goal.ID, model.Actor{ID: "a1", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = e.goal.ByID("missing", model.Actor{ID: "e1", Role: model.RoleEmployee})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// A failed notification insert must never fail the transition it follows.
func TestNotificationFailureDoesNotBlockTransition(t *testing.T) {
	e := newEnv(t)
	goal := createGoal(t, e)

	_, err := e.db.Exec(`DROP TABLE notifications`)
	require.NoError(t, err)

	approved, err := e.goal.Approve(goal.ID, "m1")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusInProgress, approved.Status)
}

// A failed audit write aborts the whole transition.
func TestAuditFailureRollsBackTransition(t *testing.T) {
	e := newEnv(t)
	goal := createGoal(t, e)

	_, err := e.db.Exec(`DROP TABLE audit_log`)
	require.NoError(t, err)

	_, err = e.goal.Approve(goal.ID, "m1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	reloaded, err := e.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusPendingApproval, reloaded.Status)
	assert.Nil(t, reloaded.ApprovedAt)
	assert.Equal(t, goal.Version, reloaded.Version)
}
