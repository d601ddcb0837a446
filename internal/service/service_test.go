package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/talentloop/talentloop/internal/db"
	"github.com/talentloop/talentloop/internal/model"
	"github.com/talentloop/talentloop/internal/repository"
)

// env wires the full service stack against a throwaway sqlite database with
// real migrations applied.
type env struct {
	db            *sqlx.DB
	goals         repository.GoalRepository
	completions   repository.CompletionRepository
	evidence      repository.EvidenceRepository
	feedback      repository.FeedbackRepository
	progress      repository.ProgressRepository
	audits        repository.AuditRepository
	notifications repository.NotificationRepository
	reviews       repository.ReviewRepository

	identity *IdentityService
	audit    *AuditService
	notifier *NotificationService
	goal     *GoalService
	review   *ReviewService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithPolicy(t, false)
}

func newEnvWithPolicy(t *testing.T, evidenceRequired bool) *env {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	e := &env{
		db:            database,
		goals:         repository.NewGoalRepository(database),
		completions:   repository.NewCompletionRepository(database),
		evidence:      repository.NewEvidenceRepository(database),
		feedback:      repository.NewFeedbackRepository(database),
		progress:      repository.NewProgressRepository(database),
		audits:        repository.NewAuditRepository(database),
		notifications: repository.NewNotificationRepository(database),
		reviews:       repository.NewReviewRepository(database),
	}

	users := repository.NewUserRepository(database)
	e.identity = NewIdentityService(users)
	e.audit = NewAuditService(e.audits)
	e.notifier = NewNotificationService(e.notifications, users, nil, false)
	e.goal = NewGoalService(database, e.goals, e.completions, e.evidence, e.feedback, e.progress,
		e.identity, e.audit, e.notifier, evidenceRequired)
	e.review = NewReviewService(database, e.reviews, e.identity, e.audit, e.notifier)

	e.seedUser(t, "m1", "Mara Chen", model.RoleManager, nil)
	e.seedUser(t, "m2", "Noor Haddad", model.RoleManager, nil)
	e.seedUser(t, "e1", "Sam Ortiz", model.RoleEmployee, strPtr("m1"))
	e.seedUser(t, "e2", "Iris Kovac", model.RoleEmployee, strPtr("m2"))
	e.seedUser(t, "a1", "Root Admin", model.RoleAdmin, nil)

	return e
}

func (e *env) seedUser(t *testing.T, id, name, role string, managerID *string) {
	t.Helper()
	_, err := e.db.Exec(
		`INSERT INTO users (id, email, name, role, manager_id, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, id+"@example.com", name, role, managerID, model.UserStatusActive, time.Now(),
	)
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func goalInput() GoalInput {
	return GoalInput{
		Title:     "Ship onboarding revamp",
		Category:  "Delivery",
		Priority:  model.GoalPriorityHigh,
		StartDate: "2026-01-15",
		EndDate:   "2026-03-15",
	}
}

// createGoal creates a goal owned by e1 with approver m1 (via manager fallback).
func createGoal(t *testing.T, e *env) *model.Goal {
	t.Helper()
	goal, err := e.goal.Create("e1", goalInput())
	require.NoError(t, err)
	return goal
}

// createInProgressGoal creates and approves a goal.
func createInProgressGoal(t *testing.T, e *env) *model.Goal {
	t.Helper()
	goal := createGoal(t, e)
	goal, err := e.goal.Approve(goal.ID, "m1")
	require.NoError(t, err)
	return goal
}

func (e *env) auditEntries(t *testing.T, action string) []*model.AuditLogEntry {
	t.Helper()
	entries, err := e.audits.Query(repository.AuditFilter{Action: action})
	require.NoError(t, err)
	return entries
}

func (e *env) inbox(t *testing.T, recipientID string) []*model.Notification {
	t.Helper()
	notifications, err := e.notifications.ForRecipient(recipientID, false)
	require.NoError(t, err)
	return notifications
}
