package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/talentloop/talentloop/internal/db"
	"github.com/talentloop/talentloop/internal/model"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	for _, u := range []struct{ id, role string }{
		{"owner", model.RoleEmployee},
		{"approver", model.RoleManager},
	} {
		_, err = database.Exec(
			`INSERT INTO users (id, email, name, role, status, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			u.id, u.id+"@example.com", u.id, u.role, model.UserStatusActive, time.Now(),
		)
		require.NoError(t, err)
	}

	return database
}

func seedGoal(t *testing.T, database *sqlx.DB, repo GoalRepository) *model.Goal {
	t.Helper()

	now := time.Now()
	goal := &model.Goal{
		ID:         uuid.New().String(),
		OwnerID:    "owner",
		ApproverID: "approver",
		Title:      "Reduce build times",
		Priority:   model.GoalPriorityMedium,
		StartDate:  "2026-01-01",
		EndDate:    "2026-06-30",
		Status:     model.GoalStatusPendingApproval,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := database.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.Create(tx, goal))
	require.NoError(t, tx.Commit())

	return goal
}
