package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentloop/talentloop/internal/model"
)

func TestNotificationMarkReadScopedToRecipient(t *testing.T) {
	database := testDB(t)
	repo := NewNotificationRepository(database)

	notification := &model.Notification{
		ID:          uuid.New().String(),
		RecipientID: "owner",
		Type:        model.NotificationTypeGoalApproved,
		Message:     "Your goal was approved",
		EntityType:  model.EntityTypeGoal,
		EntityID:    "g1",
		Priority:    model.NotificationPriorityNormal,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(notification))

	err := repo.MarkRead(notification.ID, "approver")
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, repo.MarkRead(notification.ID, "owner"))

	unread, err := repo.ForRecipient("owner", true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := repo.ForRecipient("owner", false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Read)
}
