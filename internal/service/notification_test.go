package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentloop/talentloop/internal/apperr"
	"github.com/talentloop/talentloop/internal/model"
)

func TestInboxAndMarkRead(t *testing.T) {
	e := newEnv(t)
	createGoal(t, e)

	approver := model.Actor{ID: "m1", Role: model.RoleManager}
	unread, err := e.notifier.Inbox(approver, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.False(t, unread[0].Read)

	// Only the recipient may mark a notification read.
	err = e.notifier.MarkRead(model.Actor{ID: "e1", Role: model.RoleEmployee}, unread[0].ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, e.notifier.MarkRead(approver, unread[0].ID))

	unread, err = e.notifier.Inbox(approver, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := e.notifier.Inbox(approver, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Read)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	e := newEnv(t)

	err := e.notifier.MarkRead(model.Actor{ID: "m1", Role: model.RoleManager}, "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
