package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/talentloop/talentloop/internal/apperr"
	"github.com/talentloop/talentloop/internal/model"
	"github.com/talentloop/talentloop/internal/repository"
)

// NotificationService creates inbox rows for the counter-party of a
// transition. Dispatch is best-effort and at-most-once: a failure is logged
// and never propagates to the transition that triggered it.
type NotificationService struct {
	repo         repository.NotificationRepository
	users        repository.UserRepository
	email        *EmailService
	emailEnabled bool
}

func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository, email *EmailService, emailEnabled bool) *NotificationService {
	return &NotificationService{
		repo:         repo,
		users:        users,
		email:        email,
		emailEnabled: emailEnabled,
	}
}

func (s *NotificationService) Dispatch(recipientID, notifType, message, entityType, entityID, priority string, actionRequired bool) {
	notification := &model.Notification{
		ID:             uuid.New().String(),
		RecipientID:    recipientID,
		Type:           notifType,
		Message:        message,
		EntityType:     entityType,
		EntityID:       entityID,
		Priority:       priority,
		ActionRequired: actionRequired,
		Read:           false,
		CreatedAt:      time.Now(),
	}

	err := s.repo.Create(notification)
	if err != nil {
		slog.Error("notification dispatch failed", "error", err, "recipient_id", recipientID, "type", notifType)
		return
	}

	// High-priority notifications also go out by email when configured.
	// Same best-effort contract as the inbox row.
	if s.emailEnabled && s.email != nil && priority == model.NotificationPriorityHigh {
		user, err := s.users.ByID(recipientID)
		if err != nil {
			slog.Error("notification email lookup failed", "error", err, "recipient_id", recipientID)
			return
		}
		err = s.email.SendNotificationEmail(user.Email, notifType, message)
		if err != nil {
			slog.Error("notification email failed", "error", err, "recipient_id", recipientID)
		}
	}
}

func (s *NotificationService) Inbox(actor model.Actor, unreadOnly bool) ([]*model.Notification, error) {
	notifications, err := s.repo.ForRecipient(actor.ID, unreadOnly)
	if err != nil {
		return nil, apperr.Internal("inbox query failed", err)
	}
	return notifications, nil
}

// MarkRead is the only mutation a notification allows, and only by its
// recipient.
func (s *NotificationService) MarkRead(actor model.Actor, notificationID string) error {
	err := s.repo.MarkRead(notificationID, actor.ID)
	if errors.Is(err, repository.ErrNotificationNotFound) {
		return apperr.NotFound("notification not found")
	}
	if err != nil {
		return apperr.Internal("mark read failed", err)
	}
	return nil
}
