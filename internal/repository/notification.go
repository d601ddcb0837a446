package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/model"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// NotificationRepository writes outside the transition transaction: creation
// is best-effort and must never roll back the transition that triggered it.
type NotificationRepository interface {
	Create(notification *model.Notification) error
	ForRecipient(recipientID string, unreadOnly bool) ([]*model.Notification, error)
	MarkRead(notificationID, recipientID string) error
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	query := `INSERT INTO notifications (id, recipient_id, type, message, entity_type, entity_id,
	                                     priority, action_required, read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		notification.ID,
		notification.RecipientID,
		notification.Type,
		notification.Message,
		notification.EntityType,
		notification.EntityID,
		notification.Priority,
		notification.ActionRequired,
		notification.Read,
		notification.CreatedAt,
	)

	return err
}

func (r *notificationRepository) ForRecipient(recipientID string, unreadOnly bool) ([]*model.Notification, error) {
	var notifications []*model.Notification

	query := `SELECT * FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	err := r.db.Select(&notifications, query, recipientID)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead is scoped to the recipient so nobody can mark another inbox's rows.
func (r *notificationRepository) MarkRead(notificationID, recipientID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`

	result, err := r.db.Exec(query, notificationID, recipientID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
