package supabase

import (
	"context"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aurelia-hq/aurelia-backend/domain/social"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

const notificationsTable = "notifications"

// NotificationRepository persists notifications in the external store.
type NotificationRepository struct {
	client *supa.Client
}

// NewNotificationRepository creates a Supabase-backed notification repository.
func NewNotificationRepository(client *supa.Client) *NotificationRepository {
	return &NotificationRepository{client: client}
}

// List returns notifications for userID, newest first.
func (r *NotificationRepository) List(ctx context.Context, userID string, limit, offset int) ([]social.Notification, error) {
	data, _, err := r.client.From(notificationsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", descending).
		Range(offset, offset+limit-1, "").
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("listing notifications", err)
	}
	return decodeRows[social.Notification](data)
}

// Create inserts a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *social.Notification) error {
	row := map[string]interface{}{
		"user_id": n.UserID,
		"type":    n.Type,
		"message": n.Message,
		"is_read": n.IsRead,
	}
	if n.RelatedUserID != "" {
		row["related_user_id"] = n.RelatedUserID
	}

	_, _, err := r.client.From(notificationsTable).
		Insert(row, false, "", "minimal", "").
		Execute()
	if err != nil {
		return errors.NewExternalError("creating notification", err)
	}
	return nil
}

// Delete removes a notification owned by userID, reporting whether it existed.
func (r *NotificationRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	data, _, err := r.client.From(notificationsTable).
		Delete("representation", "").
		Eq("id", id).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return false, errors.NewExternalError("deleting notification", err)
	}

	rows, err := decodeRows[social.Notification](data)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// DeleteAll removes every notification for userID and returns how many were removed.
func (r *NotificationRepository) DeleteAll(ctx context.Context, userID string) (int, error) {
	data, _, err := r.client.From(notificationsTable).
		Delete("representation", "").
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return 0, errors.NewExternalError("clearing notifications", err)
	}

	rows, err := decodeRows[social.Notification](data)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// MarkAllRead flags every unread notification for userID as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, _, err := r.client.From(notificationsTable).
		Update(map[string]interface{}{"is_read": true}, "minimal", "").
		Eq("user_id", userID).
		Eq("is_read", "false").
		Execute()
	if err != nil {
		return errors.NewExternalError("marking notifications read", err)
	}
	return nil
}
