package notifications

import (
	"context"
	"fmt"

	"feedline/internal/core"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Insert(ctx context.Context, n *core.Notification) error {
	return r.DB.Model(ctx, &core.Notification{}).Create(n).Error
}

func (r *Repository) ListForRecipient(ctx context.Context, recipientID int64) ([]core.Notification, error) {
	var list []core.Notification
	err := r.DB.Model(ctx, &core.Notification{}).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// MarkRead scopes by recipient so one user cannot touch another's
// notifications.
func (r *Repository) MarkRead(ctx context.Context, id, recipientID int64) error {
	res := r.DB.Model(ctx, &core.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: notification %d", core.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, recipientID int64) error {
	return r.DB.Model(ctx, &core.Notification{}).
		Where("recipient_id = ? AND NOT is_read", recipientID).
		Update("is_read", true).Error
}
