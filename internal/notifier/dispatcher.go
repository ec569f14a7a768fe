package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"feedline/internal/core"
)

var notificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feedline_notifications_created_total",
	Help: "The total number of created notifications.",
}, []string{"type"})

// Dispatcher creates exactly one notification per qualifying social action
// and mirrors it to the realtime endpoint. Everything here is fail-soft: the
// edge write already committed, so problems are logged and dropped.
type Dispatcher struct {
	Logger *slog.Logger

	Notifications core.NotificationRepository
	Pusher        core.NotificationPusher
}

func (d *Dispatcher) Init(_ context.Context) error {
	d.Logger = d.Logger.With("component", "notifier.Dispatcher")
	return nil
}

func (d *Dispatcher) FollowCreated(ctx context.Context, follower, followee *core.User) {
	d.create(ctx, &core.Notification{
		RecipientID: followee.ID,
		SenderID:    follower.ID,
		Type:        core.NotificationFollow,
		Message:     fmt.Sprintf("%s started following you", follower.Username),
	})
}

func (d *Dispatcher) LikeCreated(ctx context.Context, liker *core.User, post *core.Post) {
	if liker.ID == post.AuthorID {
		return
	}

	postID := post.ID
	d.create(ctx, &core.Notification{
		RecipientID: post.AuthorID,
		SenderID:    liker.ID,
		Type:        core.NotificationLike,
		PostID:      &postID,
		Message:     fmt.Sprintf("%s liked your post", liker.Username),
	})
}

func (d *Dispatcher) CommentCreated(ctx context.Context, commenter *core.User, post *core.Post) {
	if commenter.ID == post.AuthorID {
		return
	}

	postID := post.ID
	d.create(ctx, &core.Notification{
		RecipientID: post.AuthorID,
		SenderID:    commenter.ID,
		Type:        core.NotificationComment,
		PostID:      &postID,
		Message:     fmt.Sprintf("%s commented on your post", commenter.Username),
	})
}

func (d *Dispatcher) create(ctx context.Context, n *core.Notification) {
	if err := d.Notifications.Insert(ctx, n); err != nil {
		d.Logger.Error("notification insert failed",
			"type", n.Type, "recipient_id", n.RecipientID, "error", err)
		return
	}

	notificationsCreated.WithLabelValues(n.Type).Inc()

	if d.Pusher == nil {
		return
	}
	if err := d.Pusher.Push(ctx, n); err != nil {
		d.Logger.Warn("realtime push failed", "notification_id", n.ID, "error", err)
	}
}
