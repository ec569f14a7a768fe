package notifier_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"feedline/internal/core"
	"feedline/internal/notifier"
	"feedline/internal/testkit"
)

func newDispatcher(t *testing.T, store *testkit.Store, pusher core.NotificationPusher) *notifier.Dispatcher {
	t.Helper()

	d := &notifier.Dispatcher{
		Logger:        testkit.Logger(),
		Notifications: store.NotificationsRepo(),
		Pusher:        pusher,
	}
	require.NoError(t, d.Init(t.Context()))
	return d
}

func TestDispatcher_Messages(t *testing.T) {
	t.Parallel()

	store := testkit.NewStore()
	alice := store.AddUser("alice")
	bob := store.AddUser("bob")
	post := store.AddPost(bob.ID, "hello", true)
	pusher := &testkit.PushRecorder{}
	d := newDispatcher(t, store, pusher)

	d.FollowCreated(t.Context(), alice, bob)
	d.LikeCreated(t.Context(), alice, post)
	d.CommentCreated(t.Context(), alice, post)

	notifications, err := store.NotificationsRepo().ListForRecipient(t.Context(), bob.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 3)

	// Newest first.
	require.Equal(t, "alice commented on your post", notifications[0].Message)
	require.Equal(t, "alice liked your post", notifications[1].Message)
	require.Equal(t, "alice started following you", notifications[2].Message)

	for _, n := range notifications {
		require.Equal(t, bob.ID, n.RecipientID)
		require.Equal(t, alice.ID, n.SenderID)
		require.False(t, n.IsRead)
	}
	require.Len(t, pusher.Pushed(), 3)
}

func TestDispatcher_SkipsSelfNotification(t *testing.T) {
	t.Parallel()

	store := testkit.NewStore()
	bob := store.AddUser("bob")
	post := store.AddPost(bob.ID, "hello", true)
	d := newDispatcher(t, store, &testkit.PushRecorder{})

	d.LikeCreated(t.Context(), bob, post)
	d.CommentCreated(t.Context(), bob, post)

	require.Empty(t, store.Notifications())
}

func TestDispatcher_FailSoft(t *testing.T) {
	t.Parallel()

	t.Run("insert failure skips the push", func(t *testing.T) {
		t.Parallel()

		store := testkit.NewStore()
		alice := store.AddUser("alice")
		bob := store.AddUser("bob")
		pusher := &testkit.PushRecorder{}

		d := &notifier.Dispatcher{
			Logger: testkit.Logger(),
			Notifications: &testkit.FailingNotifications{
				NotificationRepository: store.NotificationsRepo(),
				Err:                    errors.New("database down"),
			},
			Pusher: pusher,
		}
		require.NoError(t, d.Init(t.Context()))

		d.FollowCreated(t.Context(), alice, bob)

		require.Empty(t, store.Notifications())
		require.Empty(t, pusher.Pushed())
	})

	t.Run("push failure keeps the stored notification", func(t *testing.T) {
		t.Parallel()

		store := testkit.NewStore()
		alice := store.AddUser("alice")
		bob := store.AddUser("bob")
		pusher := &testkit.PushRecorder{Err: errors.New("realtime down")}
		d := newDispatcher(t, store, pusher)

		d.FollowCreated(t.Context(), alice, bob)

		require.Len(t, store.Notifications(), 1)
	})

	t.Run("nil pusher", func(t *testing.T) {
		t.Parallel()

		store := testkit.NewStore()
		alice := store.AddUser("alice")
		bob := store.AddUser("bob")
		d := newDispatcher(t, store, nil)

		d.FollowCreated(t.Context(), alice, bob)

		require.Len(t, store.Notifications(), 1)
	})
}
