package engagement_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"feedline/internal/core"
	"feedline/internal/engagement"
	"feedline/internal/notifier"
	"feedline/internal/testkit"
)

var (
	errInsert  = errors.New("insert error")
	errPublish = errors.New("publish error")
)

type fixture struct {
	store  *testkit.Store
	svc    *engagement.Service
	pusher *testkit.PushRecorder
	events *testkit.EventRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testkit.NewStore()
	pusher := &testkit.PushRecorder{}
	events := &testkit.EventRecorder{}

	dispatcher := &notifier.Dispatcher{
		Logger:        testkit.Logger(),
		Notifications: store.NotificationsRepo(),
		Pusher:        pusher,
	}
	require.NoError(t, dispatcher.Init(t.Context()))

	svc := &engagement.Service{
		Logger:   testkit.Logger(),
		DB:       store,
		Users:    store.Users(),
		Posts:    store.Posts(),
		Follows:  store.Follows(),
		Likes:    store.Likes(),
		Comments: store.Comments(),
		Reconciler: &engagement.Reconciler{
			Posts:    store.Posts(),
			Likes:    store.Likes(),
			Comments: store.Comments(),
		},
		Dispatcher: dispatcher,
		Events:     events,
	}
	require.NoError(t, svc.Init(t.Context()))

	return &fixture{store: store, svc: svc, pusher: pusher, events: events}
}

func (f *fixture) mustPost(t *testing.T, id int64) core.Post {
	t.Helper()

	post, ok := f.store.Post(id)
	require.True(t, ok)
	return post
}
