package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"feedline/internal/api"
	"feedline/internal/engagement"
	"feedline/internal/feed"
	"feedline/internal/notifier"
	"feedline/internal/testkit"
)

type testAPI struct {
	store  *testkit.Store
	router chi.Router
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := testkit.NewStore()

	dispatcher := &notifier.Dispatcher{
		Logger:        testkit.Logger(),
		Notifications: store.NotificationsRepo(),
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
	}
	require.NoError(t, svc.Init(t.Context()))

	handlers := &api.Handlers{
		Logger:     testkit.Logger(),
		Engagement: svc,
		Feed: &feed.Assembler{
			Follows:  store.Follows(),
			Posts:    store.Posts(),
			Likes:    store.Likes(),
			Comments: store.Comments(),
			Users:    store.Users(),
		},
		Notifications: store.NotificationsRepo(),
		Users:         store.Users(),
		Identity:      api.HeaderIdentity{},
	}
	require.NoError(t, handlers.Init(t.Context()))

	router := chi.NewRouter()
	handlers.Routes(router)

	return &testAPI{store: store, router: router}
}

func (a *testAPI) do(t *testing.T, method, path string, viewer int64, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if viewer != 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(viewer, 10))
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHandlers_Auth(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	bob := a.store.AddUser("bob")

	rec := a.do(t, http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), 0, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decode[map[string]string](t, rec)
	require.Equal(t, "authentication required", body["detail"])

	rec = a.do(t, http.MethodGet, "/feed", 0, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlers_Follow(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		a := newTestAPI(t)
		alice := a.store.AddUser("alice")
		bob := a.store.AddUser("bob")

		rec := a.do(t, http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), alice.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		body := decode[map[string]string](t, rec)
		require.Equal(t, "You are now following bob", body["detail"])
	})

	t.Run("duplicate conflicts", func(t *testing.T) {
		t.Parallel()

		a := newTestAPI(t)
		alice := a.store.AddUser("alice")
		bob := a.store.AddUser("bob")

		require.Equal(t, http.StatusOK,
			a.do(t, http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), alice.ID, "").Code)
		require.Equal(t, http.StatusConflict,
			a.do(t, http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), alice.ID, "").Code)
	})

	t.Run("self follow is a bad request", func(t *testing.T) {
		t.Parallel()

		a := newTestAPI(t)
		alice := a.store.AddUser("alice")

		rec := a.do(t, http.MethodPost, fmt.Sprintf("/users/%d/follow", alice.ID), alice.ID, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		a := newTestAPI(t)
		alice := a.store.AddUser("alice")

		require.Equal(t, http.StatusNotFound,
			a.do(t, http.MethodPost, "/users/404/follow", alice.ID, "").Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()

		a := newTestAPI(t)
		alice := a.store.AddUser("alice")

		require.Equal(t, http.StatusNotFound,
			a.do(t, http.MethodPost, "/users/abc/follow", alice.ID, "").Code)
	})

	t.Run("followers listing is public", func(t *testing.T) {
		t.Parallel()

		a := newTestAPI(t)
		alice := a.store.AddUser("alice")
		bob := a.store.AddUser("bob")

		require.Equal(t, http.StatusOK,
			a.do(t, http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), alice.ID, "").Code)

		rec := a.do(t, http.MethodGet, fmt.Sprintf("/users/%d/followers", bob.ID), 0, "")
		require.Equal(t, http.StatusOK, rec.Code)

		followers := decode[[]map[string]any](t, rec)
		require.Len(t, followers, 1)
		require.Equal(t, "alice", followers[0]["username"])
		require.Equal(t, "alice@example.com", followers[0]["email"])
	})
}

func TestHandlers_Likes(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	alice := a.store.AddUser("alice")
	bob := a.store.AddUser("bob")
	post := a.store.AddPost(bob.ID, "hello", true)

	likePath := fmt.Sprintf("/posts/%d/like", post.ID)

	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, likePath, alice.ID, "").Code)
	require.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, likePath, alice.ID, "").Code)

	rec := a.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/like-status", post.ID), alice.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decode[map[string]bool](t, rec)["liked"])

	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodDelete, fmt.Sprintf("/posts/%d/unlike", post.ID), alice.ID, "").Code)

	rec = a.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/like-status", post.ID), alice.ID, "")
	require.False(t, decode[map[string]bool](t, rec)["liked"])
}

func TestHandlers_Comments(t *testing.T) {
	t.Parallel()

	t.Run("add and list", func(t *testing.T) {
		t.Parallel()

		a := newTestAPI(t)
		alice := a.store.AddUser("alice")
		bob := a.store.AddUser("bob")
		post := a.store.AddPost(bob.ID, "hello", true)

		rec := a.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comments/add", post.ID),
			alice.ID, `{"content": "nice one"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		created := decode[map[string]any](t, rec)
		require.Equal(t, "nice one", created["content"])
		require.Equal(t, "alice", created["author_name"])
		require.EqualValues(t, post.ID, created["post"])

		rec = a.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/comments", post.ID), 0, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decode[[]map[string]any](t, rec), 1)
	})

	t.Run("missing content", func(t *testing.T) {
		t.Parallel()

		a := newTestAPI(t)
		alice := a.store.AddUser("alice")
		bob := a.store.AddUser("bob")
		post := a.store.AddPost(bob.ID, "hello", true)

		path := fmt.Sprintf("/posts/%d/comments/add", post.ID)
		require.Equal(t, http.StatusBadRequest, a.do(t, http.MethodPost, path, alice.ID, `{}`).Code)
		require.Equal(t, http.StatusBadRequest, a.do(t, http.MethodPost, path, alice.ID, `not json`).Code)
	})

	t.Run("delete is author-only", func(t *testing.T) {
		t.Parallel()

		a := newTestAPI(t)
		alice := a.store.AddUser("alice")
		bob := a.store.AddUser("bob")
		post := a.store.AddPost(bob.ID, "hello", true)

		rec := a.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comments/add", post.ID),
			alice.ID, `{"content": "mine"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		commentID := int64(decode[map[string]any](t, rec)["id"].(float64))

		deletePath := fmt.Sprintf("/comments/%d/delete", commentID)
		require.Equal(t, http.StatusForbidden, a.do(t, http.MethodDelete, deletePath, bob.ID, "").Code)
		require.Equal(t, http.StatusOK, a.do(t, http.MethodDelete, deletePath, alice.ID, "").Code)
		require.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, deletePath, alice.ID, "").Code)
	})
}

func TestHandlers_Feed(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	alice := a.store.AddUser("alice")
	bob := a.store.AddUser("bob")
	post := a.store.AddPost(bob.ID, "hello", true)

	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), alice.ID, "").Code)
	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/like", post.ID), alice.ID, "").Code)

	rec := a.do(t, http.MethodGet, "/feed?page=1", alice.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	require.EqualValues(t, 1, body["page"])
	require.EqualValues(t, 1, body["total_pages"])
	require.Equal(t, false, body["has_next"])
	require.Equal(t, false, body["has_previous"])

	results := body["results"].([]any)
	require.Len(t, results, 1)

	item := results[0].(map[string]any)
	require.Equal(t, "hello", item["content"])
	require.EqualValues(t, 1, item["like_count"])
	require.Equal(t, true, item["is_liked"])
	require.Equal(t, "bob", item["author"].(map[string]any)["username"])
}

func TestHandlers_Notifications(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	alice := a.store.AddUser("alice")
	bob := a.store.AddUser("bob")
	carol := a.store.AddUser("carol")

	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), alice.ID, "").Code)

	rec := a.do(t, http.MethodGet, "/notifications", bob.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	require.Equal(t, "alice", list[0]["sender_username"])
	require.Equal(t, "bob", list[0]["recipient_username"])
	require.Equal(t, "follow", list[0]["notification_type"])
	require.Equal(t, "alice started following you", list[0]["message"])
	require.Equal(t, false, list[0]["is_read"])
	require.Nil(t, list[0]["post"])

	notificationID := int64(list[0]["id"].(float64))
	readPath := fmt.Sprintf("/notifications/%d/read", notificationID)

	// Only the recipient can mark it.
	require.Equal(t, http.StatusNotFound, a.do(t, http.MethodPost, readPath, carol.ID, "").Code)
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, readPath, bob.ID, "").Code)

	list = decode[[]map[string]any](t, a.do(t, http.MethodGet, "/notifications", bob.ID, ""))
	require.Equal(t, true, list[0]["is_read"])

	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPost, "/notifications/mark-all-read", bob.ID, "").Code)
}
