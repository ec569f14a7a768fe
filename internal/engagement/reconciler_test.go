package engagement_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"feedline/internal/engagement"
	"feedline/internal/testkit"
)

func TestReconciler_LikeCount(t *testing.T) {
	t.Parallel()

	t.Run("heals drifted counter on next mutation", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		alice := f.store.AddUser("alice")
		bob := f.store.AddUser("bob")
		carol := f.store.AddUser("carol")
		post := f.store.AddPost(bob.ID, "hello", true)

		require.NoError(t, f.svc.Like(t.Context(), alice.ID, post.ID))
		f.store.SetLikeCount(post.ID, 99)

		require.NoError(t, f.svc.Like(t.Context(), carol.ID, post.ID))
		require.EqualValues(t, 2, f.mustPost(t, post.ID).LikeCount)
	})

	t.Run("missing post is a no-op", func(t *testing.T) {
		t.Parallel()

		store := testkit.NewStore()
		rec := &engagement.Reconciler{
			Posts:    store.Posts(),
			Likes:    store.Likes(),
			Comments: store.Comments(),
		}

		require.NoError(t, rec.LikeCount(t.Context(), 404))
		require.NoError(t, rec.CommentCount(t.Context(), 404))
	})
}

func TestReconciler_CommentCount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	alice := f.store.AddUser("alice")
	bob := f.store.AddUser("bob")
	post := f.store.AddPost(bob.ID, "hello", true)

	first, err := f.svc.Comment(t.Context(), alice.ID, post.ID, "first")
	require.NoError(t, err)
	_, err = f.svc.Comment(t.Context(), alice.ID, post.ID, "second")
	require.NoError(t, err)
	require.EqualValues(t, 2, f.mustPost(t, post.ID).CommentCount)

	require.NoError(t, f.svc.DeleteComment(t.Context(), first.ID, alice.ID))
	require.EqualValues(t, 1, f.mustPost(t, post.ID).CommentCount)
}
