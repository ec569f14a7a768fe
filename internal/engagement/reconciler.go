package engagement

import (
	"context"

	"feedline/internal/core"
)

// Reconciler keeps the denormalized post counters equal to the true count of
// live edges. It always recomputes from current rows instead of applying a
// delta, so any previously drifted counter heals on the next mutation.
type Reconciler struct {
	Posts    core.PostRepository
	Likes    core.LikeRepository
	Comments core.CommentRepository
}

func (r *Reconciler) LikeCount(ctx context.Context, postID int64) error {
	count, err := r.Likes.CountForPost(ctx, postID)
	if err != nil {
		return err
	}
	return r.Posts.SetLikeCount(ctx, postID, count)
}

// CommentCount counts active comments only; soft-deleted ones don't show up
// in the cached counter.
func (r *Reconciler) CommentCount(ctx context.Context, postID int64) error {
	count, err := r.Comments.CountActiveForPost(ctx, postID)
	if err != nil {
		return err
	}
	return r.Posts.SetCommentCount(ctx, postID, count)
}
