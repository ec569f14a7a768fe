package engagement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"feedline/internal/core"
)

const maxCommentLength = 200

var edgesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feedline_engagement_edges_created_total",
	Help: "The total number of created follow/like/comment edges.",
}, []string{"kind"})

// Service owns every engagement write. Each mutation runs edge write and
// counter reconcile in one transaction, then notification dispatch and event
// publish after commit. The post-write side effects are explicit calls here,
// not hidden listeners, and they never roll back the edge write.
type Service struct {
	Logger *slog.Logger

	DB         core.DB
	Users      core.UserRepository
	Posts      core.PostRepository
	Follows    core.FollowRepository
	Likes      core.LikeRepository
	Comments   core.CommentRepository
	Reconciler *Reconciler
	Dispatcher core.NotificationDispatcher
	Events     core.EventPublisher
}

func (s *Service) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "engagement.Service")
	return nil
}

// Follow creates the follower -> followee edge and returns the followee.
func (s *Service) Follow(ctx context.Context, followerID, followeeID int64) (*core.User, error) {
	if followerID == followeeID {
		return nil, fmt.Errorf("%w: cannot follow yourself", core.ErrInvalid)
	}

	followee, err := s.Users.Get(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	follower, err := s.Users.Get(ctx, followerID)
	if err != nil {
		return nil, err
	}

	exists, err := s.Follows.Exists(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: already following", core.ErrConflict)
	}

	if _, err := s.Follows.Create(ctx, followerID, followeeID); err != nil {
		return nil, err
	}

	edgesCreated.WithLabelValues(core.NotificationFollow).Inc()
	s.Dispatcher.FollowCreated(ctx, follower, followee)
	s.publish(ctx, core.EngagementEvent{
		Kind:      core.NotificationFollow,
		ActorID:   followerID,
		SubjectID: followeeID,
		At:        time.Now(),
	})

	return followee, nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if _, err := s.Users.Get(ctx, followeeID); err != nil {
		return err
	}
	return s.Follows.Delete(ctx, followerID, followeeID)
}

func (s *Service) Like(ctx context.Context, userID, postID int64) error {
	post, err := s.activePost(ctx, postID)
	if err != nil {
		return err
	}
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return err
	}

	liked, err := s.Likes.Exists(ctx, userID, postID)
	if err != nil {
		return err
	}
	if liked {
		return fmt.Errorf("%w: already liked", core.ErrConflict)
	}

	err = s.DB.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.Likes.Create(ctx, userID, postID); err != nil {
			return err
		}
		s.reconcile(ctx, postID, s.Reconciler.LikeCount)
		return nil
	})
	if err != nil {
		return err
	}

	edgesCreated.WithLabelValues(core.NotificationLike).Inc()
	s.Dispatcher.LikeCreated(ctx, user, post)
	s.publish(ctx, core.EngagementEvent{
		Kind:      core.NotificationLike,
		ActorID:   userID,
		SubjectID: post.AuthorID,
		PostID:    &post.ID,
		At:        time.Now(),
	})

	return nil
}

func (s *Service) Unlike(ctx context.Context, userID, postID int64) error {
	if _, err := s.Posts.Get(ctx, postID); err != nil {
		return err
	}

	return s.DB.InTx(ctx, func(ctx context.Context) error {
		if err := s.Likes.Delete(ctx, userID, postID); err != nil {
			return err
		}
		s.reconcile(ctx, postID, s.Reconciler.LikeCount)
		return nil
	})
}

func (s *Service) Comment(ctx context.Context, authorID, postID int64, content string) (*core.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content cannot be empty", core.ErrInvalid)
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment content exceeds %d characters", core.ErrInvalid, maxCommentLength)
	}

	post, err := s.activePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	author, err := s.Users.Get(ctx, authorID)
	if err != nil {
		return nil, err
	}

	comment := core.Comment{
		AuthorID: authorID,
		PostID:   postID,
		Content:  content,
	}

	err = s.DB.InTx(ctx, func(ctx context.Context) error {
		if err := s.Comments.Create(ctx, &comment); err != nil {
			return err
		}
		s.reconcile(ctx, postID, s.Reconciler.CommentCount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	edgesCreated.WithLabelValues(core.NotificationComment).Inc()
	s.Dispatcher.CommentCreated(ctx, author, post)
	s.publish(ctx, core.EngagementEvent{
		Kind:      core.NotificationComment,
		ActorID:   authorID,
		SubjectID: post.AuthorID,
		PostID:    &post.ID,
		At:        time.Now(),
	})

	return &comment, nil
}

// DeleteComment soft-deletes. Inactive comments are invisible to the lookup,
// so a repeated delete comes back as not found.
func (s *Service) DeleteComment(ctx context.Context, commentID, requesterID int64) error {
	comment, err := s.Comments.GetActive(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != requesterID {
		return fmt.Errorf("%w: not the comment author", core.ErrForbidden)
	}

	return s.DB.InTx(ctx, func(ctx context.Context) error {
		if err := s.Comments.SoftDelete(ctx, commentID); err != nil {
			return err
		}
		s.reconcile(ctx, comment.PostID, s.Reconciler.CommentCount)
		return nil
	})
}

func (s *Service) Followers(ctx context.Context, userID int64) ([]core.User, error) {
	if _, err := s.Users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.Follows.Followers(ctx, userID)
}

func (s *Service) Following(ctx context.Context, userID int64) ([]core.User, error) {
	if _, err := s.Users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.Follows.Following(ctx, userID)
}

func (s *Service) LikeStatus(ctx context.Context, userID, postID int64) (bool, error) {
	if _, err := s.Posts.Get(ctx, postID); err != nil {
		return false, err
	}
	return s.Likes.Exists(ctx, userID, postID)
}

func (s *Service) PostComments(ctx context.Context, postID int64) ([]core.Comment, error) {
	if _, err := s.Posts.Get(ctx, postID); err != nil {
		return nil, err
	}
	return s.Comments.ListActiveForPost(ctx, postID)
}

func (s *Service) activePost(ctx context.Context, postID int64) (*core.Post, error) {
	post, err := s.Posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsActive {
		return nil, fmt.Errorf("%w: post %d", core.ErrNotFound, postID)
	}
	return post, nil
}

// reconcile swallows counter errors: a failed recompute must not roll back
// the edge mutation, and the next mutation recomputes from scratch anyway.
func (s *Service) reconcile(ctx context.Context, postID int64, fn func(context.Context, int64) error) {
	if err := fn(ctx, postID); err != nil {
		s.Logger.Error("counter reconcile failed", "post_id", postID, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, event core.EngagementEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.Logger.Warn("event publish failed", "kind", event.Kind, "error", err)
	}
}
