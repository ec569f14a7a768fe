package core

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// DB is the low-level database handle. Model resolves to the transaction
// stored in ctx by InTx, if any, so repositories join an open transaction
// transparently.
type DB interface {
	Model(ctx context.Context, a any) *gorm.DB
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	EstimatedCount(tableName string) (int64, error)
	DB() (*sql.DB, error)
}

type Migrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
	Fix(ctx context.Context) error
	Migrate(ctx context.Context, version uint) error
}

type UserRepository interface {
	Get(ctx context.Context, id int64) (*User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]User, error)
}

type PostRepository interface {
	Get(ctx context.Context, id int64) (*Post, error)
	SetLikeCount(ctx context.Context, postID, count int64) error
	SetCommentCount(ctx context.Context, postID, count int64) error
	ActiveByAuthors(ctx context.Context, authorIDs []int64, offset, limit int) ([]Post, error)
	CountActiveByAuthors(ctx context.Context, authorIDs []int64) (int64, error)
}

type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID int64) (*Follow, error)
	Delete(ctx context.Context, followerID, followingID int64) error
	Exists(ctx context.Context, followerID, followingID int64) (bool, error)
	FollowingIDs(ctx context.Context, followerID int64) ([]int64, error)
	Followers(ctx context.Context, userID int64) ([]User, error)
	Following(ctx context.Context, userID int64) ([]User, error)
}

type LikeRepository interface {
	Create(ctx context.Context, userID, postID int64) (*Like, error)
	Delete(ctx context.Context, userID, postID int64) error
	Exists(ctx context.Context, userID, postID int64) (bool, error)
	CountForPost(ctx context.Context, postID int64) (int64, error)
	CountForPosts(ctx context.Context, postIDs []int64) (map[int64]int64, error)
	LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	// GetActive ignores soft-deleted rows.
	GetActive(ctx context.Context, id int64) (*Comment, error)
	SoftDelete(ctx context.Context, id int64) error
	ListActiveForPost(ctx context.Context, postID int64) ([]Comment, error)
	CountActiveForPost(ctx context.Context, postID int64) (int64, error)
	CountActiveForPosts(ctx context.Context, postIDs []int64) (map[int64]int64, error)
}

type NotificationRepository interface {
	Insert(ctx context.Context, n *Notification) error
	// ListForRecipient returns newest-first.
	ListForRecipient(ctx context.Context, recipientID int64) ([]Notification, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) error
}

// NotificationDispatcher fans out a notification for a created edge. All
// methods are fail-soft: a dispatch problem is logged, never returned, so it
// cannot roll back the edge write that triggered it.
type NotificationDispatcher interface {
	FollowCreated(ctx context.Context, follower, followee *User)
	LikeCreated(ctx context.Context, liker *User, post *Post)
	CommentCreated(ctx context.Context, commenter *User, post *Post)
}

// NotificationPusher mirrors a stored notification to an external realtime
// service.
type NotificationPusher interface {
	Push(ctx context.Context, n *Notification) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event EngagementEvent) error
}
