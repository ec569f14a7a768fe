package core

import "time"

const (
	CategoryGeneral      = "general"
	CategoryAnnouncement = "announcement"
	CategoryQuestion     = "question"
)

const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
)

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:30;uniqueIndex" json:"username"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Post is owned by an upstream service; feedline reads it for feed assembly
// and writes only the denormalized counters.
type Post struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	AuthorID     int64     `gorm:"index" json:"author_id"`
	Content      string    `gorm:"size:280" json:"content"`
	ImageURL     string    `json:"image_url"`
	Category     string    `gorm:"size:20;default:general" json:"category"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	LikeCount    int64     `gorm:"default:0" json:"like_count"`
	CommentCount int64     `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

type Follow struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	FollowerID  int64     `gorm:"uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID int64     `gorm:"uniqueIndex:idx_follow_pair;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}

type Like struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:idx_like_pair" json:"user_id"`
	PostID    int64     `gorm:"uniqueIndex:idx_like_pair;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

type Comment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	AuthorID  int64     `gorm:"index" json:"author_id"`
	PostID    int64     `gorm:"index" json:"post_id"`
	Content   string    `gorm:"size:200" json:"content"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// Notification is created only as a side effect of follow/like/comment
// creation, never directly by a client.
type Notification struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	RecipientID int64     `gorm:"index" json:"recipient_id"`
	SenderID    int64     `json:"sender_id"`
	Type        string    `gorm:"column:notification_type;size:10" json:"notification_type"`
	PostID      *int64    `json:"post_id"`
	Message     string    `gorm:"size:200" json:"message"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// EngagementEvent is the firehose payload published for every created edge.
type EngagementEvent struct {
	Kind      string    `json:"kind"`
	ActorID   int64     `json:"actor_id"`
	SubjectID int64     `json:"subject_id"`
	PostID    *int64    `json:"post_id,omitempty"`
	At        time.Time `json:"at"`
}
