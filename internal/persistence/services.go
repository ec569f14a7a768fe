package persistence

import (
	"github.com/zhulik/pal"

	"feedline/internal/core"
	"feedline/internal/persistence/comments"
	"feedline/internal/persistence/follows"
	"feedline/internal/persistence/likes"
	"feedline/internal/persistence/notifications"
	"feedline/internal/persistence/posts"
	"feedline/internal/persistence/users"
)

func Provide() pal.ServiceDef {
	return pal.ProvideList(
		pal.Provide[core.DB, DB](),
		pal.Provide[core.UserRepository, users.Repository](),
		pal.Provide[core.PostRepository, posts.Repository](),
		pal.Provide[core.FollowRepository, follows.Repository](),
		pal.Provide[core.LikeRepository, likes.Repository](),
		pal.Provide[core.CommentRepository, comments.Repository](),
		pal.Provide[core.NotificationRepository, notifications.Repository](),
	)
}
