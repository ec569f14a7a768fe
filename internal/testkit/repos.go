package testkit

import (
	"context"
	"fmt"
	"sort"

	"feedline/internal/core"
)

func (s *Store) Users() core.UserRepository { return &usersRepo{s} }

func (s *Store) Posts() core.PostRepository { return &postsRepo{s} }

func (s *Store) Follows() core.FollowRepository { return &followsRepo{s} }

func (s *Store) Likes() core.LikeRepository { return &likesRepo{s} }

func (s *Store) Comments() core.CommentRepository { return &commentsRepo{s} }

func (s *Store) NotificationsRepo() core.NotificationRepository { return &notificationsRepo{s} }

type usersRepo struct{ s *Store }

func (r *usersRepo) Get(_ context.Context, id int64) (*core.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", core.ErrNotFound, id)
	}
	return &user, nil
}

func (r *usersRepo) ListByIDs(_ context.Context, ids []int64) ([]core.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []core.User
	for _, id := range ids {
		if user, ok := r.s.users[id]; ok {
			list = append(list, user)
		}
	}
	return list, nil
}

type postsRepo struct{ s *Store }

func (r *postsRepo) Get(_ context.Context, id int64) (*core.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, fmt.Errorf("%w: post %d", core.ErrNotFound, id)
	}
	return &post, nil
}

func (r *postsRepo) SetLikeCount(_ context.Context, postID, count int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post, ok := r.s.posts[postID]
	if !ok {
		return nil
	}
	post.LikeCount = count
	r.s.posts[postID] = post
	return nil
}

func (r *postsRepo) SetCommentCount(_ context.Context, postID, count int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post, ok := r.s.posts[postID]
	if !ok {
		return nil
	}
	post.CommentCount = count
	r.s.posts[postID] = post
	return nil
}

func (r *postsRepo) ActiveByAuthors(_ context.Context, authorIDs []int64, offset, limit int) ([]core.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list := r.s.activeByAuthors(authorIDs)

	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *postsRepo) CountActiveByAuthors(_ context.Context, authorIDs []int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.s.activeByAuthors(authorIDs))), nil
}

func (s *Store) activeByAuthors(authorIDs []int64) []core.Post {
	wanted := map[int64]bool{}
	for _, id := range authorIDs {
		wanted[id] = true
	}

	var list []core.Post
	for _, post := range s.posts {
		if wanted[post.AuthorID] && post.IsActive {
			list = append(list, post)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list
}

type followsRepo struct{ s *Store }

func (r *followsRepo) Create(_ context.Context, followerID, followingID int64) (*core.Follow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, edge := range r.s.follows {
		if edge.FollowerID == followerID && edge.FollowingID == followingID {
			return nil, fmt.Errorf("%w: idx_follow_pair", core.ErrConflict)
		}
	}

	edge := core.Follow{
		ID:          r.s.id(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   r.s.tick(),
	}
	r.s.follows[edge.ID] = edge
	return &edge, nil
}

func (r *followsRepo) Delete(_ context.Context, followerID, followingID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, edge := range r.s.follows {
		if edge.FollowerID == followerID && edge.FollowingID == followingID {
			delete(r.s.follows, id)
			return nil
		}
	}
	return fmt.Errorf("%w: follow edge %d -> %d", core.ErrNotFound, followerID, followingID)
}

func (r *followsRepo) Exists(_ context.Context, followerID, followingID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, edge := range r.s.follows {
		if edge.FollowerID == followerID && edge.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *followsRepo) FollowingIDs(_ context.Context, followerID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var ids []int64
	for _, edge := range r.s.follows {
		if edge.FollowerID == followerID {
			ids = append(ids, edge.FollowingID)
		}
	}
	return ids, nil
}

func (r *followsRepo) Followers(_ context.Context, userID int64) ([]core.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []core.User
	for _, edge := range r.s.follows {
		if edge.FollowingID == userID {
			list = append(list, r.s.users[edge.FollowerID])
		}
	}
	return list, nil
}

func (r *followsRepo) Following(_ context.Context, userID int64) ([]core.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []core.User
	for _, edge := range r.s.follows {
		if edge.FollowerID == userID {
			list = append(list, r.s.users[edge.FollowingID])
		}
	}
	return list, nil
}

type likesRepo struct{ s *Store }

func (r *likesRepo) Create(_ context.Context, userID, postID int64) (*core.Like, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, edge := range r.s.likes {
		if edge.UserID == userID && edge.PostID == postID {
			return nil, fmt.Errorf("%w: idx_like_pair", core.ErrConflict)
		}
	}

	edge := core.Like{
		ID:        r.s.id(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: r.s.tick(),
	}
	r.s.likes[edge.ID] = edge
	return &edge, nil
}

func (r *likesRepo) Delete(_ context.Context, userID, postID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, edge := range r.s.likes {
		if edge.UserID == userID && edge.PostID == postID {
			delete(r.s.likes, id)
			return nil
		}
	}
	return fmt.Errorf("%w: like by user %d on post %d", core.ErrNotFound, userID, postID)
}

func (r *likesRepo) Exists(_ context.Context, userID, postID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, edge := range r.s.likes {
		if edge.UserID == userID && edge.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (r *likesRepo) CountForPost(_ context.Context, postID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, edge := range r.s.likes {
		if edge.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *likesRepo) CountForPosts(_ context.Context, postIDs []int64) (map[int64]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := map[int64]bool{}
	for _, id := range postIDs {
		wanted[id] = true
	}

	counts := map[int64]int64{}
	for _, edge := range r.s.likes {
		if wanted[edge.PostID] {
			counts[edge.PostID]++
		}
	}
	return counts, nil
}

func (r *likesRepo) LikedPostIDs(_ context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := map[int64]bool{}
	for _, id := range postIDs {
		wanted[id] = true
	}

	liked := map[int64]bool{}
	for _, edge := range r.s.likes {
		if edge.UserID == userID && wanted[edge.PostID] {
			liked[edge.PostID] = true
		}
	}
	return liked, nil
}

type commentsRepo struct{ s *Store }

func (r *commentsRepo) Create(_ context.Context, comment *core.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment.ID = r.s.id()
	comment.IsActive = true
	comment.CreatedAt = r.s.tick()
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r *commentsRepo) GetActive(_ context.Context, id int64) (*core.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment, ok := r.s.comments[id]
	if !ok || !comment.IsActive {
		return nil, fmt.Errorf("%w: comment %d", core.ErrNotFound, id)
	}
	return &comment, nil
}

func (r *commentsRepo) SoftDelete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment, ok := r.s.comments[id]
	if !ok || !comment.IsActive {
		return fmt.Errorf("%w: comment %d", core.ErrNotFound, id)
	}
	comment.IsActive = false
	r.s.comments[id] = comment
	return nil
}

func (r *commentsRepo) ListActiveForPost(_ context.Context, postID int64) ([]core.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []core.Comment
	for _, comment := range r.s.comments {
		if comment.PostID == postID && comment.IsActive {
			list = append(list, comment)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *commentsRepo) CountActiveForPost(_ context.Context, postID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, comment := range r.s.comments {
		if comment.PostID == postID && comment.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *commentsRepo) CountActiveForPosts(_ context.Context, postIDs []int64) (map[int64]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := map[int64]bool{}
	for _, id := range postIDs {
		wanted[id] = true
	}

	counts := map[int64]int64{}
	for _, comment := range r.s.comments {
		if wanted[comment.PostID] && comment.IsActive {
			counts[comment.PostID]++
		}
	}
	return counts, nil
}

type notificationsRepo struct{ s *Store }

func (r *notificationsRepo) Insert(_ context.Context, n *core.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n.ID = r.s.id()
	n.CreatedAt = r.s.tick()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r *notificationsRepo) ListForRecipient(_ context.Context, recipientID int64) ([]core.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []core.Notification
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID {
			list = append(list, n)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *notificationsRepo) MarkRead(_ context.Context, id, recipientID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return fmt.Errorf("%w: notification %d", core.ErrNotFound, id)
	}
	n.IsRead = true
	r.s.notifications[id] = n
	return nil
}

func (r *notificationsRepo) MarkAllRead(_ context.Context, recipientID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, n := range r.s.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
			r.s.notifications[id] = n
		}
	}
	return nil
}
