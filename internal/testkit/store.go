// Package testkit provides in-memory stand-ins for the persistence layer so
// service behavior can be exercised without a database.
package testkit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"feedline/internal/core"
)

// Store backs every fake repository with one set of maps, so cross-entity
// behavior (counter reconciliation, feed assembly) is observable exactly as
// it would be against one database.
type Store struct {
	mu     sync.Mutex
	nextID int64
	now    time.Time

	users         map[int64]core.User
	posts         map[int64]core.Post
	follows       map[int64]core.Follow
	likes         map[int64]core.Like
	comments      map[int64]core.Comment
	notifications map[int64]core.Notification
}

func NewStore() *Store {
	return &Store{
		now:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		users:         map[int64]core.User{},
		posts:         map[int64]core.Post{},
		follows:       map[int64]core.Follow{},
		likes:         map[int64]core.Like{},
		comments:      map[int64]core.Comment{},
		notifications: map[int64]core.Notification{},
	}
}

func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// tick returns a strictly increasing timestamp, so insertion order and
// creation order agree.
func (s *Store) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *Store) AddUser(username string) *core.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := core.User{
		ID:        s.id(),
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: s.tick(),
	}
	s.users[user.ID] = user
	return &user
}

func (s *Store) AddPost(authorID int64, content string, active bool) *core.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := core.Post{
		ID:        s.id(),
		AuthorID:  authorID,
		Content:   content,
		Category:  core.CategoryGeneral,
		IsActive:  active,
		CreatedAt: s.tick(),
	}
	post.UpdatedAt = post.CreatedAt
	s.posts[post.ID] = post
	return &post
}

// RemovePost hard-deletes the row, mimicking an upstream purge.
func (s *Store) RemovePost(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
}

func (s *Store) Post(id int64) (core.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	return post, ok
}

func (s *Store) Comment(id int64) (core.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	return comment, ok
}

func (s *Store) Notifications() []core.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []core.Notification
	for _, n := range s.notifications {
		list = append(list, n)
	}
	return list
}

// SetLikeCount corrupts the cached counter on purpose, for drift tests.
func (s *Store) SetLikeCount(postID, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.posts[postID]
	post.LikeCount = count
	s.posts[postID] = post
}

// core.DB implementation. Services only reach for InTx; the fake has no
// transactions, every write is immediately visible.

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) Model(context.Context, any) *gorm.DB {
	panic("testkit.Store does not serve gorm queries")
}

func (s *Store) EstimatedCount(tableName string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch tableName {
	case "users":
		return int64(len(s.users)), nil
	case "posts":
		return int64(len(s.posts)), nil
	case "follows":
		return int64(len(s.follows)), nil
	case "likes":
		return int64(len(s.likes)), nil
	case "comments":
		return int64(len(s.comments)), nil
	case "notifications":
		return int64(len(s.notifications)), nil
	default:
		return 0, fmt.Errorf("unknown table %s", tableName)
	}
}

func (s *Store) DB() (*sql.DB, error) {
	return nil, errors.New("testkit.Store has no sql.DB")
}
