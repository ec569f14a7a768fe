package feed

import (
	"context"
	"time"

	"github.com/samber/lo"

	"feedline/internal/core"
)

const PageSize = 20

type Author struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Item struct {
	ID           int64     `json:"id"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"image_url"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
	Author       Author    `json:"author"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	IsLiked      bool      `json:"is_liked"`
}

type Page struct {
	Page        int    `json:"page"`
	TotalPages  int    `json:"total_pages"`
	HasNext     bool   `json:"has_next"`
	HasPrevious bool   `json:"has_previous"`
	Results     []Item `json:"results"`
}

// Assembler computes the reverse-chronological feed of a viewer from their
// follow set. Like and comment counts are re-aggregated from live rows at
// read time rather than read from the cached post counters, so a stale cache
// never reaches the feed.
type Assembler struct {
	Follows  core.FollowRepository
	Posts    core.PostRepository
	Likes    core.LikeRepository
	Comments core.CommentRepository
	Users    core.UserRepository
}

// Assemble returns the viewer's feed page. Pages are 1-indexed; anything
// below 1 falls back to the first page, anything past the end comes back
// empty with has_next=false.
func (a *Assembler) Assemble(ctx context.Context, viewerID int64, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	followingIDs, err := a.Follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	total, err := a.Posts.CountActiveByAuthors(ctx, followingIDs)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	posts, err := a.Posts.ActiveByAuthors(ctx, followingIDs, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}

	items, err := a.annotate(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}

	return &Page{
		Page:        page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
		Results:     items,
	}, nil
}

func (a *Assembler) annotate(ctx context.Context, viewerID int64, posts []core.Post) ([]Item, error) {
	items := make([]Item, 0, len(posts))
	if len(posts) == 0 {
		return items, nil
	}

	postIDs := lo.Map(posts, func(p core.Post, _ int) int64 { return p.ID })

	likeCounts, err := a.Likes.CountForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := a.Comments.CountActiveForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	liked, err := a.Likes.LikedPostIDs(ctx, viewerID, postIDs)
	if err != nil {
		return nil, err
	}

	authorIDs := lo.Uniq(lo.Map(posts, func(p core.Post, _ int) int64 { return p.AuthorID }))
	authorList, err := a.Users.ListByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authors := lo.Associate(authorList, func(u core.User) (int64, core.User) {
		return u.ID, u
	})

	for _, post := range posts {
		author := authors[post.AuthorID]
		items = append(items, Item{
			ID:        post.ID,
			Content:   post.Content,
			ImageURL:  post.ImageURL,
			Category:  post.Category,
			CreatedAt: post.CreatedAt,
			Author: Author{
				ID:        author.ID,
				Username:  author.Username,
				FirstName: author.FirstName,
				LastName:  author.LastName,
			},
			LikeCount:    likeCounts[post.ID],
			CommentCount: commentCounts[post.ID],
			IsLiked:      liked[post.ID],
		})
	}

	return items, nil
}
