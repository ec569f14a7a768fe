package posts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"feedline/internal/core"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Get(ctx context.Context, id int64) (*core.Post, error) {
	var post core.Post
	err := r.DB.Model(ctx, &core.Post{}).
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", core.ErrNotFound, id)
		}
		return nil, err
	}
	return &post, nil
}

// SetLikeCount writes a freshly recomputed counter back. A vanished post is
// not an error: the reconcile must never fail the edge mutation that
// triggered it.
func (r *Repository) SetLikeCount(ctx context.Context, postID, count int64) error {
	return r.DB.Model(ctx, &core.Post{}).
		Where("id = ?", postID).
		Update("like_count", count).Error
}

func (r *Repository) SetCommentCount(ctx context.Context, postID, count int64) error {
	return r.DB.Model(ctx, &core.Post{}).
		Where("id = ?", postID).
		Update("comment_count", count).Error
}

func (r *Repository) ActiveByAuthors(ctx context.Context, authorIDs []int64, offset, limit int) ([]core.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	var list []core.Post
	err := r.DB.Model(ctx, &core.Post{}).
		Where("author_id IN (?) AND is_active", authorIDs).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *Repository) CountActiveByAuthors(ctx context.Context, authorIDs []int64) (int64, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.DB.Model(ctx, &core.Post{}).
		Where("author_id IN (?) AND is_active", authorIDs).
		Count(&count).Error
	return count, err
}
