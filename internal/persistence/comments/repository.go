package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"feedline/internal/core"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Create(ctx context.Context, comment *core.Comment) error {
	comment.IsActive = true
	return r.DB.Model(ctx, &core.Comment{}).Create(comment).Error
}

func (r *Repository) GetActive(ctx context.Context, id int64) (*core.Comment, error) {
	var comment core.Comment
	err := r.DB.Model(ctx, &core.Comment{}).
		Where("id = ? AND is_active", id).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", core.ErrNotFound, id)
		}
		return nil, err
	}
	return &comment, nil
}

func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	res := r.DB.Model(ctx, &core.Comment{}).
		Where("id = ? AND is_active", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: comment %d", core.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) ListActiveForPost(ctx context.Context, postID int64) ([]core.Comment, error) {
	var list []core.Comment
	err := r.DB.Model(ctx, &core.Comment{}).
		Where("post_id = ? AND is_active", postID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) CountActiveForPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.DB.Model(ctx, &core.Comment{}).
		Where("post_id = ? AND is_active", postID).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountActiveForPosts(ctx context.Context, postIDs []int64) (map[int64]int64, error) {
	if len(postIDs) == 0 {
		return map[int64]int64{}, nil
	}

	var rows []postCount
	err := r.DB.Model(ctx, &core.Comment{}).
		Select("post_id, count(*) as count").
		Where("post_id IN (?) AND is_active", postIDs).
		Group("post_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return lo.Associate(rows, func(row postCount) (int64, int64) {
		return row.PostID, row.Count
	}), nil
}

type postCount struct {
	PostID int64
	Count  int64
}
