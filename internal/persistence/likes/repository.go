package likes

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"feedline/internal/core"
	"feedline/internal/persistence/pgerr"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Create(ctx context.Context, userID, postID int64) (*core.Like, error) {
	edge := core.Like{
		UserID: userID,
		PostID: postID,
	}
	err := r.DB.Model(ctx, &core.Like{}).Create(&edge).Error
	if err != nil {
		return nil, pgerr.Translate(err)
	}
	return &edge, nil
}

func (r *Repository) Delete(ctx context.Context, userID, postID int64) error {
	res := r.DB.Model(ctx, &core.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&core.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: like by user %d on post %d", core.ErrNotFound, userID, postID)
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	var count int64
	err := r.DB.Model(ctx, &core.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CountForPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.DB.Model(ctx, &core.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountForPosts(ctx context.Context, postIDs []int64) (map[int64]int64, error) {
	if len(postIDs) == 0 {
		return map[int64]int64{}, nil
	}

	var rows []postCount
	err := r.DB.Model(ctx, &core.Like{}).
		Select("post_id, count(*) as count").
		Where("post_id IN (?)", postIDs).
		Group("post_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return lo.Associate(rows, func(row postCount) (int64, int64) {
		return row.PostID, row.Count
	}), nil
}

func (r *Repository) LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	if len(postIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var ids []int64
	err := r.DB.Model(ctx, &core.Like{}).
		Where("user_id = ? AND post_id IN (?)", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return lo.Associate(ids, func(id int64) (int64, bool) {
		return id, true
	}), nil
}

type postCount struct {
	PostID int64
	Count  int64
}
