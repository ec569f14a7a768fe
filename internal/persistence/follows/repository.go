package follows

import (
	"context"
	"fmt"

	"feedline/internal/core"
	"feedline/internal/persistence/pgerr"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Create(ctx context.Context, followerID, followingID int64) (*core.Follow, error) {
	edge := core.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	err := r.DB.Model(ctx, &core.Follow{}).Create(&edge).Error
	if err != nil {
		return nil, pgerr.Translate(err)
	}
	return &edge, nil
}

func (r *Repository) Delete(ctx context.Context, followerID, followingID int64) error {
	res := r.DB.Model(ctx, &core.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&core.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: follow edge %d -> %d", core.ErrNotFound, followerID, followingID)
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	var count int64
	err := r.DB.Model(ctx, &core.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) FollowingIDs(ctx context.Context, followerID int64) ([]int64, error) {
	var ids []int64
	err := r.DB.Model(ctx, &core.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}

// Followers lists the users following userID.
func (r *Repository) Followers(ctx context.Context, userID int64) ([]core.User, error) {
	var list []core.User
	err := r.DB.Model(ctx, &core.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Find(&list).Error
	return list, err
}

// Following lists the users userID follows.
func (r *Repository) Following(ctx context.Context, userID int64) ([]core.User, error) {
	var list []core.User
	err := r.DB.Model(ctx, &core.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&list).Error
	return list, err
}
