package users

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

func (r *Repository) Get(ctx context.Context, id int64) (*core.User, error) {
	var user core.User
	err := r.DB.Model(ctx, &core.User{}).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", core.ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) ListByIDs(ctx context.Context, ids []int64) ([]core.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var list []core.User
	err := r.DB.Model(ctx, &core.User{}).
		Where("id IN (?)", ids).
		Find(&list).Error
	return list, err
}
