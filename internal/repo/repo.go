package repo

import (
	"context"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn with a repo bound to a single transaction.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

// taken reports whether a row other than excludeID has column equal to value, ignoring case.
func (r *GormRepo) taken(ctx context.Context, model any, column, pk, value string, excludeID uint) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(model).Where("LOWER("+column+") = LOWER(?)", value)
	if excludeID != 0 {
		q = q.Where(pk+" <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) exists(ctx context.Context, model any, pk string, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(model).Where(pk+" = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) deleteByID(ctx context.Context, model any, id uint) error {
	res := r.DB.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
