package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/query"
)

func (r *GormRepo) ListCategories(ctx context.Context, name, orderColumn string, desc bool) ([]models.Category, error) {
	items := make([]models.Category, 0)
	err := r.DB.WithContext(ctx).
		Scopes(query.Contains("category_name", name), query.OrderBy(orderColumn, "category_id", desc)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CategoryExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.Category{}, "category_id", id)
}

func (r *GormRepo) CategoryNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.taken(ctx, &models.Category{}, "category_name", "category_id", name, excludeID)
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.Category{}, id)
}

func (r *GormRepo) CategoryInUse(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
