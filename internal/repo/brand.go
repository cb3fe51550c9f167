package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/query"
)

func (r *GormRepo) ListBrands(ctx context.Context, name, orderColumn string, desc bool) ([]models.Brand, error) {
	items := make([]models.Brand, 0)
	err := r.DB.WithContext(ctx).
		Scopes(query.Contains("brand_name", name), query.OrderBy(orderColumn, "brand_id", desc)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	var b models.Brand
	if err := r.DB.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepo) BrandExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.Brand{}, "brand_id", id)
}

func (r *GormRepo) BrandNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.taken(ctx, &models.Brand{}, "brand_name", "brand_id", name, excludeID)
}

func (r *GormRepo) CreateBrand(ctx context.Context, b *models.Brand) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *GormRepo) SaveBrand(ctx context.Context, b *models.Brand) error {
	return r.DB.WithContext(ctx).Save(b).Error
}

func (r *GormRepo) DeleteBrand(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.Brand{}, id)
}

// BrandInUse reports whether any product references the brand.
func (r *GormRepo) BrandInUse(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("brand_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
