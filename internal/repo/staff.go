package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/query"
)

const staffPK = "staff_id"

var StaffOrderFields = map[string]string{
	"id":         staffPK,
	"staff_id":   staffPK,
	"username":   "username",
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"active":     "active",
	"store_id":   "store_id",
}

func staffFilters(p query.Params) []func(*gorm.DB) *gorm.DB {
	active, ok := query.Bool(p.Get("active"))
	return []func(*gorm.DB) *gorm.DB{
		query.ContainsAny(query.Trimmed(p, "q"), "username", "first_name", "last_name", "email", "phone"),
		query.Contains("username", query.Trimmed(p, "username")),
		query.Contains("email", query.Trimmed(p, "email")),
		query.Contains("phone", query.Trimmed(p, "phone")),
		query.Equal("active", active, ok),
		query.In("store_id", query.CSVInts(p.Get("store_id"))),
		query.In("manager_id", query.CSVInts(p.Get("manager_id"))),
	}
}

func (r *GormRepo) ListStaff(ctx context.Context, p query.Params) (query.Page[models.Staff], error) {
	filters := staffFilters(p)
	ord := query.ParseOrdering(p, StaffOrderFields, staffPK)
	win := query.ParseWindow(p)

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Staff{}).Scopes(filters...).Count(&total).Error; err != nil {
		return query.Page[models.Staff]{}, err
	}

	items := make([]models.Staff, 0)
	err := r.DB.WithContext(ctx).
		Scopes(filters...).
		Scopes(ord.Scope, win.Scope).
		Find(&items).Error
	if err != nil {
		return query.Page[models.Staff]{}, err
	}

	return query.Page[models.Staff]{Items: items, Pagination: win.Paginate(total), Ordering: ord}, nil
}

func (r *GormRepo) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	var s models.Staff
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) StaffExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.Staff{}, staffPK, id)
}

func (r *GormRepo) StaffUsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.taken(ctx, &models.Staff{}, "username", staffPK, username, excludeID)
}

func (r *GormRepo) CreateStaff(ctx context.Context, s *models.Staff) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SaveStaff(ctx context.Context, s *models.Staff) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

// DeleteStaff removes the member and detaches their subordinates in one transaction.
func (r *GormRepo) DeleteStaff(ctx context.Context, id uint) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		if err := tx.DB.Model(&models.Staff{}).Where("manager_id = ?", id).Update("manager_id", nil).Error; err != nil {
			return err
		}
		return tx.deleteByID(ctx, &models.Staff{}, id)
	})
}
