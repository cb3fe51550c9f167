package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/query"
)

const customerPK = "customer_id"

var CustomerOrderFields = map[string]string{
	"id":          customerPK,
	"customer_id": customerPK,
	"username":    "user_name",
	"user_name":   "user_name",
	"first_name":  "first_name",
	"last_name":   "last_name",
	"email":       "email",
	"phone":       "phone",
}

func customerFilters(p query.Params) []func(*gorm.DB) *gorm.DB {
	return []func(*gorm.DB) *gorm.DB{
		query.ContainsAny(query.Trimmed(p, "q"), "user_name", "first_name", "last_name", "email", "phone"),
		query.Contains("user_name", query.Trimmed(p, "username")),
		query.Contains("email", query.Trimmed(p, "email")),
		query.Contains("phone", query.Trimmed(p, "phone")),
	}
}

func (r *GormRepo) ListCustomers(ctx context.Context, p query.Params) (query.Page[models.Customer], error) {
	filters := customerFilters(p)
	ord := query.ParseOrdering(p, CustomerOrderFields, customerPK)
	win := query.ParseWindow(p)

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Customer{}).Scopes(filters...).Count(&total).Error; err != nil {
		return query.Page[models.Customer]{}, err
	}

	items := make([]models.Customer, 0)
	err := r.DB.WithContext(ctx).
		Scopes(filters...).
		Scopes(ord.Scope, win.Scope).
		Find(&items).Error
	if err != nil {
		return query.Page[models.Customer]{}, err
	}

	return query.Page[models.Customer]{Items: items, Pagination: win.Paginate(total), Ordering: ord}, nil
}

func (r *GormRepo) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CustomerByUserName(ctx context.Context, userName string) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).Where("LOWER(user_name) = LOWER(?)", userName).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CustomerByIDAndEmail matches email case-insensitively.
func (r *GormRepo) CustomerByIDAndEmail(ctx context.Context, id uint, email string) (*models.Customer, error) {
	var c models.Customer
	err := r.DB.WithContext(ctx).
		Where("customer_id = ? AND LOWER(email) = LOWER(?)", id, email).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) UserNameTaken(ctx context.Context, userName string, excludeID uint) (bool, error) {
	return r.taken(ctx, &models.Customer{}, "user_name", customerPK, userName, excludeID)
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.taken(ctx, &models.Customer{}, "email", customerPK, email, excludeID)
}

func (r *GormRepo) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) SaveCustomer(ctx context.Context, c *models.Customer) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) MarkEmailVerified(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customer_id = ?", id).
		Update("is_email_verified", true).Error
}

// UpdatePassword stores an already hashed password.
func (r *GormRepo) UpdatePassword(ctx context.Context, id uint, hashed string) error {
	return r.DB.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customer_id = ?", id).
		Update("password", hashed).Error
}

func (r *GormRepo) DeleteCustomer(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.Customer{}, id)
}
