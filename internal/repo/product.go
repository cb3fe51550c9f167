package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/query"
)

const productPK = "p.product_id"

// ProductOrderFields maps public order_by keys to sortable columns.
var ProductOrderFields = map[string]string{
	"id":            productPK,
	"product_id":    productPK,
	"name":          "p.product_name",
	"product_name":  "p.product_name",
	"price":         "p.list_price",
	"list_price":    "p.list_price",
	"year":          "p.model_year",
	"model_year":    "p.model_year",
	"brand":         "b.brand_name",
	"brand_name":    "b.brand_name",
	"brand_id":      "p.brand_id",
	"category":      "c.category_name",
	"category_name": "c.category_name",
	"category_id":   "p.category_id",
}

const productRowColumns = "p.product_id, p.product_name, p.brand_id, b.brand_name, " +
	"p.category_id, c.category_name, p.model_year, p.list_price"

func (r *GormRepo) productRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("products AS p").
		Joins("LEFT JOIN brands AS b ON b.brand_id = p.brand_id").
		Joins("LEFT JOIN categories AS c ON c.category_id = p.category_id")
}

func productFilters(p query.Params) []func(*gorm.DB) *gorm.DB {
	return []func(*gorm.DB) *gorm.DB{
		query.Contains("p.product_name", query.Trimmed(p, "name")),
		query.In("p.brand_id", query.CSVInts(p.Get("brand_id"))),
		query.In("p.category_id", query.CSVInts(p.Get("category_id"))),
		query.FloatRange("p.list_price", p.Get("min_price"), p.Get("max_price")),
		query.IntRange("p.model_year", p.Get("min_year"), p.Get("max_year")),
	}
}

// ListProducts filters, orders and slices the product listing. The total is counted before slicing.
func (r *GormRepo) ListProducts(ctx context.Context, p query.Params) (query.Page[models.ProductRow], error) {
	filters := productFilters(p)
	ord := query.ParseOrdering(p, ProductOrderFields, productPK)
	win := query.ParseWindow(p)

	var total int64
	if err := r.productRows(ctx).Scopes(filters...).Count(&total).Error; err != nil {
		return query.Page[models.ProductRow]{}, err
	}

	items := make([]models.ProductRow, 0)
	err := r.productRows(ctx).
		Select(productRowColumns).
		Scopes(filters...).
		Scopes(ord.Scope, win.Scope).
		Scan(&items).Error
	if err != nil {
		return query.Page[models.ProductRow]{}, err
	}

	return query.Page[models.ProductRow]{
		Items:      items,
		Pagination: win.Paginate(total),
		Ordering:   ord,
	}, nil
}

func (r *GormRepo) GetProductRow(ctx context.Context, id uint) (*models.ProductRow, error) {
	var rows []models.ProductRow
	err := r.productRows(ctx).
		Select(productRowColumns).
		Where(productPK+" = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// ProductRowsByIDs returns rows in the order of ids. Unknown ids are skipped.
func (r *GormRepo) ProductRowsByIDs(ctx context.Context, ids []uint) ([]models.ProductRow, error) {
	out := make([]models.ProductRow, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.ProductRow
	if err := r.productRows(ctx).Select(productRowColumns).Where(productPK+" IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.ProductRow, len(rows))
	for _, row := range rows {
		byID[row.ProductID] = row
	}
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// SearchProductRows is the database fallback for product search: a name substring match.
func (r *GormRepo) SearchProductRows(ctx context.Context, q string, offset, limit int) (int64, []models.ProductRow, error) {
	var total int64
	if err := r.productRows(ctx).Scopes(query.Contains("p.product_name", q)).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.ProductRow, 0, limit)
	err := r.productRows(ctx).
		Select(productRowColumns).
		Scopes(query.Contains("p.product_name", q), query.OrderBy("p.product_name", productPK, false)).
		Offset(offset).
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.Product{}, id)
}
