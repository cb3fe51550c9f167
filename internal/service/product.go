package service

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/query"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

const (
	minModelYear = 1900
	maxModelYear = 2100

	maxProductNameLength = 255
	// list_price is numeric(10,2).
	maxListPrice = 99999999.99
)

// ProductIndex is a full-text index over products.
type ProductIndex interface {
	IndexProduct(ctx context.Context, row models.ProductRow) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, q string, from, size int) (int64, []uint, error)
}

type ProductService struct {
	Repo   *repo.GormRepo
	Events *Events
	Index  ProductIndex
}

const (
	SearchSourceIndex    = "index"
	SearchSourceDatabase = "database"
)

type SearchResult struct {
	Items      []models.ProductRow `json:"items"`
	Pagination query.Pagination    `json:"pagination"`
	Query      string              `json:"query"`
	Source     string              `json:"source"`
}

func (s *ProductService) ListProducts(ctx context.Context, p query.Params) (query.Page[models.ProductRow], error) {
	return s.Repo.ListProducts(ctx, p)
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.ProductRow, error) {
	return lookup(s.Repo.GetProductRow(ctx, id))
}

func (s *ProductService) AdminGetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return lookup(s.Repo.GetProduct(ctx, id))
}

// SearchProducts queries the index and falls back to a name match in the database
// when no index is configured or the index fails.
func (s *ProductService) SearchProducts(ctx context.Context, p query.Params) (*SearchResult, error) {
	l := logging.FromContext(ctx).With("svc", "product.search")

	q := query.Trimmed(p, "q")
	if q == "" {
		return nil, validation("q is required")
	}
	win := query.PageWindow(query.ParseIntDefault(p.Get("page"), 1), query.ParseIntDefault(p.Get("page_size"), query.DefaultPageSize))

	if s.Index != nil {
		total, ids, err := s.Index.SearchProducts(ctx, q, win.Offset, win.Limit)
		if err == nil {
			rows, err := s.Repo.ProductRowsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return &SearchResult{Items: rows, Pagination: win.Paginate(total), Query: q, Source: SearchSourceIndex}, nil
		}
		l.Warn("search_index_error", "reason", "falling back to database", "error", err)
	}

	total, rows, err := s.Repo.SearchProductRows(ctx, q, win.Offset, win.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Items: rows, Pagination: win.Paginate(total), Query: q, Source: SearchSourceDatabase}, nil
}

func (s *ProductService) checkRefs(ctx context.Context, p *models.Product) error {
	if p.BrandID != nil {
		ok, err := s.Repo.BrandExists(ctx, *p.BrandID)
		if err != nil {
			return err
		}
		if !ok {
			return validation("brand_id does not exist")
		}
	}
	if p.CategoryID != nil {
		ok, err := s.Repo.CategoryExists(ctx, *p.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return validation("category_id does not exist")
		}
	}
	return nil
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return validation("product_name is required")
	}
	if utf8.RuneCountInString(p.Name) > maxProductNameLength {
		return validation("product_name is too long")
	}
	if p.ModelYear < minModelYear || p.ModelYear > maxModelYear {
		return validation("model_year must be between 1900 and 2100")
	}
	if p.ListPrice < 0 {
		return validation("list_price must be >= 0")
	}
	if p.ListPrice > maxListPrice {
		return validation("list_price must be <= 99999999.99")
	}
	return nil
}

func applyProduct(p *models.Product, req transport.ProductRequest) {
	if req.ProductName != nil {
		p.Name = transport.Str(req.ProductName)
	}
	if req.BrandID.Set {
		p.BrandID = req.BrandID.Value
	}
	if req.CategoryID.Set {
		p.CategoryID = req.CategoryID.Value
	}
	if req.ModelYear != nil {
		p.ModelYear = *req.ModelYear
	}
	if req.ListPrice != nil {
		p.ListPrice = math.Round(*req.ListPrice*100) / 100
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.ProductRow, error) {
	if req.ModelYear == nil {
		return nil, validation("model_year is required")
	}
	if req.ListPrice == nil {
		return nil, validation("list_price is required")
	}

	var p models.Product
	applyProduct(&p, req)
	if err := validateProduct(&p); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, &p); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		return nil, err
	}

	return s.afterWrite(ctx, "product_created", p.ID)
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.ProductRow, error) {
	p, err := lookup(s.Repo.GetProduct(ctx, id))
	if err != nil {
		return nil, err
	}

	applyProduct(p, req)
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, p); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}

	return s.afterWrite(ctx, "product_updated", p.ID)
}

// afterWrite reloads the listing row, refreshes the index entry and emits the event.
func (s *ProductService) afterWrite(ctx context.Context, event string, id uint) (*models.ProductRow, error) {
	row, err := s.Repo.GetProductRow(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, *row); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "product_id", id, "error", err)
		}
	}
	s.Events.emit(ctx, event, id, map[string]any{"name": row.ProductName, "list_price": row.ListPrice})
	return row, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := lookup(s.Repo.GetProduct(ctx, id)); err != nil {
		return err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return onWrite(err, "")
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "product_id", id, "error", err)
		}
	}
	s.Events.emit(ctx, "product_deleted", id, nil)
	return nil
}
