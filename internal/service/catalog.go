package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/query"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

// CatalogService owns brands and categories.
type CatalogService struct {
	Repo   *repo.GormRepo
	Events *Events
}

func descending(p query.Params) bool {
	return strings.ToLower(query.Trimmed(p, "order")) != query.Asc
}

// ListBrands is the public listing: name substring, ordered by name.
func (s *CatalogService) ListBrands(ctx context.Context, p query.Params) ([]models.Brand, error) {
	return s.Repo.ListBrands(ctx, query.Trimmed(p, "name"), "brand_name", descending(p))
}

// AdminListBrands returns the newest brands first.
func (s *CatalogService) AdminListBrands(ctx context.Context, p query.Params) ([]models.Brand, error) {
	return s.Repo.ListBrands(ctx, query.Trimmed(p, "name"), "created_at", true)
}

func (s *CatalogService) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	return lookup(s.Repo.GetBrand(ctx, id))
}

func (s *CatalogService) CreateBrand(ctx context.Context, req transport.BrandRequest) (*models.Brand, error) {
	name := transport.Str(req.BrandName)
	if name == "" {
		return nil, validation("brand_name is required")
	}
	taken, err := s.Repo.BrandNameTaken(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation("brand_name already exists")
	}

	b := &models.Brand{Name: name}
	if err := onWrite(s.Repo.CreateBrand(ctx, b), "brand_name already exists"); err != nil {
		return nil, err
	}
	s.Events.emit(ctx, "brand_created", b.ID, map[string]any{"name": b.Name})
	return b, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id uint, req transport.BrandRequest) (*models.Brand, error) {
	b, err := lookup(s.Repo.GetBrand(ctx, id))
	if err != nil {
		return nil, err
	}

	if req.BrandName != nil {
		name := transport.Str(req.BrandName)
		if name == "" {
			return nil, validation("brand_name cannot be empty")
		}
		taken, err := s.Repo.BrandNameTaken(ctx, name, b.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, validation("brand_name already exists")
		}
		b.Name = name
	}

	if err := onWrite(s.Repo.SaveBrand(ctx, b), "brand_name already exists"); err != nil {
		return nil, err
	}
	s.Events.emit(ctx, "brand_updated", b.ID, map[string]any{"name": b.Name})
	return b, nil
}

func (s *CatalogService) DeleteBrand(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_brand")

	if _, err := lookup(s.Repo.GetBrand(ctx, id)); err != nil {
		return err
	}
	inUse, err := s.Repo.BrandInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		l.Warn("delete_brand_refused", "brand_id", id, "reason", "referenced by products")
		return conflict("brand is referenced by products")
	}
	if err := onWrite(s.Repo.DeleteBrand(ctx, id), ""); err != nil {
		return err
	}
	s.Events.emit(ctx, "brand_deleted", id, nil)
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context, p query.Params) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx, query.Trimmed(p, "name"), "category_name", descending(p))
}

func (s *CatalogService) AdminListCategories(ctx context.Context, p query.Params) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx, query.Trimmed(p, "name"), "created_at", true)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return lookup(s.Repo.GetCategory(ctx, id))
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	name := transport.Str(req.CategoryName)
	if name == "" {
		return nil, validation("category_name is required")
	}
	taken, err := s.Repo.CategoryNameTaken(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation("category_name already exists")
	}

	c := &models.Category{Name: name}
	if err := onWrite(s.Repo.CreateCategory(ctx, c), "category_name already exists"); err != nil {
		return nil, err
	}
	s.Events.emit(ctx, "category_created", c.ID, map[string]any{"name": c.Name})
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req transport.CategoryRequest) (*models.Category, error) {
	c, err := lookup(s.Repo.GetCategory(ctx, id))
	if err != nil {
		return nil, err
	}

	if req.CategoryName != nil {
		name := transport.Str(req.CategoryName)
		if name == "" {
			return nil, validation("category_name cannot be empty")
		}
		taken, err := s.Repo.CategoryNameTaken(ctx, name, c.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, validation("category_name already exists")
		}
		c.Name = name
	}

	if err := onWrite(s.Repo.SaveCategory(ctx, c), "category_name already exists"); err != nil {
		return nil, err
	}
	s.Events.emit(ctx, "category_updated", c.ID, map[string]any{"name": c.Name})
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := lookup(s.Repo.GetCategory(ctx, id)); err != nil {
		return err
	}
	inUse, err := s.Repo.CategoryInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return conflict("category is referenced by products")
	}
	if err := onWrite(s.Repo.DeleteCategory(ctx, id), ""); err != nil {
		return err
	}
	s.Events.emit(ctx, "category_deleted", id, nil)
	return nil
}
