package service

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/query"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

// CustomerService is the admin side of customer accounts.
type CustomerService struct {
	Repo *repo.GormRepo
}

func (s *CustomerService) ListCustomers(ctx context.Context, p query.Params) (query.Page[models.Customer], error) {
	return s.Repo.ListCustomers(ctx, p)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	return lookup(s.Repo.GetCustomer(ctx, id))
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req transport.CustomerRequest) (*models.Customer, error) {
	userName := transport.Str(req.UserName)
	password := transport.Str(req.Password)
	if userName == "" {
		return nil, validation("user_name is required")
	}
	if password == "" {
		return nil, validation("password is required")
	}

	taken, err := s.Repo.UserNameTaken(ctx, userName, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation("user_name already exists")
	}

	email := transport.Optional(req.Email)
	if email != nil {
		taken, err := s.Repo.EmailTaken(ctx, *email, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, validation("email already exists")
		}
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	c := &models.Customer{
		UserName:  userName,
		Password:  hashed,
		FirstName: transport.Str(req.FirstName),
		LastName:  transport.Optional(req.LastName),
		Phone:     transport.Optional(req.Phone),
		Email:     email,
		Street:    transport.Optional(req.Street),
		City:      transport.Optional(req.City),
		State:     transport.Optional(req.State),
		ZipCode:   transport.Optional(req.ZipCode),
	}
	if err := onWrite(s.Repo.CreateCustomer(ctx, c), "user_name already exists"); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCustomer applies only the fields present in req. PUT and PATCH share it.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint, req transport.CustomerRequest) (*models.Customer, error) {
	c, err := lookup(s.Repo.GetCustomer(ctx, id))
	if err != nil {
		return nil, err
	}

	if req.UserName != nil {
		userName := transport.Str(req.UserName)
		if userName == "" {
			return nil, validation("user_name cannot be empty")
		}
		taken, err := s.Repo.UserNameTaken(ctx, userName, c.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, validation("user_name already exists")
		}
		c.UserName = userName
	}

	if req.Password != nil {
		raw := transport.Str(req.Password)
		if raw == "" {
			return nil, validation("password cannot be empty")
		}
		if !c.CheckPassword(raw) {
			hashed, err := hash.HashPassword(raw)
			if err != nil {
				return nil, err
			}
			c.Password = hashed
		}
	}

	if req.Email != nil {
		email := transport.Optional(req.Email)
		if email != nil {
			taken, err := s.Repo.EmailTaken(ctx, *email, c.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, validation("email already exists")
			}
		}
		c.Email = email
	}

	if req.FirstName != nil {
		c.FirstName = transport.Str(req.FirstName)
	}
	setOptional(&c.LastName, req.LastName)
	setOptional(&c.Phone, req.Phone)
	setOptional(&c.Street, req.Street)
	setOptional(&c.City, req.City)
	setOptional(&c.State, req.State)
	setOptional(&c.ZipCode, req.ZipCode)

	if err := onWrite(s.Repo.SaveCustomer(ctx, c), "user_name already exists"); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) error {
	if _, err := lookup(s.Repo.GetCustomer(ctx, id)); err != nil {
		return err
	}
	return onWrite(s.Repo.DeleteCustomer(ctx, id), "")
}

func setOptional(dst **string, v *string) {
	if v != nil {
		*dst = transport.Optional(v)
	}
}
