package service

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/query"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type StaffService struct {
	Repo *repo.GormRepo
}

func (s *StaffService) ListStaff(ctx context.Context, p query.Params) (query.Page[models.Staff], error) {
	return s.Repo.ListStaff(ctx, p)
}

func (s *StaffService) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	return lookup(s.Repo.GetStaff(ctx, id))
}

func (s *StaffService) checkManager(ctx context.Context, selfID uint, managerID *uint) error {
	if managerID == nil {
		return nil
	}
	if selfID != 0 && *managerID == selfID {
		return validation("manager_id cannot reference itself")
	}
	ok, err := s.Repo.StaffExists(ctx, *managerID)
	if err != nil {
		return err
	}
	if !ok {
		return validation("manager_id does not exist")
	}
	return nil
}

func (s *StaffService) CreateStaff(ctx context.Context, req transport.StaffRequest) (*models.Staff, error) {
	username := transport.Str(req.Username)
	password := transport.Str(req.Password)
	if username == "" {
		return nil, validation("username is required")
	}
	if password == "" {
		return nil, validation("password is required")
	}

	taken, err := s.Repo.StaffUsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation("username already exists")
	}
	if err := s.checkManager(ctx, 0, req.ManagerID.Value); err != nil {
		return nil, err
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	st := &models.Staff{
		Username:  username,
		Password:  hashed,
		FirstName: transport.Str(req.FirstName),
		LastName:  transport.Optional(req.LastName),
		Email:     transport.Optional(req.Email),
		Phone:     transport.Optional(req.Phone),
		Active:    true,
		StoreID:   req.StoreID,
		ManagerID: req.ManagerID.Value,
	}
	if req.Active != nil {
		st.Active = *req.Active
	}

	if err := onWrite(s.Repo.CreateStaff(ctx, st), "username already exists"); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StaffService) UpdateStaff(ctx context.Context, id uint, req transport.StaffRequest) (*models.Staff, error) {
	st, err := lookup(s.Repo.GetStaff(ctx, id))
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := transport.Str(req.Username)
		if username == "" {
			return nil, validation("username cannot be empty")
		}
		taken, err := s.Repo.StaffUsernameTaken(ctx, username, st.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, validation("username already exists")
		}
		st.Username = username
	}

	if req.Password != nil {
		raw := transport.Str(req.Password)
		if raw == "" {
			return nil, validation("password cannot be empty")
		}
		if !hash.CheckPassword(st.Password, raw) {
			hashed, err := hash.HashPassword(raw)
			if err != nil {
				return nil, err
			}
			st.Password = hashed
		}
	}

	if req.ManagerID.Set {
		if err := s.checkManager(ctx, st.ID, req.ManagerID.Value); err != nil {
			return nil, err
		}
		st.ManagerID = req.ManagerID.Value
	}

	if req.FirstName != nil {
		st.FirstName = transport.Str(req.FirstName)
	}
	setOptional(&st.LastName, req.LastName)
	setOptional(&st.Email, req.Email)
	setOptional(&st.Phone, req.Phone)
	if req.Active != nil {
		st.Active = *req.Active
	}
	if req.StoreID != nil {
		st.StoreID = req.StoreID
	}

	if err := onWrite(s.Repo.SaveStaff(ctx, st), "username already exists"); err != nil {
		return nil, err
	}
	return st, nil
}

// DeleteStaff detaches subordinates before removing the member.
func (s *StaffService) DeleteStaff(ctx context.Context, id uint) error {
	if _, err := lookup(s.Repo.GetStaff(ctx, id)); err != nil {
		return err
	}
	return onWrite(s.Repo.DeleteStaff(ctx, id), "")
}
