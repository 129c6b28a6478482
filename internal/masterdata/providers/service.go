package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateProviderRequest) (*Provider, error) {
	existing, err := s.repo.GetByCompany(ctx, ownerID, req.CompanyID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("check existing provider: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: provider for company already exists", shared.ErrDuplicate)
	}

	provider := Provider{
		OwnerID:   ownerID,
		CompanyID: req.CompanyID,
		Name:      req.Name,
		TaxID:     req.TaxID,
		Email:     req.Email,
		DueDays:   req.DueDays,
		IsActive:  true,
	}
	id, err := s.repo.Create(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) Update(ctx context.Context, ownerID, id int64, req UpdateProviderRequest) (*Provider, error) {
	if _, err := s.repo.Get(ctx, ownerID, id); err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.TaxID != nil {
		updates["tax_id"] = *req.TaxID
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.DueDays != nil {
		updates["due_days"] = *req.DueDays
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, ownerID, id, updates); err != nil {
			return nil, fmt.Errorf("update provider: %w", err)
		}
	}
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Provider, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// GetByCompany resolves the provider record for a counter-party company.
func (s *Service) GetByCompany(ctx context.Context, ownerID, companyID int64) (*Provider, error) {
	return s.repo.GetByCompany(ctx, ownerID, companyID)
}

func (s *Service) List(ctx context.Context, ownerID int64) ([]Provider, error) {
	return s.repo.List(ctx, ownerID)
}
