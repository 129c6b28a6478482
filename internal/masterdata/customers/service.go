package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
)

// Service handles customer business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.GetByCompany(ctx, ownerID, req.CompanyID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("check existing customer: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: customer for company already exists", shared.ErrDuplicate)
	}

	language := req.Language
	if language == "" {
		language = "es"
	}

	customer := Customer{
		OwnerID:   ownerID,
		CompanyID: req.CompanyID,
		Name:      req.Name,
		TaxID:     req.TaxID,
		Email:     req.Email,
		DueDays:   req.DueDays,
		Language:  language,
		IsActive:  true,
	}

	id, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) Update(ctx context.Context, ownerID, id int64, req UpdateCustomerRequest) (*Customer, error) {
	if _, err := s.repo.Get(ctx, ownerID, id); err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
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
	if req.Language != nil {
		updates["language"] = *req.Language
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, ownerID, id, updates); err != nil {
			return nil, fmt.Errorf("update customer: %w", err)
		}
	}
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Customer, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// GetByCompany resolves the customer record for a counter-party company.
func (s *Service) GetByCompany(ctx context.Context, ownerID, companyID int64) (*Customer, error) {
	return s.repo.GetByCompany(ctx, ownerID, companyID)
}

func (s *Service) List(ctx context.Context, ownerID int64, req ListCustomersRequest) ([]Customer, error) {
	return s.repo.List(ctx, ownerID, req)
}
