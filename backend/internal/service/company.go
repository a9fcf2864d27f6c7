package service

import (
	"context"

	"github.com/clientspot/clientspot/backend/internal/service/utils"
	validators "github.com/clientspot/clientspot/backend/internal/utils"
	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
	"github.com/clientspot/clientspot/shared/logger"
)

type CompanyService interface {
	Create(ctx context.Context, identity *domain.User, company domain.Company) (domain.Company, error)
	Get(ctx context.Context, id domain.CompanyId) (domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	Update(ctx context.Context, identity *domain.User, id domain.CompanyId, patch domain.CompanyPatch) (domain.Company, error)
	Delete(ctx context.Context, identity *domain.User, id domain.CompanyId) error
	AdminDelete(ctx context.Context, identity *domain.User, id domain.CompanyId) error
}

type CompanyStorage interface {
	CreateCompany(ctx context.Context, company domain.Company) (domain.CompanyId, error)
	Company(ctx context.Context, id domain.CompanyId) (domain.Company, error)
	Companies(ctx context.Context) ([]domain.Company, error)
	UpdateCompany(ctx context.Context, company domain.Company) error
	DeleteCompany(ctx context.Context, id domain.CompanyId) error
}

type Renderer interface {
	Render(text string) (string, error)
}

type Company struct {
	storage       CompanyStorage
	renderer      Renderer
	validator     validators.CompanyValidator
	defaultBanner string
}

func NewCompany(storage CompanyStorage, renderer Renderer, defaultBanner string) *Company {
	if renderer == nil {
		renderer = utils.NewTextProcessor()
	}
	return &Company{storage: storage, renderer: renderer, defaultBanner: defaultBanner}
}

// Create registers the caller's company. Contact email and owner names come from the account.
func (s *Company) Create(ctx context.Context, identity *domain.User, company domain.Company) (domain.Company, error) {
	if identity == nil {
		return domain.Company{}, errors.Auth("Not authenticated")
	}
	if err := s.validator.Name(company.Name); err != nil {
		return domain.Company{}, err
	}
	if err := s.validator.ContactNumber(company.ContactNumber); err != nil {
		return domain.Company{}, err
	}

	company.Owner = identity.Id
	company.Email = identity.Email
	if company.OwnerName == "" {
		company.OwnerName = identity.FirstName
	}
	if company.OwnerSurname == "" {
		company.OwnerSurname = identity.LastName
	}
	if company.Banner == "" {
		company.Banner = s.defaultBanner
	}

	id, err := s.storage.CreateCompany(ctx, company)
	if err != nil {
		return domain.Company{}, err
	}
	logger.Log.Info("company created", "company_id", id, "owner", identity.Id)
	return s.Get(ctx, id)
}

func (s *Company) Get(ctx context.Context, id domain.CompanyId) (domain.Company, error) {
	company, err := s.storage.Company(ctx, id)
	if err != nil {
		return domain.Company{}, err
	}
	return s.render(company)
}

func (s *Company) List(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.storage.Companies(ctx)
	if err != nil {
		return nil, err
	}
	for i := range companies {
		if companies[i], err = s.render(companies[i]); err != nil {
			return nil, err
		}
	}
	return companies, nil
}

// Update merges patch into the company. Only the owner may update.
func (s *Company) Update(ctx context.Context, identity *domain.User, id domain.CompanyId, patch domain.CompanyPatch) (domain.Company, error) {
	company, err := s.owned(ctx, identity, id)
	if err != nil {
		return domain.Company{}, err
	}

	if patch.Name != nil {
		if err := s.validator.Name(*patch.Name); err != nil {
			return domain.Company{}, err
		}
	}
	if patch.ContactNumber != nil {
		if err := s.validator.ContactNumber(*patch.ContactNumber); err != nil {
			return domain.Company{}, err
		}
	}

	company.Apply(patch)
	if err := s.storage.UpdateCompany(ctx, company); err != nil {
		return domain.Company{}, err
	}
	return s.Get(ctx, id)
}

func (s *Company) Delete(ctx context.Context, identity *domain.User, id domain.CompanyId) error {
	if _, err := s.owned(ctx, identity, id); err != nil {
		return err
	}
	if err := s.storage.DeleteCompany(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("company deleted", "company_id", id, "by", identity.Id)
	return nil
}

func (s *Company) AdminDelete(ctx context.Context, identity *domain.User, id domain.CompanyId) error {
	if err := RequireAdmin(identity); err != nil {
		return err
	}
	if err := s.storage.DeleteCompany(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("company deleted by admin", "company_id", id, "by", identity.Id)
	return nil
}

// owned loads a company and checks the caller owns it. An anonymous caller
// gets 401 before the lookup, a missing company 404, a foreign one 403.
func (s *Company) owned(ctx context.Context, identity *domain.User, id domain.CompanyId) (domain.Company, error) {
	if identity == nil {
		return domain.Company{}, errors.Auth("Not authenticated")
	}
	company, err := s.storage.Company(ctx, id)
	if err != nil {
		return domain.Company{}, err
	}
	if err := RequireOwner(identity, company.Owner); err != nil {
		return domain.Company{}, err
	}
	return company, nil
}

func (s *Company) render(company domain.Company) (domain.Company, error) {
	html, err := s.renderer.Render(company.Description)
	if err != nil {
		logger.Log.Error("failed to render company description", "company_id", company.Id, "error", err)
		return domain.Company{}, err
	}
	company.DescriptionHTML = html
	return company, nil
}
