package api

import (
	"time"

	"github.com/clientspot/clientspot/shared/domain"
)

type CreateCompanyRequest struct {
	Name           string              `json:"name" validate:"required"`
	ContactNumber  string              `json:"contact_number" validate:"required"`
	Description    string              `json:"description"`
	Services       []domain.Service    `json:"services,omitempty" validate:"dive"`
	OwnerName      string              `json:"owner_name"`
	OwnerSurname   string              `json:"owner_surname"`
	Address        domain.Address      `json:"address"`
	SocialLinks    domain.SocialLinks  `json:"social_links"`
	Banner         string              `json:"banner,omitempty"`
	ProfilePicture string              `json:"profile_picture,omitempty"`
	Images         []string            `json:"images,omitempty"`
	Attachments    []domain.Attachment `json:"attachments,omitempty"`
}

func (r CreateCompanyRequest) ToDomain() domain.Company {
	return domain.Company{
		Name:           r.Name,
		ContactNumber:  r.ContactNumber,
		Description:    r.Description,
		Services:       r.Services,
		OwnerName:      r.OwnerName,
		OwnerSurname:   r.OwnerSurname,
		Address:        r.Address,
		SocialLinks:    r.SocialLinks,
		Banner:         r.Banner,
		ProfilePicture: r.ProfilePicture,
		Images:         r.Images,
		Attachments:    r.Attachments,
	}
}

type UpdateCompanyRequest struct {
	Name           *string              `json:"name,omitempty"`
	ContactNumber  *string              `json:"contact_number,omitempty"`
	Description    *string              `json:"description,omitempty"`
	Services       *[]domain.Service    `json:"services,omitempty"`
	OwnerName      *string              `json:"owner_name,omitempty"`
	OwnerSurname   *string              `json:"owner_surname,omitempty"`
	Address        *domain.Address      `json:"address,omitempty"`
	SocialLinks    *domain.SocialLinks  `json:"social_links,omitempty"`
	Banner         *string              `json:"banner,omitempty"`
	ProfilePicture *string              `json:"profile_picture,omitempty"`
	Images         *[]string            `json:"images,omitempty"`
	Attachments    *[]domain.Attachment `json:"attachments,omitempty"`
}

func (r UpdateCompanyRequest) ToPatch() domain.CompanyPatch {
	return domain.CompanyPatch{
		Name:           r.Name,
		ContactNumber:  r.ContactNumber,
		Description:    r.Description,
		Services:       r.Services,
		OwnerName:      r.OwnerName,
		OwnerSurname:   r.OwnerSurname,
		Address:        r.Address,
		SocialLinks:    r.SocialLinks,
		Banner:         r.Banner,
		ProfilePicture: r.ProfilePicture,
		Images:         r.Images,
		Attachments:    r.Attachments,
	}
}

type CompanyResponse struct {
	Id              string              `json:"id"`
	Owner           string              `json:"owner"`
	Name            string              `json:"name"`
	ContactNumber   string              `json:"contact_number"`
	Email           string              `json:"email"`
	Description     string              `json:"description"`
	DescriptionHTML string              `json:"description_html"`
	Services        []domain.Service    `json:"services"`
	OwnerName       string              `json:"owner_name"`
	OwnerSurname    string              `json:"owner_surname"`
	Address         domain.Address      `json:"address"`
	SocialLinks     domain.SocialLinks  `json:"social_links"`
	Banner          string              `json:"banner"`
	ProfilePicture  string              `json:"profile_picture"`
	Images          []string            `json:"images"`
	Attachments     []domain.Attachment `json:"attachments"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func NewCompanyResponse(c domain.Company) CompanyResponse {
	return CompanyResponse{
		Id:              c.Id.String(),
		Owner:           c.Owner.String(),
		Name:            c.Name,
		ContactNumber:   c.ContactNumber,
		Email:           c.Email,
		Description:     c.Description,
		DescriptionHTML: c.DescriptionHTML,
		Services:        nonNil(c.Services),
		OwnerName:       c.OwnerName,
		OwnerSurname:    c.OwnerSurname,
		Address:         c.Address,
		SocialLinks:     c.SocialLinks,
		Banner:          c.Banner,
		ProfilePicture:  c.ProfilePicture,
		Images:          nonNil(c.Images),
		Attachments:     nonNil(c.Attachments),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

type CompanyListResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
