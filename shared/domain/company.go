package domain

import "time"

type Service struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Address struct {
	StreetName string `json:"street_name"`
	Town       string `json:"town"`
	City       string `json:"city"`
	Province   string `json:"province"`
	ZipCode    string `json:"zip_code"`
}

type SocialLinks struct {
	Website   string `json:"website,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
}

type Attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type Company struct {
	Id              CompanyId
	Owner           UserId
	Name            string
	ContactNumber   string
	Email           Email
	Description     string // markdown source
	DescriptionHTML string // sanitized render of Description
	Services        []Service
	OwnerName       string
	OwnerSurname    string
	Address         Address
	SocialLinks     SocialLinks
	Banner          string
	ProfilePicture  string
	Images          []string
	Attachments     []Attachment
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CompanyPatch is a merge patch, nil fields are left as they are.
type CompanyPatch struct {
	Name           *string
	ContactNumber  *string
	Description    *string
	Services       *[]Service
	OwnerName      *string
	OwnerSurname   *string
	Address        *Address
	SocialLinks    *SocialLinks
	Banner         *string
	ProfilePicture *string
	Images         *[]string
	Attachments    *[]Attachment
}

func (c *Company) Apply(p CompanyPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.ContactNumber != nil {
		c.ContactNumber = *p.ContactNumber
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Services != nil {
		c.Services = *p.Services
	}
	if p.OwnerName != nil {
		c.OwnerName = *p.OwnerName
	}
	if p.OwnerSurname != nil {
		c.OwnerSurname = *p.OwnerSurname
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.SocialLinks != nil {
		c.SocialLinks = *p.SocialLinks
	}
	if p.Banner != nil {
		c.Banner = *p.Banner
	}
	if p.ProfilePicture != nil {
		c.ProfilePicture = *p.ProfilePicture
	}
	if p.Images != nil {
		c.Images = *p.Images
	}
	if p.Attachments != nil {
		c.Attachments = *p.Attachments
	}
}
