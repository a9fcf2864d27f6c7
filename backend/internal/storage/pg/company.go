package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
	sharedpg "github.com/clientspot/clientspot/shared/storage/pg"
	"github.com/google/uuid"
)

const (
	companiesOwnerKey = "companies_owner_key"
	companyFrom       = " FROM companies c JOIN users u ON u.id = c.owner_id"

	// the contact email is the owner's current account email
	companyColumns = `c.id, c.owner_id, c.name, c.contact_number, u.email, c.description, c.owner_name, c.owner_surname,
		c.services, c.address, c.social_links, c.banner, c.profile_picture, c.images, c.attachments, c.created_at, c.updated_at`
)

// companyJSON holds the JSONB columns of a company row.
// lib/pq sends []byte as bytea, so values are passed to queries as strings.
type companyJSON struct {
	services    []byte
	address     []byte
	socialLinks []byte
	images      []byte
	attachments []byte
}

func marshalCompany(c domain.Company) (companyJSON, error) {
	var (
		out companyJSON
		err error
	)
	if out.services, err = json.Marshal(nonNil(c.Services)); err != nil {
		return out, err
	}
	if out.address, err = json.Marshal(c.Address); err != nil {
		return out, err
	}
	if out.socialLinks, err = json.Marshal(c.SocialLinks); err != nil {
		return out, err
	}
	if out.images, err = json.Marshal(nonNil(c.Images)); err != nil {
		return out, err
	}
	out.attachments, err = json.Marshal(nonNil(c.Attachments))
	return out, err
}

func (j companyJSON) unmarshalInto(c *domain.Company) error {
	for _, f := range []struct {
		src []byte
		dst any
	}{
		{j.services, &c.Services},
		{j.address, &c.Address},
		{j.socialLinks, &c.SocialLinks},
		{j.images, &c.Images},
		{j.attachments, &c.Attachments},
	} {
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return fmt.Errorf("failed to decode company column: %w", err)
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var (
		c domain.Company
		j companyJSON
	)
	err := row.Scan(&c.Id, &c.Owner, &c.Name, &c.ContactNumber, &c.Email, &c.Description, &c.OwnerName, &c.OwnerSurname,
		&j.services, &j.address, &j.socialLinks, &c.Banner, &c.ProfilePicture, &j.images, &j.attachments, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Company{}, err
	}
	if err := j.unmarshalInto(&c); err != nil {
		return domain.Company{}, err
	}
	return c, nil
}

func (s *Storage) CreateCompany(ctx context.Context, c domain.Company) (domain.CompanyId, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if c.Id == uuid.Nil {
		c.Id = uuid.New()
	}
	j, err := marshalCompany(c)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode company: %w", err)
	}

	var id domain.CompanyId
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO companies(id, owner_id, name, contact_number, description, owner_name, owner_surname,
			services, address, social_links, banner, profile_picture, images, attachments)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		c.Id, c.Owner, c.Name, c.ContactNumber, c.Description, c.OwnerName, c.OwnerSurname,
		string(j.services), string(j.address), string(j.socialLinks), c.Banner, c.ProfilePicture, string(j.images), string(j.attachments)).Scan(&id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err, companiesOwnerKey) {
			return uuid.Nil, errors.Conflict("User already has a company")
		}
		return uuid.Nil, fmt.Errorf("failed to insert company: %w", err)
	}
	return id, nil
}

func (s *Storage) Company(ctx context.Context, id domain.CompanyId) (domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	c, err := scanCompany(s.db.QueryRowContext(ctx, "SELECT "+companyColumns+companyFrom+" WHERE c.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Company{}, errors.NotFound("Company not found")
		}
		return domain.Company{}, fmt.Errorf("failed to query company: %w", err)
	}
	return c, nil
}

// Companies lists all companies, newest first.
func (s *Storage) Companies(ctx context.Context) ([]domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT "+companyColumns+companyFrom+" ORDER BY c.created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// UpdateCompany overwrites every editable column of c and bumps updated_at.
func (s *Storage) UpdateCompany(ctx context.Context, c domain.Company) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	j, err := marshalCompany(c)
	if err != nil {
		return fmt.Errorf("failed to encode company: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE companies SET
			name = $2, contact_number = $3, description = $4, owner_name = $5, owner_surname = $6,
			services = $7, address = $8, social_links = $9, banner = $10, profile_picture = $11,
			images = $12, attachments = $13, updated_at = now()
		WHERE id = $1`,
		c.Id, c.Name, c.ContactNumber, c.Description, c.OwnerName, c.OwnerSurname,
		string(j.services), string(j.address), string(j.socialLinks), c.Banner, c.ProfilePicture, string(j.images), string(j.attachments))
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	return expectRows(result, errors.NotFound("Company not found"))
}

func (s *Storage) DeleteCompany(ctx context.Context, id domain.CompanyId) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM companies WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return expectRows(result, errors.NotFound("Company not found"))
}
