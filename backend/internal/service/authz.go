package service

import (
	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
)

// RequireOwner allows only the owner of a resource. A missing identity is
// always reported as unauthenticated, never as forbidden.
func RequireOwner(identity *domain.User, owner domain.UserId) error {
	if identity == nil {
		return errors.Auth("Not authenticated")
	}
	if identity.Id != owner {
		return errors.Forbidden("Not the owner")
	}
	return nil
}

func RequireAdmin(identity *domain.User) error {
	if identity == nil {
		return errors.Auth("Not authenticated")
	}
	if !identity.Admin {
		return errors.Forbidden("Admin only")
	}
	return nil
}
