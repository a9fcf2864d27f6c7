package service

import (
	"context"

	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
	"github.com/clientspot/clientspot/shared/logger"
	"golang.org/x/crypto/bcrypt"
)

type UserStorage interface {
	User(ctx context.Context, email domain.Email) (domain.User, error)
	UserById(ctx context.Context, id domain.UserId) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (domain.UserId, error)
}

// Authenticator turns credentials into session tokens and tokens back into users.
type Authenticator struct {
	users UserStorage
	jwt   Jwt
}

func NewAuthenticator(users UserStorage, jwt Jwt) *Authenticator {
	return &Authenticator{users: users, jwt: jwt}
}

// Login checks the password and mints a token.
// An unknown email is reported as not found, a wrong password as invalid credentials.
func (a *Authenticator) Login(ctx context.Context, email domain.Email, password domain.Password) (domain.User, string, error) {
	user, err := a.users.User(ctx, email)
	if err != nil {
		return domain.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		logger.Log.Warn("login with wrong password", "email", email)
		return domain.User{}, "", errors.Auth("Invalid credentials")
	}

	token, err := a.IssueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user.WithoutHash(), token, nil
}

func (a *Authenticator) IssueToken(user domain.User) (string, error) {
	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create token", "user_id", user.Id, "error", err)
		return "", err
	}
	return token, nil
}

// Authenticate resolves a token to its user with the password hash stripped.
// Missing, forged, expired and orphaned tokens all fail with the same error.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	id, err := a.jwt.DecodeToken(token)
	if err != nil {
		var e *errors.ErrorWithStatusCode
		if errors.As(err, &e) && e.Kind == errors.KindAuth {
			return nil, e
		}
		return nil, errors.Unauthorized(err.Error())
	}

	user, err := a.users.UserById(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("token subject " + id.String() + " no longer exists")
		}
		return nil, err
	}

	user = user.WithoutHash()
	return &user, nil
}
