package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
	"github.com/clientspot/clientspot/shared/logger"
	"github.com/clientspot/clientspot/shared/middleware/metrics"
	"github.com/clientspot/clientspot/shared/utils"
)

const AccessTokenCookie = "accessToken"

// Authenticator resolves a session token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Key to store the user in the request context
type key int

const UserClaimsKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	authenticator Authenticator
	secureCookies bool
}

func NewAuth(authenticator Authenticator, secureCookies bool) *Auth {
	return &Auth{
		authenticator: authenticator,
		secureCookies: secureCookies,
	}
}

// NeedAuth returns middleware that requires authentication
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires admin authentication
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// SetSessionCookie stores token in the HttpOnly session cookie.
func (a *Auth) SetSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    token,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func (a *Auth) ClearSessionCookie(w http.ResponseWriter) {
	a.SetSessionCookie(w, "", -1)
}

func tokenFromRequest(r *http.Request) string {
	// cookie for browsers, bearer header for API clients
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return ""
}

func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	token := tokenFromRequest(r)
	if token == "" {
		return nil, errors.Unauthorized("no token")
	}
	return a.authenticator.Authenticate(r.Context(), token)
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				metrics.RecordAuthEvent("authenticate", metrics.OutcomeFailure)
				var e *errors.ErrorWithStatusCode
				if errors.As(err, &e) && e.Kind == errors.KindAuth {
					logger.Log.Warn("authentication failed", "path", r.URL.Path, "reason", e.Detail)
					http.Error(w, e.Message, e.StatusCode)
					return
				}
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			if adminOnly && !user.Admin {
				utils.WriteErrorAndStatusCode(w, errors.Forbidden("Admin only"))
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the user from the context
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
