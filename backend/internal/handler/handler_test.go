package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clientspot/clientspot/backend/internal/service"
	"github.com/clientspot/clientspot/shared/config"
	"github.com/clientspot/clientspot/shared/domain"
	mw "github.com/clientspot/clientspot/shared/middleware"
	"github.com/go-chi/chi/v5"
)

// --- Mocks ---

type MockAccountService struct {
	MockSendSignupCode        func(identity *domain.User, email domain.Email) error
	MockSignup                func(in service.SignupInput) (domain.User, string, error)
	MockLogin                 func(email domain.Email, password domain.Password) (domain.User, string, error)
	MockProfile               func(identity *domain.User) (domain.User, error)
	MockUpdateProfile         func(identity *domain.User, patch domain.ProfilePatch) (domain.User, error)
	MockSendPasswordResetCode func(email domain.Email) error
	MockResetPassword         func(email domain.Email, otp string, newPassword domain.Password) error
	MockDeleteAccount         func(identity *domain.User, userId domain.UserId) error
	MockCreateAdmin           func(in service.AdminInput) (domain.User, error)
}

func (m *MockAccountService) SendSignupCode(_ context.Context, identity *domain.User, email domain.Email) error {
	if m.MockSendSignupCode != nil {
		return m.MockSendSignupCode(identity, email)
	}
	return nil
}

func (m *MockAccountService) Signup(_ context.Context, in service.SignupInput) (domain.User, string, error) {
	if m.MockSignup != nil {
		return m.MockSignup(in)
	}
	return domain.User{}, "", nil
}

func (m *MockAccountService) Login(_ context.Context, email domain.Email, password domain.Password) (domain.User, string, error) {
	if m.MockLogin != nil {
		return m.MockLogin(email, password)
	}
	return domain.User{}, "", nil
}

func (m *MockAccountService) Profile(_ context.Context, identity *domain.User) (domain.User, error) {
	if m.MockProfile != nil {
		return m.MockProfile(identity)
	}
	return domain.User{}, nil
}

func (m *MockAccountService) UpdateProfile(_ context.Context, identity *domain.User, patch domain.ProfilePatch) (domain.User, error) {
	if m.MockUpdateProfile != nil {
		return m.MockUpdateProfile(identity, patch)
	}
	return domain.User{}, nil
}

func (m *MockAccountService) SendPasswordResetCode(_ context.Context, email domain.Email) error {
	if m.MockSendPasswordResetCode != nil {
		return m.MockSendPasswordResetCode(email)
	}
	return nil
}

func (m *MockAccountService) ResetPassword(_ context.Context, email domain.Email, otp string, newPassword domain.Password) error {
	if m.MockResetPassword != nil {
		return m.MockResetPassword(email, otp, newPassword)
	}
	return nil
}

func (m *MockAccountService) DeleteAccount(_ context.Context, identity *domain.User, userId domain.UserId) error {
	if m.MockDeleteAccount != nil {
		return m.MockDeleteAccount(identity, userId)
	}
	return nil
}

func (m *MockAccountService) CreateAdmin(_ context.Context, in service.AdminInput) (domain.User, error) {
	if m.MockCreateAdmin != nil {
		return m.MockCreateAdmin(in)
	}
	return domain.User{}, nil
}

type MockCompanyService struct {
	MockCreate      func(identity *domain.User, company domain.Company) (domain.Company, error)
	MockGet         func(id domain.CompanyId) (domain.Company, error)
	MockList        func() ([]domain.Company, error)
	MockUpdate      func(identity *domain.User, id domain.CompanyId, patch domain.CompanyPatch) (domain.Company, error)
	MockDelete      func(identity *domain.User, id domain.CompanyId) error
	MockAdminDelete func(identity *domain.User, id domain.CompanyId) error
}

func (m *MockCompanyService) Create(_ context.Context, identity *domain.User, company domain.Company) (domain.Company, error) {
	if m.MockCreate != nil {
		return m.MockCreate(identity, company)
	}
	return company, nil
}

func (m *MockCompanyService) Get(_ context.Context, id domain.CompanyId) (domain.Company, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.Company{Id: id}, nil
}

func (m *MockCompanyService) List(_ context.Context) ([]domain.Company, error) {
	if m.MockList != nil {
		return m.MockList()
	}
	return nil, nil
}

func (m *MockCompanyService) Update(_ context.Context, identity *domain.User, id domain.CompanyId, patch domain.CompanyPatch) (domain.Company, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(identity, id, patch)
	}
	return domain.Company{Id: id}, nil
}

func (m *MockCompanyService) Delete(_ context.Context, identity *domain.User, id domain.CompanyId) error {
	if m.MockDelete != nil {
		return m.MockDelete(identity, id)
	}
	return nil
}

func (m *MockCompanyService) AdminDelete(_ context.Context, identity *domain.User, id domain.CompanyId) error {
	if m.MockAdminDelete != nil {
		return m.MockAdminDelete(identity, id)
	}
	return nil
}

// --- Helpers ---

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func addUserToContext(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), mw.UserClaimsKey, user))
}

// setupTestHandler registers every route without the auth middleware;
// tests put the identity into the context themselves.
func setupTestHandler(account service.AccountService, company service.CompanyService) (*Handler, *chi.Mux) {
	cfg := &config.Config{Public: config.Public{JwtTTL: time.Hour}}
	h := New(account, company, mw.NewAuth(nil, false), cfg)

	r := chi.NewRouter()
	r.Post("/v1/admin/signup_codes", h.SendSignupCode)
	r.Delete("/v1/admin/users/{userId}", h.DeleteAccount)
	r.Delete("/v1/admin/companies/{companyId}", h.AdminDeleteCompany)
	r.Post("/v1/auth/signup", h.Signup)
	r.Post("/v1/auth/login", h.Login)
	r.Post("/v1/auth/logout", h.Logout)
	r.Post("/v1/auth/password_reset", h.SendPasswordResetCode)
	r.Post("/v1/auth/password_reset/confirm", h.ResetPassword)
	r.Get("/v1/users/profile", h.Profile)
	r.Put("/v1/users/profile", h.UpdateProfile)
	r.Get("/v1/companies", h.ListCompanies)
	r.Post("/v1/companies", h.CreateCompany)
	r.Get("/v1/companies/{companyId}", h.GetCompany)
	r.Put("/v1/companies/{companyId}", h.UpdateCompany)
	r.Delete("/v1/companies/{companyId}", h.DeleteCompany)
	return h, r
}
