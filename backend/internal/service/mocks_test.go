package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockAccountStorage struct {
	UserFunc                   func(email domain.Email) (domain.User, error)
	UserByIdFunc               func(id domain.UserId) (domain.User, error)
	SaveUserFunc               func(user domain.User) (domain.UserId, error)
	SignupUserFunc             func(user domain.User, codeId uuid.UUID) (domain.UserId, error)
	SaveVerificationCodeFunc   func(code domain.VerificationCode) error
	LatestVerificationCodeFunc func(email domain.Email) (domain.VerificationCode, error)
	UpdateProfileFunc          func(id domain.UserId, patch domain.ProfilePatch) (domain.User, error)
	UpdatePasswordFunc         func(email domain.Email, passHash string) error
	DeleteUserFunc             func(id domain.UserId) error
	DeleteExpiredCodesFunc     func(now time.Time) (int64, error)
}

func (m *MockAccountStorage) User(_ context.Context, email domain.Email) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(email)
	}
	return domain.User{}, errors.NotFound("User not found")
}

func (m *MockAccountStorage) UserById(_ context.Context, id domain.UserId) (domain.User, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(id)
	}
	return domain.User{}, errors.NotFound("User not found")
}

func (m *MockAccountStorage) SaveUser(_ context.Context, user domain.User) (domain.UserId, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(user)
	}
	return user.Id, nil
}

func (m *MockAccountStorage) SignupUser(_ context.Context, user domain.User, codeId uuid.UUID) (domain.UserId, error) {
	if m.SignupUserFunc != nil {
		return m.SignupUserFunc(user, codeId)
	}
	return user.Id, nil
}

func (m *MockAccountStorage) SaveVerificationCode(_ context.Context, code domain.VerificationCode) error {
	if m.SaveVerificationCodeFunc != nil {
		return m.SaveVerificationCodeFunc(code)
	}
	return nil
}

func (m *MockAccountStorage) LatestVerificationCode(_ context.Context, email domain.Email) (domain.VerificationCode, error) {
	if m.LatestVerificationCodeFunc != nil {
		return m.LatestVerificationCodeFunc(email)
	}
	return domain.VerificationCode{}, errors.InvalidCode("Verification code not found")
}

func (m *MockAccountStorage) UpdateProfile(_ context.Context, id domain.UserId, patch domain.ProfilePatch) (domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(id, patch)
	}
	return domain.User{Id: id}, nil
}

func (m *MockAccountStorage) UpdatePassword(_ context.Context, email domain.Email, passHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(email, passHash)
	}
	return nil
}

func (m *MockAccountStorage) DeleteUser(_ context.Context, id domain.UserId) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(id)
	}
	return nil
}

func (m *MockAccountStorage) DeleteExpiredVerificationCodes(_ context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredCodesFunc != nil {
		return m.DeleteExpiredCodesFunc(now)
	}
	return 0, nil
}

type MockOTPStorage struct {
	SaveResetOTPFunc          func(otp domain.PasswordResetOTP) error
	ResetOTPFunc              func(email domain.Email, codeHash string) (domain.PasswordResetOTP, error)
	ClaimResetOTPFunc         func(otp domain.PasswordResetOTP) error
	DeleteExpiredResetOTPFunc func(now time.Time) (int64, error)
}

func (m *MockOTPStorage) SaveResetOTP(_ context.Context, otp domain.PasswordResetOTP) error {
	if m.SaveResetOTPFunc != nil {
		return m.SaveResetOTPFunc(otp)
	}
	return nil
}

func (m *MockOTPStorage) ResetOTP(_ context.Context, email domain.Email, codeHash string) (domain.PasswordResetOTP, error) {
	if m.ResetOTPFunc != nil {
		return m.ResetOTPFunc(email, codeHash)
	}
	return domain.PasswordResetOTP{}, errors.InvalidCode("Invalid code")
}

func (m *MockOTPStorage) ClaimResetOTP(_ context.Context, otp domain.PasswordResetOTP) error {
	if m.ClaimResetOTPFunc != nil {
		return m.ClaimResetOTPFunc(otp)
	}
	return nil
}

func (m *MockOTPStorage) DeleteExpiredResetOTPs(_ context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredResetOTPFunc != nil {
		return m.DeleteExpiredResetOTPFunc(now)
	}
	return 0, nil
}

// MockTxOTPStorage commits resets in one call, like the Postgres store.
type MockTxOTPStorage struct {
	MockOTPStorage
	CommitPasswordResetFunc func(otp domain.PasswordResetOTP, passHash string) error
}

func (m *MockTxOTPStorage) CommitPasswordReset(_ context.Context, otp domain.PasswordResetOTP, passHash string) error {
	if m.CommitPasswordResetFunc != nil {
		return m.CommitPasswordResetFunc(otp, passHash)
	}
	return nil
}

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

type MockNotifier struct {
	mu       sync.Mutex
	SendFunc func(to, subject, body string) error
	Sent     []sentMessage
}

func (m *MockNotifier) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, sentMessage{to, subject, body})
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(to, subject, body)
	}
	return nil
}

type MockJwt struct {
	NewTokenFunc    func(user domain.User) (string, error)
	DecodeTokenFunc func(token string) (domain.UserId, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "token-" + user.Id.String(), nil
}

func (m *MockJwt) DecodeToken(token string) (domain.UserId, error) {
	if m.DecodeTokenFunc != nil {
		return m.DecodeTokenFunc(token)
	}
	return uuid.Nil, errors.Unauthorized("mock: no decoder")
}

type MockCodeSender struct {
	IssueFunc func(email domain.Email) (string, error)
	Issued    []domain.Email
}

func (m *MockCodeSender) Issue(_ context.Context, email domain.Email) (string, error) {
	m.Issued = append(m.Issued, email)
	if m.IssueFunc != nil {
		return m.IssueFunc(email)
	}
	return "CODE", nil
}

type MockCompanyStorage struct {
	CreateCompanyFunc func(company domain.Company) (domain.CompanyId, error)
	CompanyFunc       func(id domain.CompanyId) (domain.Company, error)
	CompaniesFunc     func() ([]domain.Company, error)
	UpdateCompanyFunc func(company domain.Company) error
	DeleteCompanyFunc func(id domain.CompanyId) error
}

func (m *MockCompanyStorage) CreateCompany(_ context.Context, company domain.Company) (domain.CompanyId, error) {
	if m.CreateCompanyFunc != nil {
		return m.CreateCompanyFunc(company)
	}
	return uuid.New(), nil
}

func (m *MockCompanyStorage) Company(_ context.Context, id domain.CompanyId) (domain.Company, error) {
	if m.CompanyFunc != nil {
		return m.CompanyFunc(id)
	}
	return domain.Company{}, errors.NotFound("Company not found")
}

func (m *MockCompanyStorage) Companies(_ context.Context) ([]domain.Company, error) {
	if m.CompaniesFunc != nil {
		return m.CompaniesFunc()
	}
	return nil, nil
}

func (m *MockCompanyStorage) UpdateCompany(_ context.Context, company domain.Company) error {
	if m.UpdateCompanyFunc != nil {
		return m.UpdateCompanyFunc(company)
	}
	return nil
}

func (m *MockCompanyStorage) DeleteCompany(_ context.Context, id domain.CompanyId) error {
	if m.DeleteCompanyFunc != nil {
		return m.DeleteCompanyFunc(id)
	}
	return nil
}

// --- Helpers ---

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func requireStatus(t *testing.T, err error, kind errors.Kind, status int) {
	t.Helper()
	var e *errors.ErrorWithStatusCode
	require.True(t, errors.As(err, &e), "expected tagged error, got %v", err)
	assert.Equal(t, kind, e.Kind, e.Message)
	assert.Equal(t, status, e.StatusCode, e.Message)
}
