package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
	"github.com/clientspot/clientspot/shared/logger"
	"github.com/clientspot/clientspot/shared/utils"
	"github.com/google/uuid"
)

// ResetOTPStorage is implemented by both the Postgres and the Redis stores.
type ResetOTPStorage interface {
	SaveResetOTP(ctx context.Context, otp domain.PasswordResetOTP) error
	ResetOTP(ctx context.Context, email domain.Email, codeHash string) (domain.PasswordResetOTP, error)
	ClaimResetOTP(ctx context.Context, otp domain.PasswordResetOTP) error
	DeleteExpiredResetOTPs(ctx context.Context, now time.Time) (int64, error)
}

// ResetCommitter is implemented by OTP stores that live next to the users table.
// The OTP is consumed and the password replaced in one transaction.
type ResetCommitter interface {
	CommitPasswordReset(ctx context.Context, otp domain.PasswordResetOTP, passHash string) error
}

type UserByEmail interface {
	User(ctx context.Context, email domain.Email) (domain.User, error)
}

// ResetIssuer issues password reset OTPs.
type ResetIssuer struct {
	users    UserByEmail
	otps     ResetOTPStorage
	notifier Notifier
	otpLen   int
	// when set, unknown emails look like a successful request
	uniformResponse bool
	now             func() time.Time
}

func NewResetIssuer(users UserByEmail, otps ResetOTPStorage, notifier Notifier, otpLen int, uniformResponse bool) *ResetIssuer {
	return &ResetIssuer{
		users:           users,
		otps:            otps,
		notifier:        notifier,
		otpLen:          otpLen,
		uniformResponse: uniformResponse,
		now:             time.Now,
	}
}

// Issue creates an OTP for an existing user and mails it. Older live OTPs stay valid.
// The returned code is empty when nothing was issued.
func (r *ResetIssuer) Issue(ctx context.Context, email domain.Email) (string, error) {
	if _, err := r.users.User(ctx, email); err != nil {
		if errors.IsNotFound(err) && r.uniformResponse {
			logger.Log.Info("password reset requested for unknown email", "email", email)
			return "", nil
		}
		return "", err
	}

	code, err := utils.GenerateOTP(r.otpLen)
	if err != nil {
		logger.Log.Error("failed to generate otp", "error", err)
		return "", err
	}

	otp := domain.PasswordResetOTP{
		Id:        uuid.New(),
		Email:     email,
		CodeHash:  utils.HashCode(code),
		ExpiresAt: r.now().UTC().Add(domain.PasswordResetTTL),
	}
	if err := r.otps.SaveResetOTP(ctx, otp); err != nil {
		logger.Log.Error("failed to save reset otp", "email", email, "error", err)
		return "", err
	}

	body := fmt.Sprintf(`
		Hello,

		Your password reset code is: %s

		The code expires in %d minutes.

		If you did not request this, please ignore this email.
	`, code, int(domain.PasswordResetTTL.Minutes()))
	if err := r.notifier.Send(ctx, email, "ClientSpot password reset", body); err != nil {
		logger.Log.Error("failed to send reset otp", "email", email, "error", err)
		return "", errors.Upstream("send reset otp: " + err.Error())
	}

	logger.Log.Info("password reset otp issued", "email", email)
	return code, nil
}
