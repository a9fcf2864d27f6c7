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

// Notifier delivers a message to an email address. Delivery is awaited.
type Notifier interface {
	Send(ctx context.Context, recipientEmail, subject, body string) error
}

type VerificationCodeStorage interface {
	SaveVerificationCode(ctx context.Context, code domain.VerificationCode) error
}

// CodeIssuer issues signup verification codes.
type CodeIssuer struct {
	storage  VerificationCodeStorage
	notifier Notifier
	codeLen  int
	now      func() time.Time
}

func NewCodeIssuer(storage VerificationCodeStorage, notifier Notifier, codeLen int) *CodeIssuer {
	return &CodeIssuer{storage: storage, notifier: notifier, codeLen: codeLen, now: time.Now}
}

// Issue persists a new code for email and mails it. Earlier codes are left in place
// but stop being honoured since only the latest one counts.
func (c *CodeIssuer) Issue(ctx context.Context, email domain.Email) (string, error) {
	code, err := utils.GenerateConfirmationCode(c.codeLen)
	if err != nil {
		logger.Log.Error("failed to generate verification code", "error", err)
		return "", err
	}

	now := c.now().UTC()
	record := domain.VerificationCode{
		Id:        uuid.New(),
		Email:     email,
		CodeHash:  utils.HashCode(code),
		CreatedAt: now,
		ExpiresAt: now.Add(domain.VerificationCodeTTL),
	}
	if err := c.storage.SaveVerificationCode(ctx, record); err != nil {
		logger.Log.Error("failed to save verification code", "email", email, "error", err)
		return "", err
	}

	body := fmt.Sprintf(`
		Hello,

		Your verification code is: %s

		Please sign up within three days, after that the code expires.

		If you did not request this, please ignore this email.
	`, code)
	if err := c.notifier.Send(ctx, email, "Verification code to sign up to ClientSpot", body); err != nil {
		logger.Log.Error("failed to send verification code", "email", email, "error", err)
		return "", errors.Upstream("send verification code: " + err.Error())
	}

	logger.Log.Info("verification code issued", "email", email)
	return code, nil
}
