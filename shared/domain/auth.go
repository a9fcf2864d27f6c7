package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	VerificationCodeTTL = 72 * time.Hour
	PasswordResetTTL    = 5 * time.Minute
)

// VerificationCode authorises one signup for Email. Many may exist per email,
// only the most recently created one is honoured.
type VerificationCode struct {
	Id        uuid.UUID
	Email     Email
	CodeHash  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (c VerificationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

type PasswordResetOTP struct {
	Id        uuid.UUID
	Email     Email
	CodeHash  string
	ExpiresAt time.Time
}

func (o PasswordResetOTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
