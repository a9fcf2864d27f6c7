package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
	sharedpg "github.com/clientspot/clientspot/shared/storage/pg"
	"github.com/google/uuid"
)

func (s *Storage) SaveResetOTP(ctx context.Context, otp domain.PasswordResetOTP) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO password_reset_otps(id, email, code_hash, expires_at) VALUES($1, $2, $3, $4)",
		otp.Id, otp.Email, otp.CodeHash, otp.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert reset otp: %w", err)
	}
	return nil
}

// ResetOTP looks an OTP up by the exact (email, code) pair. Expired rows are returned too.
func (s *Storage) ResetOTP(ctx context.Context, email domain.Email, codeHash string) (domain.PasswordResetOTP, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var o domain.PasswordResetOTP
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, code_hash, expires_at
		FROM password_reset_otps
		WHERE email = $1 AND code_hash = $2
		ORDER BY expires_at DESC
		LIMIT 1`, email, codeHash).Scan(&o.Id, &o.Email, &o.CodeHash, &o.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PasswordResetOTP{}, errors.InvalidCode("Invalid code")
		}
		return domain.PasswordResetOTP{}, fmt.Errorf("failed to query reset otp: %w", err)
	}
	return o, nil
}

// ClaimResetOTP deletes the OTP. Only one caller can succeed for a given OTP.
func (s *Storage) ClaimResetOTP(ctx context.Context, otp domain.PasswordResetOTP) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.claimResetOTP(ctx, s.db, otp.Id)
}

// CommitPasswordReset consumes otp and stores the new password hash in one transaction.
// If either step fails the OTP stays usable and the password is unchanged.
func (s *Storage) CommitPasswordReset(ctx context.Context, otp domain.PasswordResetOTP, passHash string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.claimResetOTP(ctx, tx, otp.Id); err != nil {
			return err
		}
		return s.updatePassword(ctx, tx, otp.Email, passHash)
	})
}

func (s *Storage) DeleteExpiredResetOTPs(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM password_reset_otps WHERE expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset otps: %w", err)
	}
	return result.RowsAffected()
}

func (s *Storage) claimResetOTP(ctx context.Context, q sharedpg.Querier, id uuid.UUID) error {
	result, err := q.ExecContext(ctx, "DELETE FROM password_reset_otps WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete reset otp: %w", err)
	}
	return expectRows(result, errors.InvalidCode("Invalid code"))
}
