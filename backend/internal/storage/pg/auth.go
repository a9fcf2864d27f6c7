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

const (
	usersEmailKey = "users_email_key"
	userColumns   = "id, email, first_name, last_name, password_hash, is_admin, created_at"
)

// =========================================================================
// Public Methods (satisfy service.AccountStorage)
// =========================================================================

func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.saveUser(ctx, s.db, user)
}

// SignupUser creates the user and consumes the verification code in one transaction.
// If the code was consumed concurrently nothing is written.
func (s *Storage) SignupUser(ctx context.Context, user domain.User, codeId uuid.UUID) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if id, err = s.saveUser(ctx, tx, user); err != nil {
			return err
		}
		if err := s.deleteVerificationCode(ctx, tx, codeId); err != nil {
			return err
		}
		// older codes for this email are useless once the account exists
		_, err = tx.ExecContext(ctx, "DELETE FROM verification_codes WHERE email = $1", user.Email)
		return err
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *Storage) User(ctx context.Context, email domain.Email) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

func (s *Storage) UserById(ctx context.Context, id domain.UserId) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

// UpdateProfile applies the non-nil fields of patch and returns the stored result.
func (s *Storage) UpdateProfile(ctx context.Context, id domain.UserId, patch domain.ProfilePatch) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	user, err := scanUser(s.db.QueryRowContext(ctx, `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			email      = COALESCE($4, email)
		WHERE id = $1
		RETURNING `+userColumns,
		id, nullString(patch.FirstName), nullString(patch.LastName), nullString(patch.Email)))
	if sharedpg.IsUniqueViolation(err, usersEmailKey) {
		return domain.User{}, errors.Conflict("Email is already in use")
	}
	return user, err
}

func (s *Storage) UpdatePassword(ctx context.Context, email domain.Email, passHash string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.updatePassword(ctx, s.db, email, passHash)
}

// DeleteUser removes the account. The schema cascades to the user's company.
func (s *Storage) DeleteUser(ctx context.Context, id domain.UserId) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectRows(result, errors.NotFound("User not found"))
}

func (s *Storage) SaveVerificationCode(ctx context.Context, code domain.VerificationCode) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO verification_codes(id, email, code_hash, created_at, expires_at) VALUES($1, $2, $3, $4, $5)",
		code.Id, code.Email, code.CodeHash, code.CreatedAt, code.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert verification code: %w", err)
	}
	return nil
}

// LatestVerificationCode returns the most recently issued code for email.
func (s *Storage) LatestVerificationCode(ctx context.Context, email domain.Email) (domain.VerificationCode, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var c domain.VerificationCode
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, code_hash, created_at, expires_at
		FROM verification_codes
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1`, email).Scan(&c.Id, &c.Email, &c.CodeHash, &c.CreatedAt, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VerificationCode{}, errors.InvalidCode("Verification code not found")
		}
		return domain.VerificationCode{}, fmt.Errorf("failed to query verification code: %w", err)
	}
	return c, nil
}

func (s *Storage) DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM verification_codes WHERE expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired verification codes: %w", err)
	}
	return result.RowsAffected()
}

// =========================================================================
// Internal Methods
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(ctx context.Context, q sharedpg.Querier, user domain.User) (domain.UserId, error) {
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	var id domain.UserId
	err := q.QueryRowContext(ctx, `
		INSERT INTO users(id, email, first_name, last_name, password_hash, is_admin)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		user.Id, user.Email, user.FirstName, user.LastName, user.PassHash, user.Admin).Scan(&id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err, usersEmailKey) {
			return uuid.Nil, errors.Conflict("User already exists")
		}
		return uuid.Nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) updatePassword(ctx context.Context, q sharedpg.Querier, email domain.Email, passHash string) error {
	result, err := q.ExecContext(ctx, "UPDATE users SET password_hash = $1 WHERE email = $2", passHash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectRows(result, errors.NotFound("User not found"))
}

func (s *Storage) deleteVerificationCode(ctx context.Context, q sharedpg.Querier, id uuid.UUID) error {
	result, err := q.ExecContext(ctx, "DELETE FROM verification_codes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete verification code: %w", err)
	}
	return expectRows(result, errors.InvalidCode("Verification code not found"))
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.Id, &u.Email, &u.FirstName, &u.LastName, &u.PassHash, &u.Admin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, errors.NotFound("User not found")
		}
		return domain.User{}, err
	}
	return u, nil
}

func expectRows(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
