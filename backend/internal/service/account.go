package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/clientspot/clientspot/backend/internal/utils"
	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
	"github.com/clientspot/clientspot/shared/logger"
	sharedutils "github.com/clientspot/clientspot/shared/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AccountService interface {
	SendSignupCode(ctx context.Context, identity *domain.User, email domain.Email) error
	Signup(ctx context.Context, in SignupInput) (domain.User, string, error)
	Login(ctx context.Context, email domain.Email, password domain.Password) (domain.User, string, error)
	Profile(ctx context.Context, identity *domain.User) (domain.User, error)
	UpdateProfile(ctx context.Context, identity *domain.User, patch domain.ProfilePatch) (domain.User, error)
	SendPasswordResetCode(ctx context.Context, email domain.Email) error
	ResetPassword(ctx context.Context, email domain.Email, otp string, newPassword domain.Password) error
	DeleteAccount(ctx context.Context, identity *domain.User, userId domain.UserId) error
	CreateAdmin(ctx context.Context, in AdminInput) (domain.User, error)
}

type AccountStorage interface {
	User(ctx context.Context, email domain.Email) (domain.User, error)
	UserById(ctx context.Context, id domain.UserId) (domain.User, error)
	SaveUser(ctx context.Context, user domain.User) (domain.UserId, error)
	SignupUser(ctx context.Context, user domain.User, codeId uuid.UUID) (domain.UserId, error)
	LatestVerificationCode(ctx context.Context, email domain.Email) (domain.VerificationCode, error)
	UpdateProfile(ctx context.Context, id domain.UserId, patch domain.ProfilePatch) (domain.User, error)
	UpdatePassword(ctx context.Context, email domain.Email, passHash string) error
	DeleteUser(ctx context.Context, id domain.UserId) error
}

// CodeSender issues a code for email and delivers it.
type CodeSender interface {
	Issue(ctx context.Context, email domain.Email) (string, error)
}

type SessionIssuer interface {
	Login(ctx context.Context, email domain.Email, password domain.Password) (domain.User, string, error)
	IssueToken(user domain.User) (string, error)
}

type SignupInput struct {
	Email     domain.Email
	FirstName string
	LastName  string
	Password1 domain.Password
	Password2 domain.Password
	Code      string
}

type AdminInput struct {
	Email     domain.Email
	FirstName string
	LastName  string
	Password  domain.Password
}

// Account orchestrates signup, login, profile, password reset and deletion.
type Account struct {
	storage   AccountStorage
	otps      ResetOTPStorage
	codes     CodeSender
	resets    CodeSender
	sessions  SessionIssuer
	passwords utils.PasswordValidator
	emails    utils.EmailValidator
	names     utils.NameValidator
	hashCost  int
	now       func() time.Time
}

func NewAccount(storage AccountStorage, otps ResetOTPStorage, codes, resets CodeSender, sessions SessionIssuer) *Account {
	return &Account{
		storage:  storage,
		otps:     otps,
		codes:    codes,
		resets:   resets,
		sessions: sessions,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (a *Account) SendSignupCode(ctx context.Context, identity *domain.User, email domain.Email) error {
	if err := RequireAdmin(identity); err != nil {
		return err
	}
	email = utils.NormalizeEmail(email)
	if err := a.emails.Validate(email); err != nil {
		return err
	}
	_, err := a.codes.Issue(ctx, email)
	return err
}

// Signup checks run in a fixed order and the first failure is returned.
func (a *Account) Signup(ctx context.Context, in SignupInput) (domain.User, string, error) {
	email := utils.NormalizeEmail(in.Email)
	if err := a.emails.Validate(email); err != nil {
		return domain.User{}, "", err
	}

	if err := a.ensureNoUser(ctx, email); err != nil {
		return domain.User{}, "", err
	}

	code, err := a.storage.LatestVerificationCode(ctx, email)
	if err != nil {
		return domain.User{}, "", err
	}
	if code.Expired(a.now()) {
		return domain.User{}, "", errors.Validation("Verification code has expired. Please request a new one")
	}
	// an older code never matches the latest hash
	if subtle.ConstantTimeCompare([]byte(sharedutils.HashCode(in.Code)), []byte(code.CodeHash)) != 1 {
		return domain.User{}, "", errors.InvalidCode("Invalid code")
	}

	if v := a.passwords.Validate(in.Password1); v != nil {
		return domain.User{}, "", v.AsError()
	}
	if in.Password1 != in.Password2 {
		return domain.User{}, "", errors.Validation("Passwords do not match")
	}
	if err := a.validateNames(in.FirstName, in.LastName); err != nil {
		return domain.User{}, "", err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), a.hashCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, "", err
	}

	user := domain.User{
		Id:        uuid.New(),
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		PassHash:  string(passHash),
		CreatedAt: a.now().UTC(),
	}
	if user.Id, err = a.storage.SignupUser(ctx, user, code.Id); err != nil {
		return domain.User{}, "", err
	}
	logger.Log.Info("user signed up", "user_id", user.Id, "email", email)

	token, err := a.sessions.IssueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user.WithoutHash(), token, nil
}

func (a *Account) ensureNoUser(ctx context.Context, email domain.Email) error {
	_, err := a.storage.User(ctx, email)
	switch {
	case err == nil:
		return errors.Conflict("User already exists")
	case errors.IsNotFound(err):
		return nil
	default:
		return err
	}
}

func (a *Account) validateNames(first, last string) error {
	if err := a.names.Validate("First name", first); err != nil {
		return err
	}
	return a.names.Validate("Last name", last)
}

func (a *Account) Login(ctx context.Context, email domain.Email, password domain.Password) (domain.User, string, error) {
	return a.sessions.Login(ctx, utils.NormalizeEmail(email), password)
}

func (a *Account) Profile(ctx context.Context, identity *domain.User) (domain.User, error) {
	if identity == nil {
		return domain.User{}, errors.Auth("Not authenticated")
	}
	user, err := a.storage.UserById(ctx, identity.Id)
	if err != nil {
		return domain.User{}, err
	}
	return user.WithoutHash(), nil
}

// UpdateProfile applies a patch. Present fields must be non-empty; absent ones are kept.
func (a *Account) UpdateProfile(ctx context.Context, identity *domain.User, patch domain.ProfilePatch) (domain.User, error) {
	if identity == nil {
		return domain.User{}, errors.Auth("Not authenticated")
	}
	if patch.Empty() {
		return a.Profile(ctx, identity)
	}

	if patch.FirstName != nil {
		if err := a.names.Validate("First name", *patch.FirstName); err != nil {
			return domain.User{}, err
		}
	}
	if patch.LastName != nil {
		if err := a.names.Validate("Last name", *patch.LastName); err != nil {
			return domain.User{}, err
		}
	}
	if patch.Email != nil {
		email := utils.NormalizeEmail(*patch.Email)
		if err := a.emails.Validate(email); err != nil {
			return domain.User{}, err
		}
		if email != identity.Email {
			if err := a.ensureNoUser(ctx, email); err != nil {
				return domain.User{}, err
			}
		}
		patch.Email = &email
	}

	user, err := a.storage.UpdateProfile(ctx, identity.Id, patch)
	if err != nil {
		return domain.User{}, err
	}
	logger.Log.Info("profile updated", "user_id", user.Id)
	return user.WithoutHash(), nil
}

func (a *Account) SendPasswordResetCode(ctx context.Context, email domain.Email) error {
	email = utils.NormalizeEmail(email)
	if err := a.emails.Validate(email); err != nil {
		return err
	}
	_, err := a.resets.Issue(ctx, email)
	return err
}

// ResetPassword consumes an OTP and sets the new password. The OTP survives
// any failure, so the user can retry with the same code.
func (a *Account) ResetPassword(ctx context.Context, email domain.Email, otp string, newPassword domain.Password) error {
	if v := a.passwords.Validate(newPassword); v != nil {
		return v.AsError()
	}

	email = utils.NormalizeEmail(email)
	if _, err := a.storage.User(ctx, email); err != nil {
		return err
	}

	record, err := a.otps.ResetOTP(ctx, email, sharedutils.HashCode(otp))
	if err != nil {
		return err
	}
	if record.Expired(a.now()) {
		return errors.Validation("Code has expired")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.hashCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}

	if committer, ok := a.otps.(ResetCommitter); ok {
		err = committer.CommitPasswordReset(ctx, record, string(passHash))
	} else {
		err = a.claimAndUpdatePassword(ctx, record, string(passHash))
	}
	if err != nil {
		return err
	}
	logger.Log.Info("password reset", "email", email)
	return nil
}

// claimAndUpdatePassword is used when the OTP store cannot share a transaction
// with the users table. The claim keeps concurrent resets exclusive and the OTP
// is saved back if the password update fails.
func (a *Account) claimAndUpdatePassword(ctx context.Context, record domain.PasswordResetOTP, passHash string) error {
	if err := a.otps.ClaimResetOTP(ctx, record); err != nil {
		return err
	}
	if err := a.storage.UpdatePassword(ctx, record.Email, passHash); err != nil {
		if restoreErr := a.otps.SaveResetOTP(ctx, record); restoreErr != nil {
			logger.Log.Error("failed to restore reset otp", "email", record.Email, "error", restoreErr)
		}
		return err
	}
	return nil
}

func (a *Account) DeleteAccount(ctx context.Context, identity *domain.User, userId domain.UserId) error {
	if err := RequireAdmin(identity); err != nil {
		return err
	}
	if err := a.storage.DeleteUser(ctx, userId); err != nil {
		return err
	}
	logger.Log.Info("account deleted", "user_id", userId, "by", identity.Id)
	return nil
}

// CreateAdmin bootstraps an administrator without a verification code.
func (a *Account) CreateAdmin(ctx context.Context, in AdminInput) (domain.User, error) {
	email := utils.NormalizeEmail(in.Email)
	if err := a.emails.Validate(email); err != nil {
		return domain.User{}, err
	}
	if err := a.validateNames(in.FirstName, in.LastName); err != nil {
		return domain.User{}, err
	}
	if v := a.passwords.Validate(in.Password); v != nil {
		return domain.User{}, v.AsError()
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.hashCost)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		Id:        uuid.New(),
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		PassHash:  string(passHash),
		Admin:     true,
		CreatedAt: a.now().UTC(),
	}
	if user.Id, err = a.storage.SaveUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	logger.Log.Info("admin created", "user_id", user.Id, "email", email)
	return user.WithoutHash(), nil
}
