// Package redis stores password reset OTPs in Redis and relies on key TTLs for expiry.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clientspot/clientspot/shared/config"
	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix = "clientspot:otp"
	opTimeout    = 5 * time.Second
)

type otpRecord struct {
	Id        uuid.UUID `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type OTPStore struct {
	client *redis.Client
	now    func() time.Time
}

func New(client *redis.Client) *OTPStore {
	return &OTPStore{client: client, now: time.Now}
}

// Connect builds a client from config and verifies it with PING.
func Connect(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (s *OTPStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// the code hash is fixed-length hex, so the key is unambiguous whatever the email contains
func key(email domain.Email, codeHash string) string {
	return otpKeyPrefix + ":" + email + ":" + codeHash
}

func (s *OTPStore) SaveResetOTP(ctx context.Context, otp domain.PasswordResetOTP) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ttl := otp.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	value, err := json.Marshal(otpRecord{Id: otp.Id, ExpiresAt: otp.ExpiresAt})
	if err != nil {
		return fmt.Errorf("failed to encode reset otp: %w", err)
	}
	if err := s.client.Set(ctx, key(otp.Email, otp.CodeHash), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset otp: %w", err)
	}
	return nil
}

func (s *OTPStore) ResetOTP(ctx context.Context, email domain.Email, codeHash string) (domain.PasswordResetOTP, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, key(email, codeHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.PasswordResetOTP{}, errors.InvalidCode("Invalid code")
		}
		return domain.PasswordResetOTP{}, fmt.Errorf("failed to read reset otp: %w", err)
	}

	var rec otpRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.PasswordResetOTP{}, fmt.Errorf("failed to decode reset otp: %w", err)
	}
	return domain.PasswordResetOTP{Id: rec.Id, Email: email, CodeHash: codeHash, ExpiresAt: rec.ExpiresAt}, nil
}

// ClaimResetOTP deletes the key. DEL is atomic, so only one caller sees a count of 1.
func (s *OTPStore) ClaimResetOTP(ctx context.Context, otp domain.PasswordResetOTP) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := s.client.Del(ctx, key(otp.Email, otp.CodeHash)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete reset otp: %w", err)
	}
	if n == 0 {
		return errors.InvalidCode("Invalid code")
	}
	return nil
}

// DeleteExpiredResetOTPs is a no-op: Redis expires the keys itself.
func (s *OTPStore) DeleteExpiredResetOTPs(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
