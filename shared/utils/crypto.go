package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Excludes ambiguous characters: 0, O, I, 1
	ConfirmationCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	DigitsCharset           = "0123456789"
)

// GenerateRandomString generates a cryptographically secure random string
// using the provided charset and length
func GenerateRandomString(length int, charset string) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random string: %w", err)
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}

func GenerateConfirmationCode(length int) (string, error) {
	return GenerateRandomString(length, ConfirmationCodeCharset)
}

func GenerateOTP(length int) (string, error) {
	return GenerateRandomString(length, DigitsCharset)
}

// NormalizeCode makes user input comparable with generated codes.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HashCode is the stored form of a signup code or OTP.
// It is unsalted so the store can look records up by it.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(NormalizeCode(code)))
	return hex.EncodeToString(sum[:])
}
