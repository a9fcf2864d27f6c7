package jwt

import (
	"fmt"
	"time"

	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/errors"
	"github.com/clientspot/clientspot/shared/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Jwt struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// Session tokens carry only the subject; everything else is read from storage on each request.
func (j *Jwt) NewToken(user domain.User) (string, error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Id.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", fmt.Errorf("can't create token: %w", err)
	}

	return tokenString, nil
}

// DecodeToken verifies signature and expiry and returns the subject.
// Every failure is the same Unauthorized error, the cause is in Detail.
func (j *Jwt) DecodeToken(jwtStr string) (domain.UserId, error) {
	if jwtStr == "" {
		return uuid.Nil, errors.Unauthorized("missing token")
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(jwtStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, errors.Unauthorized(err.Error())
	}
	if !token.Valid {
		return uuid.Nil, errors.Unauthorized("token is not valid")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.Unauthorized("malformed subject: " + err.Error())
	}
	return id, nil
}
