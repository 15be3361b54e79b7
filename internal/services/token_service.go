package services

import (
	"errors"
	"strconv"
	"time"

	"nightcity/internal/domain"
	"nightcity/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 7 * 24 * time.Hour

type tokenClaims struct {
	UserID        int64 `json:"user_id"`
	SecurityLevel int   `json:"security_level"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	Secret []byte
	TTL    time.Duration
	Now    domain.Clock
}

func (s TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

func (s TokenService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return defaultTokenTTL
}

// Issue returns a signed token for the identity and its expiry.
func (s TokenService) Issue(id domain.Identity) (string, time.Time, error) {
	if len(s.Secret) == 0 {
		return "", time.Time{}, domain.InternalError{Msg: "token secret not configured"}
	}
	now := s.now()
	exp := now.Add(s.ttl())
	claims := tokenClaims{
		UserID:        id.UserID,
		SecurityLevel: id.SecurityLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	return signed, exp, nil
}

// Verify checks signature and expiry and returns the identity carried by the token.
func (s TokenService) Verify(raw string) (domain.Identity, error) {
	if raw == "" {
		return domain.Identity{}, domain.UnauthenticatedError{Msg: "missing token"}
	}
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "token expired"
		}
		return domain.Identity{}, domain.UnauthenticatedError{Msg: msg, Err: err}
	}
	if claims.UserID <= 0 {
		return domain.Identity{}, domain.UnauthenticatedError{Msg: "invalid token"}
	}
	return domain.Identity{UserID: claims.UserID, SecurityLevel: claims.SecurityLevel}, nil
}
