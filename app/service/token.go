package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenPurpose string

const (
	PurposeAccess       TokenPurpose = "access"
	PurposeRefresh      TokenPurpose = "refresh"
	PurposeVerification TokenPurpose = "verification"
)

type Claims struct {
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

type TokenTTLs struct {
	Access       time.Duration
	Refresh      time.Duration
	Verification time.Duration
}

type TokenServiceOption func(*TokenService)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(clock func() time.Time) TokenServiceOption {
	return func(s *TokenService) {
		if clock != nil {
			s.now = clock
		}
	}
}

type TokenService struct {
	secret []byte
	ttls   TokenTTLs
	now    func() time.Time
}

func NewTokenService(secret string, ttls TokenTTLs, opts ...TokenServiceOption) *TokenService {
	svc := &TokenService{
		secret: []byte(secret),
		ttls:   ttls,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.ttls.Access
}

func (s *TokenService) Issue(subject string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	now := s.now()
	claims := &Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) IssueAccess(subject string) (string, error) {
	return s.Issue(subject, PurposeAccess, s.ttls.Access)
}

func (s *TokenService) IssueRefresh(subject string) (string, error) {
	return s.Issue(subject, PurposeRefresh, s.ttls.Refresh)
}

func (s *TokenService) IssueVerification(subject string) (string, error) {
	return s.Issue(subject, PurposeVerification, s.ttls.Verification)
}

// Verify returns the token subject. Every failure, including a token minted
// for another purpose, is reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string, purpose TokenPurpose) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" || claims.Purpose != purpose {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
