package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind selects which signing secret and expiry window applies.
type Kind string

const (
	// KindAccess is the short-lived token presented on every request.
	KindAccess Kind = "access"
	// KindRefresh is the long-lived token exchanged for new pairs.
	KindRefresh Kind = "refresh"
)

// Verification failures.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Config carries the signing secrets and expiry windows for both token kinds.
// Access and refresh tokens never share a secret.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// Claims is the payload embedded in every issued token. StudentID is present
// only on tokens minted for STUDENT accounts with a linked student.
type Claims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	StudentID *uint  `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into the account identifier.
func (c Claims) UserID() (uint, error) {
	parsed, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token subject: %w", err)
	}
	return uint(parsed), nil
}

// Subject describes the account a token is minted for.
type Subject struct {
	UserID    uint
	Email     string
	Role      string
	StudentID *uint
}

// Pair bundles the two tokens issued together.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Service signs and verifies token pairs.
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService builds a token service from the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg, now: time.Now}
}

// Issue mints an access/refresh pair for the subject.
func (s *Service) Issue(subject Subject) (Pair, error) {
	access, err := s.sign(subject, KindAccess)
	if err != nil {
		return Pair{}, err
	}

	refresh, err := s.sign(subject, KindRefresh)
	if err != nil {
		return Pair{}, err
	}

	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sign(subject Subject, kind Kind) (string, error) {
	secret, expiry := s.material(kind)
	now := s.now()

	claims := Claims{
		Email:     subject.Email,
		Role:      subject.Role,
		StudentID: subject.StudentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(subject.UserID), 10),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks signature and expiry for the given kind and returns the
// decoded claims. Expiry is reported as ErrExpiredToken; every other failure,
// including a token signed for the other kind, is ErrInvalidToken.
func (s *Service) Verify(tokenString string, kind Kind) (Claims, error) {
	if tokenString == "" {
		return Claims{}, ErrInvalidToken
	}

	secret, _ := s.material(kind)
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	return *claims, nil
}

func (s *Service) material(kind Kind) (string, time.Duration) {
	if kind == KindRefresh {
		return s.cfg.RefreshSecret, s.cfg.RefreshExpiry
	}
	return s.cfg.AccessSecret, s.cfg.AccessExpiry
}
