package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is the staff role carried in a token.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
)

// Valid reports whether r is a known staff role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleInstructor
}

// Common token errors.
var (
	ErrInvalidRole       = errors.New("role must be admin or instructor")
	ErrInstructorIDEmpty = errors.New("instructor tokens need an instructor id")
)

// Claims extends JWT standard claims with the staff role.
type Claims struct {
	jwt.RegisteredClaims
	Role         Role `json:"role"`
	InstructorID int  `json:"instructor_id,omitempty"` // Instructor only
}

// TokenService issues and validates staff tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Issue signs a staff token for role. instructorID is required for instructors
// and ignored for admins.
func (s *TokenService) Issue(role Role, instructorID int) (string, error) {
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	if role == RoleInstructor && instructorID <= 0 {
		return "", ErrInstructorIDEmpty
	}
	if role == RoleAdmin {
		instructorID = 0
	}

	now := s.now()
	subject := string(role)
	if instructorID > 0 {
		subject = strconv.Itoa(instructorID)
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		Role:         role,
		InstructorID: instructorID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a JWT, returning the claims.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidRole
	}

	return claims, nil
}
