// Package auth registers organizer accounts and issues the bearer tokens
// the management endpoints require.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domain "exhibitions/internal/domain/users"
	"exhibitions/internal/phone"
)

type UsersRepo interface {
	Create(ctx context.Context, u *domain.User) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
}

type AuthUsecase struct {
	usersRepo UsersRepo
	secret    []byte
	tokenTTL  time.Duration
}

func NewAuthUsecase(usersRepo UsersRepo, secret string, tokenTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		usersRepo: usersRepo,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
	}
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates an organizer account. Email and phone must both be
// unused; the password is stored as a bcrypt hash.
func (s *AuthUsecase) Register(ctx context.Context, name, email, rawPhone, password string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	if _, err := s.usersRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	digits := phone.Digits(rawPhone)
	if digits != "" {
		if _, err := s.usersRepo.GetByPhone(ctx, digits); err == nil {
			return nil, domain.ErrPhoneTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Phone:        digits,
		PasswordHash: string(hash),
		Role:         domain.RoleOrganizer,
	}

	id, err := s.usersRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.Id = id

	return user, nil
}

// Login verifies the credentials and returns a signed token. A missing
// user and a wrong password produce the same error.
func (s *AuthUsecase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.usersRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthUsecase) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// VerifyToken parses a bearer token and returns the authenticated user id.
func (s *AuthUsecase) VerifyToken(tokenString string) (uuid.UUID, *Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid token: %w", err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid token subject: %w", err)
	}
	return id, claims, nil
}
