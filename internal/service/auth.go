package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rescuelink/api/internal/model"
	"github.com/rescuelink/api/internal/repository"
	"github.com/rescuelink/api/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role" validate:"required,oneof=donor volunteer"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
	Address     string `json:"address" validate:"max=500"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Claims is the JWT payload issued on register and login.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepository repository.UserRepository
	jwtSecret      string
	jwtExpiry      time.Duration
}

func NewAuthService(userRepository repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
	}
}

// Register creates an account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Role = strings.TrimSpace(in.Role)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)

	var fields []validation.FieldError
	for _, fe := range []*validation.FieldError{
		validation.Name(in.Name),
		validation.Email(in.Email),
		validation.Password(in.Password),
	} {
		if fe != nil {
			fields = append(fields, *fe)
		}
	}
	fields = append(fields, validation.Struct(in)...)
	if len(fields) > 0 {
		return nil, "", ValidationError(fields)
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, "", upstream("Failed to register user", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, "", ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, "", upstream("Failed to register user", err)
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", upstream("Failed to issue token", err)
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*model.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))

	var fields []validation.FieldError
	if email == "" {
		fields = append(fields, validation.FieldError{Field: "email", Message: "email is required"})
	}
	if in.Password == "" {
		fields = append(fields, validation.FieldError{Field: "password", Message: "password is required"})
	}
	if len(fields) > 0 {
		return nil, "", ValidationError(fields)
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", upstream("Failed to log in", err)
	}

	if err := s.ComparePassword(in.Password, user.PasswordHash); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", upstream("Failed to issue token", err)
	}

	return user, token, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify resolves a bearer token into the caller's identity.
// Only HS256 tokens with an expiry are accepted.
func (s *AuthService) Verify(tokenString string) (*model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if fe := checkID("user_id", claims.UserID); fe != nil {
		return nil, ErrInvalidToken
	}

	return &model.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
