package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/museumaceh/baservice/internal/config"
	"github.com/museumaceh/baservice/internal/domain"
)

var tracer = otel.Tracer("service")

// ErrInvalidCredentials is returned on a failed login. It deliberately does
// not say whether the username or the password was wrong.
var ErrInvalidCredentials = fmt.Errorf("invalid username or password")

// UserRepository defines the account lookups auth needs.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, name, username, hashedPassword, role string) (*domain.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

type AuthService struct {
	config config.Auth
	users  UserRepository
}

func NewAuthService(config config.Auth, users UserRepository) *AuthService {
	return &AuthService{
		config: config,
		users:  users,
	}
}

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RegisterInput is a new-account request.
type RegisterInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an account and returns it together with a fresh token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Register")
	defer span.End()

	if input.Name == "" || input.Username == "" || input.Password == "" {
		return nil, "", domain.ValidationError{Message: "name, username and password are required"}
	}
	if input.Role == "" {
		input.Role = domain.RoleUser
	}

	taken, err := s.users.UsernameTaken(ctx, input.Username)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	if taken {
		return nil, "", domain.ConflictError{Field: "username", Value: input.Username}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, "", errors.Wrap(err, "failed to hash password")
	}

	user, err := s.users.Create(ctx, input.Name, input.Username, string(hashed), input.Role)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the password and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Login")
	defer span.End()

	if username == "" || password == "" {
		return nil, "", domain.ValidationError{Message: "username and password are required"}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, "", ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me returns the account behind an authenticated identity.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ParseToken validates a bearer token and extracts the caller identity.
func (s *AuthService) ParseToken(token string) (domain.Identity, error) {
	var claims authClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.JwtSecret), nil
	})
	if err != nil {
		return domain.Identity{}, errors.Wrap(err, "token validation failed")
	}
	if !parsed.Valid || claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("invalid token")
	}
	return domain.Identity{UserID: claims.Subject, Role: claims.Role}, nil
}

func (s *AuthService) signToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := authClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JwtSecret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}
