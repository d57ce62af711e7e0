package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"heritage-boutique/internal/domain"
	custrepo "heritage-boutique/internal/repository/customer"
	tokenrepo "heritage-boutique/internal/repository/token"
	"heritage-boutique/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidEmail is returned on signup with an unusable email address.
	ErrInvalidEmail = errors.New("invalid email address")
)

// WeakPasswordError carries every rule the password violates so the caller
// can render all of them at once.
type WeakPasswordError struct {
	Violations []string
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("password must contain %s", strings.Join(e.Violations, ", "))
}

// Service handles customer signup/login flows.
type Service struct {
	repo       custrepo.Repository
	tokens     *tokenManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New creates a Service with sane defaults.
func New(repo custrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		repo:       repo,
		tokens:     newTokenManager(tokens),
		accessTTL:  48 * time.Hour,
		refreshTTL: 30 * 24 * time.Hour,
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Signup registers a new customer.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Customer, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if res := validate.Field(validate.FieldEmail, email, true); !res.Valid {
		return nil, ErrInvalidEmail
	}
	password := strings.TrimSpace(in.Password)
	if violations := validate.PasswordRules(password); len(violations) > 0 {
		return nil, &WeakPasswordError{Violations: violations}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, domain.Customer{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    validate.Sanitize(in.FirstName),
		LastName:     validate.Sanitize(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
	})
}

// Login validates credentials and returns issued tokens plus the customer.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	password = strings.TrimSpace(password)
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, c.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, c.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return c, access, refresh, nil
}

// LookupByToken returns the customer bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Customer, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	c, err := s.repo.GetByID(ctx, meta.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return c, nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
