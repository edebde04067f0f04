package users

import (
	"context"
	"errors"
	"strings"

	"github.com/folio-studio/portfolio-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminExists         = errors.New("admin already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidAdminDetails = errors.New("invalid admin data")
)

const bcryptCost = 12

// Service encapsulates admin account logic
type Service struct {
	repo UserRepository
	cost int
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r, cost: bcryptCost}
}

// SeedAdmin creates the single admin account. It refuses once any user exists.
func (s *Service) SeedAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidAdminDetails
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAdminExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	u := &models.User{Name: name, Email: email, PasswordHash: string(hash), Role: models.RoleAdmin}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrAdminExists
		}
		return nil, err
	}
	return u, nil
}

// Authenticate checks email/password and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// IsAdmin reports whether id refers to an existing admin account.
func (s *Service) IsAdmin(ctx context.Context, id string) (bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u != nil && u.Role == models.RoleAdmin, nil
}
