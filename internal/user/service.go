// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelamos/recipebox/internal/auth"
	"github.com/angelamos/recipebox/internal/core"
)

var ErrEmailTaken = errors.New("email already registered")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new account. The email domain is lowercased before
// storage and uniqueness is enforced case-insensitively at the database.
func (s *Service) Register(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(req.Email),
		PasswordHash: hash,
		Name:         req.Name,
		IsActive:     true,
		IsStaff:      false,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateMe applies a partial update to the authenticated user's own record.
// Only fields present in the request change; a new password is re-hashed.
func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateMeRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = NormalizeEmail(*req.Email)
	}
	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if req.Password != nil {
		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	return user, nil
}

// List returns a page of accounts for staff tooling.
func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// SetFlags toggles is_active / is_staff on an account. Deactivating an
// account also bumps its token version so outstanding access tokens die.
func (s *Service) SetFlags(
	ctx context.Context,
	userID string,
	req UpdateUserFlagsRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	deactivated := false
	if req.IsActive != nil {
		if user.IsActive && !*req.IsActive {
			deactivated = true
		}
		user.IsActive = *req.IsActive
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if deactivated {
		if err := s.repo.IncrementTokenVersion(ctx, userID); err != nil {
			return nil, err
		}
		user.TokenVersion++
	}

	return user, nil
}

// Provider adapts the user store to what the token layer needs.
type Provider struct {
	repo Repository
}

func NewProvider(repo Repository) *Provider {
	return &Provider{repo: repo}
}

var _ auth.UserProvider = (*Provider)(nil)

func (p *Provider) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := p.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (p *Provider) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (p *Provider) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return p.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (p *Provider) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return p.repo.IncrementTokenVersion(ctx, userID)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		IsStaff:      u.IsStaff,
		TokenVersion: u.TokenVersion,
	}
}
