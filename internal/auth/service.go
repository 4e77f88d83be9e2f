// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/angelamos/recipebox/internal/core"
	"github.com/angelamos/recipebox/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
)

// UserInfo is the slice of the account record the token layer needs.
type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	TokenVersion int
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, userID string) error
}

type Service struct {
	repo         Repository
	tokens       *TokenManager
	userProvider UserProvider
	redis        *redis.Client
}

func NewService(
	repo Repository,
	tokens *TokenManager,
	userProvider UserProvider,
	redisClient *redis.Client,
) *Service {
	return &Service{
		repo:         repo,
		tokens:       tokens,
		userProvider: userProvider,
		redis:        redisClient,
	}
}

// ObtainToken authenticates email+password and issues a token pair.
// Unknown email, wrong password, and deactivated account are all reported
// as the same invalid-credentials failure.
func (s *Service) ObtainToken(
	ctx context.Context,
	req ObtainTokenRequest,
) (*TokenResponse, error) {
	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.userProvider.UpdatePassword(ctx, user.ID, newHash)
	}

	return s.issueTokenPair(ctx, user, "", nil)
}

// Refresh rotates a refresh token. Presenting an already-used token is
// treated as theft and revokes the whole family.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*TokenResponse, error) {
	tokenHash := core.HashToken(refreshToken)

	storedToken, err := s.repo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if storedToken.IsUsed {
		//nolint:errcheck // security revocation continues regardless
		_ = s.repo.RevokeByFamilyID(ctx, storedToken.FamilyID)
		return nil, ErrTokenReuse
	}

	if !storedToken.IsValid() {
		if storedToken.IsRevoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.userProvider.GetByID(ctx, storedToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, user, storedToken.FamilyID, &storedToken.ID)
}

// Logout revokes the presented refresh token and blacklists the access
// token's jti until it would have expired anyway.
func (s *Service) Logout(
	ctx context.Context,
	refreshToken, accessToken, userID string,
) error {
	tokenHash := core.HashToken(refreshToken)

	storedToken, err := s.repo.FindByHash(ctx, tokenHash)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("find token: %w", err)
	}

	if storedToken != nil {
		if storedToken.UserID != userID {
			return fmt.Errorf("logout: %w", core.ErrForbidden)
		}

		if err := s.repo.RevokeByID(ctx, storedToken.ID); err != nil &&
			!errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("revoke token: %w", err)
		}
	}

	if accessToken != "" {
		jti, expiresAt, jtiErr := s.tokens.JTI(accessToken)
		if jtiErr == nil {
			//nolint:errcheck // best-effort blacklist; token still expires naturally
			_ = s.RevokeAccessToken(ctx, jti, expiresAt)
		}
	}

	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}

	if err := s.userProvider.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return nil
}

// VerifyAccessToken validates a signed access token and rejects ones
// whose jti has been blacklisted by a logout or whose token version has
// been superseded. It satisfies the request authenticator's verifier
// contract.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	jti, _, err := s.tokens.JTI(tokenString)
	if err == nil && jti != "" {
		blacklisted, err := s.IsAccessTokenBlacklisted(ctx, jti)
		if err != nil {
			return nil, err
		}
		if blacklisted {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
	}

	if err := s.ValidateTokenVersion(
		ctx, claims.UserID, claims.TokenVersion,
	); err != nil {
		return nil, err
	}

	return claims, nil
}

// ValidateTokenVersion rejects access tokens minted before the user's
// current token version, and any token for a deactivated or deleted
// account. Logout-all and deactivation both bump the version, so their
// outstanding access tokens die here.
func (s *Service) ValidateTokenVersion(
	ctx context.Context,
	userID string,
	tokenVersion int,
) error {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf(
				"validate token version: %w", core.ErrTokenRevoked,
			)
		}
		return fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		return fmt.Errorf("validate token version: %w", core.ErrTokenRevoked)
	}

	if tokenVersion < user.TokenVersion {
		return fmt.Errorf("validate token version: %w", core.ErrTokenRevoked)
	}

	return nil
}

func (s *Service) RevokeAccessToken(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	key := "blacklist:" + jti
	ttl := time.Until(expiresAt)

	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (s *Service) IsAccessTokenBlacklisted(
	ctx context.Context,
	jti string,
) (bool, error) {
	key := "blacklist:" + jti

	exists, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

func (s *Service) issueTokenPair(
	ctx context.Context,
	user *UserInfo,
	familyID string,
	oldTokenID *string,
) (*TokenResponse, error) {
	accessToken, err := s.tokens.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		IsStaff:      user.IsStaff,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshData, err := s.tokens.CreateRefreshToken(user.ID, familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	newTokenID := uuid.New().String()

	refreshTokenEntity := &RefreshToken{
		ID:        newTokenID,
		UserID:    user.ID,
		TokenHash: refreshData.Hash,
		FamilyID:  refreshData.FamilyID,
		ExpiresAt: refreshData.ExpiresAt,
	}

	if err := s.repo.Create(ctx, refreshTokenEntity); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	if oldTokenID != nil {
		//nolint:errcheck // best-effort token chain tracking
		_ = s.repo.MarkAsUsed(ctx, *oldTokenID, newTokenID)
	}

	expire := s.tokens.AccessTokenExpire()

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshData.Token,
		TokenType:    "Bearer",
		ExpiresIn:    int(expire / time.Second),
		ExpiresAt:    time.Now().Add(expire),
	}, nil
}
