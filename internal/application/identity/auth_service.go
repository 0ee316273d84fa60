package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tradenet/backend/internal/domain/identity"
	"github.com/tradenet/backend/internal/domain/shared"
	"github.com/tradenet/backend/internal/infrastructure/auth"
)

// AuthService handles account registration and token lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	hasher     auth.PasswordHasher
	blacklist  auth.TokenBlacklist
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	hasher auth.PasswordHasher,
	blacklist auth.TokenBlacklist,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		hasher:     hasher,
		blacklist:  blacklist,
	}
}

// Register creates a new non-staff account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Email, hash)
	if err != nil {
		return nil, err
	}

	if req.PhoneNumber != nil || req.City != nil {
		if err := user.SetContact(req.PhoneNumber, req.City); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, invalidCredentials()
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:  user.ID,
		Email:   user.Email,
		IsStaff: user.IsStaff,
	})
	if err != nil {
		return nil, err
	}

	response := ToTokenResponse(pair)
	return &response, nil
}

// Refresh exchanges a valid refresh token for a new pair and revokes the old one
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err == nil && revoked {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Account no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account is deactivated")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:  user.ID,
		Email:   user.Email,
		IsStaff: user.IsStaff,
	})
	if err != nil {
		return nil, err
	}

	// Rotate: the old refresh token must not be reusable
	if ttl := claims.GetRemainingTTL(); ttl > 0 {
		_ = s.blacklist.AddToBlacklist(ctx, claims.ID, ttl)
	}

	response := ToTokenResponse(pair)
	return &response, nil
}

// Logout revokes the current access token and, when provided, the refresh token
func (s *AuthService) Logout(ctx context.Context, accessClaims *auth.Claims, req LogoutRequest) error {
	if ttl := accessClaims.GetRemainingTTL(); ttl > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, accessClaims.ID, ttl); err != nil {
			return err
		}
	}

	if req.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
		if err != nil {
			// An invalid refresh token has nothing left to revoke
			return nil
		}
		if ttl := claims.GetRemainingTTL(); ttl > 0 {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
				return err
			}
		}
	}
	return nil
}

// CurrentUser returns the account behind the given user ID
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// EnsureSuperuser creates a staff account or promotes an existing one.
// It is idempotent and reports whether a new account was created.
func (s *AuthService) EnsureSuperuser(ctx context.Context, email, password string) (*UserResponse, bool, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		changed := false
		if !existing.IsStaff {
			existing.PromoteToStaff()
			changed = true
		}
		if !existing.IsActive {
			existing.Activate()
			changed = true
		}
		if changed {
			if err := s.userRepo.Save(ctx, existing); err != nil {
				return nil, false, err
			}
		}
		response := ToUserResponse(existing)
		return &response, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, err
	}

	user, err := identity.NewUser(email, hash)
	if err != nil {
		return nil, false, err
	}
	user.PromoteToStaff()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, false, err
	}

	response := ToUserResponse(user)
	return &response, true, nil
}

func invalidCredentials() error {
	return shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
}
