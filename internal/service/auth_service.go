package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"covid_tracker/internal/model"
	"covid_tracker/internal/repository"
	"covid_tracker/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("bad username/password")
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, username, password string, email *string) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	SocialLogin(ctx context.Context, profile *model.SocialProfile) (string, error)
}

type authService struct {
	userRepo             repository.UserRepository
	jwtUtil              *utils.JWTUtil
	initialAdminUsername string
	logger               *zap.Logger
}

// NewAuthService creates a new AuthService. initialAdminUsername, when
// non-empty, names the one account that registers directly as admin;
// every other role change happens at the store level.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, initialAdminUsername string, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:             userRepo,
		jwtUtil:              jwtUtil,
		initialAdminUsername: initialAdminUsername,
		logger:               logger,
	}
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, username, password string, email *string) (*model.User, error) {
	existingUser, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userRole := model.RoleUser
	if s.initialAdminUsername != "" && username == s.initialAdminUsername {
		userRole = model.RoleAdmin
		s.logger.Info("Registering initial admin account", zap.String("username", username))
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: &hashedPassword,
		Role:         userRole,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the existence check
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns a JWT token. The same error
// covers an unknown username and a wrong password so the response never
// reveals which one it was.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("error finding user by username: %w", err)
	}
	if user == nil || user.PasswordHash == nil {
		// Social-login accounts have no hash and cannot password-login
		return "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return token, nil
}

// SocialLogin finds or creates the account for an OAuth profile and
// returns a JWT token for it.
func (s *authService) SocialLogin(ctx context.Context, profile *model.SocialProfile) (string, error) {
	user, err := s.userRepo.FindBySocial(ctx, profile.Provider, profile.SocialID)
	if err != nil {
		return "", fmt.Errorf("error finding social user: %w", err)
	}

	if user == nil {
		user = &model.User{
			// Provider-scoped username keeps the uniqueness invariant
			// without depending on the provider's display name.
			Username:  profile.Provider + ":" + profile.SocialID,
			Role:      model.RoleUser,
			SocialID:  &profile.SocialID,
			Provider:  &profile.Provider,
			CreatedAt: time.Now(),
		}
		if profile.Email != "" {
			user.Email = &profile.Email
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				// Lost a race against another callback for the same identity
				user, err = s.userRepo.FindBySocial(ctx, profile.Provider, profile.SocialID)
				if err != nil || user == nil {
					return "", fmt.Errorf("failed to resolve social user after conflict: %w", err)
				}
			} else {
				return "", fmt.Errorf("failed to create social user: %w", err)
			}
		} else {
			s.logger.Info("Created account from social login",
				zap.String("provider", profile.Provider), zap.Int("user_id", user.ID))
		}
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
