package services

import (
	"context"
	"errors"
	"strings"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/app/repositories"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/auth"
	"github.com/campusleave/leavedesk/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// AuthService handles registration, login and the caller's own profile
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

// TokenIssuer signs session tokens
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, int64, error)
}

type authServiceImpl struct {
	userRepo repositories.IUserRepository
	logRepo  repositories.IActivityLogRepository
	tokens   TokenIssuer
	hash     func(string) (string, error)
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	logRepo repositories.IActivityLogRepository,
	tokens TokenIssuer,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		logRepo:  logRepo,
		tokens:   tokens,
		hash:     auth.HashPassword,
		logger:   logger,
	}
}

// validateProfile checks the fields shared by signup and admin creation
func validateProfile(name, email, password string, rollNumber *string) error {
	if !validation.IsValidName(name) {
		return apperrors.NewValidationError("name must be between 2 and 100 characters")
	}
	if !validation.IsValidEmail(email) {
		return apperrors.ErrInvalidEmail
	}
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}
	return validateRollNumber(rollNumber)
}

func validateRollNumber(rollNumber *string) error {
	if rollNumber == nil || strings.TrimSpace(*rollNumber) == "" {
		return nil
	}
	if !validation.CompiledPatterns.RollNumber.MatchString(strings.TrimSpace(*rollNumber)) {
		return apperrors.NewValidationError("roll number must be 3-20 letters, digits or dashes")
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Signup registers a new non-admin account. A student may name a parent
// email; the parent account must already exist.
func (s *authServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*models.User, error) {
	email := validation.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if !req.Role.SelfRegistrable() {
		return nil, apperrors.NewValidationError("role must be one of student, parent, advisor, warden")
	}
	if err := validateProfile(name, email, req.Password, req.RollNumber); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	user := &models.User{
		Name:       name,
		Email:      email,
		Role:       req.Role,
		RollNumber: trimmed(req.RollNumber),
		Division:   trimmed(req.Division),
		BranchID:   req.BranchID,
		HostelID:   req.HostelID,
		Status:     models.UserActive,
	}

	if parentEmail := trimmed(req.ParentEmail); parentEmail != nil {
		if req.Role != models.RoleStudent {
			return nil, apperrors.NewValidationError("only students can link a parent account")
		}
		parent, err := s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(*parentEmail))
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return nil, apperrors.NewCustomError(apperrors.ErrParentNotFound, "no parent account with that email")
			}
			return nil, err
		}
		if parent.Role != models.RoleParent {
			return nil, apperrors.NewValidationError("parentEmail does not belong to a parent account")
		}
		user.ParentID = &parent.ID
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}
	user.Password = hashed

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.logRepo, s.logger, &models.ActivityLog{
		ActorID:   &user.ID,
		ActorRole: user.Role,
		Action:    "user.signup",
		Entity:    models.EntityUser,
		EntityID:  user.ID,
		Detail:    user.Email,
	})

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are reported identically.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := validation.NormalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Debug().Str("email", email).Msg("Login for unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to sign token")
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User:      dto.FromUser(user),
	}, nil
}

// Me returns the caller's own account
func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
