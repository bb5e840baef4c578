package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/app/repositories"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// AdminService defines account management and audit operations
type AdminService interface {
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error)
	CreateUser(ctx context.Context, actor models.Actor, req *dto.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, actor models.Actor, id int64, req *dto.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actor models.Actor, id int64) error
	ListActivity(ctx context.Context, offset, limit uint64) ([]*models.ActivityLog, int64, error)
}

type adminServiceImpl struct {
	userRepo  repositories.IUserRepository
	leaveRepo repositories.ILeaveRepository
	logRepo   repositories.IActivityLogRepository
	hash      func(string) (string, error)
	logger    zerolog.Logger
}

// NewAdminService creates a new admin service instance
func NewAdminService(
	userRepo repositories.IUserRepository,
	leaveRepo repositories.ILeaveRepository,
	logRepo repositories.IActivityLogRepository,
	hash func(string) (string, error),
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		userRepo:  userRepo,
		leaveRepo: leaveRepo,
		logRepo:   logRepo,
		hash:      hash,
		logger:    logger,
	}
}

// hasLeaves reports whether any leave names user as its student or parent.
// Only those two roles are stored on a leave at apply time.
func (s *adminServiceImpl) hasLeaves(ctx context.Context, user *models.User) (bool, error) {
	filter := models.LeaveFilter{Limit: 1}
	switch user.Role {
	case models.RoleStudent:
		filter.StudentID = &user.ID
	case models.RoleParent:
		filter.ParentID = &user.ID
	default:
		return false, nil
	}
	_, total, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// ListUsers returns a filtered page of accounts
func (s *adminServiceImpl) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", filter.Role))
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", filter.Status))
	}
	return s.userRepo.List(ctx, filter)
}

// resolveParent checks that parentID names a parent account
func (s *adminServiceImpl) resolveParent(ctx context.Context, parentID int64) error {
	parent, err := s.userRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewCustomError(apperrors.ErrParentNotFound, "parentId does not name an existing account")
		}
		return err
	}
	if parent.Role != models.RoleParent {
		return apperrors.NewValidationError("parentId must name a parent account")
	}
	return nil
}

// CreateUser creates an account of any role, including admin
func (s *adminServiceImpl) CreateUser(ctx context.Context, actor models.Actor, req *dto.CreateUserRequest) (*models.User, error) {
	email := validation.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", req.Role))
	}
	if err := validateProfile(name, email, req.Password, req.RollNumber); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if req.Role != models.RoleStudent {
			return nil, apperrors.NewValidationError("only students can be linked to a parent")
		}
		if err := s.resolveParent(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		Name:       name,
		Email:      email,
		Password:   hashed,
		Role:       req.Role,
		RollNumber: trimmed(req.RollNumber),
		Division:   trimmed(req.Division),
		BranchID:   req.BranchID,
		HostelID:   req.HostelID,
		ParentID:   req.ParentID,
		Status:     models.UserActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.logRepo, s.logger, &models.ActivityLog{
		ActorID:   actorRef(actor),
		ActorRole: actor.Role,
		Action:    "user.create",
		Entity:    models.EntityUser,
		EntityID:  user.ID,
		Detail:    fmt.Sprintf("%s (%s)", user.Email, user.Role),
	})
	return user, nil
}

// UpdateUser applies the non-nil fields of req to the account
func (s *adminServiceImpl) UpdateUser(ctx context.Context, actor models.Actor, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !validation.IsValidName(name) {
			return nil, apperrors.NewValidationError("name must be between 2 and 100 characters")
		}
		user.Name = name
		changed = append(changed, "name")
	}
	if req.Email != nil {
		email := validation.NormalizeEmail(*req.Email)
		if !validation.IsValidEmail(email) {
			return nil, apperrors.ErrInvalidEmail
		}
		user.Email = email
		changed = append(changed, "email")
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", *req.Role))
		}
		if id == actor.ID && *req.Role != models.RoleAdmin {
			return nil, apperrors.NewValidationError("admins cannot change their own role")
		}
		if *req.Role != user.Role {
			linked, err := s.hasLeaves(ctx, user)
			if err != nil {
				return nil, err
			}
			if linked {
				return nil, apperrors.NewConflictError(fmt.Sprintf("a %s with leave records cannot change role", user.Role))
			}
		}
		user.Role = *req.Role
		changed = append(changed, "role")
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", *req.Status))
		}
		if id == actor.ID && *req.Status != models.UserActive {
			return nil, apperrors.NewValidationError("admins cannot deactivate themselves")
		}
		user.Status = *req.Status
		changed = append(changed, "status")
	}
	if req.RollNumber != nil {
		if err := validateRollNumber(req.RollNumber); err != nil {
			return nil, err
		}
		user.RollNumber = trimmed(req.RollNumber)
		changed = append(changed, "rollNumber")
	}
	if req.Division != nil {
		user.Division = trimmed(req.Division)
		changed = append(changed, "division")
	}
	if req.BranchID != nil {
		user.BranchID = req.BranchID
		changed = append(changed, "branchId")
	}
	if req.HostelID != nil {
		user.HostelID = req.HostelID
		changed = append(changed, "hostelId")
	}
	if req.ParentID != nil {
		if err := s.resolveParent(ctx, *req.ParentID); err != nil {
			return nil, err
		}
		user.ParentID = req.ParentID
		changed = append(changed, "parentId")
	}
	if user.ParentID != nil && user.Role != models.RoleStudent {
		return nil, apperrors.NewValidationError("only students can be linked to a parent")
	}

	if len(changed) == 0 {
		return user, nil
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.logRepo, s.logger, &models.ActivityLog{
		ActorID:   actorRef(actor),
		ActorRole: actor.Role,
		Action:    "user.update",
		Entity:    models.EntityUser,
		EntityID:  user.ID,
		Detail:    strings.Join(changed, ","),
	})
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *adminServiceImpl) DeleteUser(ctx context.Context, actor models.Actor, id int64) error {
	if id == actor.ID {
		return apperrors.NewValidationError("admins cannot delete their own account")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	linked, err := s.hasLeaves(ctx, user)
	if err != nil {
		return err
	}
	if linked {
		return apperrors.NewConflictError("user still has leave records and cannot be deleted")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	recordActivity(ctx, s.logRepo, s.logger, &models.ActivityLog{
		ActorID:   actorRef(actor),
		ActorRole: actor.Role,
		Action:    "user.delete",
		Entity:    models.EntityUser,
		EntityID:  id,
		Detail:    user.Email,
	})
	s.logger.Info().Int64("userID", id).Int64("adminID", actor.ID).Msg("User deleted")
	return nil
}

// ListActivity returns a page of the activity log, newest first
func (s *adminServiceImpl) ListActivity(ctx context.Context, offset, limit uint64) ([]*models.ActivityLog, int64, error) {
	return s.logRepo.List(ctx, offset, limit)
}
