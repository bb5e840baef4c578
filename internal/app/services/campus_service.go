package services

import (
	"context"
	"strings"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/app/repositories"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// CampusService manages the hostel and branch directory
type CampusService interface {
	CreateHostel(ctx context.Context, actor models.Actor, req *dto.CreateHostelRequest) (*models.Hostel, error)
	ListHostels(ctx context.Context) ([]*models.Hostel, error)
	CreateBranch(ctx context.Context, actor models.Actor, req *dto.CreateBranchRequest) (*models.Branch, error)
	ListBranches(ctx context.Context) ([]*models.Branch, error)
}

type campusServiceImpl struct {
	campusRepo repositories.ICampusRepository
	logRepo    repositories.IActivityLogRepository
	logger     zerolog.Logger
}

// NewCampusService creates a new campus service instance
func NewCampusService(campusRepo repositories.ICampusRepository, logRepo repositories.IActivityLogRepository, logger zerolog.Logger) CampusService {
	return &campusServiceImpl{
		campusRepo: campusRepo,
		logRepo:    logRepo,
		logger:     logger,
	}
}

// CreateHostel adds a hostel
func (s *campusServiceImpl) CreateHostel(ctx context.Context, actor models.Actor, req *dto.CreateHostelRequest) (*models.Hostel, error) {
	name := strings.TrimSpace(req.Name)
	if !validation.IsValidName(name) {
		return nil, apperrors.NewValidationError("hostel name must be between 2 and 100 characters")
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		return nil, apperrors.NewValidationError("capacity must be positive")
	}

	hostel := &models.Hostel{Name: name, Capacity: req.Capacity}
	if err := s.campusRepo.CreateHostel(ctx, hostel); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.logRepo, s.logger, &models.ActivityLog{
		ActorID:   actorRef(actor),
		ActorRole: actor.Role,
		Action:    "hostel.create",
		Entity:    models.EntityHostel,
		EntityID:  hostel.ID,
		Detail:    hostel.Name,
	})
	return hostel, nil
}

// ListHostels returns every hostel
func (s *campusServiceImpl) ListHostels(ctx context.Context) ([]*models.Hostel, error) {
	return s.campusRepo.ListHostels(ctx)
}

// CreateBranch adds a branch. Codes are stored upper-case.
func (s *campusServiceImpl) CreateBranch(ctx context.Context, actor models.Actor, req *dto.CreateBranchRequest) (*models.Branch, error) {
	name := strings.TrimSpace(req.Name)
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	if !validation.IsValidName(name) {
		return nil, apperrors.NewValidationError("branch name must be between 2 and 100 characters")
	}
	if !validation.CompiledPatterns.BranchCode.MatchString(code) {
		return nil, apperrors.NewValidationError("branch code must be 2-10 uppercase letters or digits")
	}

	branch := &models.Branch{Name: name, Code: code}
	if err := s.campusRepo.CreateBranch(ctx, branch); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.logRepo, s.logger, &models.ActivityLog{
		ActorID:   actorRef(actor),
		ActorRole: actor.Role,
		Action:    "branch.create",
		Entity:    models.EntityBranch,
		EntityID:  branch.ID,
		Detail:    branch.Code,
	})
	return branch, nil
}

// ListBranches returns every branch
func (s *campusServiceImpl) ListBranches(ctx context.Context) ([]*models.Branch, error) {
	return s.campusRepo.ListBranches(ctx)
}
