package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusleave/leavedesk/internal/app/lifecycle"
	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/app/repositories"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// TransitionOptions carries the optional fields of a warden decision
type TransitionOptions struct {
	MeetingAt *time.Time
	Note      *string
}

// LeaveService defines the leave lifecycle operations
type LeaveService interface {
	Apply(ctx context.Context, actor models.Actor, req *dto.ApplyLeaveRequest) (*models.Leave, error)
	ListMine(ctx context.Context, actor models.Actor) ([]*models.Leave, error)
	Get(ctx context.Context, actor models.Actor, id int64) (*models.Leave, error)
	Transition(ctx context.Context, actor models.Actor, id int64, action lifecycle.Action, opts TransitionOptions) (*models.Leave, error)
	SubmitProof(ctx context.Context, actor models.Actor, id int64) (*models.Leave, error)
	VerifyProof(ctx context.Context, actor models.Actor, id int64) (*models.Leave, error)
	ListAll(ctx context.Context, filter models.LeaveFilter) ([]*models.Leave, int64, error)
}

type leaveServiceImpl struct {
	leaveRepo repositories.ILeaveRepository
	userRepo  repositories.IUserRepository
	logRepo   repositories.IActivityLogRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewLeaveService creates a new leave service instance
func NewLeaveService(
	leaveRepo repositories.ILeaveRepository,
	userRepo repositories.IUserRepository,
	logRepo repositories.IActivityLogRepository,
	logger zerolog.Logger,
) LeaveService {
	return &leaveServiceImpl{
		leaveRepo: leaveRepo,
		userRepo:  userRepo,
		logRepo:   logRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Apply creates a leave for the calling student. The student's linked parent
// at this moment becomes the leave's approving parent.
func (s *leaveServiceImpl) Apply(ctx context.Context, actor models.Actor, req *dto.ApplyLeaveRequest) (*models.Leave, error) {
	if !actor.Is(models.RoleStudent) {
		return nil, apperrors.NewForbiddenError("only students can apply for leave")
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reason is required")
	}
	if len(reason) > validation.ReasonMaxLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("reason must be at most %d characters", validation.ReasonMaxLength))
	}

	start, err := validation.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError("startDate must be a YYYY-MM-DD date")
	}
	end, err := validation.ParseDate(req.EndDate)
	if err != nil {
		return nil, apperrors.NewValidationError("endDate must be a YYYY-MM-DD date")
	}
	if start.After(end) {
		return nil, apperrors.ErrInvalidLeaveDates
	}

	leaveType := req.Type
	if leaveType == "" {
		leaveType = models.LeaveNormal
	}
	if !leaveType.Valid() {
		return nil, apperrors.NewValidationError("type must be normal or emergency")
	}

	student, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("only students can apply for leave")
	}
	// Every path ends with the parent confirming arrival.
	if student.ParentID == nil {
		return nil, apperrors.NewValidationError("a linked parent account is required to apply for leave")
	}

	leave := &models.Leave{
		StudentID: student.ID,
		ParentID:  student.ParentID,
		Reason:    reason,
		StartDate: start,
		EndDate:   end,
		Type:      leaveType,
		Status:    leaveType.InitialStatus(),
	}
	if err := s.leaveRepo.Create(ctx, leave); err != nil {
		return nil, err
	}
	leave.Student = student

	recordActivity(ctx, s.logRepo, s.logger, &models.ActivityLog{
		ActorID:   actorRef(actor),
		ActorRole: actor.Role,
		Action:    "leave.student.apply",
		Entity:    models.EntityLeave,
		EntityID:  leave.ID,
		Detail:    fmt.Sprintf("%s leave %s to %s", leave.Type, req.StartDate, req.EndDate),
	})

	s.logger.Info().Int64("leaveID", leave.ID).Int64("studentID", student.ID).
		Str("type", string(leave.Type)).Msg("Leave applied")
	return leave, nil
}

// ListMine returns the leaves relevant to the caller's role
func (s *leaveServiceImpl) ListMine(ctx context.Context, actor models.Actor) ([]*models.Leave, error) {
	var filter models.LeaveFilter
	switch actor.Role {
	case models.RoleStudent:
		filter.StudentID = actorRef(actor)
	case models.RoleParent:
		filter.ParentID = actorRef(actor)
	case models.RoleAdvisor:
		filter.QueueStatuses = lifecycle.QueueStatuses(models.RoleAdvisor)
		filter.HandledBy = actorRef(actor)
		filter.HandledColumn = "advisor_id"
	case models.RoleWarden:
		filter.QueueStatuses = lifecycle.QueueStatuses(models.RoleWarden)
		filter.HandledBy = actorRef(actor)
		filter.HandledColumn = "warden_id"
	case models.RoleAdmin:
	default:
		return nil, apperrors.NewForbiddenError("unknown role")
	}

	leaves, _, err := s.leaveRepo.List(ctx, filter)
	return leaves, err
}

// canView reports whether actor may read leave
func canView(actor models.Actor, leave *models.Leave) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleAdvisor, models.RoleWarden:
		return true
	case models.RoleStudent:
		return leave.StudentID == actor.ID
	case models.RoleParent:
		return leave.ParentID != nil && *leave.ParentID == actor.ID
	}
	return false
}

// Get returns a single leave if the caller is a party to it
func (s *leaveServiceImpl) Get(ctx context.Context, actor models.Actor, id int64) (*models.Leave, error) {
	leave, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, leave) {
		return nil, apperrors.NewForbiddenError("you are not a party to this leave")
	}
	return leave, nil
}

// Transition performs action on the leave on behalf of actor.
//
// Checks run in a fixed order: the leave must exist, the actor must be
// allowed to perform the action and be related to the leave, and only then
// must the current status admit the action. The write is conditional on the
// status read here, so of two concurrent decisions only one succeeds.
func (s *leaveServiceImpl) Transition(ctx context.Context, actor models.Actor, id int64,
	action lifecycle.Action, opts TransitionOptions) (*models.Leave, error) {

	leave, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	to, nextErr := lifecycle.Next(actor.Role, action, leave.Status)
	if nextErr != nil && errors.Is(nextErr, apperrors.ErrPermissionDenied) {
		return nil, nextErr
	}
	if actor.Is(models.RoleParent) && (leave.ParentID == nil || *leave.ParentID != actor.ID) {
		return nil, apperrors.NewForbiddenError("only the student's linked parent can act on this leave")
	}
	if nextErr != nil {
		return nil, nextErr
	}

	now := s.now().UTC()
	update := models.LeaveUpdate{
		FromStatus: leave.Status,
		ToStatus:   to,
		UpdatedAt:  now,
	}
	switch actor.Role {
	case models.RoleAdvisor:
		update.AdvisorID = actorRef(actor)
	case models.RoleWarden:
		update.WardenID = actorRef(actor)
	}

	note := trimmed(opts.Note)
	switch action {
	case lifecycle.ActionScheduleMeeting:
		if opts.MeetingAt != nil {
			if opts.MeetingAt.Before(now) {
				return nil, apperrors.NewValidationError("meetingAt must be in the future")
			}
			at := opts.MeetingAt.UTC()
			update.MeetingAt = &at
		}
		update.MeetingNote = note
	case lifecycle.ActionConfirmArrival:
		update.ArrivalTimestamp = &now
	}

	detail := fmt.Sprintf("%s -> %s", leave.Status, to)
	if note != nil {
		detail += ": " + *note
	}
	entry := &models.ActivityLog{
		ActorID:   actorRef(actor),
		ActorRole: actor.Role,
		Action:    lifecycle.LogAction(actor.Role, action),
		Entity:    models.EntityLeave,
		EntityID:  leave.ID,
		Detail:    detail,
	}

	updated, err := s.leaveRepo.ApplyTransition(ctx, leave.ID, update, entry)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			s.logger.Info().Int64("leaveID", leave.ID).Str("from", string(leave.Status)).
				Msg("Transition lost to a concurrent update")
		}
		return nil, err
	}

	s.logger.Info().Int64("leaveID", leave.ID).Int64("actorID", actor.ID).
		Str("action", string(action)).Str("from", string(leave.Status)).Str("to", string(to)).
		Msg("Leave transitioned")
	return updated, nil
}

// SubmitProof records that the student handed in proof for a completed
// emergency leave
func (s *leaveServiceImpl) SubmitProof(ctx context.Context, actor models.Actor, id int64) (*models.Leave, error) {
	leave, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Is(models.RoleStudent) || leave.StudentID != actor.ID {
		return nil, apperrors.NewForbiddenError("only the applying student can submit proof")
	}
	if leave.Type != models.LeaveEmergency || leave.Status != models.StatusCompleted {
		return nil, apperrors.NewCustomError(apperrors.ErrProofNotAllowed,
			"proof can only be submitted for a completed emergency leave")
	}
	if leave.ProofSubmitted {
		return nil, apperrors.NewCustomError(apperrors.ErrProofAlreadyStated, "proof has already been submitted")
	}

	return s.leaveRepo.MarkProofSubmitted(ctx, leave.ID, s.now().UTC(), &models.ActivityLog{
		ActorID:   actorRef(actor),
		ActorRole: actor.Role,
		Action:    "leave.student.submit_proof",
		Entity:    models.EntityLeave,
		EntityID:  leave.ID,
	})
}

// VerifyProof records an advisor's verification of submitted proof
func (s *leaveServiceImpl) VerifyProof(ctx context.Context, actor models.Actor, id int64) (*models.Leave, error) {
	leave, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Is(models.RoleAdvisor) {
		return nil, apperrors.NewForbiddenError("only advisors can verify proof")
	}
	if !leave.ProofSubmitted {
		return nil, apperrors.NewCustomError(apperrors.ErrProofNotSubmitted, "no proof has been submitted for this leave")
	}
	if leave.ProofVerified {
		return nil, apperrors.NewCustomError(apperrors.ErrProofAlreadyStated, "proof has already been verified")
	}

	return s.leaveRepo.MarkProofVerified(ctx, leave.ID, s.now().UTC(), &models.ActivityLog{
		ActorID:   actorRef(actor),
		ActorRole: actor.Role,
		Action:    "leave.advisor.verify_proof",
		Entity:    models.EntityLeave,
		EntityID:  leave.ID,
	})
}

// ListAll returns any leaves matching filter for the admin view
func (s *leaveServiceImpl) ListAll(ctx context.Context, filter models.LeaveFilter) ([]*models.Leave, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", filter.Status))
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, 0, apperrors.NewValidationError(fmt.Sprintf("unknown type %q", filter.Type))
	}
	return s.leaveRepo.List(ctx, filter)
}
