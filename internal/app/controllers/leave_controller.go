package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/campusleave/leavedesk/internal/app/lifecycle"
	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/app/services"
	"github.com/campusleave/leavedesk/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// LeaveController handles leave applications and their lifecycle
type LeaveController struct {
	leaveService services.LeaveService
	logger       zerolog.Logger
}

// NewLeaveController creates a new LeaveController
func NewLeaveController(leaveService services.LeaveService, logger zerolog.Logger) *LeaveController {
	return &LeaveController{
		leaveService: leaveService,
		logger:       logger,
	}
}

// transitionMessage describes the outcome of a lifecycle action
func transitionMessage(role models.RoleType, action lifecycle.Action) string {
	switch action {
	case lifecycle.ActionReject:
		return fmt.Sprintf("Leave rejected by %s", role)
	case lifecycle.ActionScheduleMeeting:
		return "Meeting scheduled with warden"
	case lifecycle.ActionConfirmArrival:
		return "Arrival confirmed, leave completed"
	}
	return fmt.Sprintf("Leave approved by %s", role)
}

// Apply handles a student's leave application
// @Summary Apply for leave
// @Description Creates a leave in pending status, or emergency_pending for emergency leaves
// @Tags leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ApplyLeaveRequest true "Leave details"
// @Success 201 {object} dto.LeaveEnvelope "Leave created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only students may apply"
// @Router /leave/apply [post]
func (c *LeaveController) Apply(ctx *gin.Context) {
	actor, err := middleware.GetActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ApplyLeaveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid leave application payload")
		middleware.HandleBindingError(ctx, err)
		return
	}

	leave, err := c.leaveService.Apply(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.LeaveEnvelope{Leave: dto.FromLeave(leave, actor.Role)})
}

// ListMine returns the leaves relevant to the caller
// @Summary List my leaves
// @Description Students see their own leaves, parents their children's, advisors and wardens their queue plus what they handled, admins everything
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LeaveListResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /leave/my [get]
func (c *LeaveController) ListMine(ctx *gin.Context) {
	actor, err := middleware.GetActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	leaves, err := c.leaveService.ListMine(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.LeaveListResponse{Leaves: dto.FromLeaves(leaves, actor.Role)})
}

// Get returns one leave
// @Summary Get a leave
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID" Format(int64) minimum(1)
// @Success 200 {object} dto.LeaveEnvelope
// @Failure 400 {object} dto.ErrorResponse "Invalid leave ID"
// @Failure 403 {object} dto.ErrorResponse "Not related to this leave"
// @Failure 404 {object} dto.ErrorResponse "Leave not found"
// @Router /leave/{id} [get]
func (c *LeaveController) Get(ctx *gin.Context) {
	actor, err := middleware.GetActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	leave, err := c.leaveService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.LeaveEnvelope{Leave: dto.FromLeave(leave, actor.Role)})
}

func (c *LeaveController) transition(ctx *gin.Context, action lifecycle.Action, opts services.TransitionOptions) {
	actor, err := middleware.GetActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	leave, err := c.leaveService.Transition(ctx.Request.Context(), actor, id, action, opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.FromLeave(leave, actor.Role)
	ctx.JSON(http.StatusOK, dto.LeaveActionResponse{
		Msg:   transitionMessage(actor.Role, action),
		Leave: &resp,
	})
}

// ParentDecision handles a parent's approve or reject
// @Summary Parent decision
// @Tags leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID" Format(int64) minimum(1)
// @Param request body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.LeaveActionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not the linked parent"
// @Failure 404 {object} dto.ErrorResponse "Leave not found"
// @Failure 409 {object} dto.ErrorResponse "Leave is not pending"
// @Router /leave/{id}/approve [post]
func (c *LeaveController) ParentDecision(ctx *gin.Context) {
	c.decide(ctx)
}

// AdvisorReview handles an advisor's approve or reject
// @Summary Advisor review
// @Tags leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID" Format(int64) minimum(1)
// @Param request body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.LeaveActionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Leave not found"
// @Failure 409 {object} dto.ErrorResponse "Leave is not parent approved"
// @Router /leave/{id}/review [post]
func (c *LeaveController) AdvisorReview(ctx *gin.Context) {
	c.decide(ctx)
}

func (c *LeaveController) decide(ctx *gin.Context) {
	var req dto.DecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	c.transition(ctx, req.Action, services.TransitionOptions{})
}

// WardenDecision handles a warden's approve, reject or schedule_meeting
// @Summary Warden decision
// @Description Final approval of normal leaves; emergency leaves may first get a meeting
// @Tags leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID" Format(int64) minimum(1)
// @Param request body dto.WardenDecisionRequest true "Decision"
// @Success 200 {object} dto.LeaveActionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Leave not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid transition"
// @Router /leave/{id}/warden [post]
func (c *LeaveController) WardenDecision(ctx *gin.Context) {
	var req dto.WardenDecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	c.transition(ctx, req.Action, services.TransitionOptions{
		MeetingAt: req.MeetingAt,
		Note:      req.Note,
	})
}

// ConfirmArrival handles a parent's arrival confirmation
// @Summary Confirm arrival
// @Description Completes a warden approved leave and records the arrival time
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID" Format(int64) minimum(1)
// @Success 200 {object} dto.LeaveActionResponse
// @Failure 403 {object} dto.ErrorResponse "Not the linked parent"
// @Failure 404 {object} dto.ErrorResponse "Leave not found"
// @Failure 409 {object} dto.ErrorResponse "Leave is not warden approved"
// @Router /leave/{id}/arrival [post]
func (c *LeaveController) ConfirmArrival(ctx *gin.Context) {
	c.transition(ctx, lifecycle.ActionConfirmArrival, services.TransitionOptions{})
}

// SubmitProof handles a student's proof submission
// @Summary Submit proof
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID" Format(int64) minimum(1)
// @Success 200 {object} dto.LeaveActionResponse
// @Failure 403 {object} dto.ErrorResponse "Not the applying student"
// @Failure 404 {object} dto.ErrorResponse "Leave not found"
// @Failure 409 {object} dto.ErrorResponse "Proof not accepted or already submitted"
// @Router /leave/{id}/proof [post]
func (c *LeaveController) SubmitProof(ctx *gin.Context) {
	c.proof(ctx, c.leaveService.SubmitProof, "Proof submitted")
}

// VerifyProof handles an advisor's proof verification
// @Summary Verify proof
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID" Format(int64) minimum(1)
// @Success 200 {object} dto.LeaveActionResponse
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Leave not found"
// @Failure 409 {object} dto.ErrorResponse "Proof missing or already verified"
// @Router /leave/{id}/proof/verify [post]
func (c *LeaveController) VerifyProof(ctx *gin.Context) {
	c.proof(ctx, c.leaveService.VerifyProof, "Proof verified")
}

type proofFn func(ctx context.Context, actor models.Actor, id int64) (*models.Leave, error)

func (c *LeaveController) proof(ctx *gin.Context, fn proofFn, msg string) {
	actor, err := middleware.GetActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	leave, err := fn(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.FromLeave(leave, actor.Role)
	ctx.JSON(http.StatusOK, dto.LeaveActionResponse{Msg: msg, Leave: &resp})
}
