package controllers

import (
	"net/http"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/app/services"
	"github.com/campusleave/leavedesk/internal/middleware"
	"github.com/campusleave/leavedesk/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminController handles the admin user, leave and audit endpoints
type AdminController struct {
	adminService services.AdminService
	leaveService services.LeaveService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, leaveService services.LeaveService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		leaveService: leaveService,
		logger:       logger,
	}
}

func paginated(items interface{}, total int64, page helpers.Page) dto.APIResponse {
	return dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page.Number, page.Size),
	})
}

// ListUsers returns a filtered page of users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter" Enums(student, parent, advisor, warden, admin)
// @Param status query string false "Status filter" Enums(active, inactive)
// @Param q query string false "Search in name and email"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.UserResponse}}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	var query dto.UserListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	page := helpers.ParsePaginationParams(ctx)

	users, total, err := c.adminService.ListUsers(ctx.Request.Context(), models.UserFilter{
		Role:   models.RoleType(query.Role),
		Status: models.UserStatus(query.Status),
		Search: query.Search,
		Offset: page.Offset(),
		Limit:  page.Limit(),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, paginated(dto.FromUsers(users), total, page))
}

// CreateUser creates an account of any role
// @Summary Create user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Account information"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /admin/users [post]
func (c *AdminController) CreateUser(ctx *gin.Context) {
	actor, err := middleware.GetActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.adminService.CreateUser(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromUser(user)))
}

// UpdateUser applies a partial update to an account
// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /admin/users/{id} [put]
func (c *AdminController) UpdateUser(ctx *gin.Context) {
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

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.adminService.UpdateUser(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromUser(user)))
}

// DeleteUser removes an account
// @Summary Delete user
// @Description Students who have applied for leave cannot be deleted; deactivate them instead
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Cannot delete own account"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "User still referenced by leaves"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
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

	if err := c.adminService.DeleteUser(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Msg: "User deleted"})
}

// ListLeaves returns a filtered page of all leaves
// @Summary List all leaves
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param type query string false "Type filter" Enums(normal, emergency)
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.LeaveResponse}}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /admin/leaves [get]
func (c *AdminController) ListLeaves(ctx *gin.Context) {
	actor, err := middleware.GetActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var query dto.LeaveListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	page := helpers.ParsePaginationParams(ctx)

	leaves, total, err := c.leaveService.ListAll(ctx.Request.Context(), models.LeaveFilter{
		Status: models.LeaveStatus(query.Status),
		Type:   models.LeaveType(query.Type),
		Offset: page.Offset(),
		Limit:  page.Limit(),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, paginated(dto.FromLeaves(leaves, actor.Role), total, page))
}

// ListActivity returns a page of the activity log, newest first
// @Summary Activity log
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.ActivityLog}}
// @Router /admin/logs [get]
func (c *AdminController) ListActivity(ctx *gin.Context) {
	page := helpers.ParsePaginationParams(ctx)

	entries, total, err := c.adminService.ListActivity(ctx.Request.Context(), page.Offset(), page.Limit())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, paginated(entries, total, page))
}
