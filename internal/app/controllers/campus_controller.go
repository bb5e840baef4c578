package controllers

import (
	"net/http"

	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/app/services"
	"github.com/campusleave/leavedesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CampusController handles the hostel and branch directory
type CampusController struct {
	campusService services.CampusService
}

// NewCampusController creates a new CampusController
func NewCampusController(campusService services.CampusService) *CampusController {
	return &CampusController{campusService: campusService}
}

// ListHostels returns all hostels
// @Summary List hostels
// @Tags campus
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Hostel}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /hostels [get]
func (c *CampusController) ListHostels(ctx *gin.Context) {
	hostels, err := c.campusService.ListHostels(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(hostels))
}

// CreateHostel adds a hostel
// @Summary Create hostel
// @Tags campus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateHostelRequest true "Hostel"
// @Success 201 {object} dto.APIResponse{data=models.Hostel}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Hostel already exists"
// @Router /admin/hostels [post]
func (c *CampusController) CreateHostel(ctx *gin.Context) {
	actor, err := middleware.GetActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateHostelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	hostel, err := c.campusService.CreateHostel(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(hostel))
}

// ListBranches returns all branches
// @Summary List branches
// @Tags campus
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Branch}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /branches [get]
func (c *CampusController) ListBranches(ctx *gin.Context) {
	branches, err := c.campusService.ListBranches(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(branches))
}

// CreateBranch adds a branch
// @Summary Create branch
// @Tags campus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBranchRequest true "Branch"
// @Success 201 {object} dto.APIResponse{data=models.Branch}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Branch already exists"
// @Router /admin/branches [post]
func (c *CampusController) CreateBranch(ctx *gin.Context) {
	actor, err := middleware.GetActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateBranchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	branch, err := c.campusService.CreateBranch(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(branch))
}
