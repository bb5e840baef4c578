package controllers

import (
	"net/http"
	"strconv"

	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/app/services"
	"github.com/campusleave/leavedesk/internal/middleware"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

// ReportController serves the admin dashboard and analytics
type ReportController struct {
	reportService services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// Stats returns the dashboard totals
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Stats}
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Failure 500 {object} dto.ErrorResponse "Query failed"
// @Router /admin/stats [get]
func (c *ReportController) Stats(ctx *gin.Context) {
	stats, err := c.reportService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

// Monthly returns leave counts per month
// @Summary Monthly trend
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of months, current included" default(12)
// @Success 200 {object} dto.APIResponse{data=[]models.MonthCount}
// @Failure 400 {object} dto.ErrorResponse "Invalid months"
// @Router /admin/analytics/monthly [get]
func (c *ReportController) Monthly(ctx *gin.Context) {
	months, err := intQuery(ctx, "months", 0)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	trend, err := c.reportService.MonthlyTrend(ctx.Request.Context(), months)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(trend))
}

// Reasons returns the most common leave reasons
// @Summary Common reasons
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of reasons" default(10)
// @Success 200 {object} dto.APIResponse{data=[]models.KeyCount}
// @Failure 400 {object} dto.ErrorResponse "Invalid limit"
// @Router /admin/analytics/reasons [get]
func (c *ReportController) Reasons(ctx *gin.Context) {
	limit, err := intQuery(ctx, "limit", 0)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	reasons, err := c.reportService.CommonReasons(ctx.Request.Context(), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(reasons))
}

// Anomalies returns students with unusually many leaves
// @Summary Leave anomalies
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param threshold query number false "Z-score threshold" default(2.0)
// @Success 200 {object} dto.APIResponse{data=[]models.Anomaly}
// @Failure 400 {object} dto.ErrorResponse "Invalid threshold"
// @Router /admin/analytics/anomalies [get]
func (c *ReportController) Anomalies(ctx *gin.Context) {
	threshold := 0.0
	if raw := ctx.Query("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrBadRequest, "Invalid threshold: must be a number"))
			return
		}
		threshold = v
	}

	anomalies, err := c.reportService.Anomalies(ctx.Request.Context(), threshold)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(anomalies))
}

// Branches returns leave counts per branch
// @Summary Leaves by branch
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.KeyCount}
// @Router /admin/analytics/branches [get]
func (c *ReportController) Branches(ctx *gin.Context) {
	counts, err := c.reportService.BranchBreakdown(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(counts))
}

// Hostels returns leave counts per hostel
// @Summary Leaves by hostel
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.KeyCount}
// @Router /admin/analytics/hostels [get]
func (c *ReportController) Hostels(ctx *gin.Context) {
	counts, err := c.reportService.HostelBreakdown(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(counts))
}
