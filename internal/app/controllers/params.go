package controllers

import (
	"strconv"

	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive integer path parameter
func parseIDParam(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NewCustomError(apperrors.ErrBadRequest, "Invalid "+name+": must be a positive integer")
	}
	return id, nil
}

// intQuery reads an optional integer query parameter. Missing values yield
// def; malformed values are a bad request.
func intQuery(ctx *gin.Context, name string, def int) (int, error) {
	raw, ok := ctx.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewCustomError(apperrors.ErrBadRequest, "Invalid "+name+": must be an integer")
	}
	return v, nil
}
