package middleware

import (
	"errors"
	"net/http"

	"github.com/campusleave/leavedesk/internal/app/models/dto"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// errorMapping ties a sentinel to its HTTP status, code and default message
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first matching sentinel wins.
var errorMappings = []errorMapping{
	{apperrors.ErrInvalidCredentials, http.StatusBadRequest, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrInvalidEmail, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid email address"},
	{apperrors.ErrInvalidPassword, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid password"},
	{apperrors.ErrInvalidLeaveDates, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Start date must not be after end date"},
	{apperrors.ErrParentNotFound, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Linked parent account not found"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"},

	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token has expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},

	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},

	{apperrors.ErrLeaveNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Leave not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrHostelNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Hostel not found"},
	{apperrors.ErrBranchNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Branch not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},

	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition, "Invalid status transition"},
	{apperrors.ErrProofNotAllowed, http.StatusConflict, dto.ErrorCodeInvalidTransition, "Proof is not accepted for this leave"},
	{apperrors.ErrProofNotSubmitted, http.StatusConflict, dto.ErrorCodeInvalidTransition, "Proof has not been submitted"},
	{apperrors.ErrProofAlreadyStated, http.StatusConflict, dto.ErrorCodeConflict, "Proof already recorded"},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrHostelAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Hostel already exists"},
	{apperrors.ErrBranchAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Branch already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},

	{apperrors.ErrQueryFailed, http.StatusInternalServerError, dto.ErrorCodeDatabaseError, "Failed to query data"},
}

// ErrorResponseFor maps err to its status code and response body
func ErrorResponseFor(err error) (int, *dto.ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			detail := dto.NewErrorDetail(m.code, apperrors.UserMessage(err, m.message))
			return m.status, dto.NewErrorResponse(detail)
		}
	}
	detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
	return http.StatusInternalServerError, dto.NewErrorResponse(detail)
}

// HandleAPIError writes the response for err and aborts the request
func HandleAPIError(c *gin.Context, err error) {
	status, body := ErrorResponseFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Str("method", c.Request.Method).Msg("Request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// HandleBindingError answers a request whose body or query failed to bind
func HandleBindingError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

var errPanic = errors.New("panic while handling request")
