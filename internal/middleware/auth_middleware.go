package middleware

import (
	"strings"

	appauth "github.com/campusleave/leavedesk/internal/app/auth"
	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// TokenValidator verifies session tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	tokens TokenValidator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// tokenFromHeader accepts "Bearer <jwt>" and, for Swagger UI convenience, a
// bare JWT.
func tokenFromHeader(header string) (string, error) {
	header = strings.Trim(strings.TrimSpace(header), "\"'")
	if header == "" {
		return "", apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Authorization header missing")
	}
	if strings.Count(header, ".") == 2 && !strings.Contains(header, " ") {
		return header, nil
	}
	return auth.ExtractBearerToken(header)
}

// JWTAuth resolves the bearer token and stores the caller's identity in the
// request context. Missing, malformed, invalid and expired tokens get 401.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := tokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		claims, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// Authorize lets the request through only if the caller's role may perform op
func (m *AuthMiddleware) Authorize(op appauth.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := GetActor(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		if err := appauth.Authorize(op, actor.Role); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated caller set by JWTAuth
func GetActor(c *gin.Context) (models.Actor, error) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return models.Actor{}, apperrors.ErrUnauthenticated
	}
	role, ok := c.Get(ContextRole)
	if !ok {
		return models.Actor{}, apperrors.ErrUnauthenticated
	}

	userID, idOK := id.(int64)
	roleType, roleOK := role.(models.RoleType)
	if !idOK || !roleOK {
		return models.Actor{}, apperrors.ErrUnauthenticated
	}
	return models.Actor{ID: userID, Role: roleType}, nil
}
