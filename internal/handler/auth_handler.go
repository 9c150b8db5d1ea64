package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"retailpos/internal/auth"
	"retailpos/internal/middleware"
	"retailpos/internal/model"
	"retailpos/internal/service"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthProvider is the session side of auth.Provider.
type AuthProvider interface {
	middleware.TokenParser
	SignUp(ctx context.Context, req auth.SignUpRequest) (*model.User, error)
	SignIn(ctx context.Context, req auth.SignInRequest) (*auth.TokenResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// CurrentUserSource resolves the caller's profile through the active backend.
type CurrentUserSource interface {
	GetCurrentUser(ctx context.Context) (*model.User, error)
}

type AuthHandler struct {
	provider     AuthProvider
	users        CurrentUserSource
	auditService service.AuditService
	secure       bool
}

// NewAuthHandler sets up the routing dependencies for session endpoints.
// secure marks cookies Secure/SameSite=None for cross-site production use.
func NewAuthHandler(provider AuthProvider, users CurrentUserSource, auditService service.AuditService, secure bool) *AuthHandler {
	return &AuthHandler{provider: provider, users: users, auditService: auditService, secure: secure}
}

// RegisterRoutes binds the endpoints. limit, when non-nil, guards the
// credential endpoints.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	group := router.Group("/api/auth")
	public := []gin.HandlerFunc{}
	if limit != nil {
		public = append(public, limit)
	}
	group.POST("/signup", append(public, h.SignUp)...)
	group.POST("/signin", append(public, h.SignIn)...)
	group.POST("/password-reset", append(public, h.RequestPasswordReset)...)
	group.POST("/password-reset/confirm", append(public, h.ResetPassword)...)
	group.POST("/signout", h.SignOut)
	group.GET("/me", middleware.RequireAuth(h.provider), h.GetMe)
}

// SignUp registers credentials and a profile
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      auth.SignUpRequest  true  "Account"
// @Success      201      {object}  response.Response{data=model.User}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req auth.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.provider.SignUp(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// SignIn issues an access token and sets it as a cookie
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      auth.SignInRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=auth.TokenResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req auth.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tokens, err := h.provider.SignIn(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
			return
		}
		abortWithError(c, err)
		return
	}

	ctx := auth.WithAccessToken(c.Request.Context(), tokens.AccessToken)
	ctx = service.WithClientInfo(ctx, c.ClientIP(), c.Request.UserAgent())
	h.auditService.LogLogin(ctx, tokens.User)

	maxAge := int(time.Until(tokens.ExpiresAt).Seconds())
	middleware.SetTokenCookie(c, tokens.AccessToken, maxAge, h.secure)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// RequestPasswordReset mails a recovery token. Always succeeds for valid input.
// @Summary      Request password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      auth.ResetRequest  true  "Email"
// @Success      200      {object}  response.Response
// @Router       /api/auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req auth.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.provider.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "If the account exists, a reset link has been sent"))
}

// ResetPassword sets a new password from a recovery token
// @Summary      Confirm password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      auth.NewPasswordRequest  true  "Token and password"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/password-reset/confirm [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req auth.NewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.provider.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Password updated"))
}

// SignOut clears the session cookie
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	middleware.ClearTokenCookie(c, h.secure)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Logged out successfully"))
}

// GetMe returns the caller's profile from the active backend
// @Summary      Current user
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.User}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.users.GetCurrentUser(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "not authenticated"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}
