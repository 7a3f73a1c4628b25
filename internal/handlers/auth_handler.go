package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillpath/user-service/internal/services"
	"github.com/skillpath/user-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// Signin authenticates a user
// @Summary Sign in
// @Description Authenticates by email (or username) and password and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body services.SigninRequest true "Credentials"
// @Success 200 {object} services.SigninResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req services.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.SignIn(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Signup registers a new account
// @Summary Sign up
// @Description Registers a new account with the base role
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body services.SignupRequest true "Registration data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if _, err := h.authService.SignUp(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "User registered successfully"})
}

// ForgotPassword starts password recovery
// @Summary Forgot password
// @Description Issues a reset token; responds identically whether or not the email matches an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.ForgotPasswordRequest true "Account email"
// @Success 200 {object} services.ForgotPasswordResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.ForgotPassword(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ResetPassword completes password recovery
// @Summary Reset password
// @Description Consumes a reset token and sets a new password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password has been reset successfully"})
}
