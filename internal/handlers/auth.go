package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/dto"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	handlerLog := log.With("handler", "AuthHandler")
	return &AuthHandler{log: handlerLog, authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, ah.log, apierr.Validation("invalid registration payload: %v", err))
		return
	}
	user, err := ah.authService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		RespondError(c, ah.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(user, false))
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, ah.log, apierr.Validation("invalid login payload: %v", err))
		return
	}
	accessToken, refreshToken, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, ah.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	accessToken, refreshToken, err := ah.authService.RefreshUser(c.Request.Context())
	if err != nil {
		RespondError(c, ah.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
		RespondError(c, ah.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
