package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/services"
)

type UserHandler struct {
	log                 *logger.Logger
	userService         services.UserService
	subscriptionService services.SubscriptionService
}

func NewUserHandler(
	log *logger.Logger,
	userService services.UserService,
	subscriptionService services.SubscriptionService,
) *UserHandler {
	handlerLog := log.With("handler", "UserHandler")
	return &UserHandler{
		log:                 handlerLog,
		userService:         userService,
		subscriptionService: subscriptionService,
	}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		RespondError(c, uh.log, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

func (uh *UserHandler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, uh.log, apierr.Validation("invalid user id"))
		return
	}
	user, err := uh.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, uh.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uh *UserHandler) List(c *gin.Context) {
	offset, limit := ParsePagination(c)
	page, err := uh.userService.List(c.Request.Context(), offset, limit)
	if err != nil {
		RespondError(c, uh.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (uh *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, uh.log, apierr.Validation("invalid user id"))
		return
	}
	author, err := uh.subscriptionService.Subscribe(c.Request.Context(), authorID)
	if err != nil {
		RespondError(c, uh.log, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (uh *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, uh.log, apierr.Validation("invalid user id"))
		return
	}
	if err := uh.subscriptionService.Unsubscribe(c.Request.Context(), authorID); err != nil {
		RespondError(c, uh.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (uh *UserHandler) ListSubscriptions(c *gin.Context) {
	offset, limit := ParsePagination(c)

	recipesLimit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		if parsed, ok := parsePositiveInt(raw); ok {
			recipesLimit = parsed
		}
	}

	page, err := uh.subscriptionService.ListSubscriptions(c.Request.Context(), offset, limit, recipesLimit)
	if err != nil {
		RespondError(c, uh.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
