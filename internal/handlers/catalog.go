package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/services"
)

type CatalogHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalogService services.CatalogService) *CatalogHandler {
	handlerLog := log.With("handler", "CatalogHandler")
	return &CatalogHandler{log: handlerLog, catalogService: catalogService}
}

func (ch *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := ch.catalogService.ListTags(c.Request.Context())
	if err != nil {
		RespondError(c, ch.log, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (ch *CatalogHandler) GetTag(c *gin.Context) {
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, ch.log, apierr.Validation("invalid tag id"))
		return
	}
	tag, err := ch.catalogService.GetTag(c.Request.Context(), tagID)
	if err != nil {
		RespondError(c, ch.log, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// ListIngredients returns the whole catalog, or a prefix match when the
// name query param is present.
func (ch *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := ch.catalogService.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		RespondError(c, ch.log, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (ch *CatalogHandler) GetIngredient(c *gin.Context) {
	ingredientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, ch.log, apierr.Validation("invalid ingredient id"))
		return
	}
	ingredient, err := ch.catalogService.GetIngredient(c.Request.Context(), ingredientID)
	if err != nil {
		RespondError(c, ch.log, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
