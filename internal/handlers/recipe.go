package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/dto"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/services"
)

type RecipeHandler struct {
	log                 *logger.Logger
	recipeService       services.RecipeService
	favoriteService     services.FavoriteService
	shoppingCartService services.ShoppingCartService
	shoppingListService services.ShoppingListService
}

func NewRecipeHandler(
	log *logger.Logger,
	recipeService services.RecipeService,
	favoriteService services.FavoriteService,
	shoppingCartService services.ShoppingCartService,
	shoppingListService services.ShoppingListService,
) *RecipeHandler {
	handlerLog := log.With("handler", "RecipeHandler")
	return &RecipeHandler{
		log:                 handlerLog,
		recipeService:       recipeService,
		favoriteService:     favoriteService,
		shoppingCartService: shoppingCartService,
		shoppingListService: shoppingListService,
	}
}

func (rh *RecipeHandler) Create(c *gin.Context) {
	var req dto.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, rh.log, apierr.Validation("invalid recipe payload: %v", err))
		return
	}
	recipe, err := rh.recipeService.Create(c.Request.Context(), req)
	if err != nil {
		RespondError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (rh *RecipeHandler) Update(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, rh.log, apierr.Validation("invalid recipe id"))
		return
	}
	var req dto.RecipeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, rh.log, apierr.Validation("invalid recipe payload: %v", err))
		return
	}
	recipe, err := rh.recipeService.Update(c.Request.Context(), recipeID, req)
	if err != nil {
		RespondError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (rh *RecipeHandler) Delete(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, rh.log, apierr.Validation("invalid recipe id"))
		return
	}
	if err := rh.recipeService.Delete(c.Request.Context(), recipeID); err != nil {
		RespondError(c, rh.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rh *RecipeHandler) GetByID(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, rh.log, apierr.Validation("invalid recipe id"))
		return
	}
	recipe, err := rh.recipeService.GetByID(c.Request.Context(), recipeID)
	if err != nil {
		RespondError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (rh *RecipeHandler) List(c *gin.Context) {
	offset, limit := ParsePagination(c)
	params := services.RecipeListParams{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
		Offset:           offset,
		Limit:            limit,
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, rh.log, apierr.Validation("invalid author id"))
			return
		}
		params.AuthorID = &authorID
	}

	page, err := rh.recipeService.List(c.Request.Context(), params)
	if err != nil {
		RespondError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (rh *RecipeHandler) AddFavorite(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, rh.log, apierr.Validation("invalid recipe id"))
		return
	}
	short, err := rh.favoriteService.Add(c.Request.Context(), recipeID)
	if err != nil {
		RespondError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusCreated, short)
}

func (rh *RecipeHandler) RemoveFavorite(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, rh.log, apierr.Validation("invalid recipe id"))
		return
	}
	if err := rh.favoriteService.Remove(c.Request.Context(), recipeID); err != nil {
		RespondError(c, rh.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rh *RecipeHandler) AddToCart(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, rh.log, apierr.Validation("invalid recipe id"))
		return
	}
	short, err := rh.shoppingCartService.Add(c.Request.Context(), recipeID)
	if err != nil {
		RespondError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusCreated, short)
}

func (rh *RecipeHandler) RemoveFromCart(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, rh.log, apierr.Validation("invalid recipe id"))
		return
	}
	if err := rh.shoppingCartService.Remove(c.Request.Context(), recipeID); err != nil {
		RespondError(c, rh.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart streams the aggregated shopping list as a plain-text
// attachment.
func (rh *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	report, err := rh.shoppingListService.BuildReport(c.Request.Context())
	if err != nil {
		RespondError(c, rh.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+services.ShoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}
