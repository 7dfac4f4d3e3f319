package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodies-ua/backend/internal/middleware"
	"github.com/foodies-ua/backend/internal/service"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	authService   *service.AuthService
}

func NewRecipeHandler(recipeService *service.RecipeService, authService *service.AuthService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		authService:   authService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("/search", h.Search)
		recipes.GET("/popular", h.Popular)
		recipes.GET("/my", auth, h.MyRecipes)
		recipes.GET("/favorites", auth, h.FavoriteRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.HEAD("/:id", h.CheckRecipe)
		recipes.POST("", auth, h.CreateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.AddFavorite)
		recipes.DELETE("/:id/favorite", auth, h.RemoveFavorite)
	}
}

type recipeListPayload struct {
	Recipes    interface{}        `json:"recipes"`
	Pagination service.Pagination `json:"pagination"`
}

func (h *RecipeHandler) Search(c *gin.Context) {
	page, limit := pageParams(c)
	filters := service.SearchFilters{
		Category:   c.Query("category"),
		Area:       c.Query("area"),
		Ingredient: c.Query("ingredient"),
		Title:      c.Query("title"),
		Page:       page,
		Limit:      limit,
	}

	recipes, pagination, err := h.recipeService.Search(c.Request.Context(), filters)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while searching recipes")
		return
	}

	respondData(c, http.StatusOK, recipeListPayload{Recipes: recipes, Pagination: pagination})
}

func (h *RecipeHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	recipes, err := h.recipeService.Popular(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while getting popular recipes")
		return
	}

	respondData(c, http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid recipe id")
		return
	}

	recipe, err := h.recipeService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			respondError(c, http.StatusNotFound, "Recipe not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Server error while getting recipe")
		return
	}

	respondData(c, http.StatusOK, recipe)
}

// CheckRecipe is the bodiless existence probe.
func (h *RecipeHandler) CheckRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	exists, err := h.recipeService.Exists(c.Request.Context(), id)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if !exists {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

type CreateRecipeRequest struct {
	Title        string                    `json:"title" binding:"required,max=255"`
	Description  string                    `json:"description"`
	Instructions string                    `json:"instructions" binding:"required"`
	Thumb        string                    `json:"thumb"`
	Time         int                       `json:"time" binding:"required,gt=0"`
	Category     string                    `json:"category" binding:"required"`
	Area         string                    `json:"area" binding:"required"`
	Ingredients  []service.IngredientInput `json:"ingredients" binding:"omitempty,dive"`
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, service.CreateRecipeInput{
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		Thumb:        req.Thumb,
		Time:         req.Time,
		Category:     req.Category,
		Area:         req.Area,
		Ingredients:  req.Ingredients,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusBadRequest, "Category not found")
		case errors.Is(err, service.ErrAreaNotFound):
			respondError(c, http.StatusBadRequest, "Area not found")
		case errors.Is(err, service.ErrUnknownIngredient):
			respondError(c, http.StatusBadRequest, "Unknown ingredient")
		case errors.Is(err, service.ErrDuplicateIngredient):
			respondError(c, http.StatusBadRequest, "Duplicate ingredient")
		default:
			respondError(c, http.StatusInternalServerError, "Server error while creating recipe")
		}
		return
	}

	respondCreated(c, "Recipe created successfully", recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid recipe id")
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			respondError(c, http.StatusNotFound, "Recipe not found or you do not have permission to delete it")
			return
		}
		respondError(c, http.StatusInternalServerError, "Server error while deleting recipe")
		return
	}

	respondMessage(c, http.StatusOK, "Recipe deleted successfully")
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid recipe id")
		return
	}

	if err := h.recipeService.Favorite(c.Request.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			respondError(c, http.StatusNotFound, "Recipe not found")
		case errors.Is(err, service.ErrAlreadyFavorited):
			respondError(c, http.StatusBadRequest, "Recipe is already in favorites")
		default:
			respondError(c, http.StatusInternalServerError, "Server error while adding to favorites")
		}
		return
	}

	respondMessage(c, http.StatusOK, "Recipe added to favorites")
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid recipe id")
		return
	}

	if err := h.recipeService.Unfavorite(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFavorited) {
			respondError(c, http.StatusNotFound, "Recipe is not in favorites")
			return
		}
		respondError(c, http.StatusInternalServerError, "Server error while removing from favorites")
		return
	}

	respondMessage(c, http.StatusOK, "Recipe removed from favorites")
}

func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	page, limit := pageParams(c)
	recipes, pagination, err := h.recipeService.ListByOwner(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while getting your recipes")
		return
	}

	respondData(c, http.StatusOK, recipeListPayload{Recipes: recipes, Pagination: pagination})
}

func (h *RecipeHandler) FavoriteRecipes(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	page, limit := pageParams(c)
	recipes, pagination, err := h.recipeService.ListFavorites(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while getting favorite recipes")
		return
	}

	respondData(c, http.StatusOK, recipeListPayload{Recipes: recipes, Pagination: pagination})
}
