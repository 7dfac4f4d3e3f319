package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodies-ua/backend/internal/service"
)

// LookupHandler serves the public reference lists.
type LookupHandler struct {
	lookupService *service.LookupService
}

func NewLookupHandler(lookupService *service.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

func (h *LookupHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", h.GetCategories)
	router.GET("/areas", h.GetAreas)
	router.GET("/ingredients", h.GetIngredients)
	router.GET("/testimonials", h.GetTestimonials)
}

func (h *LookupHandler) GetCategories(c *gin.Context) {
	rows, err := h.lookupService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while getting categories")
		return
	}
	respondData(c, http.StatusOK, rows)
}

func (h *LookupHandler) GetAreas(c *gin.Context) {
	rows, err := h.lookupService.Areas(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while getting areas")
		return
	}
	respondData(c, http.StatusOK, rows)
}

func (h *LookupHandler) GetIngredients(c *gin.Context) {
	rows, err := h.lookupService.Ingredients(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while getting ingredients")
		return
	}
	respondData(c, http.StatusOK, rows)
}

func (h *LookupHandler) GetTestimonials(c *gin.Context) {
	rows, err := h.lookupService.Testimonials(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while getting testimonials")
		return
	}
	respondData(c, http.StatusOK, rows)
}
