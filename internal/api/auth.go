package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodies-ua/backend/internal/middleware"
	"github.com/foodies-ua/backend/internal/models"
	"github.com/foodies-ua/backend/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.AuthMiddleware(h.authService), h.Logout)
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authPayload struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, token, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusBadRequest, "User with this email already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "Server error during registration")
		return
	}

	respondCreated(c, "User registered successfully", authPayload{User: user, Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		respondError(c, http.StatusInternalServerError, "Server error during login")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data:    authPayload{User: user, Token: token},
	})
}

// Logout acknowledges the request. Tokens are stateless; the client
// discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	respondMessage(c, http.StatusOK, "Logged out successfully")
}
