package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodies-ua/backend/internal/middleware"
	"github.com/foodies-ua/backend/internal/service"
	"github.com/foodies-ua/backend/internal/storage"
)

var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

type UserHandler struct {
	userService   *service.UserService
	authService   *service.AuthService
	avatarStore   storage.AvatarStore
	maxAvatarSize int64
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService, avatarStore storage.AvatarStore, maxAvatarSize int64) *UserHandler {
	return &UserHandler{
		userService:   userService,
		authService:   authService,
		avatarStore:   avatarStore,
		maxAvatarSize: maxAvatarSize,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.AuthMiddleware(h.authService))
	{
		users.GET("/profile", h.GetOwnProfile)
		users.PATCH("/profile", h.UpdateProfile)
		users.PUT("/avatar", h.UpdateAvatar)
		users.GET("/followers", h.GetFollowers)
		users.GET("/following", h.GetFollowing)
		users.GET("/:id", h.GetUser)
		users.POST("/:id/follow", h.Follow)
		users.DELETE("/:id/follow", h.Unfollow)
	}
}

func (h *UserHandler) GetOwnProfile(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	profile, err := h.userService.GetOwnProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Server error while getting profile")
		return
	}

	respondData(c, http.StatusOK, profile)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Server error while getting user")
		return
	}

	respondData(c, http.StatusOK, profile)
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusBadRequest, "User with this email already exists")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User not found")
		default:
			respondError(c, http.StatusInternalServerError, "Server error while updating profile")
		}
		return
	}

	respondData(c, http.StatusOK, user)
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No avatar file provided")
		return
	}

	if file.Size > h.maxAvatarSize {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Avatar file must not exceed %d bytes", h.maxAvatarSize))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if !allowedAvatarExts[ext] || !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while reading avatar file")
		return
	}
	defer src.Close()

	avatarPath, err := h.avatarStore.Save(c.Request.Context(), ext, contentType, src)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while storing avatar")
		return
	}

	if err := h.userService.UpdateAvatar(c.Request.Context(), userID, avatarPath); err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while updating avatar")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Avatar updated successfully",
		Data:    gin.H{"avatar": avatarPath},
	})
}

func (h *UserHandler) GetFollowers(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	followers, err := h.userService.Followers(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while getting followers")
		return
	}

	respondData(c, http.StatusOK, followers)
}

func (h *UserHandler) GetFollowing(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	following, err := h.userService.Following(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error while getting following")
		return
	}

	respondData(c, http.StatusOK, following)
}

func (h *UserHandler) Follow(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.userService.Follow(c.Request.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			respondError(c, http.StatusBadRequest, "You cannot follow yourself")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrAlreadyFollowing):
			respondError(c, http.StatusBadRequest, "You are already following this user")
		default:
			respondError(c, http.StatusInternalServerError, "Server error while following user")
		}
		return
	}

	respondMessage(c, http.StatusOK, "Successfully followed user")
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	userID, exists := middleware.UserID(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.userService.Unfollow(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFollowing) {
			respondError(c, http.StatusNotFound, "You are not following this user")
			return
		}
		respondError(c, http.StatusInternalServerError, "Server error while unfollowing user")
		return
	}

	respondMessage(c, http.StatusOK, "Successfully unfollowed user")
}
