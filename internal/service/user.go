package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/foodies-ua/backend/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfFollow       = errors.New("you cannot follow yourself")
	ErrAlreadyFollowing = errors.New("you are already following this user")
	ErrNotFollowing     = errors.New("you are not following this user")
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Profile is a user with aggregate counts. Counts that were not requested
// stay at zero and are omitted from the JSON.
type Profile struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Avatar         string    `json:"avatar"`
	CreatedAt      time.Time `json:"created_at"`
	RecipesCount   int64     `json:"recipesCount"`
	FavoritesCount *int64    `json:"favoritesCount,omitempty"`
	FollowersCount int64     `json:"followersCount"`
	FollowingCount *int64    `json:"followingCount,omitempty"`
}

// FollowedUser is one row of a followers/following listing.
type FollowedUser struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar"`
	FollowedAt time.Time `json:"followed_at"`
}

// UpdateProfileInput carries a partial profile update; nil fields stay
// untouched.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

func (s *UserService) getUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetOwnProfile returns the user's profile with all four counts.
func (s *UserService) GetOwnProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}

	var favorites, following int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Recipe{}).
			Where("owner_id = ?", userID).Count(&profile.RecipesCount).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.UserFavoriteRecipe{}).
			Where("user_id = ?", userID).Count(&favorites).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.UserFollow{}).
			Where("following_id = ?", userID).Count(&profile.FollowersCount).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.UserFollow{}).
			Where("follower_id = ?", userID).Count(&following).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile.FavoritesCount = &favorites
	profile.FollowingCount = &following
	return profile, nil
}

// GetProfile returns another user's public profile: recipe and follower
// counts only.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Recipe{}).
			Where("owner_id = ?", userID).Count(&profile.RecipesCount).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.UserFollow{}).
			Where("following_id = ?", userID).Count(&profile.FollowersCount).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return profile, nil
}

// UpdateProfile applies a partial name/email update. Email uniqueness is
// guaranteed by the unique index; a duplicate surfaces as ErrEmailTaken.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// UpdateAvatar stores the new avatar path on the user row and returns it.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, avatarPath string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar", avatarPath)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Follow adds a follower -> target edge. The self-check runs before any
// lookup; the unique constraint is the duplicate guard.
func (s *UserService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return ErrSelfFollow
	}

	if _, err := s.getUser(ctx, targetID); err != nil {
		return err
	}

	follow := models.UserFollow{FollowerID: followerID, FollowingID: targetID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// Unfollow removes the edge; zero rows affected means it never existed.
func (s *UserService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, targetID).
		Delete(&models.UserFollow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// Followers lists the users following userID, newest first.
func (s *UserService) Followers(ctx context.Context, userID uint) ([]FollowedUser, error) {
	var rows []FollowedUser
	err := s.db.WithContext(ctx).
		Table("users u").
		Select("u.id, u.name, u.email, u.avatar, uf.created_at AS followed_at").
		Joins("JOIN user_follows uf ON u.id = uf.follower_id").
		Where("uf.following_id = ?", userID).
		Order("uf.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []FollowedUser{}
	}
	return rows, nil
}

// Following lists the users userID follows, newest first.
func (s *UserService) Following(ctx context.Context, userID uint) ([]FollowedUser, error) {
	var rows []FollowedUser
	err := s.db.WithContext(ctx).
		Table("users u").
		Select("u.id, u.name, u.email, u.avatar, uf.created_at AS followed_at").
		Joins("JOIN user_follows uf ON u.id = uf.following_id").
		Where("uf.follower_id = ?", userID).
		Order("uf.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []FollowedUser{}
	}
	return rows, nil
}
