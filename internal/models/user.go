package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Avatar       string    `gorm:"size:500" json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserFollow is a follower -> following edge. The composite unique index
// keeps the pair unique; the check constraint forbids self-follows at the
// schema level in addition to the service-level check.
type UserFollow struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follower_following;constraint:OnDelete:CASCADE" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follower_following;check:chk_no_self_follow,follower_id <> following_id" json:"following_id"`
	Follower    User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following   User      `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}

type UserFavoriteRecipe struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_user_recipe" json:"recipe_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserFavoriteRecipe) TableName() string {
	return "user_favorite_recipes"
}
