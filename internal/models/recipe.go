package models

import (
	"time"
)

type Recipe struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Instructions string    `gorm:"type:text;not null" json:"instructions"`
	Thumb        string    `gorm:"size:500" json:"thumb"`
	Time         int       `json:"time"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	AreaID       uint      `gorm:"not null;index" json:"area_id"`
	OwnerID      uint      `gorm:"not null;index" json:"owner_id"`
	Category     Category  `gorm:"foreignKey:CategoryID" json:"-"`
	Area         Area      `gorm:"foreignKey:AreaID" json:"-"`
	Owner        User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecipeIngredient joins a recipe to an ingredient with a free-form measure
// ("2 tbsp", "200g"). Unique per (recipe, ingredient).
type RecipeIngredient struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Measure      string     `gorm:"size:100;not null" json:"measure"`
	Recipe       Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}
