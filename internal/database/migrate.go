package database

import (
	"gorm.io/gorm"

	"github.com/foodies-ua/backend/internal/models"
)

// Migrate brings the schema up to date. Order matters: lookup tables and
// users before the tables that reference them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Area{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.UserFollow{},
		&models.UserFavoriteRecipe{},
		&models.Testimonial{},
	)
}
