package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodies-ua/backend/config"
	"github.com/foodies-ua/backend/internal/database"
	"github.com/foodies-ua/backend/internal/models"
)

var categories = []string{
	"Beef", "Breakfast", "Chicken", "Dessert", "Goat", "Lamb",
	"Miscellaneous", "Pasta", "Pork", "Seafood", "Side", "Soup",
	"Starter", "Vegan", "Vegetarian",
}

var areas = []string{
	"American", "British", "Canadian", "Chinese", "Croatian", "Dutch",
	"Egyptian", "French", "Greek", "Indian", "Irish", "Italian",
	"Jamaican", "Japanese", "Kenyan", "Malaysian", "Mexican", "Moroccan",
	"Polish", "Portuguese", "Russian", "Spanish", "Thai", "Tunisian",
	"Turkish", "Ukrainian", "Vietnamese",
}

var ingredients = []string{
	"Basil", "Bay Leaf", "Beef", "Beetroot", "Black Pepper", "Butter", "Cabbage",
	"Carrots", "Cheese", "Chicken", "Chicken Stock", "Cream", "Dill",
	"Eggs", "Flour", "Garlic", "Honey", "Lemon", "Milk", "Mushrooms",
	"Olive Oil", "Onion", "Paprika", "Parsley", "Pork", "Potatoes",
	"Rice", "Salmon", "Salt", "Sour Cream", "Sugar", "Tomatoes", "Water",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	if err := seedLookups(db); err != nil {
		log.Fatalf("failed to seed lookup tables: %v", err)
	}

	if err := seedTestimonial(db); err != nil {
		log.Fatalf("failed to seed testimonial: %v", err)
	}

	log.Println("seed complete")
}

// seedLookups inserts the reference rows, skipping names already present
// so the command is safe to re-run.
func seedLookups(db *gorm.DB) error {
	skipDuplicates := clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}

	for _, name := range categories {
		if err := db.Clauses(skipDuplicates).Create(&models.Category{Name: name}).Error; err != nil {
			return err
		}
	}
	for _, name := range areas {
		if err := db.Clauses(skipDuplicates).Create(&models.Area{Name: name}).Error; err != nil {
			return err
		}
	}
	for _, name := range ingredients {
		if err := db.Clauses(skipDuplicates).Create(&models.Ingredient{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedTestimonial creates a demo account with one testimonial so the
// landing page has content on a fresh database.
func seedTestimonial(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("foodies-demo"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Name:         "Foodies Team",
		Email:        "team@foodies.example",
		PasswordHash: string(hash),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&user).Error; err != nil {
		return err
	}
	if user.ID == 0 {
		if err := db.Where("email = ?", user.Email).First(&user).Error; err != nil {
			return err
		}
	}

	var count int64
	if err := db.Model(&models.Testimonial{}).Where("owner_id = ?", user.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.Testimonial{
		OwnerID:     user.ID,
		Testimonial: "Thank you for this wonderful recipe community. Cooking at home has never been this fun.",
	}).Error
}
