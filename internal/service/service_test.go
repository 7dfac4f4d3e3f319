package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodies-ua/backend/internal/database"
	"github.com/foodies-ua/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedLookups(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, name := range []string{"Soup", "Dessert", "Seafood"} {
		require.NoError(t, db.Create(&models.Category{Name: name}).Error)
	}
	for _, name := range []string{"Ukrainian", "Italian"} {
		require.NoError(t, db.Create(&models.Area{Name: name}).Error)
	}
	for _, name := range []string{"Beetroot", "Cabbage", "Potatoes", "Sour Cream"} {
		require.NoError(t, db.Create(&models.Ingredient{Name: name}).Error)
	}
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func lookupID(t *testing.T, db *gorm.DB, model interface{}, name string) uint {
	t.Helper()
	type row struct{ ID uint }
	var r row
	require.NoError(t, db.Model(model).Where("name = ?", name).Select("id").Take(&r).Error)
	return r.ID
}

func createTestRecipe(t *testing.T, db *gorm.DB, ownerID uint, title, category, area string) *models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		Title:        title,
		Instructions: "Cook it",
		Time:         30,
		CategoryID:   lookupID(t, db, &models.Category{}, category),
		AreaID:       lookupID(t, db, &models.Area{}, area),
		OwnerID:      ownerID,
	}
	require.NoError(t, db.Create(&recipe).Error)
	return &recipe
}
