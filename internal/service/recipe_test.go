package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodies-ua/backend/internal/models"
	"github.com/foodies-ua/backend/internal/service"
)

func TestSearchNoFilters(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	for i := 0; i < 5; i++ {
		createTestRecipe(t, db, owner.ID, fmt.Sprintf("Recipe %d", i), "Soup", "Ukrainian")
	}

	recipes, pagination, err := svc.Search(context.Background(), service.SearchFilters{})
	require.NoError(t, err)
	assert.Len(t, recipes, 5)
	assert.Equal(t, int64(5), pagination.TotalItems)
	assert.Equal(t, 1, pagination.TotalPages)
	assert.Equal(t, 1, pagination.CurrentPage)
	assert.Equal(t, 12, pagination.ItemsPerPage)
}

func TestSearchPagination(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	for i := 0; i < 7; i++ {
		createTestRecipe(t, db, owner.ID, fmt.Sprintf("Recipe %d", i), "Soup", "Ukrainian")
	}

	// totalPages == ceil(totalItems/itemsPerPage), len(recipes) <= limit
	recipes, pagination, err := svc.Search(context.Background(), service.SearchFilters{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, recipes, 3)
	assert.Equal(t, int64(7), pagination.TotalItems)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasNextPage)
	assert.False(t, pagination.HasPrevPage)

	recipes, pagination, err = svc.Search(context.Background(), service.SearchFilters{Page: 3, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
	assert.False(t, pagination.HasNextPage)
	assert.True(t, pagination.HasPrevPage)
}

func TestSearchFilters(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	borscht := createTestRecipe(t, db, owner.ID, "Borscht", "Soup", "Ukrainian")
	createTestRecipe(t, db, owner.ID, "Tiramisu", "Dessert", "Italian")

	beetroot := lookupID(t, db, &models.Ingredient{}, "Beetroot")
	require.NoError(t, db.Create(&models.RecipeIngredient{
		RecipeID: borscht.ID, IngredientID: beetroot, Measure: "3 pcs",
	}).Error)

	cases := []struct {
		name    string
		filters service.SearchFilters
		titles  []string
	}{
		{"by category", service.SearchFilters{Category: "Soup"}, []string{"Borscht"}},
		{"by area", service.SearchFilters{Area: "Italian"}, []string{"Tiramisu"}},
		{"by ingredient substring", service.SearchFilters{Ingredient: "beet"}, []string{"Borscht"}},
		{"by title substring", service.SearchFilters{Title: "bor"}, []string{"Borscht"}},
		{"combined", service.SearchFilters{Category: "Soup", Title: "borscht"}, []string{"Borscht"}},
		{"excluding combination", service.SearchFilters{Category: "Dessert", Area: "Ukrainian"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recipes, pagination, err := svc.Search(context.Background(), tc.filters)
			require.NoError(t, err)
			var titles []string
			for _, r := range recipes {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tc.titles, titles)
			assert.Equal(t, int64(len(tc.titles)), pagination.TotalItems)
		})
	}
}

func TestSearchZeroMatches(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	svc := service.NewRecipeService(db)

	recipes, pagination, err := svc.Search(context.Background(), service.SearchFilters{Title: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.NotNil(t, recipes)
	assert.Equal(t, 0, pagination.TotalPages)
	assert.Equal(t, int64(0), pagination.TotalItems)
}

func TestSearchSummaryFields(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	fan := createTestUser(t, db, "Bob", "bob@example.com")
	svc := service.NewRecipeService(db)

	recipe := createTestRecipe(t, db, owner.ID, "Borscht", "Soup", "Ukrainian")
	require.NoError(t, svc.Favorite(context.Background(), fan.ID, recipe.ID))

	recipes, _, err := svc.Search(context.Background(), service.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Borscht", recipes[0].Title)
	assert.Equal(t, "Soup", recipes[0].Category)
	assert.Equal(t, "Ukrainian", recipes[0].Area)
	assert.Equal(t, "Alice", recipes[0].OwnerName)
	assert.Equal(t, int64(1), recipes[0].FavoritesCount)
}

func TestPopularOrdersByFavorites(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	fan1 := createTestUser(t, db, "Bob", "bob@example.com")
	fan2 := createTestUser(t, db, "Carol", "carol@example.com")
	svc := service.NewRecipeService(db)

	plain := createTestRecipe(t, db, owner.ID, "Plain", "Soup", "Ukrainian")
	hit := createTestRecipe(t, db, owner.ID, "Hit", "Dessert", "Italian")
	_ = plain

	require.NoError(t, svc.Favorite(context.Background(), fan1.ID, hit.ID))
	require.NoError(t, svc.Favorite(context.Background(), fan2.ID, hit.ID))

	recipes, err := svc.Popular(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Hit", recipes[0].Title)
	assert.Equal(t, int64(2), recipes[0].FavoritesCount)
	assert.Equal(t, "Plain", recipes[1].Title)
}

func TestPopularRespectsLimit(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	for i := 0; i < 4; i++ {
		createTestRecipe(t, db, owner.ID, fmt.Sprintf("Recipe %d", i), "Soup", "Ukrainian")
	}

	recipes, err := svc.Popular(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}

func TestGetByID(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	recipe := createTestRecipe(t, db, owner.ID, "Borscht", "Soup", "Ukrainian")
	for _, name := range []string{"Beetroot", "Cabbage"} {
		require.NoError(t, db.Create(&models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: lookupID(t, db, &models.Ingredient{}, name),
			Measure:      "some",
		}).Error)
	}

	detail, err := svc.GetByID(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Borscht", detail.Title)
	assert.Equal(t, owner.ID, detail.OwnerID)
	assert.Equal(t, "Alice", detail.OwnerName)
	require.Len(t, detail.Ingredients, 2)
	// Ordered by ingredient name
	assert.Equal(t, "Beetroot", detail.Ingredients[0].Name)
	assert.Equal(t, "Cabbage", detail.Ingredients[1].Name)
	assert.Equal(t, int64(0), detail.FavoritesCount)
}

func TestGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewRecipeService(db)

	_, err := svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestExists(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	recipe := createTestRecipe(t, db, owner.ID, "Borscht", "Soup", "Ukrainian")

	exists, err := svc.Exists(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.Exists(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateRecipe(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	beetroot := lookupID(t, db, &models.Ingredient{}, "Beetroot")
	cabbage := lookupID(t, db, &models.Ingredient{}, "Cabbage")

	recipe, err := svc.Create(context.Background(), owner.ID, service.CreateRecipeInput{
		Title:        "Borscht",
		Instructions: "Simmer everything",
		Time:         90,
		Category:     "Soup",
		Area:         "Ukrainian",
		Ingredients: []service.IngredientInput{
			{ID: beetroot, Measure: "3 pcs"},
			{ID: cabbage, Measure: "200g"},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, recipe.ID)
	assert.Equal(t, owner.ID, recipe.OwnerID)

	var joinCount int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&joinCount).Error)
	assert.Equal(t, int64(2), joinCount)
}

func TestCreateRecipeUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	_, err := svc.Create(context.Background(), owner.ID, service.CreateRecipeInput{
		Title:        "Mystery",
		Instructions: "???",
		Time:         10,
		Category:     "Nonexistent",
		Area:         "Ukrainian",
	})
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)

	// No recipe row and no orphaned ingredient rows.
	var recipes, joins int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&joins).Error)
	assert.Zero(t, recipes)
	assert.Zero(t, joins)
}

func TestCreateRecipeUnknownArea(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	_, err := svc.Create(context.Background(), owner.ID, service.CreateRecipeInput{
		Title:        "Mystery",
		Instructions: "???",
		Time:         10,
		Category:     "Soup",
		Area:         "Atlantis",
	})
	assert.ErrorIs(t, err, service.ErrAreaNotFound)
}

func TestCreateRecipeDuplicateIngredientRollsBack(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	beetroot := lookupID(t, db, &models.Ingredient{}, "Beetroot")

	_, err := svc.Create(context.Background(), owner.ID, service.CreateRecipeInput{
		Title:        "Borscht",
		Instructions: "Simmer everything",
		Time:         90,
		Category:     "Soup",
		Area:         "Ukrainian",
		Ingredients: []service.IngredientInput{
			{ID: beetroot, Measure: "3 pcs"},
			{ID: beetroot, Measure: "again"},
		},
	})
	assert.ErrorIs(t, err, service.ErrDuplicateIngredient)

	// The whole write rolled back: no recipe, no join rows.
	var recipes, joins int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&joins).Error)
	assert.Zero(t, recipes)
	assert.Zero(t, joins)
}

func TestDeleteRecipe(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)

	recipe := createTestRecipe(t, db, owner.ID, "Borscht", "Soup", "Ukrainian")
	require.NoError(t, svc.Delete(context.Background(), recipe.ID, owner.ID))

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteRecipeNotOwner(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	other := createTestUser(t, db, "Bob", "bob@example.com")
	svc := service.NewRecipeService(db)

	recipe := createTestRecipe(t, db, owner.ID, "Borscht", "Soup", "Ukrainian")

	err := svc.Delete(context.Background(), recipe.ID, other.ID)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)

	// The row remains.
	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFavoriteLifecycle(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	fan := createTestUser(t, db, "Bob", "bob@example.com")
	svc := service.NewRecipeService(db)

	recipe := createTestRecipe(t, db, owner.ID, "Borscht", "Soup", "Ukrainian")

	require.NoError(t, svc.Favorite(context.Background(), fan.ID, recipe.ID))

	// Second attempt is rejected, not silently absorbed.
	err := svc.Favorite(context.Background(), fan.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyFavorited)

	var count int64
	require.NoError(t, db.Model(&models.UserFavoriteRecipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.Unfavorite(context.Background(), fan.ID, recipe.ID))

	err = svc.Unfavorite(context.Background(), fan.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFavorited)
}

func TestFavoriteMissingRecipe(t *testing.T) {
	db := setupTestDB(t)
	fan := createTestUser(t, db, "Bob", "bob@example.com")
	svc := service.NewRecipeService(db)

	err := svc.Favorite(context.Background(), fan.ID, 999)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestListByOwner(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	svc := service.NewRecipeService(db)

	createTestRecipe(t, db, alice.ID, "Borscht", "Soup", "Ukrainian")
	createTestRecipe(t, db, alice.ID, "Varenyky", "Dessert", "Ukrainian")
	createTestRecipe(t, db, bob.ID, "Tiramisu", "Dessert", "Italian")

	recipes, pagination, err := svc.ListByOwner(context.Background(), alice.ID, 1, 12)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
	assert.Equal(t, int64(2), pagination.TotalItems)
}

func TestListFavorites(t *testing.T) {
	db := setupTestDB(t)
	seedLookups(t, db)
	owner := createTestUser(t, db, "Alice", "alice@example.com")
	fan := createTestUser(t, db, "Bob", "bob@example.com")
	svc := service.NewRecipeService(db)

	borscht := createTestRecipe(t, db, owner.ID, "Borscht", "Soup", "Ukrainian")
	createTestRecipe(t, db, owner.ID, "Tiramisu", "Dessert", "Italian")

	require.NoError(t, svc.Favorite(context.Background(), fan.ID, borscht.ID))

	recipes, pagination, err := svc.ListFavorites(context.Background(), fan.ID, 1, 12)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Borscht", recipes[0].Title)
	assert.Equal(t, "Alice", recipes[0].OwnerName)
	assert.False(t, recipes[0].FavoritedAt.IsZero())
	assert.Equal(t, int64(1), pagination.TotalItems)

	// The owner has no favorites.
	recipes, pagination, err = svc.ListFavorites(context.Background(), owner.ID, 1, 12)
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.Equal(t, 0, pagination.TotalPages)
}
