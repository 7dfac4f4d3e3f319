package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodies-ua/backend/internal/database"
	"github.com/foodies-ua/backend/internal/models"
	"github.com/foodies-ua/backend/internal/service"
	"github.com/foodies-ua/backend/internal/storage"
)

// memStore is an in-memory AvatarStore for tests.
type memStore struct {
	saved [][]byte
}

func (m *memStore) Save(_ context.Context, ext, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.saved = append(m.saved, data)
	return fmt.Sprintf("/uploads/avatars/test-%d%s", len(m.saved), ext), nil
}

// testEnv bundles the database, services and router for handler tests.
type testEnv struct {
	DB     *gorm.DB
	Auth   *service.AuthService
	Router *gin.Engine
	Store  *memStore
}

// setupTestEnv creates an in-memory database and a router with the full
// route table mounted under /api.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// A single connection keeps every session on the same in-memory
	// database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	authService := service.NewAuthService(db, "test-secret", 0)
	recipeService := service.NewRecipeService(db)
	userService := service.NewUserService(db)
	lookupService := service.NewLookupService(db)

	store := &memStore{}

	router := gin.New()
	apiGroup := router.Group("/api")
	NewAuthHandler(authService).RegisterRoutes(apiGroup)
	NewRecipeHandler(recipeService, authService).RegisterRoutes(apiGroup)
	NewUserHandler(userService, authService, store, 1<<20).RegisterRoutes(apiGroup)
	NewLookupHandler(lookupService).RegisterRoutes(apiGroup)

	return &testEnv{DB: db, Auth: authService, Router: router, Store: store}
}

func seedLookups(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, name := range []string{"Soup", "Dessert"} {
		if err := db.Create(&models.Category{Name: name}).Error; err != nil {
			t.Fatalf("failed to seed category %q: %v", name, err)
		}
	}
	for _, name := range []string{"Ukrainian", "Italian"} {
		if err := db.Create(&models.Area{Name: name}).Error; err != nil {
			t.Fatalf("failed to seed area %q: %v", name, err)
		}
	}
	for _, name := range []string{"Beetroot", "Cabbage"} {
		if err := db.Create(&models.Ingredient{Name: name}).Error; err != nil {
			t.Fatalf("failed to seed ingredient %q: %v", name, err)
		}
	}
}

func ingredientID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var ing models.Ingredient
	if err := db.Where("name = ?", name).First(&ing).Error; err != nil {
		t.Fatalf("ingredient %q not seeded: %v", name, err)
	}
	return ing.ID
}

// registerUser creates an account through the auth service and returns the
// user and a valid token.
func registerUser(t *testing.T, env *testEnv, name, email string) (*models.User, string) {
	t.Helper()
	user, token, err := env.Auth.Register(name, email, "password123")
	if err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
	return user, token
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(env *testEnv, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}

var _ storage.AvatarStore = (*memStore)(nil)
