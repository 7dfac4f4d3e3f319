package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/foodies-ua/backend/internal/models"
)

var (
	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrAreaNotFound        = errors.New("area not found")
	ErrUnknownIngredient   = errors.New("unknown ingredient")
	ErrDuplicateIngredient = errors.New("duplicate ingredient")
	ErrAlreadyFavorited    = errors.New("recipe is already in favorites")
	ErrNotFavorited        = errors.New("recipe is not in favorites")
)

type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// SearchFilters are the optional recipe search predicates. Absent fields
// contribute nothing; present fields AND together.
type SearchFilters struct {
	Category   string
	Area       string
	Ingredient string
	Title      string
	Page       int
	Limit      int
}

// RecipeSummary is one row of a recipe listing.
type RecipeSummary struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Thumb          string    `json:"thumb"`
	Time           int       `json:"time"`
	Category       string    `json:"category"`
	Area           string    `json:"area"`
	OwnerName      string    `json:"owner_name"`
	OwnerAvatar    string    `json:"owner_avatar"`
	FavoritesCount int64     `json:"favorites_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// FavoriteRecipeSummary is one row of a user's favorites listing.
type FavoriteRecipeSummary struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumb       string    `json:"thumb"`
	Time        int       `json:"time"`
	Category    string    `json:"category"`
	Area        string    `json:"area"`
	OwnerName   string    `json:"owner_name"`
	OwnerAvatar string    `json:"owner_avatar"`
	FavoritedAt time.Time `json:"favorited_at"`
}

// RecipeIngredientRow is one ingredient of a recipe detail.
type RecipeIngredientRow struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// RecipeDetail is the full single-recipe view.
type RecipeDetail struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Instructions   string                `json:"instructions"`
	Thumb          string                `json:"thumb"`
	Time           int                   `json:"time"`
	Category       string                `json:"category"`
	Area           string                `json:"area"`
	OwnerID        uint                  `json:"owner_id"`
	OwnerName      string                `json:"owner_name"`
	OwnerAvatar    string                `json:"owner_avatar"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Ingredients    []RecipeIngredientRow `json:"ingredients" gorm:"-"`
	FavoritesCount int64                 `json:"favoritesCount" gorm:"-"`
}

// predicate is one filter clause with its bound parameters. The same list
// is applied to the page query and the count query, which keeps the two in
// sync by construction.
type predicate struct {
	expr string
	args []interface{}
}

func searchPredicates(f SearchFilters) []predicate {
	var preds []predicate
	if f.Category != "" {
		preds = append(preds, predicate{"c.name = ?", []interface{}{f.Category}})
	}
	if f.Area != "" {
		preds = append(preds, predicate{"a.name = ?", []interface{}{f.Area}})
	}
	if f.Ingredient != "" {
		preds = append(preds, predicate{
			"r.id IN (SELECT ri.recipe_id FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id WHERE LOWER(i.name) LIKE ?)",
			[]interface{}{containsPattern(f.Ingredient)},
		})
	}
	if f.Title != "" {
		preds = append(preds, predicate{"LOWER(r.title) LIKE ?", []interface{}{containsPattern(f.Title)}})
	}
	return preds
}

// containsPattern builds a case-insensitive substring LIKE pattern.
// LOWER+LIKE instead of ILIKE keeps the predicates portable to sqlite.
func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func applyPredicates(q *gorm.DB, preds []predicate) *gorm.DB {
	for _, p := range preds {
		q = q.Where(p.expr, p.args...)
	}
	return q
}

func (s *RecipeService) summaryQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("recipes r").
		Select(`r.id, r.title, r.description, r.thumb, r.time, r.created_at,
			c.name AS category, a.name AS area,
			u.name AS owner_name, u.avatar AS owner_avatar,
			COUNT(f.id) AS favorites_count`).
		Joins("LEFT JOIN categories c ON r.category_id = c.id").
		Joins("LEFT JOIN areas a ON r.area_id = a.id").
		Joins("LEFT JOIN users u ON r.owner_id = u.id").
		Joins("LEFT JOIN user_favorite_recipes f ON f.recipe_id = r.id").
		Group("r.id, r.title, r.description, r.thumb, r.time, r.created_at, c.name, a.name, u.name, u.avatar")
}

func (s *RecipeService) countQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("recipes r").
		Joins("LEFT JOIN categories c ON r.category_id = c.id").
		Joins("LEFT JOIN areas a ON r.area_id = a.id")
}

// paginateSummaries runs the page query and the count query concurrently
// over the same predicate list.
func (s *RecipeService) paginateSummaries(ctx context.Context, preds []predicate, page, limit int) ([]RecipeSummary, Pagination, error) {
	var (
		rows  []RecipeSummary
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := applyPredicates(s.summaryQuery(gctx), preds)
		return q.Order("r.created_at DESC").
			Limit(limit).
			Offset((page - 1) * limit).
			Scan(&rows).Error
	})
	g.Go(func() error {
		q := applyPredicates(s.countQuery(gctx), preds)
		return q.Distinct("r.id").Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, Pagination{}, err
	}

	if rows == nil {
		rows = []RecipeSummary{}
	}
	return rows, NewPagination(page, limit, total), nil
}

// Search returns a filtered, paginated recipe listing plus page math.
func (s *RecipeService) Search(ctx context.Context, f SearchFilters) ([]RecipeSummary, Pagination, error) {
	page, limit := normalizePage(f.Page, f.Limit)
	return s.paginateSummaries(ctx, searchPredicates(f), page, limit)
}

// ListByOwner returns the recipes owned by a user, newest first.
func (s *RecipeService) ListByOwner(ctx context.Context, ownerID uint, page, limit int) ([]RecipeSummary, Pagination, error) {
	page, limit = normalizePage(page, limit)
	preds := []predicate{{"r.owner_id = ?", []interface{}{ownerID}}}
	return s.paginateSummaries(ctx, preds, page, limit)
}

// Popular returns recipes ordered by favorite count, creation time as the
// tie-break.
func (s *RecipeService) Popular(ctx context.Context, limit int) ([]RecipeSummary, error) {
	if limit < 1 {
		limit = 10
	}
	var rows []RecipeSummary
	err := s.summaryQuery(ctx).
		Order("favorites_count DESC, r.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []RecipeSummary{}
	}
	return rows, nil
}

// GetByID returns the full recipe view with ingredients and favorite count.
func (s *RecipeService) GetByID(ctx context.Context, id uint) (*RecipeDetail, error) {
	var detail RecipeDetail
	err := s.db.WithContext(ctx).
		Table("recipes r").
		Select(`r.id, r.title, r.description, r.instructions, r.thumb, r.time,
			c.name AS category, a.name AS area,
			u.id AS owner_id, u.name AS owner_name, u.avatar AS owner_avatar,
			r.created_at, r.updated_at`).
		Joins("LEFT JOIN categories c ON r.category_id = c.id").
		Joins("LEFT JOIN areas a ON r.area_id = a.id").
		Joins("LEFT JOIN users u ON r.owner_id = u.id").
		Where("r.id = ?", id).
		Take(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	var ingredients []RecipeIngredientRow
	err = s.db.WithContext(ctx).
		Table("recipe_ingredients ri").
		Select("i.id, i.name, ri.measure").
		Joins("JOIN ingredients i ON ri.ingredient_id = i.id").
		Where("ri.recipe_id = ?", id).
		Order("i.name").
		Scan(&ingredients).Error
	if err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []RecipeIngredientRow{}
	}
	detail.Ingredients = ingredients

	if err := s.db.WithContext(ctx).
		Model(&models.UserFavoriteRecipe{}).
		Where("recipe_id = ?", id).
		Count(&detail.FavoritesCount).Error; err != nil {
		return nil, err
	}

	return &detail, nil
}

// Exists reports whether a recipe row is present, for the HEAD probe.
func (s *RecipeService) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IngredientInput references an existing ingredient with a measure.
type IngredientInput struct {
	ID      uint   `json:"id" binding:"required"`
	Measure string `json:"measure" binding:"required"`
}

// CreateRecipeInput carries everything needed to create a recipe. Category
// and Area are names, resolved to ids before any write.
type CreateRecipeInput struct {
	Title        string
	Description  string
	Instructions string
	Thumb        string
	Time         int
	Category     string
	Area         string
	Ingredients  []IngredientInput
}

// Create resolves category/area names, then inserts the recipe and its
// ingredient rows in one transaction so a failed ingredient insert never
// leaves a partial recipe behind.
func (s *RecipeService) Create(ctx context.Context, ownerID uint, in CreateRecipeInput) (*models.Recipe, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("name = ?", in.Category).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var area models.Area
	if err := s.db.WithContext(ctx).Where("name = ?", in.Area).First(&area).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}

	recipe := models.Recipe{
		Title:        in.Title,
		Description:  in.Description,
		Instructions: in.Instructions,
		Thumb:        in.Thumb,
		Time:         in.Time,
		CategoryID:   category.ID,
		AreaID:       area.ID,
		OwnerID:      ownerID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		for _, ing := range in.Ingredients {
			row := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: ing.ID,
				Measure:      ing.Measure,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrUnknownIngredient
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIngredient
		}
		return nil, err
	}

	return &recipe, nil
}

// Delete removes a recipe owned by ownerID. A recipe that exists but is
// owned by someone else is reported as not found, not as forbidden.
func (s *RecipeService) Delete(ctx context.Context, id, ownerID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// Favorite adds a favorite edge. The unique constraint on (user, recipe)
// is the actual duplicate guard; the existence check only picks the right
// status for a missing recipe.
func (s *RecipeService) Favorite(ctx context.Context, userID, recipeID uint) error {
	exists, err := s.Exists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrRecipeNotFound
	}

	fav := models.UserFavoriteRecipe{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFavorited
		}
		return err
	}
	return nil
}

// Unfavorite removes a favorite edge; zero rows affected means it was
// never there.
func (s *RecipeService) Unfavorite(ctx context.Context, userID, recipeID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.UserFavoriteRecipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFavorited
	}
	return nil
}

// ListFavorites returns the recipes a user favorited, most recently
// favorited first.
func (s *RecipeService) ListFavorites(ctx context.Context, userID uint, page, limit int) ([]FavoriteRecipeSummary, Pagination, error) {
	page, limit = normalizePage(page, limit)

	var (
		rows  []FavoriteRecipeSummary
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Table("user_favorite_recipes f").
			Select(`r.id, r.title, r.description, r.thumb, r.time,
				c.name AS category, a.name AS area,
				u.name AS owner_name, u.avatar AS owner_avatar,
				f.created_at AS favorited_at`).
			Joins("JOIN recipes r ON f.recipe_id = r.id").
			Joins("LEFT JOIN categories c ON r.category_id = c.id").
			Joins("LEFT JOIN areas a ON r.area_id = a.id").
			Joins("LEFT JOIN users u ON r.owner_id = u.id").
			Where("f.user_id = ?", userID).
			Order("f.created_at DESC").
			Limit(limit).
			Offset((page - 1) * limit).
			Scan(&rows).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Model(&models.UserFavoriteRecipe{}).
			Where("user_id = ?", userID).
			Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, Pagination{}, err
	}

	if rows == nil {
		rows = []FavoriteRecipeSummary{}
	}
	return rows, NewPagination(page, limit, total), nil
}
