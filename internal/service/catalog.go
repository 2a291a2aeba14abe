package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Denis-Shtanskiy/foodgram/internal/apperr"
	"github.com/Denis-Shtanskiy/foodgram/internal/models"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogService serves the admin-curated tag and ingredient reference
// data. Ingredient lookups go through redis when a client is configured;
// the catalog is read-mostly so a short TTL is enough.
type CatalogService struct {
	db    *gorm.DB
	cache *redis.Client
	log   *zap.Logger
}

func NewCatalogService(db *gorm.DB, cache *redis.Client, log *zap.Logger) *CatalogService {
	return &CatalogService{db: db, cache: cache, log: log}
}

// ListTags returns all tags ordered by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// GetTag loads one tag.
func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tag does not exist")
		}
		return nil, err
	}
	return &tag, nil
}

// GetIngredient loads one ingredient.
func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ingredient does not exist")
		}
		return nil, err
	}
	return &ingredient, nil
}

// SearchIngredients returns the catalog ordered by name for an empty query;
// otherwise prefix matches rank before entries that merely contain the
// query, with no entry in both groups.
func (s *CatalogService) SearchIngredients(ctx context.Context, query string) ([]models.Ingredient, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))

	if cached, ok := s.cacheGet(ctx, normalized); ok {
		return cached, nil
	}

	var ingredients []models.Ingredient
	dbQuery := s.db.WithContext(ctx)

	if normalized == "" {
		dbQuery = dbQuery.Order("name ASC")
	} else {
		contains := "%" + normalized + "%"
		prefix := normalized + "%"
		dbQuery = dbQuery.
			Where("LOWER(name) LIKE ?", contains).
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  "CASE WHEN LOWER(name) LIKE ? THEN 0 ELSE 1 END, name ASC",
				Vars: []interface{}{prefix},
			}})
	}

	if err := dbQuery.Find(&ingredients).Error; err != nil {
		return nil, err
	}

	s.cacheSet(ctx, normalized, ingredients)
	return ingredients, nil
}

// CreateTag adds a tag to the catalog.
func (s *CatalogService) CreateTag(ctx context.Context, tag *models.Tag) error {
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("tag name or slug already exists")
		}
		return err
	}
	return nil
}

// CreateIngredient adds an ingredient to the catalog. Identity is the
// (name, measurement_unit) pair.
func (s *CatalogService) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	if err := s.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("ingredient with this unit already exists")
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *CatalogService) cacheKey(query string) string {
	return "catalog:ingredients:" + query
}

func (s *CatalogService) cacheGet(ctx context.Context, query string) ([]models.Ingredient, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(query)).Bytes()
	if err != nil {
		return nil, false
	}
	var ingredients []models.Ingredient
	if err := json.Unmarshal(raw, &ingredients); err != nil {
		return nil, false
	}
	return ingredients, true
}

func (s *CatalogService) cacheSet(ctx context.Context, query string, ingredients []models.Ingredient) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(ingredients)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(query), raw, catalogCacheTTL).Err(); err != nil {
		s.log.Warn("catalog cache set failed", zap.Error(err))
	}
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, s.cacheKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.log.Warn("catalog cache invalidation failed", zap.Error(err))
			return
		}
	}
}
