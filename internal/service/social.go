package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Denis-Shtanskiy/foodgram/internal/apperr"
	"github.com/Denis-Shtanskiy/foodgram/internal/models"
)

// SocialService manages follow relationships between users.
type SocialService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSocialService(db *gorm.DB, log *zap.Logger) *SocialService {
	return &SocialService{db: db, log: log}
}

// Follow subscribes follower to author's recipes. The existence check is a
// fast path only; the unique index on (follower_id, author_id) decides the
// race between concurrent duplicate requests.
func (s *SocialService) Follow(ctx context.Context, followerID, authorID uuid.UUID) (*models.Follow, error) {
	if followerID == authorID {
		return nil, apperr.Validation("author", "cannot follow yourself")
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user does not exist")
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflict("already following this user")
	}

	follow := &models.Follow{FollowerID: followerID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("already following this user")
		}
		return nil, err
	}
	return follow, nil
}

// Unfollow removes a subscription.
func (s *SocialService) Unfollow(ctx context.Context, followerID, authorID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("not following this user")
	}
	return nil
}

// IsFollowing reports whether follower subscribed to author.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	return count > 0, err
}

// Subscriptions lists the authors a user follows, newest subscription first.
func (s *SocialService) Subscriptions(ctx context.Context, followerID uuid.UUID) ([]models.User, error) {
	var authors []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.follower_id = ?", followerID).
		Order("follows.created_at DESC").
		Find(&authors).Error
	return authors, err
}

// RecipeCount returns how many recipes an author has published.
func (s *SocialService) RecipeCount(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}
