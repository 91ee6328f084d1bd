package repository

import (
	"context"
	"errors"

	"tonality/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRepository defines the interface for listening activity operations
type ActivityRepository interface {
	Upsert(ctx context.Context, activity *models.ListeningActivity) error
	GetByUserID(ctx context.Context, userID uint) (*models.ListeningActivity, error)
	ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.ListeningActivity, error)
}

// activityRepository implements ActivityRepository
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Upsert overwrites the user's activity row in place; one row per user.
func (r *activityRepository) Upsert(ctx context.Context, activity *models.ListeningActivity) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"track_id", "track_name", "artist_name", "album_art_url", "started_at", "updated_at",
			}),
		}).
		Create(activity).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *activityRepository) GetByUserID(ctx context.Context, userID uint) (*models.ListeningActivity, error) {
	var activity models.ListeningActivity
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &activity, nil
}

func (r *activityRepository) ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.ListeningActivity, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var activities []models.ListeningActivity
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", userIDs).
		Order("updated_at DESC").
		Find(&activities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return activities, nil
}
