package repository

import (
	"context"
	"errors"

	"tonality/internal/models"
	"tonality/internal/observability"

	"gorm.io/gorm"
)

// ErrAlreadyMember is returned when a user joins a community twice.
var ErrAlreadyMember = errors.New("already a member")

// ErrNotMember is returned when a user leaves a community they never joined.
var ErrNotMember = errors.New("not a member")

// CommunityRepository defines the interface for community data operations
type CommunityRepository interface {
	Create(ctx context.Context, community *models.Community) error
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	List(ctx context.Context, limit, offset int) ([]models.Community, error)
	GetMembership(ctx context.Context, communityID, userID uint) (*models.Membership, error)
	Join(ctx context.Context, communityID, userID uint) error
	Leave(ctx context.Context, communityID, userID uint) error
	GetMembers(ctx context.Context, communityID uint) ([]models.User, error)
	GetMemberActivities(ctx context.Context, communityID uint) ([]models.ListeningActivity, error)
}

// communityRepository implements CommunityRepository
type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	if err := r.db.WithContext(ctx).Create(community).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Community", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context, limit, offset int) ([]models.Community, error) {
	var communities []models.Community
	if err := r.db.WithContext(ctx).
		Order("member_count DESC").
		Limit(limit).Offset(offset).
		Find(&communities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return communities, nil
}

func (r *communityRepository) GetMembership(ctx context.Context, communityID, userID uint) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &membership, nil
}

// Join creates the membership row and increments member_count in one
// transaction so the denormalized counter cannot drift from the rows.
func (r *communityRepository) Join(ctx context.Context, communityID, userID uint) error {
	defer observability.TrackQuery("insert", "memberships")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Membership
		err := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.Membership{
			CommunityID: communityID,
			UserID:      userID,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Community{}).
			Where("id = ?", communityID).
			Update("member_count", gorm.Expr("member_count + 1")).Error
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyMember) {
			return err
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Leave deletes the membership row and decrements member_count, floored at
// zero, in one transaction.
func (r *communityRepository) Leave(ctx context.Context, communityID, userID uint) error {
	defer observability.TrackQuery("delete", "memberships")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&models.Membership{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotMember
		}

		return tx.Model(&models.Community{}).
			Where("id = ? AND member_count > 0", communityID).
			Update("member_count", gorm.Expr("member_count - 1")).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotMember) {
			return err
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *communityRepository) GetMembers(ctx context.Context, communityID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN memberships m ON m.user_id = users.id").
		Where("m.community_id = ?", communityID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *communityRepository) GetMemberActivities(ctx context.Context, communityID uint) ([]models.ListeningActivity, error) {
	var activities []models.ListeningActivity
	if err := r.db.WithContext(ctx).
		Table("listening_activities").
		Joins("JOIN memberships m ON m.user_id = listening_activities.user_id").
		Where("m.community_id = ?", communityID).
		Find(&activities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return activities, nil
}
