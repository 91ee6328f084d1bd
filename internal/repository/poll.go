package repository

import (
	"context"
	"errors"

	"tonality/internal/models"
	"tonality/internal/observability"

	"gorm.io/gorm"
)

// ErrOptionNotInPoll is returned when a vote names an option belonging to a different poll.
var ErrOptionNotInPoll = errors.New("option does not belong to poll")

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	Create(ctx context.Context, poll *models.Poll) error
	GetByID(ctx context.Context, id uint) (*models.Poll, error)
	GetActiveByCommunity(ctx context.Context, communityID uint) (*models.Poll, error)
	ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]models.Poll, error)
	GetVote(ctx context.Context, pollID, userID uint) (*models.PollVote, error)
	CastVote(ctx context.Context, pollID, userID, optionID uint) (*models.PollVote, bool, error)
	Deactivate(ctx context.Context, pollID uint) error
}

// pollRepository implements PollRepository
type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

// Create inserts the poll and its options, deactivating any previously
// active poll of the same community in the same transaction. This keeps the
// "one active poll per community" steady state without a second round trip.
func (r *pollRepository) Create(ctx context.Context, poll *models.Poll) error {
	defer observability.TrackQuery("insert", "polls")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if poll.IsActive {
			if err := tx.Model(&models.Poll{}).
				Where("community_id = ? AND is_active = ?", poll.CommunityID, true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(poll).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	if err := r.db.WithContext(ctx).Preload("Options").First(&poll, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Poll", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &poll, nil
}

func (r *pollRepository) GetActiveByCommunity(ctx context.Context, communityID uint) (*models.Poll, error) {
	var poll models.Poll
	if err := r.db.WithContext(ctx).
		Where("community_id = ? AND is_active = ?", communityID, true).
		Preload("Options").
		Order("created_at DESC").
		First(&poll).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &poll, nil
}

func (r *pollRepository) ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]models.Poll, error) {
	var polls []models.Poll
	if err := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Preload("Options").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&polls).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return polls, nil
}

func (r *pollRepository) GetVote(ctx context.Context, pollID, userID uint) (*models.PollVote, error) {
	var vote models.PollVote
	if err := r.db.WithContext(ctx).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &vote, nil
}

// CastVote records or switches the user's vote in one transaction. A switch
// moves the tally from the old option to the new one so the poll's total is
// unchanged. The bool result reports whether an existing vote was switched.
func (r *pollRepository) CastVote(ctx context.Context, pollID, userID, optionID uint) (*models.PollVote, bool, error) {
	defer observability.TrackQuery("upsert", "poll_votes")()
	var vote *models.PollVote
	var switched bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var option models.PollOption
		if err := tx.First(&option, optionID).Error; err != nil {
			return err
		}
		if option.PollID != pollID {
			return ErrOptionNotInPoll
		}

		var existing models.PollVote
		err := tx.Where("poll_id = ? AND user_id = ?", pollID, userID).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.OptionID == optionID {
				vote = &existing
				return nil
			}
			switched = true
			if err := tx.Model(&models.PollOption{}).
				Where("id = ? AND votes > 0", existing.OptionID).
				Update("votes", gorm.Expr("votes - 1")).Error; err != nil {
				return err
			}
			if err := tx.Model(&existing).Update("option_id", optionID).Error; err != nil {
				return err
			}
			vote = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			newVote := models.PollVote{PollID: pollID, UserID: userID, OptionID: optionID}
			if err := tx.Create(&newVote).Error; err != nil {
				return err
			}
			vote = &newVote
		default:
			return err
		}

		return tx.Model(&models.PollOption{}).
			Where("id = ?", optionID).
			Update("votes", gorm.Expr("votes + 1")).Error
	})
	if err != nil {
		if errors.Is(err, ErrOptionNotInPoll) {
			return nil, false, err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, models.NewNotFoundError("Poll option", optionID)
		}
		return nil, false, models.NewInternalError(err)
	}
	return vote, switched, nil
}

func (r *pollRepository) Deactivate(ctx context.Context, pollID uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Poll{}).
		Where("id = ?", pollID).
		Update("is_active", false).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
