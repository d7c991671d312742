package repositories

import (
	"errors"
	"time"

	"lingo/dbctx"
	"lingo/logger"
	courseModels "lingo/models/course"

	"gorm.io/gorm"
)

type ChallengeProgressRepo interface {
	Find(dbc dbctx.Context, userID string, challengeID uint) (*courseModels.ChallengeProgress, error)
	Create(dbc dbctx.Context, row *courseModels.ChallengeProgress) error
	MarkCompleted(dbc dbctx.Context, id uint) error
	ListByUser(dbc dbctx.Context, userID string) ([]*courseModels.ChallengeProgress, error)
}

type challengeProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeProgressRepo(db *gorm.DB, log *logger.Logger) ChallengeProgressRepo {
	return &challengeProgressRepo{db: db, log: log.With("repo", "ChallengeProgressRepo")}
}

// Find returns the ledger row for (userID, challengeID), or nil when the challenge was never completed.
func (r *challengeProgressRepo) Find(dbc dbctx.Context, userID string, challengeID uint) (*courseModels.ChallengeProgress, error) {
	var out courseModels.ChallengeProgress
	err := dbc.DB(r.db).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Order("id ASC").
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find challenge progress", err, "challenge progress", challengeID)
	}
	return &out, nil
}

func (r *challengeProgressRepo) Create(dbc dbctx.Context, row *courseModels.ChallengeProgress) error {
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return storeErr("create challenge progress", err, "challenge progress", row.ChallengeID)
	}
	return nil
}

func (r *challengeProgressRepo) MarkCompleted(dbc dbctx.Context, id uint) error {
	err := dbc.DB(r.db).
		Model(&courseModels.ChallengeProgress{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"completed": true, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return storeErr("complete challenge progress", err, "challenge progress", id)
	}
	return nil
}

func (r *challengeProgressRepo) ListByUser(dbc dbctx.Context, userID string) ([]*courseModels.ChallengeProgress, error) {
	var out []*courseModels.ChallengeProgress
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storeErr("list challenge progress", err, "challenge progress", userID)
	}
	return out, nil
}
