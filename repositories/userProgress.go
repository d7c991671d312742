package repositories

import (
	"fmt"
	"strings"
	"time"

	"lingo/dbctx"
	"lingo/logger"
	"lingo/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxTopUsers caps the leaderboard size.
const MaxTopUsers = 100

type UserProgressRepo interface {
	Get(dbc dbctx.Context, userID string) (*models.UserProgress, error)
	LockByUserID(dbc dbctx.Context, userID string) (*models.UserProgress, error)
	CreateIfAbsent(dbc dbctx.Context, row *models.UserProgress) (bool, error)
	UpdateFields(dbc dbctx.Context, userID string, updates map[string]interface{}) error
	TopByPoints(dbc dbctx.Context, limit int) ([]*models.UserProgress, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, log *logger.Logger) UserProgressRepo {
	return &userProgressRepo{db: db, log: log.With("repo", "UserProgressRepo")}
}

func (r *userProgressRepo) Get(dbc dbctx.Context, userID string) (*models.UserProgress, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("missing user_id")
	}
	var out models.UserProgress
	if err := dbc.DB(r.db).
		Preload("ActiveCourse").
		Where("user_id = ?", userID).
		Take(&out).Error; err != nil {
		return nil, storeErr("get user progress", err, "user progress", userID)
	}
	return &out, nil
}

// LockByUserID reads the row with SELECT ... FOR UPDATE so per-user mutations serialize.
func (r *userProgressRepo) LockByUserID(dbc dbctx.Context, userID string) (*models.UserProgress, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByUserID requires dbc.Tx")
	}
	var out models.UserProgress
	if err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&out).Error; err != nil {
		return nil, storeErr("lock user progress", err, "user progress", userID)
	}
	return &out, nil
}

// CreateIfAbsent inserts row unless one already exists for the user; it reports whether it inserted.
func (r *userProgressRepo) CreateIfAbsent(dbc dbctx.Context, row *models.UserProgress) (bool, error) {
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit("ActiveCourse").
		Create(row)
	if res.Error != nil {
		return false, storeErr("create user progress", res.Error, "user progress", row.UserID)
	}
	return res.RowsAffected > 0, nil
}

func (r *userProgressRepo) UpdateFields(dbc dbctx.Context, userID string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	res := dbc.DB(r.db).
		Model(&models.UserProgress{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return storeErr("update user progress", res.Error, "user progress", userID)
	}
	if res.RowsAffected == 0 {
		return storeErr("update user progress", gorm.ErrRecordNotFound, "user progress", userID)
	}
	return nil
}

// TopByPoints returns the leaderboard: highest points first, ties broken by user id.
// A non-positive limit means 10; larger limits are capped at MaxTopUsers.
func (r *userProgressRepo) TopByPoints(dbc dbctx.Context, limit int) ([]*models.UserProgress, error) {
	if limit <= 0 {
		limit = 10
	}
	limit = min(limit, MaxTopUsers)
	var out []*models.UserProgress
	if err := dbc.DB(r.db).
		Order("points DESC").
		Order("user_id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, storeErr("top users", err, "user progress", "*")
	}
	return out, nil
}
