package repositories

import (
	"lingo/dbctx"
	"lingo/logger"
	"lingo/models"

	"gorm.io/gorm"
)

type UserRepo interface {
	Create(dbc dbctx.Context, user *models.User) error
	GetByEmail(dbc dbctx.Context, email string) (*models.User, error)
	GetByPublicID(dbc dbctx.Context, publicID string) (*models.User, error)
	Save(dbc dbctx.Context, user *models.User) error
	TrackLogin(dbc dbctx.Context, row *models.LoginTracking) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo {
	return &userRepo{db: db, log: log.With("repo", "UserRepo")}
}

func (r *userRepo) Create(dbc dbctx.Context, user *models.User) error {
	if err := dbc.DB(r.db).Create(user).Error; err != nil {
		return storeErr("create user", err, "user", user.Email)
	}
	return nil
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*models.User, error) {
	var out models.User
	if err := dbc.DB(r.db).Where("email = ? AND is_deleted = ?", email, false).Take(&out).Error; err != nil {
		return nil, storeErr("get user by email", err, "user", email)
	}
	return &out, nil
}

func (r *userRepo) GetByPublicID(dbc dbctx.Context, publicID string) (*models.User, error) {
	var out models.User
	if err := dbc.DB(r.db).Where("public_id = ? AND is_deleted = ?", publicID, false).Take(&out).Error; err != nil {
		return nil, storeErr("get user", err, "user", publicID)
	}
	return &out, nil
}

func (r *userRepo) Save(dbc dbctx.Context, user *models.User) error {
	if err := dbc.DB(r.db).Save(user).Error; err != nil {
		return storeErr("save user", err, "user", user.ID)
	}
	return nil
}

func (r *userRepo) TrackLogin(dbc dbctx.Context, row *models.LoginTracking) error {
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return storeErr("track login", err, "login", row.UserID)
	}
	return nil
}
