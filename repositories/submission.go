package repositories

import (
	"errors"
	"time"

	"lingo/dbctx"
	"lingo/logger"
	"lingo/models"

	"gorm.io/gorm"
)

type SubmissionRepo interface {
	FindBySubmissionID(dbc dbctx.Context, submissionID string) (*models.AnswerSubmission, error)
	Create(dbc dbctx.Context, row *models.AnswerSubmission) error
	DeleteOlderThan(dbc dbctx.Context, cutoff time.Time) (int64, error)
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, log *logger.Logger) SubmissionRepo {
	return &submissionRepo{db: db, log: log.With("repo", "SubmissionRepo")}
}

func (r *submissionRepo) FindBySubmissionID(dbc dbctx.Context, submissionID string) (*models.AnswerSubmission, error) {
	var out models.AnswerSubmission
	err := dbc.DB(r.db).Where("submission_id = ?", submissionID).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find submission", err, "submission", submissionID)
	}
	return &out, nil
}

func (r *submissionRepo) Create(dbc dbctx.Context, row *models.AnswerSubmission) error {
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return storeErr("record submission", err, "submission", row.SubmissionID)
	}
	return nil
}

func (r *submissionRepo) DeleteOlderThan(dbc dbctx.Context, cutoff time.Time) (int64, error) {
	res := dbc.DB(r.db).Where("created_at < ?", cutoff).Delete(&models.AnswerSubmission{})
	if res.Error != nil {
		return 0, storeErr("prune submissions", res.Error, "submission", cutoff)
	}
	return res.RowsAffected, nil
}
