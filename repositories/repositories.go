package repositories

import (
	"context"
	"errors"

	"lingo/apierr"
	"lingo/dbctx"
	"lingo/logger"

	"gorm.io/gorm"
)

// Repositories bundles every store used by the learning core.
type Repositories struct {
	db *gorm.DB

	Courses           CourseRepo
	UserProgress      UserProgressRepo
	ChallengeProgress ChallengeProgressRepo
	Submissions       SubmissionRepo
	Users             UserRepo
}

func New(db *gorm.DB, log *logger.Logger) *Repositories {
	return &Repositories{
		db:                db,
		Courses:           NewCourseRepo(db, log),
		UserProgress:      NewUserProgressRepo(db, log),
		ChallengeProgress: NewChallengeProgressRepo(db, log),
		Submissions:       NewSubmissionRepo(db, log),
		Users:             NewUserRepo(db, log),
	}
}

// Transaction runs fn inside a single database transaction. fn must route every
// repository call through the dbctx.Context it receives.
func (r *Repositories) Transaction(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	var fnErr error
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(dbctx.Context{Ctx: ctx, Tx: tx})
		return fnErr
	})
	if err != nil && fnErr == nil {
		// begin or commit failed
		return apierr.Transient("transaction", err)
	}
	return err
}

// storeErr maps gorm errors into the apierr taxonomy.
func storeErr(op string, err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(entity, id)
	}
	return apierr.Transient(op, err)
}
