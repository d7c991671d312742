package repositories

import (
	"lingo/dbctx"
	"lingo/logger"
	courseModels "lingo/models/course"

	"gorm.io/gorm"
)

type CourseRepo interface {
	List(dbc dbctx.Context) ([]*courseModels.Course, error)
	GetByID(dbc dbctx.Context, id uint) (*courseModels.Course, error)
	ListByTitle(dbc dbctx.Context, title string) ([]*courseModels.Course, error)
	ListUnitsWithProgress(dbc dbctx.Context, courseID uint, userID string) ([]*courseModels.Unit, error)
	GetLessonWithProgress(dbc dbctx.Context, lessonID uint, userID string) (*courseModels.Lesson, error)
	GetChallengeWithOptions(dbc dbctx.Context, id uint) (*courseModels.Challenge, error)
	CreateTree(dbc dbctx.Context, course *courseModels.Course) error
	Delete(dbc dbctx.Context, id uint) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, log *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: log.With("repo", "CourseRepo")}
}

// byOrder sorts siblings by their sequence index, falling back to id for ties.
func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC").Order("id ASC")
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (r *courseRepo) List(dbc dbctx.Context) ([]*courseModels.Course, error) {
	var out []*courseModels.Course
	if err := dbc.DB(r.db).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storeErr("list courses", err, "course", "*")
	}
	return out, nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uint) (*courseModels.Course, error) {
	var out courseModels.Course
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, storeErr("get course", err, "course", id)
	}
	return &out, nil
}

func (r *courseRepo) ListByTitle(dbc dbctx.Context, title string) ([]*courseModels.Course, error) {
	var out []*courseModels.Course
	if err := dbc.DB(r.db).Where("title = ?", title).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storeErr("list courses by title", err, "course", title)
	}
	return out, nil
}

// ListUnitsWithProgress loads the ordered unit -> lesson -> challenge tree of a course,
// attaching only the ledger rows that belong to userID.
func (r *courseRepo) ListUnitsWithProgress(dbc dbctx.Context, courseID uint, userID string) ([]*courseModels.Unit, error) {
	var out []*courseModels.Unit
	err := dbc.DB(r.db).
		Where("course_id = ?", courseID).
		Scopes(byOrder).
		Preload("Lessons", byOrder).
		Preload("Lessons.Challenges", byOrder).
		Preload("Lessons.Challenges.Progress", func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id = ?", userID).Order("id ASC")
		}).
		Find(&out).Error
	if err != nil {
		return nil, storeErr("list units", err, "course", courseID)
	}
	return out, nil
}

func (r *courseRepo) GetLessonWithProgress(dbc dbctx.Context, lessonID uint, userID string) (*courseModels.Lesson, error) {
	var out courseModels.Lesson
	err := dbc.DB(r.db).
		Where("id = ?", lessonID).
		Preload("Challenges", byOrder).
		Preload("Challenges.Options", byID).
		Preload("Challenges.Progress", func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id = ?", userID).Order("id ASC")
		}).
		Take(&out).Error
	if err != nil {
		return nil, storeErr("get lesson", err, "lesson", lessonID)
	}
	return &out, nil
}

func (r *courseRepo) GetChallengeWithOptions(dbc dbctx.Context, id uint) (*courseModels.Challenge, error) {
	var out courseModels.Challenge
	err := dbc.DB(r.db).
		Where("id = ?", id).
		Preload("Options", byID).
		Take(&out).Error
	if err != nil {
		return nil, storeErr("get challenge", err, "challenge", id)
	}
	return &out, nil
}

// CreateTree inserts a course together with its nested units, lessons, challenges and options.
func (r *courseRepo) CreateTree(dbc dbctx.Context, course *courseModels.Course) error {
	if err := dbc.DB(r.db).Create(course).Error; err != nil {
		return storeErr("create course", err, "course", course.Title)
	}
	return nil
}

// Delete removes a course; foreign keys cascade through the whole subtree and its ledger rows.
func (r *courseRepo) Delete(dbc dbctx.Context, id uint) error {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&courseModels.Course{})
	if res.Error != nil {
		return storeErr("delete course", res.Error, "course", id)
	}
	if res.RowsAffected == 0 {
		return storeErr("delete course", gorm.ErrRecordNotFound, "course", id)
	}
	r.log.Info("course deleted", "course_id", id)
	return nil
}
