// Package testutil provides a migrated sqlite store and content fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"lingo/database"
	"lingo/logger"
	"lingo/models"
	courseModels "lingo/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with foreign keys enforced and all tables migrated.
// The pool is pinned to one connection so transactions serialize the way row locks do on postgres.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()[:8]
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))
	return db
}

func Logger() *logger.Logger {
	return logger.NewNop()
}

// CourseTree builds an unsaved course. layout[u][l] is the number of challenges in lesson l of unit u.
// Every challenge gets three options and the second one is correct.
func CourseTree(title string, layout ...[]int) *courseModels.Course {
	c := &courseModels.Course{Title: title, ImageSrc: strings.ToLower(title) + ".svg"}
	for u, lessons := range layout {
		unit := courseModels.Unit{
			Title:       fmt.Sprintf("Unit %d", u+1),
			Description: fmt.Sprintf("%s unit %d", title, u+1),
			OrderIndex:  u + 1,
		}
		for l, n := range lessons {
			lesson := courseModels.Lesson{Title: fmt.Sprintf("Lesson %d.%d", u+1, l+1), OrderIndex: l + 1}
			for i := 0; i < n; i++ {
				lesson.Challenges = append(lesson.Challenges, courseModels.Challenge{
					Type:       courseModels.ChallengeSelect,
					Question:   fmt.Sprintf("Question %d.%d.%d", u+1, l+1, i+1),
					OrderIndex: i + 1,
					Options: []courseModels.ChallengeOption{
						{Text: "wrong a"},
						{Text: "right", Correct: true},
						{Text: "wrong b"},
					},
				})
			}
			unit.Lessons = append(unit.Lessons, lesson)
		}
		c.Units = append(c.Units, unit)
	}
	return c
}

// SeedCourse persists a CourseTree and returns it with ids populated.
func SeedCourse(t testing.TB, db *gorm.DB, title string, layout ...[]int) *courseModels.Course {
	t.Helper()
	c := CourseTree(title, layout...)
	require.NoError(t, db.Create(c).Error)
	return c
}

// Challenges flattens a seeded course in unit, lesson, challenge order.
func Challenges(c *courseModels.Course) []*courseModels.Challenge {
	var out []*courseModels.Challenge
	for u := range c.Units {
		for l := range c.Units[u].Lessons {
			for i := range c.Units[u].Lessons[l].Challenges {
				out = append(out, &c.Units[u].Lessons[l].Challenges[i])
			}
		}
	}
	return out
}

func CorrectOption(ch *courseModels.Challenge) uint {
	for _, o := range ch.Options {
		if o.Correct {
			return o.ID
		}
	}
	return 0
}

func WrongOption(ch *courseModels.Challenge) uint {
	for _, o := range ch.Options {
		if !o.Correct {
			return o.ID
		}
	}
	return 0
}

// SeedProgress stores a UserProgress row with the given currency values.
func SeedProgress(t testing.TB, db *gorm.DB, userID string, courseID uint, hearts, points int) *models.UserProgress {
	t.Helper()
	up := models.NewUserProgress(userID, courseID, "", "")
	up.Hearts = hearts
	up.Points = points
	require.NoError(t, db.Create(up).Error)
	return up
}

// CompleteChallenge writes a ledger row for (userID, challengeID).
func CompleteChallenge(t testing.TB, db *gorm.DB, userID string, challengeID uint, completed bool) {
	t.Helper()
	row := &courseModels.ChallengeProgress{UserID: userID, ChallengeID: challengeID, Completed: completed}
	require.NoError(t, db.Create(row).Error)
	if !completed {
		// Completed carries a default tag, so false is skipped on insert.
		require.NoError(t, db.Model(row).Update("completed", false).Error)
	}
}

func LoadProgress(t testing.TB, db *gorm.DB, userID string) *models.UserProgress {
	t.Helper()
	var up models.UserProgress
	require.NoError(t, db.Where("user_id = ?", userID).Take(&up).Error)
	return &up
}

func CountLedger(t testing.TB, db *gorm.DB, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&courseModels.ChallengeProgress{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}
