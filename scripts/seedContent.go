package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"lingo/config"
	"lingo/database"
	"lingo/dbctx"
	"lingo/logger"
	courseModels "lingo/models/course"
	"lingo/repositories"

	"gopkg.in/yaml.v3"
)

type contentFile struct {
	Courses []courseDoc `yaml:"courses"`
}

type courseDoc struct {
	Title    string    `yaml:"title"`
	ImageSrc string    `yaml:"image_src"`
	Units    []unitDoc `yaml:"units"`
}

type unitDoc struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Lessons     []lessonDoc `yaml:"lessons"`
}

type lessonDoc struct {
	Title      string         `yaml:"title"`
	Challenges []challengeDoc `yaml:"challenges"`
}

type challengeDoc struct {
	Type     string      `yaml:"type"`
	Question string      `yaml:"question"`
	Options  []optionDoc `yaml:"options"`
}

type optionDoc struct {
	Text     string  `yaml:"text"`
	Correct  bool    `yaml:"correct"`
	ImageSrc *string `yaml:"image_src"`
	AudioSrc *string `yaml:"audio_src"`
}

func main() {
	file := flag.String("file", "scripts/content.yaml", "YAML content file")
	reset := flag.Bool("reset", false, "delete courses with the same title before inserting")
	flag.Parse()

	config.LoadConfig()
	database.ConnectDb()

	appLog, err := logger.New(config.AppConfig.AppMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open content file: %v", err)
	}
	defer f.Close()

	courses, err := parseContent(f)
	if err != nil {
		log.Fatalf("Invalid content file: %v", err)
	}

	repos := repositories.New(database.Database.Db, appLog)
	if err := seed(context.Background(), repos, courses, *reset, appLog); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

// parseContent decodes a content file into course trees. Order follows position in the file.
func parseContent(r io.Reader) ([]*courseModels.Course, error) {
	var doc contentFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(doc.Courses) == 0 {
		return nil, fmt.Errorf("no courses in content file")
	}

	out := make([]*courseModels.Course, 0, len(doc.Courses))
	for ci, cd := range doc.Courses {
		if strings.TrimSpace(cd.Title) == "" {
			return nil, fmt.Errorf("course %d: title is required", ci+1)
		}
		course := &courseModels.Course{Title: cd.Title, ImageSrc: cd.ImageSrc}
		for ui, ud := range cd.Units {
			unit := courseModels.Unit{Title: ud.Title, Description: ud.Description, OrderIndex: ui + 1}
			for li, ld := range ud.Lessons {
				lesson := courseModels.Lesson{Title: ld.Title, OrderIndex: li + 1}
				for chi, chd := range ld.Challenges {
					where := fmt.Sprintf("%s > %s > %s > challenge %d", cd.Title, ud.Title, ld.Title, chi+1)
					ch, err := buildChallenge(chd, chi+1)
					if err != nil {
						return nil, fmt.Errorf("%s: %w", where, err)
					}
					lesson.Challenges = append(lesson.Challenges, ch)
				}
				unit.Lessons = append(unit.Lessons, lesson)
			}
			course.Units = append(course.Units, unit)
		}
		out = append(out, course)
	}
	return out, nil
}

func buildChallenge(d challengeDoc, order int) (courseModels.Challenge, error) {
	typ := courseModels.ChallengeType(strings.ToUpper(strings.TrimSpace(d.Type)))
	if !typ.Valid() {
		return courseModels.Challenge{}, fmt.Errorf("unknown type %q", d.Type)
	}
	if len(d.Options) == 0 {
		return courseModels.Challenge{}, fmt.Errorf("no options")
	}
	correct := 0
	options := make([]courseModels.ChallengeOption, 0, len(d.Options))
	for _, od := range d.Options {
		if od.Correct {
			correct++
		}
		options = append(options, courseModels.ChallengeOption{
			Text:     od.Text,
			Correct:  od.Correct,
			ImageSrc: od.ImageSrc,
			AudioSrc: od.AudioSrc,
		})
	}
	if correct != 1 {
		return courseModels.Challenge{}, fmt.Errorf("expected exactly one correct option, found %d", correct)
	}
	return courseModels.Challenge{Type: typ, Question: d.Question, OrderIndex: order, Options: options}, nil
}

// seed inserts every course in one transaction. With reset, same-titled courses are deleted first
// and their units, lessons, challenges and ledger rows go with them.
func seed(ctx context.Context, repos *repositories.Repositories, courses []*courseModels.Course, reset bool, log *logger.Logger) error {
	return repos.Transaction(ctx, func(dbc dbctx.Context) error {
		for _, c := range courses {
			if reset {
				existing, err := repos.Courses.ListByTitle(dbc, c.Title)
				if err != nil {
					return err
				}
				for _, old := range existing {
					if err := repos.Courses.Delete(dbc, old.ID); err != nil {
						return err
					}
				}
			}
			if err := repos.Courses.CreateTree(dbc, c); err != nil {
				return err
			}
			log.Info("course seeded", "course_id", c.ID, "title", c.Title, "units", len(c.Units))
		}
		return nil
	})
}
