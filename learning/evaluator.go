package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lingo/apierr"
	"lingo/dbctx"
	"lingo/models"
	courseModels "lingo/models/course"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmitRequest is one answer. SubmissionID is an optional client-generated UUID; retries carrying
// the same id replay the first outcome instead of applying the answer again.
type SubmitRequest struct {
	UserID       string
	ChallengeID  uint
	OptionID     uint
	SubmissionID string
}

type ledgerAction int

const (
	ledgerNone ledgerAction = iota
	ledgerInsert
	ledgerComplete
)

type transition struct {
	outcome Outcome
	hearts  int
	points  int
	ledger  ledgerAction
}

// evaluate is the pure answer state machine. It decides the outcome and the new currency values
// without touching the store.
func evaluate(hearts, points int, isPractice bool, ch *courseModels.Challenge, optionID uint) (transition, error) {
	var chosen *courseModels.ChallengeOption
	hasCorrect := false
	for i := range ch.Options {
		if ch.Options[i].ID == optionID {
			chosen = &ch.Options[i]
		}
		if ch.Options[i].Correct {
			hasCorrect = true
		}
	}
	if chosen == nil {
		return transition{}, apierr.NotFound("challenge option", optionID)
	}

	tr := transition{hearts: hearts, points: points}
	tr.outcome = Outcome{Practice: isPractice, UpdatedHearts: hearts, UpdatedPoints: points}

	if hearts <= 0 && !isPractice {
		tr.outcome.Kind = OutcomeBlockedNoHearts
		return tr, nil
	}
	if !hasCorrect {
		return transition{}, apierr.Invariant("challenge %d has no correct option", ch.ID)
	}

	if chosen.Correct {
		tr.points = points + models.PointsPerChallenge
		if isPractice {
			tr.hearts = min(hearts+1, models.MaxHearts)
			tr.ledger = ledgerComplete
		} else {
			tr.ledger = ledgerInsert
		}
		tr.outcome.Kind = OutcomeCorrect
	} else {
		switch {
		case isPractice && hearts <= 0:
			tr.outcome.Kind = OutcomeBlockedPracticeNoHearts
		case isPractice:
			tr.outcome.Kind = OutcomeWrong
		default:
			tr.hearts = max(hearts-1, 0)
			tr.outcome.Kind = OutcomeWrong
		}
	}
	tr.outcome.UpdatedHearts = tr.hearts
	tr.outcome.UpdatedPoints = tr.points
	return tr, nil
}

// SubmitAnswer applies one answer to the user's state. All guards run before any write and every
// write happens in one transaction behind a lock on the user's progress row.
func (s *Service) SubmitAnswer(ctx context.Context, req SubmitRequest) (*Outcome, error) {
	userID, err := requireUser(req.UserID)
	if err != nil {
		return nil, err
	}
	subID := strings.TrimSpace(req.SubmissionID)
	if subID != "" {
		if _, err := uuid.Parse(subID); err != nil {
			return nil, fmt.Errorf("submission_id %q: %w", subID, apierr.ErrInvalidArgument)
		}
	}

	var (
		out         *Outcome
		mutated     bool
		pointsMoved bool
	)
	err = s.repos.Transaction(ctx, func(dbc dbctx.Context) error {
		up, err := s.repos.UserProgress.LockByUserID(dbc, userID)
		if err != nil {
			return err
		}

		if subID != "" {
			prior, err := s.repos.Submissions.FindBySubmissionID(dbc, subID)
			if err != nil {
				return err
			}
			if prior != nil {
				if prior.UserID != userID || prior.ChallengeID != req.ChallengeID {
					return fmt.Errorf("submission_id %s was used for another answer: %w", subID, apierr.ErrInvalidArgument)
				}
				var replay Outcome
				if err := json.Unmarshal(prior.Payload, &replay); err != nil {
					return fmt.Errorf("decode submission %s: %w", subID, err)
				}
				replay.Replayed = true
				out = &replay
				return nil
			}
		}

		ch, err := s.repos.Courses.GetChallengeWithOptions(dbc, req.ChallengeID)
		if err != nil {
			return err
		}
		existing, err := s.repos.ChallengeProgress.Find(dbc, userID, ch.ID)
		if err != nil {
			return err
		}

		tr, err := evaluate(up.Hearts, up.Points, existing != nil, ch, req.OptionID)
		if err != nil {
			if errors.Is(err, apierr.ErrInvariantViolation) {
				s.log.Error("content invariant violated", "kind", "invariant_violation", "challenge_id", ch.ID, "error", err)
			}
			return err
		}

		switch tr.ledger {
		case ledgerInsert:
			row := &courseModels.ChallengeProgress{UserID: userID, ChallengeID: ch.ID, Completed: true}
			if err := s.repos.ChallengeProgress.Create(dbc, row); err != nil {
				return err
			}
			mutated = true
		case ledgerComplete:
			if err := s.repos.ChallengeProgress.MarkCompleted(dbc, existing.ID); err != nil {
				return err
			}
			mutated = true
		}
		if tr.hearts != up.Hearts || tr.points != up.Points {
			if err := s.repos.UserProgress.UpdateFields(dbc, userID, map[string]interface{}{
				"hearts": tr.hearts,
				"points": tr.points,
			}); err != nil {
				return err
			}
			mutated = true
			pointsMoved = tr.points != up.Points
		}

		if subID != "" {
			payload, err := json.Marshal(tr.outcome)
			if err != nil {
				return err
			}
			if err := s.repos.Submissions.Create(dbc, &models.AnswerSubmission{
				SubmissionID: subID,
				UserID:       userID,
				ChallengeID:  ch.ID,
				OptionID:     req.OptionID,
				Outcome:      string(tr.outcome.Kind),
				Payload:      datatypes.JSON(payload),
			}); err != nil {
				return err
			}
		}
		out = &tr.outcome
		return nil
	})
	if err != nil {
		return nil, err
	}

	if mutated {
		s.afterMutation(ctx, userID, pointsMoved)
	}
	if out.Blocked() {
		s.log.Debug("submission blocked", "user_id", userID, "challenge_id", req.ChallengeID, "kind", out.Kind)
	}
	return out, nil
}

// RefillHearts trades HeartRefillCost points for a full set of hearts.
func (s *Service) RefillHearts(ctx context.Context, userID string) (*RefillResult, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	var out *RefillResult
	err = s.repos.Transaction(ctx, func(dbc dbctx.Context) error {
		up, err := s.repos.UserProgress.LockByUserID(dbc, userID)
		if err != nil {
			return err
		}
		out = &RefillResult{Hearts: up.Hearts, Points: up.Points}
		switch {
		case up.Hearts >= models.MaxHearts:
			out.Kind = RefillBlockedHeartsFull
			return nil
		case up.Points < models.HeartRefillCost:
			out.Kind = RefillBlockedInsufficientPoints
			return nil
		}
		out.Kind = RefillDone
		out.Hearts = models.MaxHearts
		out.Points = up.Points - models.HeartRefillCost
		return s.repos.UserProgress.UpdateFields(dbc, userID, map[string]interface{}{
			"hearts": out.Hearts,
			"points": out.Points,
		})
	})
	if err != nil {
		return nil, err
	}

	if out.Kind == RefillDone {
		s.afterMutation(ctx, userID, true)
	} else {
		s.log.Debug("refill blocked", "user_id", userID, "kind", out.Kind)
	}
	return out, nil
}
