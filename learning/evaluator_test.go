package learning

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"lingo/apierr"
	"lingo/models"
	courseModels "lingo/models/course"
	"lingo/repositories"
	"lingo/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	log := testutil.Logger()
	return New(repositories.New(db, log), nil, nil, nil, log), db
}

func optionsChallenge() *courseModels.Challenge {
	return &courseModels.Challenge{
		ID: 9,
		Options: []courseModels.ChallengeOption{
			{ID: 1, Text: "no"},
			{ID: 2, Text: "yes", Correct: true},
		},
	}
}

func TestEvaluateTransitions(t *testing.T) {
	cases := []struct {
		name       string
		hearts     int
		points     int
		practice   bool
		option     uint
		wantKind   OutcomeKind
		wantHearts int
		wantPoints int
		wantLedger ledgerAction
	}{
		{"first pass correct", 5, 0, false, 2, OutcomeCorrect, 5, 10, ledgerInsert},
		{"first pass wrong", 5, 0, false, 1, OutcomeWrong, 4, 0, ledgerNone},
		{"last heart wrong", 1, 0, false, 1, OutcomeWrong, 0, 0, ledgerNone},
		{"no hearts blocks first pass correct", 0, 30, false, 2, OutcomeBlockedNoHearts, 0, 30, ledgerNone},
		{"no hearts blocks first pass wrong", 0, 30, false, 1, OutcomeBlockedNoHearts, 0, 30, ledgerNone},
		{"practice correct refunds a heart", 3, 20, true, 2, OutcomeCorrect, 4, 30, ledgerComplete},
		{"practice correct caps hearts", 10, 20, true, 2, OutcomeCorrect, 10, 30, ledgerComplete},
		{"practice correct at zero hearts", 0, 0, true, 2, OutcomeCorrect, 1, 10, ledgerComplete},
		{"practice wrong costs nothing", 3, 20, true, 1, OutcomeWrong, 3, 20, ledgerNone},
		{"practice wrong at zero hearts", 0, 20, true, 1, OutcomeBlockedPracticeNoHearts, 0, 20, ledgerNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := evaluate(tc.hearts, tc.points, tc.practice, optionsChallenge(), tc.option)
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, tr.outcome.Kind)
			assert.Equal(t, tc.practice, tr.outcome.Practice)
			assert.Equal(t, tc.wantHearts, tr.hearts)
			assert.Equal(t, tc.wantPoints, tr.points)
			assert.Equal(t, tc.wantHearts, tr.outcome.UpdatedHearts)
			assert.Equal(t, tc.wantPoints, tr.outcome.UpdatedPoints)
			assert.Equal(t, tc.wantLedger, tr.ledger)
		})
	}
}

func TestEvaluateUnknownOption(t *testing.T) {
	_, err := evaluate(5, 0, false, optionsChallenge(), 99)
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestEvaluateNoCorrectOption(t *testing.T) {
	ch := optionsChallenge()
	ch.Options[1].Correct = false

	_, err := evaluate(5, 0, false, ch, 1)
	assert.ErrorIs(t, err, apierr.ErrInvariantViolation)

	// the hearts gate is decided before correctness is looked at
	tr, err := evaluate(0, 0, false, ch, 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBlockedNoHearts, tr.outcome.Kind)
}

func TestSubmitCorrectFirstPassInsertsLedger(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{2})
	testutil.SeedProgress(t, db, "u1", c.ID, 7, 0)
	ch := testutil.Challenges(c)[0]

	out, err := svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.CorrectOption(ch)})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrect, out.Kind)
	assert.False(t, out.Practice)
	assert.Equal(t, 7, out.UpdatedHearts)
	assert.Equal(t, 10, out.UpdatedPoints)

	up := testutil.LoadProgress(t, db, "u1")
	assert.Equal(t, 7, up.Hearts)
	assert.Equal(t, 10, up.Points)
	assert.EqualValues(t, 1, testutil.CountLedger(t, db, "u1"))
}

func TestSubmitWrongFirstPassCostsAHeart(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{2})
	testutil.SeedProgress(t, db, "u1", c.ID, 7, 20)
	ch := testutil.Challenges(c)[0]

	out, err := svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.WrongOption(ch)})
	require.NoError(t, err)
	assert.Equal(t, OutcomeWrong, out.Kind)
	assert.Equal(t, 6, out.UpdatedHearts)

	up := testutil.LoadProgress(t, db, "u1")
	assert.Equal(t, 6, up.Hearts)
	assert.Equal(t, 20, up.Points)
	assert.EqualValues(t, 0, testutil.CountLedger(t, db, "u1"))
}

func TestHeartsGateBlocksWithoutMutation(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "u1", c.ID, 0, 40)
	ch := testutil.Challenges(c)[0]
	before := testutil.LoadProgress(t, db, "u1")

	for _, opt := range []uint{testutil.CorrectOption(ch), testutil.WrongOption(ch)} {
		out, err := svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: opt})
		require.NoError(t, err)
		assert.Equal(t, OutcomeBlockedNoHearts, out.Kind)
		assert.True(t, out.Blocked())
	}

	after := testutil.LoadProgress(t, db, "u1")
	assert.Equal(t, before.Hearts, after.Hearts)
	assert.Equal(t, before.Points, after.Points)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.EqualValues(t, 0, testutil.CountLedger(t, db, "u1"))
}

func TestPracticeWrongHasNoPenalty(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "u1", c.ID, 3, 10)
	ch := testutil.Challenges(c)[0]
	testutil.CompleteChallenge(t, db, "u1", ch.ID, true)

	out, err := svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.WrongOption(ch)})
	require.NoError(t, err)
	assert.Equal(t, OutcomeWrong, out.Kind)
	assert.True(t, out.Practice)
	assert.Equal(t, 3, out.UpdatedHearts)
	assert.Equal(t, 3, testutil.LoadProgress(t, db, "u1").Hearts)
}

// Repeated practice successes keep paying +10 points and +1 heart each time.
func TestPracticeCorrectRepaysEveryTime(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "u1", c.ID, 8, 0)
	ch := testutil.Challenges(c)[0]
	testutil.CompleteChallenge(t, db, "u1", ch.ID, true)

	for i := 0; i < 3; i++ {
		out, err := svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.CorrectOption(ch)})
		require.NoError(t, err)
		assert.Equal(t, OutcomeCorrect, out.Kind)
		assert.True(t, out.Practice)
	}

	up := testutil.LoadProgress(t, db, "u1")
	assert.Equal(t, 30, up.Points)
	assert.Equal(t, models.MaxHearts, up.Hearts)
	assert.EqualValues(t, 1, testutil.CountLedger(t, db, "u1"), "practice never adds ledger rows")
}

func TestPracticeCorrectCompletesIncompleteRow(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "u1", c.ID, 0, 0)
	ch := testutil.Challenges(c)[0]
	testutil.CompleteChallenge(t, db, "u1", ch.ID, false)

	out, err := svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.WrongOption(ch)})
	require.NoError(t, err)
	assert.Equal(t, OutcomeBlockedPracticeNoHearts, out.Kind)

	out, err = svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.CorrectOption(ch)})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrect, out.Kind)
	assert.Equal(t, 1, out.UpdatedHearts)

	var row courseModels.ChallengeProgress
	require.NoError(t, db.Where("user_id = ? AND challenge_id = ?", "u1", ch.ID).Take(&row).Error)
	assert.True(t, row.Completed)
}

func TestSubmitPreconditions(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	other := testutil.SeedCourse(t, db, "French", []int{1})
	ch := testutil.Challenges(c)[0]
	foreignOption := testutil.CorrectOption(testutil.Challenges(other)[0])
	ctx := context.Background()

	_, err := svc.SubmitAnswer(ctx, SubmitRequest{ChallengeID: ch.ID, OptionID: testutil.CorrectOption(ch)})
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)

	_, err = svc.SubmitAnswer(ctx, SubmitRequest{UserID: "nobody", ChallengeID: ch.ID, OptionID: testutil.CorrectOption(ch)})
	assert.ErrorIs(t, err, apierr.ErrNotFound)

	testutil.SeedProgress(t, db, "u1", c.ID, 5, 0)

	_, err = svc.SubmitAnswer(ctx, SubmitRequest{UserID: "u1", ChallengeID: 9999, OptionID: 1})
	assert.ErrorIs(t, err, apierr.ErrNotFound)

	_, err = svc.SubmitAnswer(ctx, SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: foreignOption})
	assert.ErrorIs(t, err, apierr.ErrNotFound)

	up := testutil.LoadProgress(t, db, "u1")
	assert.Equal(t, 5, up.Hearts)
	assert.Equal(t, 0, up.Points)
	assert.EqualValues(t, 0, testutil.CountLedger(t, db, "u1"))
}

func TestSubmitInvariantViolationMutatesNothing(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "u1", c.ID, 5, 0)
	ch := testutil.Challenges(c)[0]
	require.NoError(t, db.Model(&courseModels.ChallengeOption{}).Where("challenge_id = ?", ch.ID).Update("correct", false).Error)

	_, err := svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.WrongOption(ch)})
	require.ErrorIs(t, err, apierr.ErrInvariantViolation)

	status, code := apierr.Classify(err)
	assert.Equal(t, 500, status)
	assert.Equal(t, "content_invariant", code)
	assert.Equal(t, 5, testutil.LoadProgress(t, db, "u1").Hearts)
}

func TestSubmissionReplayDoesNotDoubleDeduct(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "u1", c.ID, 5, 0)
	ch := testutil.Challenges(c)[0]
	req := SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.WrongOption(ch), SubmissionID: uuid.NewString()}

	first, err := svc.SubmitAnswer(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := svc.SubmitAnswer(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.UpdatedHearts, second.UpdatedHearts)

	assert.Equal(t, 4, testutil.LoadProgress(t, db, "u1").Hearts)

	var n int64
	require.NoError(t, db.Model(&models.AnswerSubmission{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestSubmissionReplayOfBlockedOutcome(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "u1", c.ID, 0, 50)
	ch := testutil.Challenges(c)[0]
	req := SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.CorrectOption(ch), SubmissionID: uuid.NewString()}

	first, err := svc.SubmitAnswer(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBlockedNoHearts, first.Kind)

	refill, err := svc.RefillHearts(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, RefillDone, refill.Kind)

	again, err := svc.SubmitAnswer(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, OutcomeBlockedNoHearts, again.Kind)
	assert.EqualValues(t, 0, testutil.CountLedger(t, db, "u1"))
}

func TestSubmissionIDMisuse(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{2})
	testutil.SeedProgress(t, db, "u1", c.ID, 5, 0)
	testutil.SeedProgress(t, db, "u2", c.ID, 5, 0)
	chs := testutil.Challenges(c)
	ctx := context.Background()

	_, err := svc.SubmitAnswer(ctx, SubmitRequest{UserID: "u1", ChallengeID: chs[0].ID, OptionID: testutil.WrongOption(chs[0]), SubmissionID: "not-a-uuid"})
	assert.ErrorIs(t, err, apierr.ErrInvalidArgument)

	id := uuid.NewString()
	_, err = svc.SubmitAnswer(ctx, SubmitRequest{UserID: "u1", ChallengeID: chs[0].ID, OptionID: testutil.WrongOption(chs[0]), SubmissionID: id})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, SubmitRequest{UserID: "u1", ChallengeID: chs[1].ID, OptionID: testutil.WrongOption(chs[1]), SubmissionID: id})
	assert.ErrorIs(t, err, apierr.ErrInvalidArgument)

	_, err = svc.SubmitAnswer(ctx, SubmitRequest{UserID: "u2", ChallengeID: chs[0].ID, OptionID: testutil.WrongOption(chs[0]), SubmissionID: id})
	assert.ErrorIs(t, err, apierr.ErrInvalidArgument)

	assert.Equal(t, 4, testutil.LoadProgress(t, db, "u1").Hearts)
	assert.Equal(t, 5, testutil.LoadProgress(t, db, "u2").Hearts)
}

func TestConcurrentWrongAnswersNeverGoBelowZero(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "u1", c.ID, 3, 0)
	ch := testutil.Challenges(c)[0]

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		kinds = map[OutcomeKind]int{}
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.WrongOption(ch)})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			kinds[out.Kind]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, kinds[OutcomeWrong])
	assert.Equal(t, 7, kinds[OutcomeBlockedNoHearts])
	assert.Equal(t, 0, testutil.LoadProgress(t, db, "u1").Hearts)
}

func TestRefillHearts(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "poor", c.ID, 2, 40)
	testutil.SeedProgress(t, db, "rich", c.ID, 7, 50)
	testutil.SeedProgress(t, db, "full", c.ID, 10, 500)
	ctx := context.Background()

	res, err := svc.RefillHearts(ctx, "poor")
	require.NoError(t, err)
	assert.Equal(t, RefillBlockedInsufficientPoints, res.Kind)
	up := testutil.LoadProgress(t, db, "poor")
	assert.Equal(t, 2, up.Hearts)
	assert.Equal(t, 40, up.Points)

	res, err = svc.RefillHearts(ctx, "rich")
	require.NoError(t, err)
	assert.Equal(t, RefillDone, res.Kind)
	assert.Equal(t, 10, res.Hearts)
	assert.Equal(t, 0, res.Points)
	up = testutil.LoadProgress(t, db, "rich")
	assert.Equal(t, 10, up.Hearts)
	assert.Equal(t, 0, up.Points)

	res, err = svc.RefillHearts(ctx, "full")
	require.NoError(t, err)
	assert.Equal(t, RefillBlockedHeartsFull, res.Kind)
	assert.Equal(t, 500, testutil.LoadProgress(t, db, "full").Points)

	_, err = svc.RefillHearts(ctx, "missing")
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestHeartsAndPointsInvariantsOverRandomSequences(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{3, 3})
	testutil.SeedProgress(t, db, "u1", c.ID, models.MaxHearts, 0)
	chs := testutil.Challenges(c)
	rng := rand.New(rand.NewSource(42))
	ctx := context.Background()

	prevPoints := 0
	for i := 0; i < 200; i++ {
		refilled := false
		switch op := rng.Intn(5); op {
		case 0:
			res, err := svc.RefillHearts(ctx, "u1")
			require.NoError(t, err)
			refilled = res.Kind == RefillDone
		default:
			ch := chs[rng.Intn(len(chs))]
			opt := testutil.WrongOption(ch)
			if op%2 == 0 {
				opt = testutil.CorrectOption(ch)
			}
			_, err := svc.SubmitAnswer(ctx, SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: opt})
			require.NoError(t, err)
		}

		up := testutil.LoadProgress(t, db, "u1")
		require.GreaterOrEqual(t, up.Hearts, 0)
		require.LessOrEqual(t, up.Hearts, models.MaxHearts)
		if refilled {
			require.Equal(t, prevPoints-models.HeartRefillCost, up.Points)
		} else {
			require.GreaterOrEqual(t, up.Points, prevPoints)
		}
		prevPoints = up.Points
	}
}
