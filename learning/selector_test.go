package learning

import (
	"context"
	"errors"
	"testing"
	"time"

	"lingo/apierr"
	"lingo/identity"
	"lingo/models"
	"lingo/repositories"
	"lingo/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	profiles map[string]*identity.Profile
}

func (f *fakeProfiles) Profile(_ context.Context, userID string) (*identity.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, errors.New("identity service down")
}

type enrollment struct {
	email, name, course string
}

type fakeNotifier struct {
	sent chan enrollment
}

func (f *fakeNotifier) NotifyEnrollment(_ context.Context, email, name, courseTitle string) error {
	f.sent <- enrollment{email, name, courseTitle}
	return nil
}

func TestSelectCourseFirstEnrollment(t *testing.T) {
	db := testutil.NewDB(t)
	log := testutil.Logger()
	profiles := &fakeProfiles{profiles: map[string]*identity.Profile{
		"u1": {UserID: "u1", Name: "Ana", ImageSrc: "ana.png", Email: "ana@example.com"},
	}}
	notifier := &fakeNotifier{sent: make(chan enrollment, 1)}
	svc := New(repositories.New(db, log), nil, profiles, notifier, log)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})

	sel, err := svc.SelectCourse(context.Background(), "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, LearnRedirect, sel.Redirect)
	assert.True(t, sel.Created)
	assert.False(t, sel.AlreadyActive)

	up := testutil.LoadProgress(t, db, "u1")
	assert.Equal(t, models.MaxHearts, up.Hearts)
	assert.Equal(t, 0, up.Points)
	assert.Equal(t, "Ana", up.UserName)
	assert.Equal(t, "ana.png", up.UserImageSrc)
	require.NotNil(t, up.ActiveCourseID)
	assert.Equal(t, c.ID, *up.ActiveCourseID)

	select {
	case got := <-notifier.sent:
		assert.Equal(t, enrollment{"ana@example.com", "Ana", "Spanish"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("enrollment email not sent")
	}
}

func TestSelectCourseProfileFailureUsesDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	log := testutil.Logger()
	svc := New(repositories.New(db, log), nil, &fakeProfiles{}, nil, log)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})

	_, err := svc.SelectCourse(context.Background(), "u1", c.ID)
	require.NoError(t, err)
	up := testutil.LoadProgress(t, db, "u1")
	assert.Equal(t, models.DefaultUserName, up.UserName)
	assert.Equal(t, models.DefaultUserImageSrc, up.UserImageSrc)
}

func TestSelectCourseSameCourseIsNoop(t *testing.T) {
	svc, db := newTestService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "u1", c.ID, 4, 70)
	before := testutil.LoadProgress(t, db, "u1")

	sel, err := svc.SelectCourse(context.Background(), "u1", c.ID)
	require.NoError(t, err)
	assert.True(t, sel.AlreadyActive)
	assert.False(t, sel.Created)
	assert.Equal(t, LearnRedirect, sel.Redirect)

	after := testutil.LoadProgress(t, db, "u1")
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestSelectCourseUnknownCourse(t *testing.T) {
	svc, db := newTestService(t)

	_, err := svc.SelectCourse(context.Background(), "u1", 42)
	assert.ErrorIs(t, err, apierr.ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&models.UserProgress{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)

	_, err = svc.SelectCourse(context.Background(), "", 42)
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)
}

func TestCourseSwitchPreservesLedger(t *testing.T) {
	svc, db := newTestService(t)
	a := testutil.SeedCourse(t, db, "Spanish", []int{1, 2})
	b := testutil.SeedCourse(t, db, "French", []int{1})
	ctx := context.Background()

	_, err := svc.SelectCourse(ctx, "u1", a.ID)
	require.NoError(t, err)
	ch := testutil.Challenges(a)[0]
	out, err := svc.SubmitAnswer(ctx, SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.CorrectOption(ch)})
	require.NoError(t, err)
	require.Equal(t, OutcomeCorrect, out.Kind)
	ch = testutil.Challenges(a)[1]
	_, err = svc.SubmitAnswer(ctx, SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.WrongOption(ch)})
	require.NoError(t, err)

	before, err := svc.GetCourseProgress(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, before.ActiveLessonID)
	wallet := testutil.LoadProgress(t, db, "u1")

	sel, err := svc.SelectCourse(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.False(t, sel.AlreadyActive)
	onB, err := svc.GetCourseProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, b.Units[0].Lessons[0].ID, *onB.ActiveLessonID)

	_, err = svc.SelectCourse(ctx, "u1", a.ID)
	require.NoError(t, err)
	after, err := svc.GetCourseProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, *before.ActiveLessonID, *after.ActiveLessonID)

	up := testutil.LoadProgress(t, db, "u1")
	assert.Equal(t, wallet.Hearts, up.Hearts)
	assert.Equal(t, wallet.Points, up.Points)
	assert.EqualValues(t, 1, testutil.CountLedger(t, db, "u1"))
}
