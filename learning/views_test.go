package learning

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"lingo/logger"
	"lingo/repositories"
	"lingo/testutil"
	"lingo/viewcache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memViews is an in-memory viewcache.Cache with the same generation rules as the Redis one.
// beforeSet runs once, right before the next Set, so a test can commit a mutation between load and write.
type memViews struct {
	mu        sync.Mutex
	gens      map[string]int64
	entries   map[string][]byte
	owners    map[string]string
	setKeys   []string
	beforeSet func()
}

func newMemViews() *memViews {
	return &memViews{gens: map[string]int64{}, entries: map[string][]byte{}, owners: map[string]string{}}
}

func (m *memViews) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.entries[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memViews) Generation(_ context.Context, owner string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[owner], nil
}

func (m *memViews) Set(_ context.Context, key string, value any, owner string, gen int64) error {
	m.mu.Lock()
	hook := m.beforeSet
	m.beforeSet = nil
	m.mu.Unlock()
	if hook != nil {
		hook()
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setKeys = append(m.setKeys, key)
	if m.gens[owner] != gen {
		return nil
	}
	m.entries[key] = raw
	m.owners[key] = owner
	return nil
}

func (m *memViews) invalidate(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[owner]++
	for k, o := range m.owners {
		if o == owner {
			delete(m.entries, k)
			delete(m.owners, k)
		}
	}
}

func (m *memViews) InvalidateUser(_ context.Context, userID string) error {
	m.invalidate(userID)
	return nil
}

func (m *memViews) InvalidateLeaderboard(context.Context) error {
	m.invalidate("")
	return nil
}

func newCachedService(t *testing.T) (*Service, *gorm.DB, *memViews) {
	t.Helper()
	db := testutil.NewDB(t)
	views := newMemViews()
	return New(repositories.New(db, logger.NewNop()), views, nil, nil, logger.NewNop()), db, views
}

func TestLearnViewIsServedFromCacheUntilInvalidated(t *testing.T) {
	svc, db, views := newCachedService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{2})
	testutil.SeedProgress(t, db, "u1", c.ID, 10, 0)
	ch := testutil.Challenges(c)[0]
	ctx := context.Background()

	first, err := svc.GetLearnView(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Progress.Points)
	require.Equal(t, []string{viewcache.UserKey("u1", "learn")}, views.setKeys)

	_, err = svc.GetLearnView(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, views.setKeys, 1)

	_, err = svc.SubmitAnswer(ctx, SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.CorrectOption(ch)})
	require.NoError(t, err)

	after, err := svc.GetLearnView(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, after.Progress.Points)
}

func TestLearnViewLoadedBeforeSubmitIsNotCached(t *testing.T) {
	svc, db, views := newCachedService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{2})
	testutil.SeedProgress(t, db, "u1", c.ID, 10, 0)
	ch := testutil.Challenges(c)[0]
	ctx := context.Background()

	views.beforeSet = func() {
		out, err := svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.CorrectOption(ch)})
		require.NoError(t, err)
		require.Equal(t, OutcomeCorrect, out.Kind)
	}

	stale, err := svc.GetLearnView(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, stale.Progress.Points)

	fresh, err := svc.GetLearnView(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, fresh.Progress.Points)
	assert.True(t, fresh.CourseProgress.ActiveLesson.Challenges[0].Completed)
}

func TestLeaderboardLoadedBeforeSubmitIsNotCached(t *testing.T) {
	svc, db, views := newCachedService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{2})
	testutil.SeedProgress(t, db, "u1", c.ID, 10, 0)
	testutil.SeedProgress(t, db, "u2", c.ID, 10, 5)
	ch := testutil.Challenges(c)[0]
	ctx := context.Background()

	views.beforeSet = func() {
		_, err := svc.SubmitAnswer(context.Background(), SubmitRequest{UserID: "u1", ChallengeID: ch.ID, OptionID: testutil.CorrectOption(ch)})
		require.NoError(t, err)
	}

	stale, err := svc.GetTopUsers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "u2", stale[0].UserID)

	fresh, err := svc.GetTopUsers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "u1", fresh[0].UserID)
	assert.Equal(t, 10, fresh[0].Points)
}

func TestTopUsersLimitIsCapped(t *testing.T) {
	svc, db, views := newCachedService(t)
	c := testutil.SeedCourse(t, db, "Spanish", []int{1})
	testutil.SeedProgress(t, db, "u1", c.ID, 10, 0)

	_, err := svc.GetTopUsers(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, []string{viewcache.LeaderboardKey(repositories.MaxTopUsers)}, views.setKeys)
}
