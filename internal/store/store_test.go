package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestNewStoreInMemory(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NotNil(t, s)

	err = s.Close()
	assert.NoError(t, err)
}

func TestNewStoreOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	_, err = s.RecordRun("A.java", "fix it", "", 10)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRecordAndGetRun(t *testing.T) {
	s := newTestStore(t)

	r, err := s.RecordRun("/src/Order.java", "add null check", "reviewer", 1234)
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, OutcomePending, r.Outcome)

	got, err := s.GetRun(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "/src/Order.java", got.File)
	assert.Equal(t, "add null check", got.Instruction)
	assert.Equal(t, "reviewer", got.Agent)
	assert.Equal(t, 1234, got.PromptBytes)
	assert.Equal(t, OutcomePending, got.Outcome)
	assert.Equal(t, r.CreatedAt, got.CreatedAt)
	assert.True(t, got.FinishedAt.IsZero())
}

func TestGetRunMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestFinishRun(t *testing.T) {
	s := newTestStore(t)
	r, err := s.RecordRun("A.java", "x", "", 1)
	require.NoError(t, err)

	require.NoError(t, s.FinishRun(r.ID, OutcomeApplied))

	got, err := s.GetRun(r.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, got.Outcome)
	assert.True(t, got.FinishedAt.After(got.CreatedAt))

	assert.ErrorIs(t, s.FinishRun("nope", OutcomeRejected), ErrRunNotFound)
	assert.Error(t, s.FinishRun(r.ID, Outcome("exploded")))
}

func TestListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	var ids []string
	for _, f := range []string{"a", "b", "c"} {
		r, err := s.RecordRun(f, "i", "", 1)
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	runs, err := s.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[0], runs[2].ID)

	runs, err = s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].File)
}

func TestOutcomeValid(t *testing.T) {
	for _, o := range []Outcome{OutcomePending, OutcomeApplied, OutcomeRejected, OutcomeNoCode} {
		assert.True(t, o.Valid(), o)
	}
	assert.False(t, Outcome("").Valid())
}
