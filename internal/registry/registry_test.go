package registry

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "school-activities/internal/common/errors"
	"school-activities/internal/models"
)

// ==========================
// Test Helpers
// ==========================

func testSeed() []models.Activity {
	return []models.Activity{
		{
			Name:            "Test Activity",
			Description:     "A dummy activity",
			Schedule:        "Now",
			MaxParticipants: 2,
			Participants:    []string{},
		},
	}
}

func newTestRegistry(t *testing.T, seed []models.Activity) *Registry {
	t.Helper()
	r, err := New(seed)
	require.NoError(t, err)
	return r
}

// ==========================
// Construction
// ==========================

func TestNew_RejectsInvalidSeed(t *testing.T) {
	tests := []struct {
		name   string
		seed   []models.Activity
		errMsg string
	}{
		{
			name:   "empty name",
			seed:   []models.Activity{{MaxParticipants: 1}},
			errMsg: "activity name is empty",
		},
		{
			name: "duplicate names",
			seed: []models.Activity{
				{Name: "Drama", MaxParticipants: 1},
				{Name: "Drama", MaxParticipants: 2},
			},
			errMsg: `duplicate activity "Drama"`,
		},
		{
			name:   "zero capacity",
			seed:   []models.Activity{{Name: "Drama"}},
			errMsg: "max_participants must be positive",
		},
		{
			name:   "over capacity",
			seed:   []models.Activity{{Name: "Drama", MaxParticipants: 1, Participants: []string{"a@b.com", "c@d.com"}}},
			errMsg: "2 participants exceed capacity 1",
		},
		{
			name:   "duplicate participant",
			seed:   []models.Activity{{Name: "Drama", MaxParticipants: 3, Participants: []string{"a@b.com", "a@b.com"}}},
			errMsg: "duplicate participant a@b.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.seed)
			require.Error(t, err)

			var stdErr *apperrors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, apperrors.ErrCodeInvalidSeed, stdErr.Code)
			assert.Contains(t, stdErr.Details, tt.errMsg)
		})
	}
}

func TestNew_CopiesSeed(t *testing.T) {
	seed := []models.Activity{{Name: "Drama", MaxParticipants: 3, Participants: []string{"a@b.com"}}}
	r := newTestRegistry(t, seed)

	seed[0].Participants[0] = "mutated@b.com"

	got, err := r.Get("Drama")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.com"}, got.Participants)
}

// ==========================
// List
// ==========================

func TestList_ReturnsAllActivities(t *testing.T) {
	r := newTestRegistry(t, testSeed())

	all := r.List()
	require.Contains(t, all, "Test Activity")
	assert.Equal(t, "A dummy activity", all["Test Activity"].Description)
	assert.Equal(t, "Now", all["Test Activity"].Schedule)
	assert.Equal(t, 2, all["Test Activity"].MaxParticipants)
	assert.Empty(t, all["Test Activity"].Participants)
}

func TestList_IsACopy(t *testing.T) {
	r := newTestRegistry(t, testSeed())
	_, err := r.Signup("Test Activity", "a@b.com")
	require.NoError(t, err)

	all := r.List()
	act := all["Test Activity"]
	act.Participants[0] = "evil@b.com"
	act.MaxParticipants = 100

	again := r.List()["Test Activity"]
	assert.Equal(t, []string{"a@b.com"}, again.Participants)
	assert.Equal(t, 2, again.MaxParticipants)
}

// ==========================
// Signup
// ==========================

func TestSignup_Scenario(t *testing.T) {
	r := newTestRegistry(t, testSeed())

	conf, err := r.Signup("Test Activity", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "Signed up a@b.com for Test Activity", conf.Message)
	assert.Equal(t, "Test Activity", conf.Activity)
	assert.Equal(t, "a@b.com", conf.Email)

	_, err = r.Signup("Test Activity", "a@b.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
	assert.Contains(t, err.Error(), "already signed up")

	_, err = r.Signup("Test Activity", "c@d.com")
	require.NoError(t, err)

	_, err = r.Signup("Test Activity", "e@f.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
	assert.Contains(t, err.Error(), "is full")

	got, err := r.Get("Test Activity")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.com", "c@d.com"}, got.Participants)
}

func TestSignup_DuplicateCheckedBeforeCapacity(t *testing.T) {
	r := newTestRegistry(t, []models.Activity{
		{Name: "Full", MaxParticipants: 1, Participants: []string{"a@b.com"}},
	})

	_, err := r.Signup("Full", "a@b.com")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestSignup_PreservesOrder(t *testing.T) {
	r := newTestRegistry(t, []models.Activity{{Name: "Book Club", MaxParticipants: 25}})

	want := []string{"z@x.com", "a@x.com", "m@x.com"}
	for _, email := range want {
		_, err := r.Signup("Book Club", email)
		require.NoError(t, err)
	}

	got, err := r.Get("Book Club")
	require.NoError(t, err)
	assert.Equal(t, want, got.Participants)
}

// ==========================
// Unregister
// ==========================

func TestUnregister(t *testing.T) {
	r := newTestRegistry(t, testSeed())
	_, err := r.Signup("Test Activity", "x@y.com")
	require.NoError(t, err)
	_, err = r.Signup("Test Activity", "z@w.com")
	require.NoError(t, err)

	conf, err := r.Unregister("Test Activity", "x@y.com")
	require.NoError(t, err)
	assert.Equal(t, "Unregistered x@y.com from Test Activity", conf.Message)

	got, err := r.Get("Test Activity")
	require.NoError(t, err)
	assert.Equal(t, []string{"z@w.com"}, got.Participants)

	_, err = r.Unregister("Test Activity", "nope@none")
	assert.ErrorIs(t, err, apperrors.ErrNotRegistered)
	assert.Contains(t, err.Error(), "nope@none is not registered for Test Activity")
}

func TestUnregister_FreesCapacity(t *testing.T) {
	r := newTestRegistry(t, []models.Activity{{Name: "Solo", MaxParticipants: 1}})

	_, err := r.Signup("Solo", "a@b.com")
	require.NoError(t, err)
	_, err = r.Signup("Solo", "c@d.com")
	require.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	_, err = r.Unregister("Solo", "a@b.com")
	require.NoError(t, err)
	_, err = r.Signup("Solo", "c@d.com")
	require.NoError(t, err)
}

// ==========================
// Unknown activity
// ==========================

func TestUnknownActivity_AlwaysNotFound(t *testing.T) {
	r := newTestRegistry(t, testSeed())

	_, err := r.Signup("Nope", "a@b.com")
	assert.ErrorIs(t, err, apperrors.ErrActivityNotFound)

	_, err = r.Unregister("Nope", "a@b.com")
	assert.ErrorIs(t, err, apperrors.ErrActivityNotFound)

	_, err = r.Get("Nope")
	assert.ErrorIs(t, err, apperrors.ErrActivityNotFound)
	assert.Contains(t, err.Error(), "Activity not found")
}

// ==========================
// Concurrency
// ==========================

func TestSignup_ConcurrentNeverExceedsCapacity(t *testing.T) {
	const capacity = 10
	r := newTestRegistry(t, []models.Activity{{Name: "Soccer", MaxParticipants: capacity}})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := r.Signup("Soccer", fmt.Sprintf("student%d@mergington.edu", i%40)); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	got, err := r.Get("Soccer")
	require.NoError(t, err)
	assert.Len(t, got.Participants, capacity)
	assert.Equal(t, capacity, success)

	seen := map[string]bool{}
	for _, p := range got.Participants {
		assert.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
	}
}
