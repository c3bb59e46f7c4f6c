// Package storetest holds the behaviour every store backend must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studysmart/internal/core"
	"studysmart/internal/store"
)

// Factory returns an empty store. Cleanup is registered on t.
type Factory func(t *testing.T) store.Store

// Run executes the shared suite against the backend built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"subject crud", testSubjectCRUD},
		{"subject validation", testSubjectValidation},
		{"task requires existing subject", testTaskRequiresSubject},
		{"session requires existing subject", testSessionRequiresSubject},
		{"delete subject cascades", testDeleteSubjectCascades},
		{"missing ids", testMissingIDs},
		{"toggle completion twice", testToggleTwice},
		{"list ordering", testListOrdering},
		{"subject rename updates related names", testRenamePropagates},
		{"studied hours follow inserts and deletes", testStudiedHoursProperty},
		{"math scenario", testMathScenario},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func mustSubject(t *testing.T, s store.Store, name string, goal float64) core.Subject {
	t.Helper()
	sub, err := s.CreateSubject(context.Background(), core.Subject{
		Name:      name,
		GoalHours: goal,
		Colors:    core.DefaultSubjectColors[1],
	})
	require.NoError(t, err)
	require.NotZero(t, sub.ID)
	return sub
}

func testSubjectCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	math := mustSubject(t, s, "Math", 10)

	got, err := s.GetSubject(ctx, math.ID)
	require.NoError(t, err)
	assert.Equal(t, math, got)

	math.Name = "Mathematics"
	math.GoalHours = 12.5
	require.NoError(t, s.UpdateSubject(ctx, math))

	got, err = s.GetSubject(ctx, math.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", got.Name)
	assert.Equal(t, 12.5, got.GoalHours)
	assert.Equal(t, core.DefaultSubjectColors[1], got.Colors)

	list, err := s.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteSubject(ctx, math.ID))
	_, err = s.GetSubject(ctx, math.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func testSubjectValidation(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.CreateSubject(ctx, core.Subject{Name: " ", GoalHours: 1})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = s.CreateSubject(ctx, core.Subject{Name: "Bio", GoalHours: -3})
	assert.ErrorIs(t, err, core.ErrValidation)

	list, err := s.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testTaskRequiresSubject(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.CreateTask(ctx, core.Task{SubjectID: 999, Title: "Orphan"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrValidation)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	sub := mustSubject(t, s, "Chem", 3)
	task, err := s.CreateTask(ctx, core.Task{SubjectID: sub.ID, Title: "Lab report"})
	require.NoError(t, err)

	task.SubjectID = 999
	assert.ErrorIs(t, s.UpdateTask(ctx, task), core.ErrValidation)

	stored, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, stored.SubjectID)
}

func testSessionRequiresSubject(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.CreateSession(ctx, core.Session{SubjectID: 42, DurationSeconds: 60})
	assert.ErrorIs(t, err, core.ErrValidation)

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func testDeleteSubjectCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	math := mustSubject(t, s, "Math", 10)
	art := mustSubject(t, s, "Art", 2)

	for i := 0; i < 3; i++ {
		_, err := s.CreateTask(ctx, core.Task{SubjectID: math.ID, Title: "Exercise"})
		require.NoError(t, err)
		_, err = s.CreateSession(ctx, core.Session{SubjectID: math.ID, DurationSeconds: 600, StartTimeMillis: int64(i)})
		require.NoError(t, err)
	}
	keptTask, err := s.CreateTask(ctx, core.Task{SubjectID: art.ID, Title: "Sketch"})
	require.NoError(t, err)
	keptSession, err := s.CreateSession(ctx, core.Session{SubjectID: art.ID, DurationSeconds: 60})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSubject(ctx, math.ID))

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, keptTask.ID, tasks[0].ID)

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, keptSession.ID, sessions[0].ID)

	byMath, err := s.ListTasksBySubject(ctx, math.ID)
	require.NoError(t, err)
	assert.Empty(t, byMath)
}

func testMissingIDs(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.GetTask(ctx, 7)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.GetSession(ctx, 7)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTask(ctx, 7), core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSession(ctx, 7), core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSubject(ctx, 7), core.ErrNotFound)
	assert.ErrorIs(t, s.UpdateSubject(ctx, core.Subject{ID: 7, Name: "Ghost"}), core.ErrNotFound)

	sub := mustSubject(t, s, "Real", 1)
	assert.ErrorIs(t, s.UpdateTask(ctx, core.Task{ID: 7, SubjectID: sub.ID, Title: "Ghost"}), core.ErrNotFound)
}

func testToggleTwice(t *testing.T, s store.Store) {
	ctx := context.Background()
	sub := mustSubject(t, s, "History", 4)
	task, err := s.CreateTask(ctx, core.Task{SubjectID: sub.ID, Title: "Essay", Priority: core.PriorityHigh})
	require.NoError(t, err)
	original := task.IsComplete

	for i := 0; i < 2; i++ {
		cur, err := s.GetTask(ctx, task.ID)
		require.NoError(t, err)
		require.NoError(t, s.UpdateTask(ctx, cur.ToggleComplete()))
	}

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, original, got.IsComplete)
	assert.Equal(t, core.PriorityHigh, got.Priority)
}

func testListOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()
	b := mustSubject(t, s, "Biology", 1)
	a := mustSubject(t, s, "Algebra", 1)

	subjects, err := s.ListSubjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, a.ID, subjects[0].ID)

	late, err := s.CreateTask(ctx, core.Task{SubjectID: b.ID, Title: "Late", DueDateMillis: 300})
	require.NoError(t, err)
	early, err := s.CreateTask(ctx, core.Task{SubjectID: a.ID, Title: "Early", DueDateMillis: 100})
	require.NoError(t, err)
	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, early.ID, tasks[0].ID)
	assert.Equal(t, late.ID, tasks[1].ID)

	old, err := s.CreateSession(ctx, core.Session{SubjectID: a.ID, DurationSeconds: 10, StartTimeMillis: 1000})
	require.NoError(t, err)
	recent, err := s.CreateSession(ctx, core.Session{SubjectID: a.ID, DurationSeconds: 10, StartTimeMillis: 5000})
	require.NoError(t, err)
	sessions, err := s.ListSessionsBySubject(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, recent.ID, sessions[0].ID)
	assert.Equal(t, old.ID, sessions[1].ID)
}

func testRenamePropagates(t *testing.T, s store.Store) {
	ctx := context.Background()
	sub := mustSubject(t, s, "Geo", 1)
	task, err := s.CreateTask(ctx, core.Task{SubjectID: sub.ID, Title: "Maps"})
	require.NoError(t, err)
	assert.Equal(t, "Geo", task.RelatedToSubject)

	sub.Name = "Geography"
	require.NoError(t, s.UpdateSubject(ctx, sub))

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Geography", got.RelatedToSubject)
}

func testStudiedHoursProperty(t *testing.T, s store.Store) {
	ctx := context.Background()
	sub := mustSubject(t, s, "Physics", 20)
	rng := rand.New(rand.NewSource(7))

	var live []core.Session
	for step := 0; step < 60; step++ {
		if len(live) > 0 && rng.Intn(3) == 0 {
			i := rng.Intn(len(live))
			require.NoError(t, s.DeleteSession(ctx, live[i].ID))
			live = append(live[:i], live[i+1:]...)
		} else {
			ss, err := s.CreateSession(ctx, core.Session{
				SubjectID:       sub.ID,
				DurationSeconds: int64(rng.Intn(5000)),
				StartTimeMillis: int64(step),
			})
			require.NoError(t, err)
			live = append(live, ss)
		}

		var seconds int64
		for _, ss := range live {
			seconds += ss.DurationSeconds
		}
		stored, err := s.ListSessions(ctx)
		require.NoError(t, err)
		require.Equal(t, core.SecondsToHours(seconds), core.TotalStudiedHours(stored), "step %d", step)
	}
}

func testMathScenario(t *testing.T, s store.Store) {
	ctx := context.Background()
	math := mustSubject(t, s, "Math", 10)

	session, err := s.CreateSession(ctx, core.Session{SubjectID: math.ID, DurationSeconds: 3600})
	require.NoError(t, err)

	sessions, err := s.ListSessionsBySubject(ctx, math.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, core.SubjectStudiedHours(sessions, math.ID))

	require.NoError(t, s.DeleteSession(ctx, session.ID))

	sessions, err = s.ListSessionsBySubject(ctx, math.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, core.SubjectStudiedHours(sessions, math.ID))
}
