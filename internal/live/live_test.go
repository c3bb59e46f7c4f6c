package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studysmart/internal/core"
	"studysmart/internal/events"
	"studysmart/internal/store"
	"studysmart/internal/store/memory"
)

func newLive(t *testing.T) (*Store, *events.Broker) {
	t.Helper()
	b := events.NewBroker(nil)
	t.Cleanup(b.Close)
	return NewStore(memory.New(), b), b
}

func recv(t *testing.T, sub *events.Subscription) events.Change {
	t.Helper()
	select {
	case c := <-sub.C():
		return c
	case <-time.After(time.Second):
		t.Fatal("no change published")
		return events.Change{}
	}
}

func TestStore_PublishesCommittedMutations(t *testing.T) {
	s, b := newLive(t)
	ctx := context.Background()
	sub := b.Subscribe()
	defer sub.Close()

	math, err := s.CreateSubject(ctx, core.Subject{Name: "Math", GoalHours: 10})
	require.NoError(t, err)
	c := recv(t, sub)
	assert.Equal(t, store.TableSubjects, c.Table)
	assert.Equal(t, events.OpCreate, c.Op)
	assert.Equal(t, math.ID, c.EntityID)

	task, err := s.CreateTask(ctx, core.Task{SubjectID: math.ID, Title: "Homework"})
	require.NoError(t, err)
	c = recv(t, sub)
	assert.Equal(t, store.TableTasks, c.Table)
	assert.Equal(t, math.ID, c.SubjectID)

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	c = recv(t, sub)
	assert.Equal(t, events.OpDelete, c.Op)
	assert.Equal(t, math.ID, c.SubjectID)
}

func TestStore_FailedMutationPublishesNothing(t *testing.T) {
	s, b := newLive(t)
	sub := b.Subscribe()
	defer sub.Close()

	_, err := s.CreateTask(context.Background(), core.Task{SubjectID: 42, Title: "Orphan"})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Len(t, sub.C(), 0)

	err = s.DeleteSession(context.Background(), 7)
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Len(t, sub.C(), 0)
}

func TestStore_SubjectDeleteNotifiesEveryTable(t *testing.T) {
	s, b := newLive(t)
	ctx := context.Background()
	math, err := s.CreateSubject(ctx, core.Subject{Name: "Math"})
	require.NoError(t, err)

	sessions := b.Subscribe(store.TableSessions)
	defer sessions.Close()

	require.NoError(t, s.DeleteSubject(ctx, math.ID))
	c := recv(t, sessions)
	assert.Equal(t, events.OpDelete, c.Op)
	assert.Equal(t, math.ID, c.SubjectID)
}

func TestWatch_EmitsInitialAndOnChange(t *testing.T) {
	s, b := newLive(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := Watch(ctx, b, []store.Table{store.TableSubjects}, func(ctx context.Context) (int, error) {
		subjects, err := s.ListSubjects(ctx)
		return len(subjects), err
	})

	first := <-results
	require.NoError(t, first.Err)
	assert.Equal(t, 0, first.Value)

	_, err := s.CreateSubject(ctx, core.Subject{Name: "Math"})
	require.NoError(t, err)

	select {
	case next := <-results:
		assert.Equal(t, 1, next.Value)
	case <-time.After(time.Second):
		t.Fatal("watch did not re-run")
	}

	cancel()
	for range results {
	}
}

func TestWatch_IgnoresOtherTables(t *testing.T) {
	_, b := newLive(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	results := Watch(ctx, b, []store.Table{store.TableTasks}, func(context.Context) (int, error) {
		calls++
		return calls, nil
	})
	<-results

	b.Publish(events.NewChange(store.TableSessions, events.OpCreate, 1, 1))
	select {
	case r := <-results:
		t.Fatalf("unexpected result %v", r)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatch_ReportsQueryErrors(t *testing.T) {
	_, b := newLive(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boom := errors.New("boom")
	results := Watch(ctx, b, nil, func(context.Context) (int, error) { return 0, boom })
	r := <-results
	assert.ErrorIs(t, r.Err, boom)
}

func TestWatch_ClosesWithBroker(t *testing.T) {
	b := events.NewBroker(nil)
	results := Watch(context.Background(), b, nil, func(context.Context) (int, error) { return 1, nil })
	<-results
	b.Close()

	select {
	case _, ok := <-results:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}
