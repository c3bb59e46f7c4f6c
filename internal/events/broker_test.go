package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studysmart/internal/store"
)

func TestBroker_FiltersByTable(t *testing.T) {
	b := NewBroker(nil)
	defer b.Close()

	tasks := b.Subscribe(store.TableTasks)
	all := b.Subscribe()

	b.Publish(NewChange(store.TableSessions, OpCreate, 1, 1))
	b.Publish(NewChange(store.TableTasks, OpUpdate, 2, 1))

	got := <-tasks.C()
	assert.Equal(t, store.TableTasks, got.Table)
	assert.Equal(t, OpUpdate, got.Op)
	assert.Len(t, tasks.C(), 0)

	assert.Len(t, all.C(), 2)
}

func TestBroker_FullBufferCoalesces(t *testing.T) {
	b := NewBroker(nil)
	defer b.Close()
	sub := b.Subscribe()

	for i := 0; i < DefaultBuffer+5; i++ {
		b.Publish(NewChange(store.TableSubjects, OpCreate, int64(i), 0))
	}

	assert.Len(t, sub.C(), DefaultBuffer)
	assert.Equal(t, 5, sub.Dropped())
}

func TestSubscription_CloseIsIdempotent(t *testing.T) {
	b := NewBroker(nil)
	sub := b.Subscribe()
	require.Equal(t, 1, b.Len())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, b.Len())

	_, ok := <-sub.C()
	assert.False(t, ok, "channel should be closed")

	// publishing after close must not panic
	b.Publish(NewChange(store.TableTasks, OpDelete, 1, 0))
}

func TestBroker_CloseEndsSubscriptions(t *testing.T) {
	b := NewBroker(nil)
	sub := b.Subscribe(store.TableSubjects)
	b.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)

	late := b.Subscribe()
	_, ok = <-late.C()
	assert.False(t, ok, "subscriptions made after close start closed")
	late.Close()
}

func TestChange_JSONRoundTrip(t *testing.T) {
	c := NewChange(store.TableSessions, OpDelete, 9, 3)
	require.NotEqual(t, uuid.Nil, c.ID)

	data, err := c.ToJSON()
	require.NoError(t, err)
	back, err := ChangeFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, c.ID, back.ID)
	assert.Equal(t, c.Table, back.Table)
	assert.Equal(t, c.SubjectID, back.SubjectID)
	assert.True(t, c.At.Equal(back.At))

	_, err = ChangeFromJSON([]byte("{"))
	assert.Error(t, err)
}
