// Package state holds the per-screen state containers. Each container owns
// a snapshot, applies intents one at a time and recomputes the snapshot
// from the store after every mutation and every committed change.
package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"studysmart/internal/core"
	"studysmart/internal/events"
	"studysmart/internal/live"
	"studysmart/internal/log"
	"studysmart/internal/store"
)

// Event is a one-shot effect for the presentation layer.
type Event interface{ isEvent() }

// ShowMessage asks the UI to show a transient message.
type ShowMessage struct{ Text string }

// NavigateUp asks the UI to leave the current screen.
type NavigateUp struct{}

func (ShowMessage) isEvent() {}
func (NavigateUp) isEvent()  {}

const eventBuffer = 32

// container is the machinery shared by every screen. S is the snapshot
// type; refresh recomputes it from the store.
type container[S any] struct {
	// intentMu serializes Dispatch and refreshes.
	intentMu sync.Mutex

	mu     sync.RWMutex
	state  S
	subs   map[int]chan S
	nextID int

	events chan Event
	logger *slog.Logger

	broker  *events.Broker
	tables  []store.Table
	refresh func(ctx context.Context, prev S) (S, error)

	stopMu sync.Mutex
	stop   context.CancelFunc
	done   chan struct{}
	closed bool
}

func newContainer[S any](name string, initial S, broker *events.Broker, tables []store.Table,
	refresh func(ctx context.Context, prev S) (S, error), logger *slog.Logger) *container[S] {
	return &container[S]{
		state:   initial,
		subs:    make(map[int]chan S),
		events:  make(chan Event, eventBuffer),
		logger:  log.Component(logger, log.ComponentState).With(log.FieldScreen, name),
		broker:  broker,
		tables:  tables,
		refresh: refresh,
	}
}

// State returns the current snapshot.
func (c *container[S]) State() S {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe returns a channel that always holds the latest snapshot. The
// current snapshot is delivered first. cancel closes the channel.
func (c *container[S]) Subscribe() (<-chan S, func()) {
	ch := make(chan S, 1)
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	ch <- c.state
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			if _, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(ch)
			}
			c.mu.Unlock()
		})
	}
}

// Events returns the one-shot effects channel.
func (c *container[S]) Events() <-chan Event { return c.events }

func (c *container[S]) set(s S) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// update applies fn to the snapshot without touching the store.
func (c *container[S]) update(fn func(S) S) {
	c.set(fn(c.State()))
}

func (c *container[S]) emit(e Event) {
	select {
	case c.events <- e:
	default:
		c.logger.Warn("Dropping UI event, buffer full", "event", e)
	}
}

func (c *container[S]) message(text string) {
	c.emit(ShowMessage{Text: text})
}

// fail reports err as a message. The snapshot is left as it was.
func (c *container[S]) fail(ctx context.Context, err error) error {
	c.logger.WarnContext(ctx, "Intent failed", "error", err)
	c.message(errorMessage(err))
	return err
}

// reload recomputes the snapshot. Callers hold intentMu.
func (c *container[S]) reload(ctx context.Context) error {
	next, err := c.refresh(ctx, c.State())
	if err != nil {
		return err
	}
	c.set(next)
	return nil
}

// succeed recomputes after a successful mutation, shows msg and then
// emits any follow-up events.
func (c *container[S]) succeed(ctx context.Context, msg string, then ...Event) error {
	if err := c.reload(ctx); err != nil {
		return c.fail(ctx, err)
	}
	c.message(msg)
	for _, e := range then {
		c.emit(e)
	}
	return nil
}

// Load computes the first snapshot.
func (c *container[S]) Load(ctx context.Context) error {
	c.intentMu.Lock()
	defer c.intentMu.Unlock()
	if err := c.reload(ctx); err != nil {
		return c.fail(ctx, err)
	}
	return nil
}

// Start loads the snapshot and keeps it current until ctx ends or Close
// is called.
func (c *container[S]) Start(ctx context.Context) error {
	c.stopMu.Lock()
	if c.closed {
		c.stopMu.Unlock()
		return errors.New("state container closed")
	}
	if c.stop != nil {
		c.stopMu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	c.stop = cancel
	c.done = make(chan struct{})
	c.stopMu.Unlock()

	// each evaluation is applied under intentMu so it cannot overwrite
	// the snapshot of an intent that ran in between
	results := live.Watch(ctx, c.broker, c.tables, func(ctx context.Context) (S, error) {
		c.intentMu.Lock()
		defer c.intentMu.Unlock()
		err := c.reload(ctx)
		return c.State(), err
	})

	if first, ok := <-results; ok && first.Err != nil {
		c.logger.ErrorContext(ctx, "Initial load failed", "error", first.Err)
		c.message(errorMessage(first.Err))
	}

	go func() {
		defer close(c.done)
		for r := range results {
			if r.Err != nil && ctx.Err() == nil {
				c.logger.ErrorContext(ctx, "Refresh failed", "error", r.Err)
			}
		}
	}()
	return nil
}

// Close stops watching the store and closes every subscription.
func (c *container[S]) Close() {
	c.stopMu.Lock()
	if c.closed {
		c.stopMu.Unlock()
		return
	}
	c.closed = true
	stop, done := c.stop, c.done
	c.stopMu.Unlock()

	if stop != nil {
		stop()
		<-done
	}

	c.mu.Lock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()
}

func errorMessage(err error) string {
	var (
		verr *core.ValidationError
		nerr *core.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &nerr):
		return nerr.Error()
	case errors.Is(err, core.ErrStorage):
		return "Could not reach the database. " + err.Error()
	default:
		return err.Error()
	}
}
