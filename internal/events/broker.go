package events

import (
	"log/slog"
	"sync"

	"studysmart/internal/log"
	"studysmart/internal/store"
)

// DefaultBuffer is the per-subscription channel capacity.
const DefaultBuffer = 16

// Broker fans committed changes out to subscribers. Publishing never
// blocks: when a subscriber's buffer is full the change is dropped, which
// is safe because the subscriber still has unread notifications and
// recomputes from the store on each one.
type Broker struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
	logger *slog.Logger
}

// Subscription receives the changes of the tables it was created for.
type Subscription struct {
	broker *Broker
	tables map[store.Table]struct{}

	mu      sync.Mutex
	ch      chan Change
	closed  bool
	dropped int
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		subs:   make(map[*Subscription]struct{}),
		logger: log.Component(logger, log.ComponentEvents),
	}
}

// Subscribe registers interest in tables; no tables means every table.
func (b *Broker) Subscribe(tables ...store.Table) *Subscription {
	sub := &Subscription{
		broker: b,
		ch:     make(chan Change, DefaultBuffer),
	}
	if len(tables) > 0 {
		sub.tables = make(map[store.Table]struct{}, len(tables))
		for _, t := range tables {
			sub.tables[t] = struct{}{}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.closed = true
		close(sub.ch)
		return sub
	}
	b.subs[sub] = struct{}{}
	b.logger.Debug("registered subscription", "subscriber_count", len(b.subs), "tables", tables)
	return sub
}

// Publish delivers c to every subscriber watching c.Table.
func (b *Broker) Publish(c Change) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	subs := make([]*Subscription, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	b.logger.Debug("publishing change",
		log.FieldChangeID, c.ID,
		log.FieldTable, c.Table,
		"op", c.Op,
		"entity_id", c.EntityID,
		"subscriber_count", len(subs))

	for _, s := range subs {
		if s.wants(c.Table) {
			s.deliver(c)
		}
	}
}

// Len reports the number of live subscriptions.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription. Later subscriptions start closed.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[*Subscription]struct{})
	b.mu.Unlock()

	for s := range subs {
		s.shutdown()
	}
}

func (b *Broker) remove(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
}

// C returns the channel of changes. It is closed when the subscription
// or the broker closes.
func (s *Subscription) C() <-chan Change { return s.ch }

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.broker.remove(s)
	s.shutdown()
}

// Dropped reports how many changes were coalesced because the buffer
// was full.
func (s *Subscription) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *Subscription) wants(t store.Table) bool {
	if s.tables == nil {
		return true
	}
	_, ok := s.tables[t]
	return ok
}

func (s *Subscription) deliver(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- c:
	default:
		s.dropped++
	}
}

func (s *Subscription) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
