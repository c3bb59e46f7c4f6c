// Package live turns store mutations into change notifications and
// re-runs queries when the tables they read change.
package live

import (
	"context"

	"studysmart/internal/core"
	"studysmart/internal/events"
	"studysmart/internal/store"
)

// Store wraps a backend and publishes a change for every committed
// mutation. Failed mutations publish nothing.
type Store struct {
	store.Store
	broker *events.Broker
}

var _ store.Store = (*Store)(nil)

func NewStore(inner store.Store, broker *events.Broker) *Store {
	return &Store{Store: inner, broker: broker}
}

// Broker returns the broker changes are published on.
func (s *Store) Broker() *events.Broker { return s.broker }

func (s *Store) publish(table store.Table, op events.Op, entityID, subjectID int64) {
	s.broker.Publish(events.NewChange(table, op, entityID, subjectID))
}

func (s *Store) CreateSubject(ctx context.Context, subject core.Subject) (core.Subject, error) {
	created, err := s.Store.CreateSubject(ctx, subject)
	if err != nil {
		return created, err
	}
	s.publish(store.TableSubjects, events.OpCreate, created.ID, created.ID)
	return created, nil
}

// UpdateSubject also notifies task and session watchers since a rename
// rewrites the subject name cached on children.
func (s *Store) UpdateSubject(ctx context.Context, subject core.Subject) error {
	if err := s.Store.UpdateSubject(ctx, subject); err != nil {
		return err
	}
	for _, t := range store.AllTables {
		s.publish(t, events.OpUpdate, subject.ID, subject.ID)
	}
	return nil
}

func (s *Store) DeleteSubject(ctx context.Context, id int64) error {
	if err := s.Store.DeleteSubject(ctx, id); err != nil {
		return err
	}
	for _, t := range store.AllTables {
		s.publish(t, events.OpDelete, id, id)
	}
	return nil
}

func (s *Store) CreateTask(ctx context.Context, t core.Task) (core.Task, error) {
	created, err := s.Store.CreateTask(ctx, t)
	if err != nil {
		return created, err
	}
	s.publish(store.TableTasks, events.OpCreate, created.ID, created.SubjectID)
	return created, nil
}

func (s *Store) UpdateTask(ctx context.Context, t core.Task) error {
	if err := s.Store.UpdateTask(ctx, t); err != nil {
		return err
	}
	s.publish(store.TableTasks, events.OpUpdate, t.ID, t.SubjectID)
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	var subjectID int64
	if t, err := s.Store.GetTask(ctx, id); err == nil {
		subjectID = t.SubjectID
	}
	if err := s.Store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.publish(store.TableTasks, events.OpDelete, id, subjectID)
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session core.Session) (core.Session, error) {
	created, err := s.Store.CreateSession(ctx, session)
	if err != nil {
		return created, err
	}
	s.publish(store.TableSessions, events.OpCreate, created.ID, created.SubjectID)
	return created, nil
}

func (s *Store) DeleteSession(ctx context.Context, id int64) error {
	var subjectID int64
	if sess, err := s.Store.GetSession(ctx, id); err == nil {
		subjectID = sess.SubjectID
	}
	if err := s.Store.DeleteSession(ctx, id); err != nil {
		return err
	}
	s.publish(store.TableSessions, events.OpDelete, id, subjectID)
	return nil
}
