// Package store declares the persistence ports shared by every backend.
//
// Backends report failures with the core error kinds: core.ErrValidation
// for invalid fields or references to missing subjects, core.ErrNotFound
// for operations on missing ids, and core.ErrStorage for I/O failures.
package store

import (
	"context"

	"studysmart/internal/core"
)

// Table names a persisted record type.
type Table string

const (
	TableSubjects Table = "subjects"
	TableTasks    Table = "tasks"
	TableSessions Table = "sessions"
)

// AllTables lists every table in schema order.
var AllTables = []Table{TableSubjects, TableTasks, TableSessions}

type (
	SubjectStore interface {
		// CreateSubject assigns a new id and returns the stored subject.
		CreateSubject(ctx context.Context, s core.Subject) (core.Subject, error)
		GetSubject(ctx context.Context, id int64) (core.Subject, error)
		UpdateSubject(ctx context.Context, s core.Subject) error
		// DeleteSubject removes the subject with its tasks and sessions.
		DeleteSubject(ctx context.Context, id int64) error
		// ListSubjects returns every subject ordered by name, then id.
		ListSubjects(ctx context.Context) ([]core.Subject, error)
	}

	TaskStore interface {
		CreateTask(ctx context.Context, t core.Task) (core.Task, error)
		GetTask(ctx context.Context, id int64) (core.Task, error)
		UpdateTask(ctx context.Context, t core.Task) error
		DeleteTask(ctx context.Context, id int64) error
		// ListTasks returns every task ordered by due date, then id.
		ListTasks(ctx context.Context) ([]core.Task, error)
		ListTasksBySubject(ctx context.Context, subjectID int64) ([]core.Task, error)
	}

	SessionStore interface {
		CreateSession(ctx context.Context, s core.Session) (core.Session, error)
		GetSession(ctx context.Context, id int64) (core.Session, error)
		DeleteSession(ctx context.Context, id int64) error
		// ListSessions returns every session, newest first.
		ListSessions(ctx context.Context) ([]core.Session, error)
		ListSessionsBySubject(ctx context.Context, subjectID int64) ([]core.Session, error)
	}

	// Store is the full entity store.
	Store interface {
		SubjectStore
		TaskStore
		SessionStore
		Close() error
	}
)
