// Package memory is an in-process store backend with the same semantics
// as the SQLite repository. It backs tests and DATA_BACKEND=memory.
package memory

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"studysmart/internal/core"
	"studysmart/internal/log"
)

type Store struct {
	mu       sync.RWMutex
	nextID   map[string]int64
	subjects map[int64]core.Subject
	tasks    map[int64]core.Task
	sessions map[int64]core.Session
}

func New() *Store {
	return &Store{
		nextID:   map[string]int64{},
		subjects: map[int64]core.Subject{},
		tasks:    map[int64]core.Task{},
		sessions: map[int64]core.Session{},
	}
}

// NewFromFiles seeds subjects from base/seed_subjects.txt. Each line is
// "name,goal hours"; blank lines and # comments are skipped. Lines that do
// not make a valid subject are logged and skipped.
func NewFromFiles(base string, logger *slog.Logger) *Store {
	logger = log.Component(logger, log.ComponentStorage)
	path := filepath.Join(base, "seed_subjects.txt")

	s := New()
	for _, line := range readLines(path) {
		name, goal, _ := strings.Cut(line, ",")
		hours, err := strconv.ParseFloat(strings.TrimSpace(goal), 64)
		if err != nil {
			logger.Warn("Skipping seed line with invalid goal", log.FieldPath, path, "line", line, log.FieldError, err)
			continue
		}
		_, err = s.CreateSubject(context.Background(), core.Subject{
			Name:      strings.TrimSpace(name),
			GoalHours: hours,
			Colors:    core.DefaultSubjectColors[0],
		})
		if err != nil {
			logger.Warn("Skipping invalid seed line", log.FieldPath, path, "line", line, log.FieldError, err)
		}
	}
	return s
}

func (s *Store) Close() error { return nil }

func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

func (s *Store) CreateSubject(_ context.Context, sub core.Subject) (core.Subject, error) {
	if err := sub.Validate(); err != nil {
		return core.Subject{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.ID = s.id("subjects")
	s.subjects[sub.ID] = sub
	return sub, nil
}

func (s *Store) GetSubject(_ context.Context, id int64) (core.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subjects[id]
	if !ok {
		return core.Subject{}, &core.NotFoundError{Entity: "subject", ID: id}
	}
	return sub, nil
}

func (s *Store) UpdateSubject(_ context.Context, sub core.Subject) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[sub.ID]; !ok {
		return &core.NotFoundError{Entity: "subject", ID: sub.ID}
	}
	s.subjects[sub.ID] = sub
	for id, t := range s.tasks {
		if t.SubjectID == sub.ID {
			t.RelatedToSubject = sub.Name
			s.tasks[id] = t
		}
	}
	for id, ss := range s.sessions {
		if ss.SubjectID == sub.ID {
			ss.RelatedToSubject = sub.Name
			s.sessions[id] = ss
		}
	}
	return nil
}

func (s *Store) DeleteSubject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[id]; !ok {
		return &core.NotFoundError{Entity: "subject", ID: id}
	}
	delete(s.subjects, id)
	for tid, t := range s.tasks {
		if t.SubjectID == id {
			delete(s.tasks, tid)
		}
	}
	for sid, ss := range s.sessions {
		if ss.SubjectID == id {
			delete(s.sessions, sid)
		}
	}
	return nil
}

func (s *Store) ListSubjects(_ context.Context) ([]core.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Subject, 0, len(s.subjects))
	for _, sub := range s.subjects {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) CreateTask(_ context.Context, t core.Task) (core.Task, error) {
	if err := t.Validate(); err != nil {
		return core.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subjects[t.SubjectID]
	if !ok {
		return core.Task{}, missingSubject(t.SubjectID)
	}
	t.ID = s.id("tasks")
	t.RelatedToSubject = sub.Name
	s.tasks[t.ID] = t
	return t, nil
}

func (s *Store) GetTask(_ context.Context, id int64) (core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return core.Task{}, &core.NotFoundError{Entity: "task", ID: id}
	}
	return t, nil
}

func (s *Store) UpdateTask(_ context.Context, t core.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return &core.NotFoundError{Entity: "task", ID: t.ID}
	}
	sub, ok := s.subjects[t.SubjectID]
	if !ok {
		return missingSubject(t.SubjectID)
	}
	t.RelatedToSubject = sub.Name
	s.tasks[t.ID] = t
	return nil
}

func (s *Store) DeleteTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return &core.NotFoundError{Entity: "task", ID: id}
	}
	delete(s.tasks, id)
	return nil
}

func (s *Store) ListTasks(_ context.Context) ([]core.Task, error) {
	return s.filterTasks(func(core.Task) bool { return true }), nil
}

func (s *Store) ListTasksBySubject(_ context.Context, subjectID int64) ([]core.Task, error) {
	return s.filterTasks(func(t core.Task) bool { return t.SubjectID == subjectID }), nil
}

func (s *Store) filterTasks(keep func(core.Task) bool) []core.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDateMillis != out[j].DueDateMillis {
			return out[i].DueDateMillis < out[j].DueDateMillis
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) CreateSession(_ context.Context, ss core.Session) (core.Session, error) {
	if err := ss.Validate(); err != nil {
		return core.Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subjects[ss.SubjectID]
	if !ok {
		return core.Session{}, missingSubject(ss.SubjectID)
	}
	ss.ID = s.id("sessions")
	ss.RelatedToSubject = sub.Name
	s.sessions[ss.ID] = ss
	return ss, nil
}

func (s *Store) GetSession(_ context.Context, id int64) (core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ss, ok := s.sessions[id]
	if !ok {
		return core.Session{}, &core.NotFoundError{Entity: "session", ID: id}
	}
	return ss, nil
}

func (s *Store) DeleteSession(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return &core.NotFoundError{Entity: "session", ID: id}
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) ListSessions(_ context.Context) ([]core.Session, error) {
	return s.filterSessions(func(core.Session) bool { return true }), nil
}

func (s *Store) ListSessionsBySubject(_ context.Context, subjectID int64) ([]core.Session, error) {
	return s.filterSessions(func(ss core.Session) bool { return ss.SubjectID == subjectID }), nil
}

func (s *Store) filterSessions(keep func(core.Session) bool) []core.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Session, 0, len(s.sessions))
	for _, ss := range s.sessions {
		if keep(ss) {
			out = append(out, ss)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTimeMillis != out[j].StartTimeMillis {
			return out[i].StartTimeMillis > out[j].StartTimeMillis
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func missingSubject(id int64) error {
	return core.NewValidationError("subject_id", "subject "+strconv.FormatInt(id, 10)+" does not exist")
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
