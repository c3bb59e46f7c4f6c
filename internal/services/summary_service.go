package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"studysmart/internal/core"
	"studysmart/internal/log"
	"studysmart/internal/store"
)

// Reader is the read side of the store the summaries are folded from.
type Reader interface {
	GetSubject(ctx context.Context, id int64) (core.Subject, error)
	ListSubjects(ctx context.Context) ([]core.Subject, error)
	ListTasks(ctx context.Context) ([]core.Task, error)
	ListTasksBySubject(ctx context.Context, subjectID int64) ([]core.Task, error)
	ListSessions(ctx context.Context) ([]core.Session, error)
	ListSessionsBySubject(ctx context.Context, subjectID int64) ([]core.Session, error)
}

var _ Reader = (store.Store)(nil)

// SummaryService recomputes dashboard and subject summaries from full
// store snapshots on every call.
type SummaryService struct {
	reader      Reader
	recentLimit int
	logger      *slog.Logger
}

// NewSummaryService builds a service that trims the dashboard's recent
// sessions to recentLimit. A non-positive limit keeps the default of
// core.DashboardRecentSessions.
func NewSummaryService(reader Reader, recentLimit int, logger *slog.Logger) *SummaryService {
	if recentLimit <= 0 {
		recentLimit = core.DashboardRecentSessions
	}
	return &SummaryService{
		reader:      reader,
		recentLimit: recentLimit,
		logger:      log.Component(logger, log.ComponentSummary),
	}
}

// Dashboard loads subjects, tasks and sessions concurrently and folds them.
func (s *SummaryService) Dashboard(ctx context.Context) (core.DashboardSummary, error) {
	var (
		subjects []core.Subject
		tasks    []core.Task
		sessions []core.Session
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subjects, err = s.reader.ListSubjects(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.reader.ListTasks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.reader.ListSessions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.DashboardSummary{}, fmt.Errorf("load dashboard: %w", err)
	}

	summary := core.SummarizeDashboard(subjects, tasks, sessions)
	summary.RecentSessions = core.RecentSessions(sessions, s.recentLimit)

	s.logger.DebugContext(ctx, "Dashboard recomputed",
		"subjects", summary.SubjectCount,
		"tasks", len(tasks),
		"sessions", len(sessions),
		"studied_hours", summary.TotalStudiedHours)
	return summary, nil
}

// Subject folds the tasks and sessions of one subject. A missing subject
// yields core.ErrNotFound.
func (s *SummaryService) Subject(ctx context.Context, id int64) (core.SubjectSummary, error) {
	var (
		subject  core.Subject
		tasks    []core.Task
		sessions []core.Session
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subject, err = s.reader.GetSubject(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.reader.ListTasksBySubject(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.reader.ListSessionsBySubject(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.SubjectSummary{}, fmt.Errorf("load subject %d: %w", id, err)
	}

	return core.SummarizeSubject(subject, tasks, sessions), nil
}
