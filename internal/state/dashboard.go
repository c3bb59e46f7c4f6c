package state

import (
	"context"
	"fmt"
	"log/slog"

	"studysmart/internal/core"
	"studysmart/internal/events"
	"studysmart/internal/services"
	"studysmart/internal/store"
)

type DashboardState struct {
	Summary core.DashboardSummary

	SubjectName   string
	GoalHours     string
	SubjectColors core.ColorPair

	AddSubjectDialogOpen    bool
	DeleteSessionDialogOpen bool
	SessionToDelete         *core.Session
}

// Dashboard is the home screen: totals, subjects, upcoming tasks and
// recent sessions.
type Dashboard struct {
	*container[DashboardState]
	store     store.Store
	summaries *services.SummaryService
}

func NewDashboard(st store.Store, summaries *services.SummaryService, broker *events.Broker, logger *slog.Logger) *Dashboard {
	d := &Dashboard{store: st, summaries: summaries}
	initial := DashboardState{SubjectColors: core.DefaultSubjectColors[0]}
	d.container = newContainer("dashboard", initial, broker, store.AllTables, d.refresh, logger)
	return d
}

func (d *Dashboard) refresh(ctx context.Context, prev DashboardState) (DashboardState, error) {
	summary, err := d.summaries.Dashboard(ctx)
	if err != nil {
		return prev, err
	}
	prev.Summary = summary
	return prev, nil
}

// Dispatch applies intent and recomputes the snapshot before returning.
// Failures are reported on Events and leave the snapshot unchanged.
func (d *Dashboard) Dispatch(ctx context.Context, intent Intent) error {
	d.intentMu.Lock()
	defer d.intentMu.Unlock()

	switch in := intent.(type) {
	case SubjectNameChanged:
		d.update(func(s DashboardState) DashboardState { s.SubjectName = in.Name; return s })
	case GoalHoursChanged:
		d.update(func(s DashboardState) DashboardState { s.GoalHours = in.Text; return s })
	case SubjectColorsChanged:
		d.update(func(s DashboardState) DashboardState { s.SubjectColors = in.Colors; return s })
	case DialogToggled:
		d.update(func(s DashboardState) DashboardState {
			switch in.Dialog {
			case AddSubjectDialog:
				s.AddSubjectDialogOpen = in.Open
			case DeleteSessionDialog:
				s.DeleteSessionDialogOpen = in.Open
			}
			return s
		})
	case SaveSubject:
		return d.saveSubject(ctx)
	case DeleteSessionRequested:
		d.update(func(s DashboardState) DashboardState {
			session := in.Session
			s.SessionToDelete = &session
			s.DeleteSessionDialogOpen = true
			return s
		})
	case DeleteSession:
		if err := deleteSession(ctx, d.store, d.State().SessionToDelete); err != nil {
			return d.fail(ctx, err)
		}
		d.update(func(s DashboardState) DashboardState {
			s.SessionToDelete = nil
			s.DeleteSessionDialogOpen = false
			return s
		})
		return d.succeed(ctx, MsgSessionDeleted)
	case TaskCompletionToggled:
		msg, err := toggleTask(ctx, d.store, in.Task)
		if err != nil {
			return d.fail(ctx, err)
		}
		return d.succeed(ctx, msg)
	default:
		return fmt.Errorf("dashboard: unsupported intent %T", intent)
	}
	return nil
}

func (d *Dashboard) saveSubject(ctx context.Context) error {
	cur := d.State()
	subject, err := subjectDraft(cur.SubjectName, cur.GoalHours, cur.SubjectColors)
	if err != nil {
		return d.fail(ctx, err)
	}
	if _, err := d.store.CreateSubject(ctx, subject); err != nil {
		return d.fail(ctx, err)
	}
	d.update(func(s DashboardState) DashboardState {
		s.SubjectName = ""
		s.GoalHours = ""
		s.SubjectColors = core.DefaultSubjectColors[0]
		s.AddSubjectDialogOpen = false
		return s
	})
	return d.succeed(ctx, MsgSubjectSaved)
}
