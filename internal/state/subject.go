package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studysmart/internal/core"
	"studysmart/internal/events"
	"studysmart/internal/services"
	"studysmart/internal/store"
)

type SubjectState struct {
	Summary core.SubjectSummary
	Loaded  bool
	// Deleted is set once the subject disappears from the store.
	Deleted bool

	SubjectName   string
	GoalHours     string
	SubjectColors core.ColorPair

	EditSubjectDialogOpen   bool
	DeleteSubjectDialogOpen bool
	DeleteSessionDialogOpen bool
	SessionToDelete         *core.Session
}

// SubjectDetail is the screen of one subject with its tasks, sessions and
// progress towards the goal.
type SubjectDetail struct {
	*container[SubjectState]
	id        int64
	store     store.Store
	summaries *services.SummaryService
}

func NewSubjectDetail(id int64, st store.Store, summaries *services.SummaryService, broker *events.Broker, logger *slog.Logger) *SubjectDetail {
	d := &SubjectDetail{id: id, store: st, summaries: summaries}
	d.container = newContainer("subject", SubjectState{}, broker, store.AllTables, d.refresh, logger)
	return d
}

// SubjectID is the id the screen is bound to.
func (d *SubjectDetail) SubjectID() int64 { return d.id }

func (d *SubjectDetail) refresh(ctx context.Context, prev SubjectState) (SubjectState, error) {
	summary, err := d.summaries.Subject(ctx, d.id)
	if err != nil {
		if prev.Loaded && errors.Is(err, core.ErrNotFound) {
			prev.Deleted = true
			return prev, nil
		}
		return prev, err
	}
	if !prev.Loaded {
		prev.SubjectName = summary.Subject.Name
		prev.GoalHours = core.FormatHours(summary.Subject.GoalHours)
		prev.SubjectColors = summary.Subject.Colors
		prev.Loaded = true
	}
	prev.Summary = summary
	return prev, nil
}

func (d *SubjectDetail) Dispatch(ctx context.Context, intent Intent) error {
	d.intentMu.Lock()
	defer d.intentMu.Unlock()

	switch in := intent.(type) {
	case SubjectNameChanged:
		d.update(func(s SubjectState) SubjectState { s.SubjectName = in.Name; return s })
	case GoalHoursChanged:
		d.update(func(s SubjectState) SubjectState { s.GoalHours = in.Text; return s })
	case SubjectColorsChanged:
		d.update(func(s SubjectState) SubjectState { s.SubjectColors = in.Colors; return s })
	case DialogToggled:
		d.update(func(s SubjectState) SubjectState {
			switch in.Dialog {
			case EditSubjectDialog:
				s.EditSubjectDialogOpen = in.Open
			case DeleteSubjectDialog:
				s.DeleteSubjectDialogOpen = in.Open
			case DeleteSessionDialog:
				s.DeleteSessionDialogOpen = in.Open
			}
			return s
		})
	case UpdateSubject:
		return d.updateSubject(ctx)
	case DeleteSubject:
		if err := d.store.DeleteSubject(ctx, d.id); err != nil {
			return d.fail(ctx, err)
		}
		d.update(func(s SubjectState) SubjectState {
			s.Deleted = true
			s.DeleteSubjectDialogOpen = false
			return s
		})
		d.message(MsgSubjectDeleted)
		d.emit(NavigateUp{})
	case DeleteSessionRequested:
		d.update(func(s SubjectState) SubjectState {
			session := in.Session
			s.SessionToDelete = &session
			s.DeleteSessionDialogOpen = true
			return s
		})
	case DeleteSession:
		if err := deleteSession(ctx, d.store, d.State().SessionToDelete); err != nil {
			return d.fail(ctx, err)
		}
		d.update(func(s SubjectState) SubjectState {
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
		return fmt.Errorf("subject: unsupported intent %T", intent)
	}
	return nil
}

func (d *SubjectDetail) updateSubject(ctx context.Context) error {
	cur := d.State()
	subject, err := subjectDraft(cur.SubjectName, cur.GoalHours, cur.SubjectColors)
	if err != nil {
		return d.fail(ctx, err)
	}
	subject.ID = d.id
	if err := d.store.UpdateSubject(ctx, subject); err != nil {
		return d.fail(ctx, err)
	}
	d.update(func(s SubjectState) SubjectState { s.EditSubjectDialogOpen = false; return s })
	return d.succeed(ctx, MsgSubjectUpdated)
}
