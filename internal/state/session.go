package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"studysmart/internal/core"
	"studysmart/internal/events"
	"studysmart/internal/store"
	"studysmart/internal/timer"
)

type SessionState struct {
	Subjects []core.Subject
	Sessions []core.Session

	SubjectID        int64
	RelatedToSubject string

	DeleteSessionDialogOpen bool
	SessionToDelete         *core.Session

	Timer timer.Snapshot
}

// SessionRecorder records study sessions, either with an explicit
// duration or from its stopwatch.
type SessionRecorder struct {
	*container[SessionState]
	store     store.Store
	stopwatch *timer.Stopwatch
	now       func() time.Time
}

func NewSessionRecorder(st store.Store, broker *events.Broker, stopwatch *timer.Stopwatch, now func() time.Time, logger *slog.Logger) *SessionRecorder {
	if now == nil {
		now = time.Now
	}
	if stopwatch == nil {
		stopwatch = timer.New(now)
	}
	r := &SessionRecorder{store: st, stopwatch: stopwatch, now: now}
	r.container = newContainer("session", SessionState{}, broker,
		[]store.Table{store.TableSubjects, store.TableSessions}, r.refresh, logger)
	return r
}

// Stopwatch exposes the timer so callers can render ticks.
func (r *SessionRecorder) Stopwatch() *timer.Stopwatch { return r.stopwatch }

func (r *SessionRecorder) refresh(ctx context.Context, prev SessionState) (SessionState, error) {
	subjects, err := r.store.ListSubjects(ctx)
	if err != nil {
		return prev, err
	}
	sessions, err := r.store.ListSessions(ctx)
	if err != nil {
		return prev, err
	}
	prev.Subjects = subjects
	prev.Sessions = sessions
	prev.Timer = r.stopwatch.Snapshot()

	// drop a selection whose subject was deleted
	if prev.SubjectID != 0 {
		found := false
		for _, s := range subjects {
			if s.ID == prev.SubjectID {
				prev.RelatedToSubject = s.Name
				found = true
				break
			}
		}
		if !found {
			prev.SubjectID = 0
			prev.RelatedToSubject = ""
		}
	}
	return prev, nil
}

func (r *SessionRecorder) Dispatch(ctx context.Context, intent Intent) error {
	r.intentMu.Lock()
	defer r.intentMu.Unlock()

	switch in := intent.(type) {
	case RelatedSubjectChanged:
		r.update(func(s SessionState) SessionState {
			s.SubjectID = in.Subject.ID
			s.RelatedToSubject = in.Subject.Name
			return s
		})
	case SaveSession:
		return r.save(ctx, in.DurationSeconds)
	case DeleteSessionRequested:
		r.update(func(s SessionState) SessionState {
			session := in.Session
			s.SessionToDelete = &session
			s.DeleteSessionDialogOpen = true
			return s
		})
	case DialogToggled:
		if in.Dialog == DeleteSessionDialog {
			r.update(func(s SessionState) SessionState { s.DeleteSessionDialogOpen = in.Open; return s })
		}
	case DeleteSession:
		if err := deleteSession(ctx, r.store, r.State().SessionToDelete); err != nil {
			return r.fail(ctx, err)
		}
		r.update(func(s SessionState) SessionState {
			s.SessionToDelete = nil
			s.DeleteSessionDialogOpen = false
			return s
		})
		return r.succeed(ctx, MsgSessionDeleted)
	case StartTimer:
		r.stopwatch.Start()
		r.syncTimer()
	case StopTimer:
		r.stopwatch.Stop()
		r.syncTimer()
	case CancelTimer:
		r.stopwatch.Cancel()
		r.syncTimer()
	case FinishTimer:
		if err := r.save(ctx, r.stopwatch.Snapshot().Seconds()); err != nil {
			return err
		}
		r.stopwatch.Cancel()
		r.syncTimer()
	default:
		return fmt.Errorf("session: unsupported intent %T", intent)
	}
	return nil
}

func (r *SessionRecorder) syncTimer() {
	snap := r.stopwatch.Snapshot()
	r.update(func(s SessionState) SessionState { s.Timer = snap; return s })
}

func (r *SessionRecorder) save(ctx context.Context, seconds int64) error {
	cur := r.State()
	if cur.SubjectID == 0 {
		return r.fail(ctx, core.NewValidationError("subject", "Please select a subject related to the session."))
	}
	if seconds < MinSessionSeconds {
		return r.fail(ctx, core.NewValidationError("duration", MsgSessionTooShort))
	}
	_, err := r.store.CreateSession(ctx, core.Session{
		SubjectID:       cur.SubjectID,
		DurationSeconds: seconds,
		StartTimeMillis: r.now().UnixMilli(),
	})
	if err != nil {
		return r.fail(ctx, err)
	}
	return r.succeed(ctx, MsgSessionSaved)
}
