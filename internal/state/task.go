package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"studysmart/internal/core"
	"studysmart/internal/events"
	"studysmart/internal/store"
)

type TaskState struct {
	TaskID        int64
	Title         string
	Description   string
	DueDateMillis int64
	Priority      core.Priority
	IsComplete    bool

	SubjectID        int64
	RelatedToSubject string
	Subjects         []core.Subject

	Loaded bool
}

// TaskEditor edits a new or existing task. taskID zero means a new task;
// presetSubjectID, when set, preselects the subject of a new task.
type TaskEditor struct {
	*container[TaskState]
	store           store.Store
	taskID          int64
	presetSubjectID int64
	now             func() time.Time

	// dueEdited is set once the due date is picked in this editor. A
	// stored task keeps its date unchecked until then.
	dueEdited bool
}

func NewTaskEditor(taskID, presetSubjectID int64, st store.Store, broker *events.Broker, now func() time.Time, logger *slog.Logger) *TaskEditor {
	if now == nil {
		now = time.Now
	}
	e := &TaskEditor{store: st, taskID: taskID, presetSubjectID: presetSubjectID, now: now}
	initial := TaskState{Priority: core.PriorityMedium}
	e.container = newContainer("task", initial, broker,
		[]store.Table{store.TableSubjects, store.TableTasks}, e.refresh, logger)
	return e
}

func (e *TaskEditor) refresh(ctx context.Context, prev TaskState) (TaskState, error) {
	subjects, err := e.store.ListSubjects(ctx)
	if err != nil {
		return prev, err
	}
	if !prev.Loaded {
		switch {
		case e.taskID != 0:
			t, err := e.store.GetTask(ctx, e.taskID)
			if err != nil {
				return prev, err
			}
			prev.TaskID = t.ID
			prev.Title = t.Title
			prev.Description = t.Description
			prev.DueDateMillis = t.DueDateMillis
			prev.Priority = t.Priority
			prev.IsComplete = t.IsComplete
			prev.SubjectID = t.SubjectID
			prev.RelatedToSubject = t.RelatedToSubject
		case e.presetSubjectID != 0:
			sub, err := e.store.GetSubject(ctx, e.presetSubjectID)
			if err != nil {
				return prev, err
			}
			prev.SubjectID = sub.ID
			prev.RelatedToSubject = sub.Name
		}
		prev.Loaded = true
	}
	prev.Subjects = subjects
	return prev, nil
}

func (e *TaskEditor) Dispatch(ctx context.Context, intent Intent) error {
	e.intentMu.Lock()
	defer e.intentMu.Unlock()

	switch in := intent.(type) {
	case TitleChanged:
		e.update(func(s TaskState) TaskState { s.Title = in.Title; return s })
	case DescriptionChanged:
		e.update(func(s TaskState) TaskState { s.Description = in.Description; return s })
	case DueDateChanged:
		e.dueEdited = true
		e.update(func(s TaskState) TaskState { s.DueDateMillis = in.Millis; return s })
	case PriorityChanged:
		e.update(func(s TaskState) TaskState { s.Priority = core.PriorityFromInt(int(in.Priority)); return s })
	case CompletionToggled:
		e.update(func(s TaskState) TaskState { s.IsComplete = !s.IsComplete; return s })
	case RelatedSubjectSelected:
		e.update(func(s TaskState) TaskState {
			s.SubjectID = in.Subject.ID
			s.RelatedToSubject = in.Subject.Name
			return s
		})
	case SaveTask:
		return e.save(ctx)
	case DeleteTask:
		id := e.State().TaskID
		if id == 0 {
			e.message(MsgTaskGone)
			return nil
		}
		if err := e.store.DeleteTask(ctx, id); err != nil {
			return e.fail(ctx, err)
		}
		e.update(func(s TaskState) TaskState { s.TaskID = 0; return s })
		e.message(MsgTaskDeleted)
		e.emit(NavigateUp{})
	default:
		return fmt.Errorf("task: unsupported intent %T", intent)
	}
	return nil
}

func (e *TaskEditor) save(ctx context.Context) error {
	cur := e.State()
	if cur.SubjectID == 0 {
		return e.fail(ctx, core.NewValidationError("subject", "Please select a subject related to the task."))
	}
	if err := taskTitleError(cur.Title); err != nil {
		return e.fail(ctx, err)
	}
	due := cur.DueDateMillis
	if due == 0 {
		due = e.now().UnixMilli()
	} else if (cur.TaskID == 0 || e.dueEdited) && !core.IsCurrentOrFutureDate(due, e.now()) {
		return e.fail(ctx, core.NewValidationError("due_date", "Please select a date from today onwards."))
	}

	t := core.Task{
		ID:            cur.TaskID,
		SubjectID:     cur.SubjectID,
		Title:         cur.Title,
		Description:   cur.Description,
		DueDateMillis: due,
		Priority:      cur.Priority,
		IsComplete:    cur.IsComplete,
	}
	if t.ID == 0 {
		created, err := e.store.CreateTask(ctx, t)
		if err != nil {
			return e.fail(ctx, err)
		}
		t = created
	} else if err := e.store.UpdateTask(ctx, t); err != nil {
		return e.fail(ctx, err)
	}

	e.update(func(s TaskState) TaskState {
		s.TaskID = t.ID
		s.DueDateMillis = t.DueDateMillis
		if t.RelatedToSubject != "" {
			s.RelatedToSubject = t.RelatedToSubject
		}
		return s
	})
	return e.succeed(ctx, MsgTaskSaved, NavigateUp{})
}
