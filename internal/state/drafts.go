package state

import (
	"context"
	"fmt"
	"unicode/utf8"

	"studysmart/internal/core"
	"studysmart/internal/store"
)

const (
	minSubjectName = 2
	maxSubjectName = 20
	minGoalHours   = 1
	maxGoalHours   = 1000
	minTaskTitle   = 4
	maxTaskTitle   = 30

	// MinSessionSeconds is one hundredth of an hour, the smallest
	// duration that shows up in the totals.
	MinSessionSeconds = 36
)

// Messages shown after successful intents.
const (
	MsgSubjectSaved    = "Subject saved successfully."
	MsgSubjectUpdated  = "Subject updated successfully."
	MsgSubjectDeleted  = "Subject deleted successfully."
	MsgTaskSaved       = "Task saved successfully."
	MsgTaskDeleted     = "Task deleted successfully."
	MsgTaskGone        = "Task already deleted."
	MsgSessionSaved    = "Session saved successfully."
	MsgSessionDeleted  = "Session deleted successfully."
	MsgSessionTooShort = "Single session can not be less than 36 seconds"
	MsgTaskCompleted   = "Saved in completed tasks."
	MsgTaskUpcoming    = "Saved in upcoming tasks."
)

// subjectDraft validates the text fields of the add/edit subject dialog.
func subjectDraft(name, goalText string, colors core.ColorPair) (core.Subject, error) {
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		return core.Subject{}, core.NewValidationError("name", "Please enter subject name.")
	case n < minSubjectName:
		return core.Subject{}, core.NewValidationError("name", "Subject name is too short.")
	case n > maxSubjectName:
		return core.Subject{}, core.NewValidationError("name", "Subject name is too long.")
	}

	goal, err := core.ParseGoalHours(goalText)
	if err != nil {
		return core.Subject{}, err
	}
	if goal < minGoalHours || goal > maxGoalHours {
		return core.Subject{}, core.NewValidationError("goal_hours",
			fmt.Sprintf("Please set between %d and %d hours.", minGoalHours, maxGoalHours))
	}
	if colors == (core.ColorPair{}) {
		colors = core.DefaultSubjectColors[0]
	}
	return core.Subject{Name: name, GoalHours: goal, Colors: colors}, nil
}

func taskTitleError(title string) error {
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		return core.NewValidationError("title", "Please enter task title.")
	case n < minTaskTitle:
		return core.NewValidationError("title", "Title too short.")
	case n > maxTaskTitle:
		return core.NewValidationError("title", "Title too long.")
	}
	return nil
}

func deleteSession(ctx context.Context, st store.SessionStore, session *core.Session) error {
	if session == nil {
		return core.NewValidationError("session", "No session selected.")
	}
	return st.DeleteSession(ctx, session.ID)
}

// toggleTask flips completion and returns the message for the new state.
func toggleTask(ctx context.Context, st store.TaskStore, t core.Task) (string, error) {
	next := t.ToggleComplete()
	if err := st.UpdateTask(ctx, next); err != nil {
		return "", err
	}
	if next.IsComplete {
		return MsgTaskCompleted, nil
	}
	return MsgTaskUpcoming, nil
}
