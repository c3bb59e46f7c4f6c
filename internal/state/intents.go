package state

import "studysmart/internal/core"

// Intent is a user action dispatched to a container. Containers reject
// intents they do not handle.
type Intent interface{ isIntent() }

// Subject drafts.
type (
	SubjectNameChanged   struct{ Name string }
	GoalHoursChanged     struct{ Text string }
	SubjectColorsChanged struct{ Colors core.ColorPair }
	SaveSubject          struct{}
	UpdateSubject        struct{}
	DeleteSubject        struct{}
)

// Sessions and tasks shown in lists.
type (
	DeleteSessionRequested struct{ Session core.Session }
	DeleteSession          struct{}
	TaskCompletionToggled  struct{ Task core.Task }
)

// Dialog names a confirmation or input dialog.
type Dialog int

const (
	AddSubjectDialog Dialog = iota
	EditSubjectDialog
	DeleteSubjectDialog
	DeleteSessionDialog
)

type DialogToggled struct {
	Dialog Dialog
	Open   bool
}

// Task editor.
type (
	TitleChanged           struct{ Title string }
	DescriptionChanged     struct{ Description string }
	DueDateChanged         struct{ Millis int64 }
	PriorityChanged        struct{ Priority core.Priority }
	CompletionToggled      struct{}
	RelatedSubjectSelected struct{ Subject core.Subject }
	SaveTask               struct{}
	DeleteTask             struct{}
)

// Session recorder.
type (
	RelatedSubjectChanged struct{ Subject core.Subject }
	SaveSession           struct{ DurationSeconds int64 }
	StartTimer            struct{}
	StopTimer             struct{}
	CancelTimer           struct{}
	FinishTimer           struct{}
)

func (SubjectNameChanged) isIntent()     {}
func (GoalHoursChanged) isIntent()       {}
func (SubjectColorsChanged) isIntent()   {}
func (SaveSubject) isIntent()            {}
func (UpdateSubject) isIntent()          {}
func (DeleteSubject) isIntent()          {}
func (DeleteSessionRequested) isIntent() {}
func (DeleteSession) isIntent()          {}
func (TaskCompletionToggled) isIntent()  {}
func (DialogToggled) isIntent()          {}
func (TitleChanged) isIntent()           {}
func (DescriptionChanged) isIntent()     {}
func (DueDateChanged) isIntent()         {}
func (PriorityChanged) isIntent()        {}
func (CompletionToggled) isIntent()      {}
func (RelatedSubjectSelected) isIntent() {}
func (SaveTask) isIntent()               {}
func (DeleteTask) isIntent()             {}
func (RelatedSubjectChanged) isIntent()  {}
func (SaveSession) isIntent()            {}
func (StartTimer) isIntent()             {}
func (StopTimer) isIntent()              {}
func (CancelTimer) isIntent()            {}
func (FinishTimer) isIntent()            {}
