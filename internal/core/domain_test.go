package core

import (
	"errors"
	"testing"
)

func TestSubjectValidate(t *testing.T) {
	good := Subject{Name: "Math", GoalHours: 10}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Subject{
		{Name: "", GoalHours: 1},
		{Name: "   ", GoalHours: 1},
		{Name: "Math", GoalHours: -1},
	}
	for i, s := range bads {
		err := s.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestSubjectValidate_FieldName(t *testing.T) {
	err := Subject{Name: "Math", GoalHours: -2}.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Field != "goal_hours" {
		t.Fatalf("expected field goal_hours, got %q", ve.Field)
	}
}

func TestTaskValidate(t *testing.T) {
	good := Task{SubjectID: 1, Title: "Read chapter 3", Priority: PriorityHigh}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Task{
		{SubjectID: 0, Title: "ok"},
		{SubjectID: 1, Title: ""},
		{SubjectID: 1, Title: "ok", Priority: Priority(7)},
		{SubjectID: 1, Title: "ok", DueDateMillis: -1},
	}
	for i, tk := range bads {
		if err := tk.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestSessionValidate(t *testing.T) {
	if err := (Session{SubjectID: 1, DurationSeconds: 60}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Session{SubjectID: 1, DurationSeconds: -5}).Validate(); err == nil {
		t.Fatalf("expected error for negative duration")
	}
	if err := (Session{DurationSeconds: 5}).Validate(); err == nil {
		t.Fatalf("expected error for missing subject")
	}
}

func TestToggleCompleteTwice(t *testing.T) {
	for _, start := range []bool{true, false} {
		tk := Task{ID: 1, SubjectID: 1, Title: "x", IsComplete: start}
		if got := tk.ToggleComplete().ToggleComplete(); got.IsComplete != start {
			t.Fatalf("toggle twice from %v gave %v", start, got.IsComplete)
		}
	}
}

func TestPriorityFromInt(t *testing.T) {
	cases := map[int]Priority{
		0:  PriorityLow,
		1:  PriorityMedium,
		2:  PriorityHigh,
		9:  PriorityMedium,
		-1: PriorityMedium,
	}
	for in, want := range cases {
		if got := PriorityFromInt(in); got != want {
			t.Fatalf("PriorityFromInt(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	if p, err := ParsePriority("HIGH"); err != nil || p != PriorityHigh {
		t.Fatalf("expected high, got %v (err=%v)", p, err)
	}
	if _, err := ParsePriority("urgent"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewStorageError_KeepsKinds(t *testing.T) {
	nf := &NotFoundError{Entity: "task", ID: 3}
	if got := NewStorageError("get task", nf); got != error(nf) {
		t.Fatalf("expected not found error to pass through, got %v", got)
	}
	wrapped := NewStorageError("insert", errors.New("disk I/O error"))
	if !errors.Is(wrapped, ErrStorage) {
		t.Fatalf("expected storage error, got %v", wrapped)
	}
	if NewStorageError("noop", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
