package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

type (
	// Priority is the urgency tag of a task. Display attributes live
	// outside core.
	Priority int

	// ColorPair holds the two ARGB colours of a subject card gradient.
	ColorPair struct {
		Start uint32
		End   uint32
	}

	Subject struct {
		ID        int64
		Name      string  `validate:"required,max=100"`
		GoalHours float64 `validate:"gte=0"`
		Colors    ColorPair
	}

	Task struct {
		ID               int64
		SubjectID        int64    `validate:"gt=0"`
		Title            string   `validate:"required,max=200"`
		Description      string   `validate:"max=2000"`
		DueDateMillis    int64    `validate:"gte=0"`
		Priority         Priority `validate:"gte=0,lte=2"`
		RelatedToSubject string
		IsComplete       bool
	}

	Session struct {
		ID               int64
		SubjectID        int64 `validate:"gt=0"`
		RelatedToSubject string
		DurationSeconds  int64 `validate:"gte=0"`
		StartTimeMillis  int64 `validate:"gte=0"`
	}
)

// DefaultSubjectColors is the palette offered when creating a subject.
var DefaultSubjectColors = []ColorPair{
	{Start: 0xFF2BC0E4, End: 0xFFEAECC6},
	{Start: 0xFFFF9A9E, End: 0xFFFAD0C4},
	{Start: 0xFFA18CD1, End: 0xFFFBC2EB},
	{Start: 0xFFFAD961, End: 0xFFF76B1C},
	{Start: 0xFF84FAB0, End: 0xFF8FD3F4},
}

var ErrEmptyName = errors.New("name cannot be blank")

var validate = validator.New()

// PriorityFromInt maps a stored value to a Priority. Unknown values fall
// back to medium.
func PriorityFromInt(v int) Priority {
	switch p := Priority(v); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	default:
		return PriorityMedium
	}
}

// ParsePriority accepts low, medium or high in any case.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium", "":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return PriorityMedium, NewValidationError("priority", fmt.Sprintf("unknown priority %q", s))
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	default:
		return "medium"
	}
}

func (s Subject) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "subject name cannot be empty", Err: ErrEmptyName}
	}
	return structError(validate.Struct(s))
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Message: "task title cannot be empty", Err: ErrEmptyName}
	}
	return structError(validate.Struct(t))
}

func (s Session) Validate() error {
	return structError(validate.Struct(s))
}

// ToggleComplete returns a copy of t with the completion flag flipped.
func (t Task) ToggleComplete() Task {
	t.IsComplete = !t.IsComplete
	return t
}

// structError turns the first validator failure into a ValidationError.
func structError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error(), Err: err}
	}
	fe := fieldErrs[0]
	return &ValidationError{
		Field:   snakeCase(fe.Field()),
		Message: fieldMessage(fe),
		Err:     err,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z' {
			b.WriteByte('_')
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
