package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"studysmart/internal/core"
)

func TestPriority_Lookup(t *testing.T) {
	tests := []struct {
		in   core.Priority
		want string
	}{
		{core.PriorityLow, "Low"},
		{core.PriorityMedium, "Medium"},
		{core.PriorityHigh, "High"},
		{core.Priority(9), "Medium"},
	}
	for _, tt := range tests {
		if got := Priority(tt.in).Title; got != tt.want {
			t.Errorf("Priority(%d).Title = %q, want %q", tt.in, got, tt.want)
		}
		if !strings.Contains(PriorityBadge(tt.in), tt.want) {
			t.Errorf("PriorityBadge(%d) missing %q", tt.in, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	millis := time.Date(2024, 3, 7, 18, 30, 0, 0, time.UTC).UnixMilli()
	if got := FormatDate(millis, time.UTC); got != "07 Mar 2024" {
		t.Errorf("FormatDate = %q, want 07 Mar 2024", got)
	}
	if got := FormatDate(0, time.UTC); got != "-" {
		t.Errorf("FormatDate(0) = %q, want -", got)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC).UnixMilli()
	for _, in := range []string{"2024-03-07", "07 Mar 2024"} {
		got, err := ParseDate(in, time.UTC)
		if err != nil {
			t.Fatalf("ParseDate(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("ParseDate(%q) = %d, want %d", in, got, want)
		}
	}
	_, err := ParseDate("tomorrow", time.UTC)
	if !errors.Is(err, core.ErrValidation) {
		t.Errorf("ParseDate(tomorrow) error = %v, want validation error", err)
	}
}

func TestArgb(t *testing.T) {
	if got := argb(0xFF84FAB0); got != "#84FAB0" {
		t.Errorf("argb = %q, want #84FAB0", got)
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(0.5); !strings.Contains(got, " 50%") {
		t.Errorf("ProgressBar(0.5) = %q", got)
	}
	if got := ProgressBar(3); !strings.Contains(got, "100%") {
		t.Errorf("ProgressBar(3) should clamp, got %q", got)
	}
}

func TestDashboard_Render(t *testing.T) {
	d := core.DashboardSummary{
		SubjectCount:      1,
		TotalGoalHours:    10,
		TotalStudiedHours: 1.5,
		Subjects:          []core.Subject{{ID: 1, Name: "Math", GoalHours: 10}},
		UpcomingTasks:     []core.Task{{ID: 2, Title: "Homework", RelatedToSubject: "Math"}},
	}
	out := Dashboard(d, time.UTC)
	for _, want := range []string{"Math", "Homework", "1.50 hr", "10.00 hr", "No study sessions recorded."} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard output missing %q", want)
		}
	}
}
