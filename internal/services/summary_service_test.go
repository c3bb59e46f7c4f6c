package services

import (
	"context"
	"errors"
	"testing"

	"studysmart/internal/core"
	"studysmart/internal/store/memory"
)

func seed(t *testing.T) (*memory.Store, core.Subject, core.Subject) {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	math, err := st.CreateSubject(ctx, core.Subject{Name: "Math", GoalHours: 10})
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	art, err := st.CreateSubject(ctx, core.Subject{Name: "Art", GoalHours: 2.5})
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}

	for i, d := range []int64{3600, 1800, 900} {
		if _, err := st.CreateSession(ctx, core.Session{SubjectID: math.ID, DurationSeconds: d, StartTimeMillis: int64(i)}); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}
	if _, err := st.CreateSession(ctx, core.Session{SubjectID: art.ID, DurationSeconds: 7200, StartTimeMillis: 10}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := st.CreateTask(ctx, core.Task{SubjectID: math.ID, Title: "Homework", DueDateMillis: 5}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := st.CreateTask(ctx, core.Task{SubjectID: art.ID, Title: "Sketch", DueDateMillis: 1, IsComplete: true}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return st, math, art
}

func TestSummaryService_Dashboard(t *testing.T) {
	st, _, _ := seed(t)
	svc := NewSummaryService(st, 2, nil)

	got, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if got.SubjectCount != 2 {
		t.Errorf("SubjectCount = %d, want 2", got.SubjectCount)
	}
	if got.TotalGoalHours != 12.5 {
		t.Errorf("TotalGoalHours = %v, want 12.5", got.TotalGoalHours)
	}
	// 3600+1800+900+7200 seconds = 3.75h
	if got.TotalStudiedHours != 3.75 {
		t.Errorf("TotalStudiedHours = %v, want 3.75", got.TotalStudiedHours)
	}
	if len(got.UpcomingTasks) != 1 || got.UpcomingTasks[0].Title != "Homework" {
		t.Errorf("UpcomingTasks = %+v", got.UpcomingTasks)
	}
	if len(got.RecentSessions) != 2 {
		t.Fatalf("RecentSessions len = %d, want 2", len(got.RecentSessions))
	}
	if got.RecentSessions[0].StartTimeMillis != 10 {
		t.Errorf("newest session first, got %+v", got.RecentSessions[0])
	}
}

func TestSummaryService_DefaultRecentLimit(t *testing.T) {
	svc := NewSummaryService(memory.New(), 0, nil)
	if svc.recentLimit != core.DashboardRecentSessions {
		t.Errorf("recentLimit = %d, want %d", svc.recentLimit, core.DashboardRecentSessions)
	}
}

func TestSummaryService_Subject(t *testing.T) {
	st, math, _ := seed(t)
	svc := NewSummaryService(st, 0, nil)

	got, err := svc.Subject(context.Background(), math.ID)
	if err != nil {
		t.Fatalf("Subject: %v", err)
	}
	if got.StudiedHours != 1.75 {
		t.Errorf("StudiedHours = %v, want 1.75", got.StudiedHours)
	}
	if got.Progress != 0.175 {
		t.Errorf("Progress = %v, want 0.175", got.Progress)
	}
	if got.TaskCount != 1 || got.SessionCount != 3 {
		t.Errorf("counts = %d/%d, want 1/3", got.TaskCount, got.SessionCount)
	}
}

func TestSummaryService_SubjectNotFound(t *testing.T) {
	svc := NewSummaryService(memory.New(), 0, nil)
	_, err := svc.Subject(context.Background(), 99)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSummaryService_MathScenario(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewSummaryService(st, 0, nil)

	math, err := st.CreateSubject(ctx, core.Subject{Name: "Math", GoalHours: 10})
	if err != nil {
		t.Fatal(err)
	}
	sess, err := st.CreateSession(ctx, core.Session{SubjectID: math.ID, DurationSeconds: 3600})
	if err != nil {
		t.Fatal(err)
	}

	d, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.TotalStudiedHours != 1.0 {
		t.Fatalf("TotalStudiedHours = %v, want 1.00", d.TotalStudiedHours)
	}

	if err := st.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	d, err = svc.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.TotalStudiedHours != 0 {
		t.Fatalf("TotalStudiedHours = %v, want 0.00", d.TotalStudiedHours)
	}
}
