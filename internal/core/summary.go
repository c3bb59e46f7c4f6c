package core

import "sort"

const (
	// DashboardRecentSessions is how many sessions the dashboard lists.
	DashboardRecentSessions = 5
	// SubjectRecentSessions is how many sessions a subject view lists.
	SubjectRecentSessions = 10
)

// DashboardSummary is the aggregated state of the whole store.
type DashboardSummary struct {
	SubjectCount      int
	TotalGoalHours    float64
	TotalStudiedHours float64
	Subjects          []Subject
	UpcomingTasks     []Task
	RecentSessions    []Session
}

// SubjectSummary is the aggregated state of a single subject.
type SubjectSummary struct {
	Subject        Subject
	GoalHours      float64
	StudiedHours   float64
	Progress       float64 // studied/goal clamped to [0, 1]
	TaskCount      int
	SessionCount   int
	UpcomingTasks  []Task
	CompletedTasks []Task
	RecentSessions []Session
}

// TotalGoalHours sums the goal of every subject.
func TotalGoalHours(subjects []Subject) float64 {
	var total float64
	for _, s := range subjects {
		total += s.GoalHours
	}
	return total
}

// TotalStudiedSeconds sums the duration of every session.
func TotalStudiedSeconds(sessions []Session) int64 {
	var total int64
	for _, s := range sessions {
		total += s.DurationSeconds
	}
	return total
}

// TotalStudiedHours sums the sessions first and rounds once.
func TotalStudiedHours(sessions []Session) float64 {
	return SecondsToHours(TotalStudiedSeconds(sessions))
}

// SubjectStudiedHours sums only the sessions of subjectID.
func SubjectStudiedHours(sessions []Session, subjectID int64) float64 {
	var total int64
	for _, s := range sessions {
		if s.SubjectID == subjectID {
			total += s.DurationSeconds
		}
	}
	return SecondsToHours(total)
}

// UpcomingTasks returns the incomplete tasks ordered by due date.
func UpcomingTasks(tasks []Task) []Task {
	return filterTasks(tasks, false)
}

// CompletedTasks returns the completed tasks ordered by due date.
func CompletedTasks(tasks []Task) []Task {
	return filterTasks(tasks, true)
}

func filterTasks(tasks []Task, complete bool) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsComplete == complete {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DueDateMillis != out[j].DueDateMillis {
			return out[i].DueDateMillis < out[j].DueDateMillis
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// RecentSessions returns at most limit sessions, newest first.
func RecentSessions(sessions []Session, limit int) []Session {
	out := append([]Session(nil), sessions...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTimeMillis != out[j].StartTimeMillis {
			return out[i].StartTimeMillis > out[j].StartTimeMillis
		}
		return out[i].ID > out[j].ID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SummarizeDashboard folds the full store contents into dashboard totals.
func SummarizeDashboard(subjects []Subject, tasks []Task, sessions []Session) DashboardSummary {
	return DashboardSummary{
		SubjectCount:      len(subjects),
		TotalGoalHours:    TotalGoalHours(subjects),
		TotalStudiedHours: TotalStudiedHours(sessions),
		Subjects:          append([]Subject(nil), subjects...),
		UpcomingTasks:     UpcomingTasks(tasks),
		RecentSessions:    RecentSessions(sessions, DashboardRecentSessions),
	}
}

// SummarizeSubject folds the tasks and sessions of subject. Records that
// belong to other subjects are ignored.
func SummarizeSubject(subject Subject, tasks []Task, sessions []Session) SubjectSummary {
	var own []Task
	for _, t := range tasks {
		if t.SubjectID == subject.ID {
			own = append(own, t)
		}
	}
	var ownSessions []Session
	for _, s := range sessions {
		if s.SubjectID == subject.ID {
			ownSessions = append(ownSessions, s)
		}
	}

	studied := TotalStudiedHours(ownSessions)
	return SubjectSummary{
		Subject:        subject,
		GoalHours:      subject.GoalHours,
		StudiedHours:   studied,
		Progress:       Progress(studied, subject.GoalHours),
		TaskCount:      len(own),
		SessionCount:   len(ownSessions),
		UpcomingTasks:  UpcomingTasks(own),
		CompletedTasks: CompletedTasks(own),
		RecentSessions: RecentSessions(ownSessions, SubjectRecentSessions),
	}
}

// Progress is studied/goal clamped to [0, 1]; zero when there is no goal.
func Progress(studied, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	p := studied / goal
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
