package ui

import (
	"fmt"
	"strings"
	"time"

	"studysmart/internal/core"
)

const progressWidth = 20

// ProgressBar renders p in [0, 1] as a fixed width bar with a percentage.
func ProgressBar(p float64) string {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(p*progressWidth + 0.5)
	bar := Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", progressWidth-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, p*100)
}

// Subjects renders one line per subject.
func Subjects(subjects []core.Subject) string {
	if len(subjects) == 0 {
		return Muted.Render("You don't have any subjects. Add one with `studysmart subject add`.")
	}
	var b strings.Builder
	for _, s := range subjects {
		fmt.Fprintf(&b, "%s %s %s %s\n",
			Swatch(s.Colors),
			Key.Render(fmt.Sprintf("#%d", s.ID)),
			s.Name,
			Muted.Render("goal "+Hours(s.GoalHours)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Tasks renders one line per task.
func Tasks(tasks []core.Task, loc *time.Location) string {
	if len(tasks) == 0 {
		return Muted.Render("No tasks.")
	}
	var b strings.Builder
	for _, t := range tasks {
		check := "[ ]"
		if t.IsComplete {
			check = Good.Render("[x]")
		}
		fmt.Fprintf(&b, "%s %s %s %s %s %s\n",
			check,
			Key.Render(fmt.Sprintf("#%d", t.ID)),
			t.Title,
			PriorityBadge(t.Priority),
			Muted.Render(t.RelatedToSubject),
			Muted.Render("due "+FormatDate(t.DueDateMillis, loc)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Sessions renders one line per session.
func Sessions(sessions []core.Session, loc *time.Location) string {
	if len(sessions) == 0 {
		return Muted.Render("No study sessions recorded.")
	}
	var b strings.Builder
	for _, s := range sessions {
		fmt.Fprintf(&b, "%s %s %s %s\n",
			Key.Render(fmt.Sprintf("#%d", s.ID)),
			s.RelatedToSubject,
			Muted.Render(FormatDate(s.StartTimeMillis, loc)),
			Hours(core.SecondsToHours(s.DurationSeconds)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Dashboard renders the home screen.
func Dashboard(d core.DashboardSummary, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(Heading(IconBook, "StudySmart") + "\n")
	stats := strings.Join([]string{
		LabelValue("Subjects", d.SubjectCount),
		LabelValue("Studied", Hours(d.TotalStudiedHours)),
		LabelValue("Goal", Hours(d.TotalGoalHours)),
	}, "   ")
	b.WriteString(Panel.Render(stats) + "\n\n")

	b.WriteString(H2.Render("Subjects") + "\n" + Subjects(d.Subjects) + "\n\n")
	b.WriteString(H2.Render(IconTask+" Upcoming tasks") + "\n" + Tasks(d.UpcomingTasks, loc) + "\n\n")
	b.WriteString(H2.Render(IconSession+" Recent study sessions") + "\n" + Sessions(d.RecentSessions, loc))
	return b.String()
}

// Subject renders the subject detail screen.
func Subject(s core.SubjectSummary, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(Heading(IconBook, s.Subject.Name) + " " + Swatch(s.Subject.Colors) + "\n")
	stats := strings.Join([]string{
		LabelValue("Goal", Hours(s.GoalHours)),
		LabelValue("Studied", Hours(s.StudiedHours)),
	}, "   ")
	b.WriteString(Panel.Render(stats+"\n"+ProgressBar(s.Progress)) + "\n\n")

	b.WriteString(H2.Render(IconTask+" Upcoming tasks") + "\n" + Tasks(s.UpcomingTasks, loc) + "\n\n")
	b.WriteString(H2.Render(IconDone+" Completed tasks") + "\n" + Tasks(s.CompletedTasks, loc) + "\n\n")
	b.WriteString(H2.Render(IconSession+" Recent study sessions") + "\n" + Sessions(s.RecentSessions, loc))
	return b.String()
}
