package domain

import (
	"sort"
	"time"
)

// DateLayout is the layout used for due dates on the command line.
const DateLayout = "2006-01-02"

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Dashboard groups open tasks by what needs attention now.
type Dashboard struct {
	Overdue  []*Task
	DueToday []*Task
	DoNow    []*Task
}

// BuildDashboard selects open (not completed or cancelled) tasks that are overdue,
// due today, or in the DO_NOW quadrant. A task can appear in more than one group.
func BuildDashboard(tasks []*Task, now time.Time) Dashboard {
	today := StartOfDay(now, now.Location())
	d := Dashboard{
		Overdue:  []*Task{},
		DueToday: []*Task{},
		DoNow:    []*Task{},
	}
	for _, t := range tasks {
		if t == nil || t.IsDone() {
			continue
		}
		if t.DueDate != nil {
			due := StartOfDay(*t.DueDate, now.Location())
			switch {
			case due.Before(today):
				d.Overdue = append(d.Overdue, t)
			case due.Equal(today):
				d.DueToday = append(d.DueToday, t)
			}
		}
		if t.Quadrant() == QuadrantDoNow {
			d.DoNow = append(d.DoNow, t)
		}
	}
	sortByDue(d.Overdue)
	return d
}

// WeekDay is one day of a weekly view.
type WeekDay struct {
	Date  time.Time
	Tasks []*Task
}

// BuildWeek returns seven consecutive days starting at weekStart, each holding the
// tasks due that day. Tasks without a due date or outside the week are skipped.
func BuildWeek(tasks []*Task, weekStart time.Time) []WeekDay {
	loc := weekStart.Location()
	start := StartOfDay(weekStart, loc)
	days := make([]WeekDay, 7)
	for i := range days {
		days[i] = WeekDay{Date: start.AddDate(0, 0, i), Tasks: []*Task{}}
	}
	for _, t := range tasks {
		if t == nil || t.DueDate == nil {
			continue
		}
		due := StartOfDay(*t.DueDate, loc)
		for i := range days {
			if due.Equal(days[i].Date) {
				days[i].Tasks = append(days[i].Tasks, t)
				break
			}
		}
	}
	return days
}

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func sortByDue(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(*tasks[j].DueDate)
	})
}
