package interview

import (
	"sort"
	"time"
)

const (
	CalendarViewWeek  = "week"
	CalendarViewMonth = "month"
)

const (
	weekGridDays  = 7
	monthGridDays = 42
)

// DateKeyLayout formats a DateKey.
const DateKeyLayout = "2006-01-02"

// DateKey identifies a calendar day in the configured location, e.g. "2024-03-05".
type DateKey string

func NewDateKey(t time.Time, loc *time.Location) DateKey {
	if loc == nil {
		loc = time.UTC
	}
	return DateKey(t.In(loc).Format(DateKeyLayout))
}

// GroupByDay buckets interviews by the local day of scheduled_at. Unscheduled
// interviews are left out and each bucket is ordered by time, ties keeping
// input order. The input slice is not modified.
func GroupByDay(interviews []Interview, loc *time.Location) map[DateKey][]Interview {
	days := make(map[DateKey][]Interview)
	for _, iv := range interviews {
		if iv.ScheduledAt == nil {
			continue
		}
		key := NewDateKey(*iv.ScheduledAt, loc)
		days[key] = append(days[key], iv)
	}
	for _, bucket := range days {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].ScheduledAt.Before(*bucket[j].ScheduledAt)
		})
	}
	return days
}

// WeekDays returns the 7 days starting on the Monday on or before anchor.
func WeekDays(anchor time.Time) []time.Time {
	return gridDays(mondayOnOrBefore(anchor), weekGridDays)
}

// MonthDays returns 6 full weeks starting on the Monday on or before the first
// day of anchor's month.
func MonthDays(anchor time.Time) []time.Time {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	return gridDays(mondayOnOrBefore(first), monthGridDays)
}

// GridDays dispatches on the calendar view; ok is false for an unknown view.
func GridDays(view string, anchor time.Time) (days []time.Time, ok bool) {
	switch view {
	case CalendarViewWeek:
		return WeekDays(anchor), true
	case CalendarViewMonth:
		return MonthDays(anchor), true
	}
	return nil, false
}

func mondayOnOrBefore(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// Sunday is 0
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}

func gridDays(start time.Time, n int) []time.Time {
	days := make([]time.Time, n)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// CalendarDay is one cell of the grid.
type CalendarDay struct {
	Date       DateKey     `json:"date"`
	InMonth    bool        `json:"in_month"`
	Interviews []Interview `json:"interviews"`
}

// Calendar is the rendered week or month grid.
type Calendar struct {
	View    string        `json:"view"`
	Anchor  DateKey       `json:"anchor"`
	From    DateKey       `json:"from"`
	To      DateKey       `json:"to"`
	Days    []CalendarDay `json:"days"`
	Partial bool          `json:"partial"`
}

// BuildCalendar lays the grouped interviews over the grid days.
func BuildCalendar(view string, anchor time.Time, days []time.Time, interviews []Interview, loc *time.Location) Calendar {
	grouped := GroupByDay(interviews, loc)
	cal := Calendar{
		View:   view,
		Anchor: DateKey(anchor.Format(DateKeyLayout)),
		Days:   make([]CalendarDay, len(days)),
	}
	for i, d := range days {
		key := DateKey(d.Format(DateKeyLayout))
		bucket := grouped[key]
		if bucket == nil {
			bucket = []Interview{}
		}
		cal.Days[i] = CalendarDay{
			Date:       key,
			InMonth:    view != CalendarViewMonth || d.Month() == anchor.Month(),
			Interviews: bucket,
		}
	}
	if len(days) > 0 {
		cal.From = cal.Days[0].Date
		cal.To = cal.Days[len(days)-1].Date
	}
	return cal
}
