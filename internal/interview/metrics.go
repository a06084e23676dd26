package interview

import "time"

const (
	MetricPendingToPlan    = "pending_to_plan"
	MetricPlanned          = "planned"
	MetricInProgress       = "in_progress"
	MetricRecentlyFinished = "recently_finished"
	MetricOverdue          = "overdue"
	MetricPendingFeedback  = "pending_feedback"
)

// RecentlyFinishedDays is how far back "recently finished" looks. It is a
// UI choice, not a backend policy.
const RecentlyFinishedDays = 30

// Metrics lists the summary tiles in display order.
var Metrics = []string{
	MetricPendingToPlan,
	MetricPlanned,
	MetricInProgress,
	MetricRecentlyFinished,
	MetricOverdue,
	MetricPendingFeedback,
}

func IsMetric(name string) bool {
	for _, m := range Metrics {
		if m == name {
			return true
		}
	}
	return false
}

// MetricToOverride maps a summary tile to its filter override. Unknown names
// give an empty override.
func MetricToOverride(metric string, now time.Time, loc *time.Location) Override {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch metric {
	case MetricPendingToPlan:
		return Override{Status: ptr(StatusEnabled), FilterBy: ptr(FilterByUnscheduled)}
	case MetricPlanned:
		return Override{Status: ptr(StatusScheduled)}
	case MetricInProgress:
		endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Second)
		return Override{
			FilterBy: ptr(FilterByScheduled),
			FromDate: ptr(formatBound(startOfDay)),
			ToDate:   ptr(formatBound(endOfDay)),
		}
	case MetricRecentlyFinished:
		from := startOfDay.AddDate(0, 0, -RecentlyFinishedDays)
		return Override{
			FilterBy: ptr(FilterByScheduled),
			FromDate: ptr(formatBound(from)),
		}
	case MetricOverdue:
		return Override{
			Status:   ptr(StatusEnabled),
			FilterBy: ptr(FilterByDeadline),
			ToDate:   ptr(formatBound(now)),
		}
	case MetricPendingFeedback:
		return Override{Status: ptr(StatusCompleted)}
	}
	return Override{}
}

func formatBound(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func ptr(s string) *string {
	return &s
}
