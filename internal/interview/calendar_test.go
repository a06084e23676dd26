package interview_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	interviewDatamodel "github.com/frahmantamala/interview-console/internal/core/datamodel/interview"
	"github.com/frahmantamala/interview-console/internal/interview"
)

func at(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	Expect(err).NotTo(HaveOccurred())
	return &t
}

func ids(interviews []interview.Interview) []string {
	out := make([]string, len(interviews))
	for i, iv := range interviews {
		out[i] = iv.ID
	}
	return out
}

var _ = Describe("Calendar aggregation", func() {
	Describe("GroupByDay", func() {
		It("orders each day by scheduled time", func() {
			list := []interview.Interview{
				{ID: "1", ScheduledAt: at("2024-03-05T10:00:00Z")},
				{ID: "2", ScheduledAt: at("2024-03-05T09:00:00Z")},
			}

			days := interview.GroupByDay(list, time.UTC)

			Expect(days).To(HaveLen(1))
			Expect(ids(days["2024-03-05"])).To(Equal([]string{"2", "1"}))
			Expect(ids(list)).To(Equal([]string{"1", "2"}))
		})

		It("skips unscheduled interviews and keys by the local day", func() {
			madrid, err := time.LoadLocation("Europe/Madrid")
			Expect(err).NotTo(HaveOccurred())
			list := []interview.Interview{
				{ID: "late", ScheduledAt: at("2024-03-05T23:30:00Z")},
				{ID: "none"},
			}

			days := interview.GroupByDay(list, madrid)

			Expect(days).To(HaveKey(interview.DateKey("2024-03-06")))
			Expect(days).NotTo(HaveKey(interview.DateKey("2024-03-05")))
			Expect(ids(days["2024-03-06"])).To(Equal([]string{"late"}))
		})

		It("buckets zone-less backend timestamps by their own local day", func() {
			losAngeles, err := time.LoadLocation("America/Los_Angeles")
			Expect(err).NotTo(HaveOccurred())
			scheduled := "2024-03-05T02:00"
			list := interview.FromDataModelSlice([]interviewDatamodel.Interview{
				{ID: "early", ScheduledAt: &scheduled},
			}, losAngeles)

			days := interview.GroupByDay(list, losAngeles)

			Expect(days).To(HaveLen(1))
			Expect(ids(days["2024-03-05"])).To(Equal([]string{"early"}))
		})

		It("is stable for equal times and repeatable", func() {
			list := []interview.Interview{
				{ID: "a", ScheduledAt: at("2024-03-05T09:00:00Z")},
				{ID: "b", ScheduledAt: at("2024-03-05T09:00:00Z")},
			}
			first := interview.GroupByDay(list, time.UTC)
			second := interview.GroupByDay(list, time.UTC)

			Expect(ids(first["2024-03-05"])).To(Equal([]string{"a", "b"}))
			Expect(first).To(Equal(second))
		})
	})

	Describe("grid days", func() {
		It("starts a week on the Monday on or before the anchor", func() {
			for _, anchor := range []time.Time{
				time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 7, 15, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			} {
				days := interview.WeekDays(anchor)
				Expect(days).To(HaveLen(7))
				Expect(days[0].Format(interview.DateKeyLayout)).To(Equal("2024-03-04"))
				Expect(days[6].Format(interview.DateKeyLayout)).To(Equal("2024-03-10"))
			}
		})

		It("covers six full weeks from the Monday before the first of the month", func() {
			days := interview.MonthDays(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

			Expect(days).To(HaveLen(42))
			Expect(days[0].Weekday()).To(Equal(time.Monday))
			Expect(days[0].Format(interview.DateKeyLayout)).To(Equal("2024-02-26"))
			Expect(days[41].Format(interview.DateKeyLayout)).To(Equal("2024-04-07"))
		})

		It("keeps every day at local midnight across DST", func() {
			madrid, err := time.LoadLocation("Europe/Madrid")
			Expect(err).NotTo(HaveOccurred())

			days := interview.MonthDays(time.Date(2024, 3, 1, 0, 0, 0, 0, madrid))
			for i, d := range days {
				Expect(d.Hour()).To(BeZero())
				if i > 0 {
					Expect(d.YearDay() - days[i-1].YearDay()).To(Equal(1))
				}
			}
		})

		It("rejects unknown views", func() {
			_, ok := interview.GridDays("year", time.Now())
			Expect(ok).To(BeFalse())
		})
	})

	It("builds a month grid marking the days outside the month", func() {
		anchor := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		days := interview.MonthDays(anchor)
		list := []interview.Interview{{ID: "x", ScheduledAt: at("2024-03-05T09:00:00Z")}}

		cal := interview.BuildCalendar(interview.CalendarViewMonth, anchor, days, list, time.UTC)

		Expect(cal.From).To(Equal(interview.DateKey("2024-02-26")))
		Expect(cal.To).To(Equal(interview.DateKey("2024-04-07")))
		Expect(cal.Days[0].InMonth).To(BeFalse())
		Expect(cal.Days[4].Date).To(Equal(interview.DateKey("2024-03-01")))
		Expect(cal.Days[4].InMonth).To(BeTrue())
		Expect(ids(cal.Days[8].Interviews)).To(Equal([]string{"x"}))
		Expect(cal.Days[9].Interviews).NotTo(BeNil())
		Expect(cal.Days[9].Interviews).To(BeEmpty())
	})
})

var _ = Describe("SplitByStage", func() {
	stage := func(s string) *string { return &s }

	It("partitions by stage keeping input order", func() {
		list := []interview.Interview{
			{ID: "1", WorkflowStageID: stage("s1")},
			{ID: "2", WorkflowStageID: stage("s2")},
			{ID: "3"},
			{ID: "4", WorkflowStageID: stage("s1")},
		}

		split := interview.SplitByStage(list, "s1")

		Expect(ids(split.Current)).To(Equal([]string{"1", "4"}))
		Expect(ids(split.Other)).To(Equal([]string{"2", "3"}))
	})

	It("puts everything in other when no stage is given", func() {
		list := []interview.Interview{{ID: "1", WorkflowStageID: stage("s1")}, {ID: "2"}}

		split := interview.SplitByStage(list, "")

		Expect(split.Current).To(BeEmpty())
		Expect(ids(split.Other)).To(Equal([]string{"1", "2"}))
	})
})
