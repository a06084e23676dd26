package interview_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/interview-console/internal/interview"
)

var _ = Describe("BuildQuery", func() {
	It("omits sentinel and empty filters", func() {
		q := interview.BuildQuery(interview.DefaultFilters(), interview.Override{}, 1, 10)

		Expect(q.Values()).To(HaveLen(2))
		Expect(q.Values().Get("limit")).To(Equal("10"))
		Expect(q.Values().Get("offset")).To(Equal("0"))
	})

	It("maps UI filters to backend keys", func() {
		f := interview.DefaultFilters()
		f.CandidateName = " Ana "
		f.Status = interview.StatusScheduled
		f.Type = interview.TypeHR
		f.Position = "pos-1"
		f.Role = "R1"
		f.Interviewer = "U1"

		v := interview.BuildQuery(f, interview.Override{}, 3, 20).Values()

		Expect(v.Get("candidate_name")).To(Equal("Ana"))
		Expect(v.Get("status")).To(Equal("SCHEDULED"))
		Expect(v.Get("interview_type")).To(Equal("HR"))
		Expect(v.Get("job_position_id")).To(Equal("pos-1"))
		Expect(v.Get("role_id")).To(Equal("R1"))
		Expect(v.Get("interviewer_id")).To(Equal("U1"))
		Expect(v.Get("offset")).To(Equal("40"))
	})

	It("adds filter_by whenever a date bound is set", func() {
		f := interview.DefaultFilters()
		f.FromDate = "2024-03-01"

		q := interview.BuildQuery(f, interview.Override{}, 1, 10)
		Expect(q.FilterBy).To(Equal(interview.FilterByScheduled))

		f.FilterBy = interview.FilterByDeadline
		q = interview.BuildQuery(f, interview.Override{}, 1, 10)
		Expect(q.FilterBy).To(Equal(interview.FilterByDeadline))
	})

	It("lets the override win only for the fields it sets", func() {
		f := interview.DefaultFilters()
		f.Status = interview.StatusCompleted
		f.Role = "R1"
		status := interview.StatusEnabled

		q := interview.BuildQuery(f, interview.Override{Status: &status}, 1, 10)

		Expect(q.Status).To(Equal(interview.StatusEnabled))
		Expect(q.RoleID).To(Equal("R1"))
	})

	It("treats page numbers below one as the first page", func() {
		q := interview.BuildQuery(interview.DefaultFilters(), interview.Override{}, 0, 10)
		Expect(q.Offset).To(BeZero())
	})
})

var _ = Describe("Metric shortcuts", func() {
	now := time.Date(2024, 3, 5, 14, 20, 0, 0, time.UTC)

	It("resets manual filters before building the overdue query", func() {
		f := interview.DefaultFilters()
		f.Status = interview.StatusScheduled
		f.CandidateName = "Ana"

		f.SelectMetric(interview.MetricOverdue)
		q := interview.BuildQuery(f, interview.MetricToOverride(interview.MetricOverdue, now, time.UTC), 1, 10)

		Expect(q.Status).To(Equal(interview.StatusEnabled))
		Expect(q.FilterBy).To(Equal(interview.FilterByDeadline))
		Expect(q.ToDate).To(Equal("2024-03-05T14:20:00Z"))
		Expect(q.Values()).NotTo(HaveKey("candidate_name"))
		Expect(q.Values()).NotTo(HaveKey("from_date"))
	})

	It("bounds in_progress to the local day", func() {
		madrid, err := time.LoadLocation("Europe/Madrid")
		Expect(err).NotTo(HaveOccurred())

		o := interview.MetricToOverride(interview.MetricInProgress, now, madrid)

		Expect(*o.FilterBy).To(Equal(interview.FilterByScheduled))
		Expect(*o.FromDate).To(Equal("2024-03-04T23:00:00Z"))
		Expect(*o.ToDate).To(Equal("2024-03-05T22:59:59Z"))
	})

	It("looks back thirty days for recently_finished", func() {
		o := interview.MetricToOverride(interview.MetricRecentlyFinished, now, time.UTC)
		Expect(*o.FromDate).To(Equal("2024-02-04T00:00:00Z"))
		Expect(o.ToDate).To(BeNil())
	})

	DescribeTable("status-only metrics",
		func(metric, status, filterBy string) {
			o := interview.MetricToOverride(metric, now, time.UTC)
			Expect(*o.Status).To(Equal(status))
			if filterBy == "" {
				Expect(o.FilterBy).To(BeNil())
			} else {
				Expect(*o.FilterBy).To(Equal(filterBy))
			}
		},
		Entry("pending_to_plan", interview.MetricPendingToPlan, interview.StatusEnabled, interview.FilterByUnscheduled),
		Entry("planned", interview.MetricPlanned, interview.StatusScheduled, ""),
		Entry("pending_feedback", interview.MetricPendingFeedback, interview.StatusCompleted, ""),
	)

	It("ignores unknown metrics", func() {
		Expect(interview.MetricToOverride("bogus", now, time.UTC).IsEmpty()).To(BeTrue())
		Expect(interview.IsMetric("bogus")).To(BeFalse())
		Expect(interview.IsMetric(interview.MetricOverdue)).To(BeTrue())
	})
})
