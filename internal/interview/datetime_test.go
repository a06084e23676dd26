package interview_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/interview-console/internal/interview"
)

var _ = Describe("datetime-local conversion", func() {
	var madrid *time.Location

	BeforeEach(func() {
		var err error
		madrid, err = time.LoadLocation("Europe/Madrid")
		Expect(err).NotTo(HaveOccurred())
	})

	It("uses local wall-clock fields, not UTC", func() {
		local, err := interview.FormatDateTimeLocal("2024-03-05T09:30:00Z", madrid)
		Expect(err).NotTo(HaveOccurred())
		Expect(local).To(Equal("2024-03-05T10:30"))

		iso, err := interview.ParseDateTimeLocal("2024-07-01T10:30", madrid)
		Expect(err).NotTo(HaveOccurred())
		Expect(iso).To(Equal("2024-07-01T08:30:00Z"))
	})

	It("round trips minute-resolution instants in both directions", func() {
		kolkata, err := time.LoadLocation("Asia/Kolkata")
		Expect(err).NotTo(HaveOccurred())

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 200; i++ {
			instant := start.Add(time.Duration(i) * 7 * time.Hour).Add(time.Duration(i*13) * time.Minute)
			iso := instant.Format(time.RFC3339)

			local, err := interview.FormatDateTimeLocal(iso, kolkata)
			Expect(err).NotTo(HaveOccurred())
			back, err := interview.ParseDateTimeLocal(local, kolkata)
			Expect(err).NotTo(HaveOccurred())
			Expect(back).To(Equal(iso))

			again, err := interview.FormatDateTimeLocal(back, kolkata)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(local))
		}
	})

	It("rejects malformed values", func() {
		_, err := interview.ParseDateTimeLocal("05/03/2024 10:30", madrid)
		Expect(err).To(HaveOccurred())

		_, err = interview.FormatDateTimeLocal("yesterday", madrid)
		Expect(err).To(HaveOccurred())
	})

	It("accepts the ISO variants the backend emits", func() {
		for _, raw := range []string{"2024-03-05T09:30:00Z", "2024-03-05T09:30:00.123Z", "2024-03-05T09:30:00", "2024-03-05T09:30", "2024-03-05"} {
			_, ok := interview.ParseTimestamp(raw, madrid)
			Expect(ok).To(BeTrue(), raw)
		}
	})

	Context("with values that carry no offset", func() {
		var losAngeles *time.Location

		BeforeEach(func() {
			var err error
			losAngeles, err = time.LoadLocation("America/Los_Angeles")
			Expect(err).NotTo(HaveOccurred())
		})

		It("reads them as wall-clock time in the location", func() {
			t, ok := interview.ParseTimestamp("2024-03-05T10:00", losAngeles)
			Expect(ok).To(BeTrue())
			Expect(t.UTC()).To(Equal(time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)))

			local, err := interview.FormatDateTimeLocal("2024-03-05T10:00", losAngeles)
			Expect(err).NotTo(HaveOccurred())
			Expect(local).To(Equal("2024-03-05T10:00"))
		})

		It("keeps an explicit offset", func() {
			local, err := interview.FormatDateTimeLocal("2024-03-05T10:00:00Z", losAngeles)
			Expect(err).NotTo(HaveOccurred())
			Expect(local).To(Equal("2024-03-05T02:00"))
		})
	})
})
