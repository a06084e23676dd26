package resource_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/resource"
)

var _ = Describe("Query", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	It("returns the fetched value with its generation", func() {
		q := resource.New("list", func(_ context.Context, page int) (int, error) {
			return page * 10, nil
		}, logger)

		res, err := q.Run(context.Background(), "u1:list", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(Equal(30))
		Expect(res.Generation).To(Equal(uint64(1)))
		Expect(q.Generation("u1:list")).To(BeZero())
	})

	It("passes fetch errors through", func() {
		boom := errors.New("boom")
		q := resource.New("list", func(context.Context, int) (int, error) {
			return 0, boom
		}, logger)

		_, err := q.Run(context.Background(), "k", 1)
		Expect(err).To(MatchError(boom))
	})

	It("supersedes an in-flight run for the same key", func() {
		started := make(chan struct{})
		q := resource.New("calendar", func(ctx context.Context, slow bool) (string, error) {
			if !slow {
				return "fresh", nil
			}
			close(started)
			<-ctx.Done()
			return "stale", ctx.Err()
		}, logger)

		type outcome struct {
			res resource.Result[string]
			err error
		}
		first := make(chan outcome, 1)
		go func() {
			res, err := q.Run(context.Background(), "u1:calendar", true)
			first <- outcome{res, err}
		}()
		Eventually(started).Should(BeClosed())

		res, err := q.Run(context.Background(), "u1:calendar", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(Equal("fresh"))
		Expect(res.Generation).To(Equal(uint64(2)))

		var old outcome
		Eventually(first, time.Second).Should(Receive(&old))
		Expect(old.err).To(MatchError(resource.ErrSuperseded))
		Expect(errors.Is(old.err, internal.ErrRequestSuperseded)).To(BeTrue())
		Expect(old.res.Value).To(BeEmpty())
	})

	It("keeps runs under different keys independent", func() {
		release := make(chan struct{})
		q := resource.New("list", func(ctx context.Context, v string) (string, error) {
			if v == "wait" {
				<-release
			}
			return v, nil
		}, logger)

		done := make(chan error, 1)
		go func() {
			_, err := q.Run(context.Background(), "u1:list", "wait")
			done <- err
		}()
		Eventually(func() uint64 { return q.Generation("u1:list") }).ShouldNot(BeZero())

		res, err := q.Run(context.Background(), "u2:list", "other")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(Equal("other"))

		close(release)
		Eventually(done).Should(Receive(BeNil()))
	})
})
