package events_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/interview-console/internal/core/events"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	It("delivers asynchronous events even after the request context ends", func() {
		var calls atomic.Int32
		bus.Subscribe(events.EventTypeInterviewSubmitted, func(ctx context.Context, e events.Event) error {
			Expect(ctx.Err()).NotTo(HaveOccurred())
			calls.Add(1)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewInterviewSubmittedEvent("d1", "i1", "create", "c1", "u1"))).To(Succeed())
		bus.Wait()
		Expect(calls.Load()).To(Equal(int32(1)))
	})

	It("stops synchronous delivery at the first failing handler", func() {
		var second bool
		bus.Subscribe(events.EventTypeInterviewTransitioned, func(context.Context, events.Event) error {
			return errors.New("nope")
		})
		bus.Subscribe(events.EventTypeInterviewTransitioned, func(context.Context, events.Event) error {
			second = true
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewInterviewTransitionedEvent("i1", "start", "IN_PROGRESS", "u1"))
		Expect(err).To(MatchError(ContainSubstring("interview.transitioned")))
		Expect(second).To(BeFalse())
	})

	It("ignores events nobody subscribed to", func() {
		Expect(bus.PublishSync(context.Background(), events.NewUserRolesUpdatedEvent("cu1", []string{"r1"}, "u1"))).To(Succeed())
	})

	It("writes an audit line per event", func() {
		var buf bytes.Buffer
		bus.Subscribe(events.EventTypeUserRolesUpdated, events.AuditHandler(slog.New(slog.NewTextHandler(&buf, nil))))

		Expect(bus.PublishSync(context.Background(), events.NewUserRolesUpdatedEvent("cu1", []string{"r1"}, "u1"))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("event_type=company.user_roles_updated"))
	})
})
