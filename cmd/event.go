package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/interview-console/internal/core/events"
	"github.com/frahmantamala/interview-console/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the audited events and preview how they are logged`,
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List audited event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, eventType := range events.AuditedEventTypes {
			fmt.Fprintln(cmd.OutOrStdout(), eventType)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a sample event through the audit handler",
	Long:  `Publish a sample event to an in-process bus wired like the server, to check the audit log output`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(cmd.Context(), args[0])
	},
}

var (
	eventInterviewID string
	eventUserID      string
)

func sampleEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeInterviewSubmitted:
		return events.NewInterviewSubmittedEvent("cli-draft", eventInterviewID, "create", "cli-company", eventUserID), nil
	case events.EventTypeInterviewTransitioned:
		return events.NewInterviewTransitionedEvent(eventInterviewID, "start", "IN_PROGRESS", eventUserID), nil
	case events.EventTypeUserRolesUpdated:
		return events.NewUserRolesUpdatedEvent("cli-company-user", []string{}, eventUserID), nil
	}
	return nil, fmt.Errorf("unknown event type %q, see `event list`", eventType)
}

func publishSampleEvent(ctx context.Context, eventType string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.LoggerWrapper()

	event, err := sampleEvent(eventType)
	if err != nil {
		return err
	}

	bus := events.NewEventBus(log)
	events.SubscribeAudit(bus, log)

	log.Info("publishing sample event", "event_type", eventType, "event_id", event.EventID())
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventInterviewID, "interview-id", "cli-interview", "Interview id placed in the sample event")
	publishEventCmd.Flags().StringVar(&eventUserID, "user-id", "cli-user", "Acting user id placed in the sample event")

	eventCmd.AddCommand(listEventsCmd)
	eventCmd.AddCommand(publishEventCmd)
}
