package commands

import (
	"context"

	"tindo/internal/core/ports"
)

// SubmitAgentLocationCommandHandler processes agent position reports.
//
// Submission is dual-path: the sample is broadcast to live subscribers and
// upserted as the agent's latest durable position. The broadcast is
// fire-and-forget and happens first, so a storage failure never blocks the
// live feed; only the durable write can fail the command.
type SubmitAgentLocationCommandHandler struct {
	uowFactory LocationUoWFactory
	publisher  ports.EventPublisher
}

// NewSubmitAgentLocationCommandHandler creates a handler for location submission.
func NewSubmitAgentLocationCommandHandler(
	uowFactory LocationUoWFactory,
	publisher ports.EventPublisher,
) SubmitAgentLocationCommandHandler {
	return SubmitAgentLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle broadcasts the sample and persists it as the agent's latest position.
func (h *SubmitAgentLocationCommandHandler) Handle(ctx context.Context, cmd SubmitAgentLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sample := cmd.Sample()

	event := ports.NewLocationEvent(sample)
	h.publisher.Publish(ctx, ports.TopicLocationUpdate(), event)
	h.publisher.Publish(ctx, ports.TopicTrackOrder(sample.OrderID().String()), event)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.LocationRepository().SaveLatest(ctx, sample); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
