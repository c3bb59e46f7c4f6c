package amqp

import (
	"context"
	"log/slog"

	"studysmart/internal/events"
	"studysmart/internal/log"
)

// Publisher is the publishing side of Client.
type Publisher interface {
	PublishChange(ctx context.Context, change events.Change) error
}

// Relay forwards every committed change from the broker to a publisher.
// Publish failures are logged; the mutation that produced the change has
// already committed.
type Relay struct {
	publisher Publisher
	broker    *events.Broker
	logger    *slog.Logger
}

func NewRelay(publisher Publisher, broker *events.Broker, logger *slog.Logger) *Relay {
	return &Relay{
		publisher: publisher,
		broker:    broker,
		logger:    log.Component(logger, log.ComponentAMQP),
	}
}

// loop relays changes until ctx ends or the broker closes.
func (r *Relay) loop(ctx context.Context, sub *events.Subscription) {
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-sub.C():
			if !ok {
				return
			}
			if err := r.publisher.PublishChange(ctx, change); err != nil {
				r.logger.ErrorContext(ctx, "Failed to relay change",
					log.NewFields().
						WithError(err).
						WithOperation(log.OpPublish).
						WithChange(change.ID.String(), string(change.Table), change.EntityID, change.SubjectID).
						ToSlice()...)
			}
		}
	}
}

// Start subscribes immediately and relays in the background. The returned
// function stops the relay and waits for it to finish.
func (r *Relay) Start(ctx context.Context) (stop func()) {
	sub := r.broker.Subscribe()
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.loop(ctx, sub)
	}()
	return func() {
		cancel()
		<-done
	}
}
