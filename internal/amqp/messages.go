package amqp

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"studysmart/internal/events"
	"studysmart/internal/store"
)

const contentType = "application/json"

// newPublishing wraps a change in a persistent message. Table and op are
// copied into headers so consumers can filter without decoding.
func newPublishing(change events.Change) (amqp091.Publishing, error) {
	body, err := change.ToJSON()
	if err != nil {
		return amqp091.Publishing{}, err
	}
	return amqp091.Publishing{
		ContentType:  contentType,
		DeliveryMode: amqp091.Persistent,
		MessageId:    change.ID.String(),
		Timestamp:    time.Now(),
		Headers: amqp091.Table{
			"table": string(change.Table),
			"op":    string(change.Op),
		},
		Body: body,
	}, nil
}

// decodeChange parses a message body and rejects unknown tables or ops.
func decodeChange(body []byte) (events.Change, error) {
	change, err := events.ChangeFromJSON(body)
	if err != nil {
		return events.Change{}, fmt.Errorf("decode change: %w", err)
	}
	if !knownTable(change.Table) {
		return events.Change{}, fmt.Errorf("decode change: unknown table %q", change.Table)
	}
	switch change.Op {
	case events.OpCreate, events.OpUpdate, events.OpDelete:
	default:
		return events.Change{}, fmt.Errorf("decode change: unknown op %q", change.Op)
	}
	return change, nil
}

func knownTable(t store.Table) bool {
	for _, known := range store.AllTables {
		if t == known {
			return true
		}
	}
	return false
}
