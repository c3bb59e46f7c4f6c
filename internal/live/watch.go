package live

import (
	"context"

	"studysmart/internal/events"
	"studysmart/internal/store"
)

// Result is one evaluation of a watched query.
type Result[T any] struct {
	Value T
	Err   error
}

// Query reads the current value of a derived view.
type Query[T any] func(ctx context.Context) (T, error)

// Watch evaluates query once immediately and again after every change to
// tables. Changes that arrive while a result is pending are coalesced into
// the next evaluation. The channel closes when ctx is done or the broker
// closes.
func Watch[T any](ctx context.Context, broker *events.Broker, tables []store.Table, query Query[T]) <-chan Result[T] {
	sub := broker.Subscribe(tables...)
	out := make(chan Result[T], 1)

	go func() {
		defer close(out)
		defer sub.Close()

		emit := func() bool {
			v, err := query(ctx)
			if ctx.Err() != nil {
				return false
			}
			// latest wins: replace an unread result
			select {
			case <-out:
			default:
			}
			select {
			case out <- Result[T]{Value: v, Err: err}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C():
				if !ok {
					return
				}
				drain(sub)
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}

func drain(sub *events.Subscription) {
	for {
		select {
		case _, ok := <-sub.C():
			if !ok {
				return
			}
		default:
			return
		}
	}
}
