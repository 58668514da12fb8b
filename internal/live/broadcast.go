package live

import (
	"context"
	"errors"
)

// Broadcaster fans an update out to subscribers. Delivery is best effort.
type Broadcaster interface {
	Broadcast(ctx context.Context, u Update) error
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(context.Context, Update) error { return nil }

// Multi sends every update to each broadcaster and joins their errors.
type Multi []Broadcaster

func (m Multi) Broadcast(ctx context.Context, u Update) error {
	var errs []error
	for _, b := range m {
		if err := b.Broadcast(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
