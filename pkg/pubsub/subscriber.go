package pubsub

import (
	"context"
	"time"
)

type SubscribeHandler func(context.Context, *Pack, time.Time)

type Subscriber interface {
	// Subscribe blocks until the consumer session is ready, then keeps
	// consuming in background until ctx is done or Stop is called.
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}
