package pubsub

import "context"

// Pack is a single message on the bus. Key decides the partition, so all
// messages of the same key are delivered in order.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}
