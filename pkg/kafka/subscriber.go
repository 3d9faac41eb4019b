package kafka

import (
	"context"
	"errors"
	"sync"

	"github.com/Shopify/sarama"
	"github.com/scratchcard-lab/backend/pkg/pubsub"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
)

type subscriber struct {
	groupID     string
	brokerAddrs []string
	topics      []string
	client      sarama.ConsumerGroup
	handler     pubsub.SubscribeHandler
}

func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
) (*subscriber, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		return nil, err
	}

	return &subscriber{
		groupID:     groupID,
		brokerAddrs: brokerAddrs,
		topics:      topics,
		client:      client,
		handler:     handler,
	}, nil
}

func (s *subscriber) Stop(ctx context.Context) error {
	return s.client.Close()
}

func (s *subscriber) Subscribe(ctx context.Context) {
	consumer := &consumerGroupHandler{ctx: ctx, ready: make(chan struct{}), fn: s.handler}

	go func() {
		for {
			// Consume returns after every server-side rebalance, so it's
			// called in a loop to join the new session.
			err := s.client.Consume(ctx, s.topics, consumer)
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				consumer.markReady()
				return
			}

			if err != nil {
				xcontext.Logger(ctx).Errorf("Error from consumer: %v", err)
			}

			if ctx.Err() != nil {
				consumer.markReady()
				return
			}
		}
	}()

	<-consumer.ready
}

type consumerGroupHandler struct {
	ctx       context.Context
	ready     chan struct{}
	readyOnce sync.Once
	fn        pubsub.SubscribeHandler
}

func (h *consumerGroupHandler) markReady() {
	h.readyOnce.Do(func() { close(h.ready) })
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.markReady()
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim,
) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			// The session context only carries cancellation, the handler needs
			// the logger and configs of the subscriber context.
			h.fn(h.ctx, &pubsub.Pack{Key: message.Key, Msg: message.Value}, message.Timestamp)
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}
