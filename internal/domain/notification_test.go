package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/scratchcard-lab/backend/internal/model"
	"github.com/scratchcard-lab/backend/pkg/pubsub"
	"github.com/scratchcard-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	to   string
	body string
}

func newCardsMintedPack(t *testing.T, eventID string) *pubsub.Pack {
	b, err := json.Marshal(model.CardsMintedEvent{
		EventID:       eventID,
		CustomerID:    testutil.Customer1.ID,
		ShopID:        testutil.Customer1.ShopID,
		Phone:         testutil.Customer1.Phone,
		Name:          testutil.Customer1.Name,
		CardsMinted:   2,
		TotalPurchase: "300.00",
	})
	require.NoError(t, err)

	return &pubsub.Pack{Key: []byte(testutil.Customer1.ID), Msg: b}
}

func Test_notificationDomain_HandleCardsMinted(t *testing.T) {
	ctx := testutil.MockContext()

	var sent []sentMessage
	smsSender := &testutil.MockSMSSender{
		SendFunc: func(ctx context.Context, to, body string) error {
			sent = append(sent, sentMessage{to: to, body: body})
			return nil
		},
	}

	d := NewNotificationDomain(testutil.NewMemoryRedisClient(), smsSender)

	d.HandleCardsMinted(ctx, newCardsMintedPack(t, "event1"), time.Now())
	require.Len(t, sent, 1)
	require.Equal(t, testutil.Customer1.Phone, sent[0].to)
	require.Contains(t, sent[0].body, "2 scratch cards")
	require.Contains(t, sent[0].body, "300.00")

	// A redelivered event is not sent again.
	d.HandleCardsMinted(ctx, newCardsMintedPack(t, "event1"), time.Now())
	require.Len(t, sent, 1)

	d.HandleCardsMinted(ctx, newCardsMintedPack(t, "event2"), time.Now())
	require.Len(t, sent, 2)

	d.HandleCardsMinted(ctx, &pubsub.Pack{Msg: []byte("invalid")}, time.Now())
	require.Len(t, sent, 2)
}

func Test_notificationDomain_HandleCardsMinted_SendFailure(t *testing.T) {
	ctx := testutil.MockContext()

	attempts := 0
	smsSender := &testutil.MockSMSSender{
		SendFunc: func(ctx context.Context, to, body string) error {
			attempts++
			if attempts == 1 {
				return errors.New("gateway timeout")
			}
			return nil
		},
	}

	d := NewNotificationDomain(testutil.NewMemoryRedisClient(), smsSender)

	d.HandleCardsMinted(ctx, newCardsMintedPack(t, "event1"), time.Now())
	require.Equal(t, 1, attempts)

	// The failed event can be delivered again.
	d.HandleCardsMinted(ctx, newCardsMintedPack(t, "event1"), time.Now())
	require.Equal(t, 2, attempts)

	d.HandleCardsMinted(ctx, newCardsMintedPack(t, "event1"), time.Now())
	require.Equal(t, 2, attempts)
}

func Test_notificationDomain_HandleCardsMinted_RedisDown(t *testing.T) {
	ctx := testutil.MockContext()

	sent := 0
	redisClient := &testutil.MockRedisClient{
		SetNXFunc: func(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
			return false, errors.New("connection refused")
		},
	}
	smsSender := &testutil.MockSMSSender{
		SendFunc: func(ctx context.Context, to, body string) error {
			sent++
			return nil
		},
	}

	NewNotificationDomain(redisClient, smsSender).
		HandleCardsMinted(ctx, newCardsMintedPack(t, "event1"), time.Now())
	require.Equal(t, 1, sent)
}
