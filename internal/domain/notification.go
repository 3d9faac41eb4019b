package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/structs"
	"github.com/scratchcard-lab/backend/internal/common"
	"github.com/scratchcard-lab/backend/internal/model"
	"github.com/scratchcard-lab/backend/pkg/pubsub"
	"github.com/scratchcard-lab/backend/pkg/sms"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"github.com/scratchcard-lab/backend/pkg/xredis"
)

const (
	notificationStatusSent      = "sent"
	notificationStatusDuplicate = "duplicate"
	notificationStatusInvalid   = "invalid"
	notificationStatusFailed    = "failed"
)

type NotificationDomain interface {
	// HandleCardsMinted is the subscribe handler of the cards minted topic.
	HandleCardsMinted(ctx context.Context, pack *pubsub.Pack, t time.Time)
}

type notificationDomain struct {
	redisClient xredis.Client
	smsSender   sms.Sender
}

func NewNotificationDomain(redisClient xredis.Client, smsSender sms.Sender) *notificationDomain {
	return &notificationDomain{
		redisClient: redisClient,
		smsSender:   smsSender,
	}
}

func (d *notificationDomain) HandleCardsMinted(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event model.CardsMintedEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil || event.EventID == "" || event.Phone == "" {
		xcontext.Logger(ctx).Errorf("Invalid cards minted event: %s", string(pack.Msg))
		d.count(notificationStatusInvalid)
		return
	}

	fields := structs.Map(event)

	// The bus delivers at least once, the event id is remembered to send only
	// one message per event.
	key := common.RedisKeyNotification(event.EventID)
	ok, err := d.redisClient.SetNX(ctx, key, t.UTC().Format(time.RFC3339), xcontext.Configs(ctx).Notification.DedupeTTL)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot check duplicated notification %v: %v", fields, err)
	} else if !ok {
		xcontext.Logger(ctx).Infof("Skip duplicated notification %v", fields)
		d.count(notificationStatusDuplicate)
		return
	}

	if err := d.smsSender.Send(ctx, event.Phone, cardsMintedMessage(event)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot send notification %v: %v", fields, err)
		d.count(notificationStatusFailed)

		// Let a redelivery of this event try again.
		if err := d.redisClient.Del(ctx, key); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete notification key %s: %v", key, err)
		}
		return
	}

	xcontext.Logger(ctx).Infof("Sent notification %v", fields)
	d.count(notificationStatusSent)
}

func (d *notificationDomain) count(status string) {
	common.PromCounters[common.NotificationTotal].WithLabelValues(status).Inc()
}

func cardsMintedMessage(event model.CardsMintedEvent) string {
	cards := "a scratch card"
	if event.CardsMinted > 1 {
		cards = fmt.Sprintf("%d scratch cards", event.CardsMinted)
	}

	return fmt.Sprintf("Hi %s, you earned %s! Your total purchase is %s. Open the app to scratch and win.",
		event.Name, cards, event.TotalPurchase)
}
