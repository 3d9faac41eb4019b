package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/scratchcard-lab/backend/internal/domain"
	"github.com/scratchcard-lab/backend/internal/model"
	"github.com/scratchcard-lab/backend/pkg/kafka"
	"github.com/scratchcard-lab/backend/pkg/pubsub"
	"github.com/scratchcard-lab/backend/pkg/sms"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startNotifier(*cli.Context) error {
	cfg := xcontext.Configs(s.ctx)
	s.loadRedisClient()

	smsSender := sms.NewTwilioSender(sms.Config{
		BaseURL:    cfg.Notification.SMS.BaseURL,
		AccountSID: cfg.Notification.SMS.AccountSID,
		AuthToken:  cfg.Notification.SMS.AuthToken,
		From:       cfg.Notification.SMS.From,
		Timeout:    cfg.Notification.SMS.Timeout,
	})
	s.notificationDomain = domain.NewNotificationDomain(s.redisClient, smsSender)

	var subscriber pubsub.Subscriber
	subscriber, err := kafka.NewSubscriber(
		"notifier",
		[]string{cfg.Kafka.Addr},
		[]string{model.CardsMintedTopic},
		s.notificationDomain.HandleCardsMinted,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	subscriber.Subscribe(ctx)
	xcontext.Logger(s.ctx).Infof("Notifier is consuming topic %s", model.CardsMintedTopic)

	<-ctx.Done()
	if err := subscriber.Stop(s.ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Notifier stopped")
	return nil
}
