package sms

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/scratchcard-lab/backend/pkg/api"
)

type Sender interface {
	Send(ctx context.Context, to, body string) error
}

type Config struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	Timeout    time.Duration
}

// twilioSender sends messages through the Twilio Messages API, or any gateway
// exposing the same API.
type twilioSender struct {
	cfg          Config
	apiGenerator api.Generator
}

func NewTwilioSender(cfg Config) *twilioSender {
	return &twilioSender{
		cfg:          cfg,
		apiGenerator: api.NewGenerator(cfg.BaseURL),
	}
}

func (s *twilioSender) Send(ctx context.Context, to, body string) error {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.apiGenerator.New("/2010-04-01/Accounts/%s/Messages.json", url.PathEscape(s.cfg.AccountSID)).
		Body(api.Parameter{
			"To":   to,
			"From": s.cfg.From,
			"Body": body,
		}).
		POST(ctx, api.BasicAuth(s.cfg.AccountSID, s.cfg.AuthToken))
	if err != nil {
		return err
	}

	if resp.IsSuccess() {
		return nil
	}

	errBody, ok := resp.Body.(api.JSON)
	if !ok {
		return fmt.Errorf("sms gateway returned status %d", resp.Code)
	}

	message, err := errBody.GetString("message")
	if err != nil || message == "" {
		return fmt.Errorf("sms gateway returned status %d", resp.Code)
	}

	code, _ := errBody.GetInt("code")
	return fmt.Errorf("sms gateway returned status %d: %d %s", resp.Code, code, message)
}
