package testutil

import (
	"context"

	"github.com/scratchcard-lab/backend/pkg/errorx"
)

type MockSMSSender struct {
	SendFunc func(ctx context.Context, to, body string) error
}

func (m *MockSMSSender) Send(ctx context.Context, to, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, body)
	}

	return errorx.New(errorx.NotImplemented, "Not implemented")
}
