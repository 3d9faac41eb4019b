package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/router"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
)

// Logger writes one line per request. Business errors are warnings, unknown
// errors are logged with their cause because the client only sees a generic
// message.
func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return
		}

		var latency time.Duration
		if startTime := xcontext.StartTime(ctx); !startTime.IsZero() {
			latency = time.Since(startTime)
		}

		err := xcontext.Error(ctx)
		if err == nil {
			xcontext.Logger(ctx).Infof("%s %s | %d | %s", req.Method, req.URL.Path, 200, latency)
			return
		}

		var errx errorx.Error
		if errors.As(err, &errx) {
			xcontext.Logger(ctx).Warnf("%s %s | %d | %s | %d %s",
				req.Method, req.URL.Path, errx.Code.HTTPStatus(), latency, errx.Code, errx.Message)
			return
		}

		xcontext.Logger(ctx).Errorf("%s %s | %d | %s | %v",
			req.Method, req.URL.Path, 500, latency, err)
	}
}
