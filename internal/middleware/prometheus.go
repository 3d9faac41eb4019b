package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/scratchcard-lab/backend/internal/common"
	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/router"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

// Prometheus counts requests by the status written by the router and
// observes the latency when WithStartTime ran before.
func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return
		}

		status := http.StatusOK
		if err := xcontext.Error(ctx); err != nil {
			status = http.StatusInternalServerError
			var errx errorx.Error
			if errors.As(err, &errx) {
				status = errx.Code.HTTPStatus()
			}
		}

		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(req.Method, req.URL.Path, strconv.Itoa(status)).Inc()

		if startTime := xcontext.StartTime(ctx); !startTime.IsZero() {
			common.PromHistograms[common.HTTPRequestDurationSeconds].
				WithLabelValues(req.Method, req.URL.Path).Observe(time.Since(startTime).Seconds())
		}
	}
}
