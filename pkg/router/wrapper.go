package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := router.newContext(c)
		defer func() {
			handleResponse(ctx)
			for _, closer := range router.closers {
				closer(ctx)
			}
		}()

		ctx, err := runMiddlewares(ctx, router.befores)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		req := new(Request)
		if err := bind(c, method, req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := handler(ctx, req)
		if err != nil {
			// A handler may return data together with the error, e.g. what has
			// been committed before the failure.
			if resp != nil {
				ctx = xcontext.WithResponse(ctx, resp)
			}
			ctx = xcontext.WithError(ctx, err)
			return
		}

		ctx = xcontext.WithResponse(ctx, resp)
		ctx, err = runMiddlewares(ctx, router.afters)
		if err != nil {
			ctx = xcontext.WithResponse(ctx, nil)
			ctx = xcontext.WithError(ctx, err)
			return
		}
	}
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, middleware := range middlewares {
		newCtx, err := middleware(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func bind(c *gin.Context, method string, req any) error {
	switch method {
	case http.MethodGet:
		return c.ShouldBindQuery(req)
	case http.MethodPost:
		return c.ShouldBindJSON(req)
	default:
		return errorx.New(errorx.NotImplemented, "Unsupported method %s", method)
	}
}
