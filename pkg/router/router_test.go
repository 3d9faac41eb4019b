package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scratchcard-lab/backend/config"
	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/logger"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name string `json:"name" form:"name"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
}

func newTestRouter() *Router {
	return New(nil, config.Default(), logger.NewLogger(logger.Options{Level: logger.SILENCE}))
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	switch req.Name {
	case "":
		return nil, errorx.New(errorx.BadRequest, "Name is required")
	case "fail":
		return nil, errors.New("unexpected")
	case "partial":
		return &echoResponse{Greeting: "partial"}, errorx.New(errorx.PartialIssuance, "Stopped halfway")
	}

	return &echoResponse{Greeting: "hello " + req.Name}, nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	result := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func Test_Router(t *testing.T) {
	r := newTestRouter()
	GET(r, "/echo", echo)
	POST(r, "/echo", echo)
	handler := r.Handler(config.Default().ApiServer)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantCode   float64
		wantData   map[string]any
	}{
		{
			name:       "get",
			req:        httptest.NewRequest(http.MethodGet, "/echo?name=bob", nil),
			wantStatus: http.StatusOK,
			wantData:   map[string]any{"greeting": "hello bob"},
		},
		{
			name:       "post",
			req:        httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"alice"}`)),
			wantStatus: http.StatusOK,
			wantData:   map[string]any{"greeting": "hello alice"},
		},
		{
			name:       "invalid json",
			req:        httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":`)),
			wantStatus: http.StatusBadRequest,
			wantCode:   float64(errorx.BadRequest),
		},
		{
			name:       "domain error",
			req:        httptest.NewRequest(http.MethodGet, "/echo", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   float64(errorx.BadRequest),
		},
		{
			name:       "error with data",
			req:        httptest.NewRequest(http.MethodGet, "/echo?name=partial", nil),
			wantStatus: http.StatusInternalServerError,
			wantCode:   float64(errorx.PartialIssuance),
			wantData:   map[string]any{"greeting": "partial"},
		},
		{
			name:       "unknown error",
			req:        httptest.NewRequest(http.MethodGet, "/echo?name=fail", nil),
			wantStatus: http.StatusInternalServerError,
			wantCode:   float64(errorx.Unknown.Code),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, tt.req)

			require.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			require.Equal(t, tt.wantCode, body["code"])
			if tt.wantData != nil {
				require.Equal(t, tt.wantData, body["data"])
			} else {
				require.Nil(t, body["data"])
			}

			if tt.wantCode != 0 {
				require.NotEmpty(t, body["error"])
			}
		})
	}
}

type ctxKey struct{}

func Test_Router_Middlewares(t *testing.T) {
	r := newTestRouter()

	var order []string
	r.Before(func(ctx context.Context) (context.Context, error) {
		order = append(order, "before")
		return context.WithValue(ctx, ctxKey{}, "from before"), nil
	})
	r.After(func(ctx context.Context) (context.Context, error) {
		order = append(order, "after")
		return nil, nil
	})
	r.AddCloser(func(ctx context.Context) {
		order = append(order, "closer")
	})

	denied := r.Branch()
	denied.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	})

	GET(r, "/value", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		order = append(order, "handler")
		return &echoResponse{Greeting: ctx.Value(ctxKey{}).(string)}, nil
	})
	GET(denied, "/denied", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		order = append(order, "denied handler")
		return &echoResponse{}, nil
	})

	handler := r.Handler(config.Default().ApiServer)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/value", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"greeting": "from before"}, decode(t, rec)["data"])
	require.Equal(t, []string{"before", "handler", "after", "closer"}, order)

	order = nil
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/denied", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, []string{"before", "closer"}, order)
}
