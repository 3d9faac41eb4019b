package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestClient_POST_Form(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/accounts/AC1/messages", r.URL.Path)
		require.Equal(t, "v1", r.URL.Query().Get("version"))
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.Equal(t, "yes", r.Header.Get("X-Test"))

		user, password, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "AC1", user)
		require.Equal(t, "token", password)

		require.NoError(t, r.ParseForm())
		require.Equal(t, "hello world & more", r.PostForm.Get("Body"))
		require.Equal(t, "+15551111111", r.PostForm.Get("To"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","price":{"amount":1}}`))
	}))
	defer server.Close()

	ctx := xcontext.WithHTTPClient(context.Background(), &http.Client{Timeout: time.Second})
	resp, err := NewGenerator(server.URL+"/").New("/accounts/%s/messages", "AC1").
		Header("X-Test", "yes").
		Query(Parameter{"version": "v1"}).
		Body(Parameter{"Body": "hello world & more", "To": "+15551111111"}).
		POST(ctx, BasicAuth("AC1", "token"))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Code)
	require.True(t, resp.IsSuccess())

	body, ok := resp.Body.(JSON)
	require.True(t, ok)

	sid, err := body.GetString("sid")
	require.NoError(t, err)
	require.Equal(t, "SM1", sid)

	amount, err := body.GetInt("price.amount")
	require.NoError(t, err)
	require.Equal(t, 1, amount)
}

func TestClient_GET_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/array":
			_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
		case "/html":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		default:
			require.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	generator := NewGenerator(server.URL)

	resp, err := generator.New("/array").GET(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Body, 2)

	resp, err = generator.New("/html").GET(context.Background())
	require.Error(t, err)
	require.Equal(t, http.StatusBadGateway, resp.Code)

	resp, err = generator.New("/missing").GET(context.Background(), OAuth2("Bearer", "abc"))
	require.NoError(t, err)
	require.False(t, resp.IsSuccess())
	require.Equal(t, JSON{}, resp.Body)
}

func TestParameter_Encode(t *testing.T) {
	require.Equal(t, "a=1&b=x%20y&c=%2B1", Parameter{"c": "+1", "b": "x y", "a": "1"}.Encode())
}
