package authenticator_test

import (
	"testing"
	"time"

	"github.com/scratchcard-lab/backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type testToken struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[testToken]("secret", time.Minute)
	token, err := engine.Generate("abc", testToken{ID: "abc", Role: "customer"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, testToken{ID: "abc", Role: "customer"}, obj)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[testToken]("secret", time.Nanosecond)
	token, err := engine.Generate("abc", testToken{ID: "abc"})
	require.NoError(t, err)

	time.Sleep(time.Second)
	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := authenticator.NewTokenEngine[testToken]("secret", time.Minute).
		Generate("abc", testToken{ID: "abc"})
	require.NoError(t, err)

	_, err = authenticator.NewTokenEngine[testToken]("other", time.Minute).Verify(token)
	require.Error(t, err)
}
