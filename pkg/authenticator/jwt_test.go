package authenticator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stridehq/backend/pkg/authenticator"
)

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[string]("secret", time.Minute)
	token, err := engine.Generate("user1", "abc")
	require.NoError(t, err)

	msg, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "abc", msg)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[string]("secret", time.Nanosecond)
	token, err := engine.Generate("user1", "abc")
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}
