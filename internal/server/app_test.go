package server

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/gophreg/internal/server/config"
	"github.com/dmitrijs2005/gophreg/internal/server/sessions"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.DatabaseDSN = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	c.SecretKey = "app-test-secret"
	c.BcryptCost = bcrypt.MinCost
	c.LogLevel = "error"
	return c
}

func TestNewApp_MemorySessions(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)
	defer app.close(context.Background())

	assert.NotNil(t, app.memSessions)
	assert.Nil(t, app.rdb)
	assert.NotNil(t, app.registration)
}

func TestNewApp_RedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)

	c := testConfig()
	c.RedisAddr = mr.Addr()

	app, err := NewApp(c)
	require.NoError(t, err)
	defer app.close(context.Background())

	assert.IsType(t, &sessions.RedisStore{}, app.sessions)
	assert.Nil(t, app.memSessions)
}

func TestNewApp_Errors(t *testing.T) {
	c := testConfig()
	c.SecretKey = ""
	_, err := NewApp(c)
	assert.ErrorIs(t, err, config.ErrMissingSecretKey)

	c = testConfig()
	c.BcryptCost = 99
	_, err = NewApp(c)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c = testConfig()
	c.RedisAddr = addr
	_, err = NewApp(c)
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
