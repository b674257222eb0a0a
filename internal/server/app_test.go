package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.StorageBackend = config.StorageMemory
	cfg.Notifier = config.NotifierLog
	cfg.BcryptCost = 4
	return cfg
}

func init() {
	logOutput = io.Discard
}

func TestNewApp_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	cfg.StorageBackend = "cassandra"
	_, err := NewApp(ctx, cfg)
	assert.ErrorIs(t, err, common.ErrUnsupportedStore)

	cfg = testConfig()
	cfg.PasswordHasher = "md5"
	_, err = NewApp(ctx, cfg)
	assert.ErrorContains(t, err, "hasher init error")

	cfg = testConfig()
	cfg.Notifier = "pigeon"
	_, err = NewApp(ctx, cfg)
	assert.ErrorContains(t, err, "notifier init error")

	cfg = testConfig()
	cfg.LogLevel = "loud"
	_, err = NewApp(ctx, cfg)
	assert.ErrorContains(t, err, "logger init error")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestApp_RunReportsServerFailure(t *testing.T) {
	cfg := testConfig()
	cfg.EndpointAddrGRPC = "127.0.0.1:99999"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "grpc server")
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after server failure")
	}
}
