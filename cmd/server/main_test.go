package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/JonMunkholm/regform/internal/config"
	"github.com/JonMunkholm/regform/internal/core"
	"github.com/JonMunkholm/regform/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(port int) *web.Server {
	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: port, RequestTimeout: time.Second},
		Session: config.SessionConfig{CookieName: "regform_session"},
	}
	return web.NewServer(core.NewService(core.SessionConfig{}), cfg)
}

func TestServe_ReturnsAfterDrain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- serve(ctx, testServer(0), time.Second) }()
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServe_StartError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	port := ln.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	err = serve(ctx, testServer(port), time.Second)
	assert.Error(t, err)
}
