package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoDash/pkg/config"
	applogger "CryptoDash/pkg/logger"
)

type noRoutes struct{}

func (noRoutes) RegisterRoutes(*echo.Echo) {}

func TestRunContextClosesResourcesInOrder(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = time.Second

	var closed []string
	closer := func(name string, err error) Closer {
		return Closer{Name: name, Close: func() error {
			closed = append(closed, name)
			return err
		}}
	}
	app := New(cfg, applogger.Nop(), noRoutes{}, nil,
		closer("postgres", nil),
		closer("cache", errors.New("already closed")),
		Closer{Name: "skipped"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already closed")
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, []string{"postgres", "cache"}, closed)
}
