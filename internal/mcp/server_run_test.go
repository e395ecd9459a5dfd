package mcp

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestServer_Run_CancelledContext(t *testing.T) {
	env := newTestEnv(t, fakeSource{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- env.server.Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil && !strings.Contains(err.Error(), "context") {
			t.Errorf("Run() error = %v, expected nil or a context error", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after the context was cancelled")
	}
}
