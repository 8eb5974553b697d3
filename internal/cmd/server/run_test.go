package serverrun

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/msg-store/msg-store/internal/config"
	"github.com/msg-store/msg-store/pkg/log"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRunServesHTTPUntilCanceled(t *testing.T) {
	port := freePort(t)
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	cfg := config.Default()
	logger, err := log.ApplyConfig(log.Config{Level: "error", Format: "text", Output: "null"})
	if err != nil {
		t.Fatalf("apply log config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{HTTPAddr: addr, Config: cfg, Logger: logger})
	}()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("healthz never came up: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error after cancel: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not shut down after context cancellation")
	}
}

func TestRunFailsOnInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Database = "not-a-real-backend"

	logger, err := log.ApplyConfig(log.Config{Level: "error", Format: "text", Output: "null"})
	if err != nil {
		t.Fatalf("apply log config: %v", err)
	}

	if err := Run(context.Background(), Options{HTTPAddr: "127.0.0.1:0", Config: cfg, Logger: logger}); err == nil {
		t.Fatalf("expected Run to fail for an invalid config")
	}
}
