package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"
)

func startHealthServer(t *testing.T, addr string) (*HealthServer, context.CancelFunc) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	server := NewHealthServer(addr, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := server.Start(ctx); err != nil && err != http.ErrServerClosed {
			t.Errorf("unexpected server error: %v", err)
		}
	}()

	// サーバー起動待ち
	time.Sleep(100 * time.Millisecond)

	return server, cancel
}

func decodeHealth(t *testing.T, resp *http.Response) healthResponse {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	var response healthResponse
	if err := json.Unmarshal(body, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return response
}

func TestHealthServer_Liveness(t *testing.T) {
	_, cancel := startHealthServer(t, "localhost:19191")
	defer cancel()

	resp, err := http.Get("http://localhost:19191/health")
	if err != nil {
		t.Fatalf("failed to call /health: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	if got := decodeHealth(t, resp); got.Status != "ok" {
		t.Errorf("expected status 'ok', got '%s'", got.Status)
	}
}

func TestHealthServer_Readiness_NotReady(t *testing.T) {
	_, cancel := startHealthServer(t, "localhost:19192")
	defer cancel()

	resp, err := http.Get("http://localhost:19192/health/ready")
	if err != nil {
		t.Fatalf("failed to call /health/ready: %v", err)
	}

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", resp.StatusCode)
	}

	if got := decodeHealth(t, resp); got.Status != "not ready" {
		t.Errorf("expected status 'not ready', got '%s'", got.Status)
	}
}

func TestHealthServer_Readiness_Transition(t *testing.T) {
	server, cancel := startHealthServer(t, "localhost:19193")
	defer cancel()

	// 初期状態は not ready
	resp, err := http.Get("http://localhost:19193/health/ready")
	if err != nil {
		t.Fatalf("failed to call /health/ready: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 initially, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	server.SetReady(true)

	resp, err = http.Get("http://localhost:19193/health/ready")
	if err != nil {
		t.Fatalf("failed to call /health/ready after SetReady: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 after SetReady(true), got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	server.SetReady(false)

	resp, err = http.Get("http://localhost:19193/health/ready")
	if err != nil {
		t.Fatalf("failed to call /health/ready after SetReady(false): %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 after SetReady(false), got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestHealthServer_GracefulShutdown(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	server := NewHealthServer("localhost:19194", logger)

	ctx, cancel := context.WithCancel(context.Background())

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://localhost:19194/health")
	if err != nil {
		t.Fatalf("server not running: %v", err)
	}
	_ = resp.Body.Close()

	cancel()

	select {
	case err := <-errChan:
		if err != http.ErrServerClosed {
			t.Errorf("expected http.ErrServerClosed, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("shutdown timeout")
	}

	if _, err = http.Get("http://localhost:19194/health"); err == nil {
		t.Error("expected connection error after shutdown, but got success")
	}
}

func TestNewHealthServer(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	server := NewHealthServer(":9091", logger)

	if server.addr != ":9091" {
		t.Errorf("expected addr ':9091', got '%s'", server.addr)
	}

	if server.isReady == nil {
		t.Fatal("expected isReady to be initialized")
	}

	// Should start as not ready
	if server.isReady.Load() {
		t.Error("expected isReady to be false initially")
	}
}
