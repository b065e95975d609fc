package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGarminHealthHandler(t *testing.T) {
	sc := NewServerContext(context.Background(), nil)
	hc := NewHealthChecker(sc)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	hc.GarminHealthHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp GarminHealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.Server != "Garmin Connect MCP" {
		t.Errorf("server = %q, want Garmin Connect MCP", resp.Server)
	}
	// No Garmin client configured means the session is reported down, while
	// the endpoint itself still answers 200
	if resp.GarminConnected {
		t.Error("garmin_connected = true with no client")
	}
}

func TestLivenessHandler(t *testing.T) {
	hc := NewHealthChecker(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	hc.LivenessHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestReadinessHandler(t *testing.T) {
	sc := NewServerContext(context.Background(), nil)
	hc := NewHealthChecker(sc)

	probe := func() (*HealthResponse, int) {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		hc.ReadinessHandler().ServeHTTP(rec, req)
		var resp HealthResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return &resp, rec.Code
	}

	resp, code := probe()
	if code != http.StatusOK {
		t.Fatalf("status = %d, want %d", code, http.StatusOK)
	}
	if resp.Checks["ready"] != "ok" {
		t.Errorf("ready check = %q, want ok", resp.Checks["ready"])
	}

	hc.SetReady(false)
	resp, code = probe()
	if code != http.StatusServiceUnavailable {
		t.Errorf("status after SetReady(false) = %d, want %d", code, http.StatusServiceUnavailable)
	}
	if resp.Status != "not ready" {
		t.Errorf("status = %q, want not ready", resp.Status)
	}

	hc.SetReady(true)
	_, code = probe()
	if code != http.StatusOK {
		t.Errorf("status after SetReady(true) = %d, want %d", code, http.StatusOK)
	}
}

func TestReadinessDuringShutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), nil)
	hc := NewHealthChecker(sc)

	sc.Shutdown()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	hc.ReadinessHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status during shutdown = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestDetailedHealthHandler(t *testing.T) {
	sc := NewServerContext(context.Background(), nil)
	hc := NewHealthChecker(sc)

	req := httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil)
	rec := httptest.NewRecorder()
	hc.DetailedHealthHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp DetailedHealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Uptime == "" {
		t.Error("uptime is empty")
	}
}
