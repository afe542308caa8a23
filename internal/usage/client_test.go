package usage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testClient() *Client {
	return &Client{
		settingsPath: func() (string, bool) { return "", false },
		userAgent:    func() string { return toolName },
	}
}

func TestClientFetchSuccess(t *testing.T) {
	var gotAuth, gotBeta, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/oauth/usage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotBeta = r.Header.Get("anthropic-beta")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"five_hour": {"utilization": 42.0, "resets_at": "2026-03-14T15:00:00Z"},
			"seven_day": {"utilization": 10.0}
		}`))
	}))
	defer server.Close()

	snap, ok := testClient().Fetch(context.Background(), server.URL, "test-token")
	if !ok {
		t.Fatalf("expected fetch to succeed")
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotBeta != betaHeader {
		t.Fatalf("unexpected beta header %q", gotBeta)
	}
	if gotAgent != toolName {
		t.Fatalf("unexpected user agent %q", gotAgent)
	}
	if snap.FiveHourUtilization != 42 || snap.SevenDayUtilization != 10 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.FiveHourResetsAt == nil || *snap.FiveHourResetsAt != "2026-03-14T15:00:00Z" {
		t.Fatalf("unexpected five-hour reset: %+v", snap.FiveHourResetsAt)
	}
	if snap.SevenDayResetsAt != nil {
		t.Fatalf("expected absent seven-day reset")
	}
}

func TestClientFetchTrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/oauth/usage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"five_hour":{"utilization":1},"seven_day":{"utilization":2}}`))
	}))
	defer server.Close()

	if _, ok := testClient().Fetch(context.Background(), server.URL+"/", "token"); !ok {
		t.Fatalf("expected fetch to succeed")
	}
}

func TestClientFetchRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"five_hour":{"utilization":1},"seven_day":{"utilization":2}}`))
	}))
	defer server.Close()

	if _, ok := testClient().Fetch(context.Background(), server.URL, "token"); ok {
		t.Fatalf("expected non-200 response to yield no data")
	}
}

func TestClientFetchRejectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"five_hour":`))
	}))
	defer server.Close()

	if _, ok := testClient().Fetch(context.Background(), server.URL, "token"); ok {
		t.Fatalf("expected malformed body to yield no data")
	}
}

func TestClientFetchConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	if _, ok := testClient().Fetch(context.Background(), server.URL, "token"); ok {
		t.Fatalf("expected connection failure to yield no data")
	}
}

func TestProxyFromSettingsPrefersHTTPS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"env": {"HTTPS_PROXY": "http://secure.example:8443", "HTTP_PROXY": "http://plain.example:8080"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	proxy, ok := proxyFromSettings(path)
	if !ok {
		t.Fatalf("expected a proxy")
	}
	if proxy.Host != "secure.example:8443" {
		t.Fatalf("expected HTTPS proxy to win, got %s", proxy.Host)
	}
}

func TestProxyFromSettingsFallsBackToHTTP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"env": {"HTTP_PROXY": "http://plain.example:8080"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	proxy, ok := proxyFromSettings(path)
	if !ok {
		t.Fatalf("expected a proxy")
	}
	if proxy.Host != "plain.example:8080" {
		t.Fatalf("expected HTTP proxy, got %s", proxy.Host)
	}
}

func TestProxyFromSettingsFailsSoft(t *testing.T) {
	if _, ok := proxyFromSettings(filepath.Join(t.TempDir(), "missing.json")); ok {
		t.Fatalf("expected no proxy for missing settings file")
	}

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if _, ok := proxyFromSettings(path); ok {
		t.Fatalf("expected no proxy for malformed settings")
	}

	if err := os.WriteFile(path, []byte(`{"env": {}}`), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if _, ok := proxyFromSettings(path); ok {
		t.Fatalf("expected no proxy when keys are absent")
	}
}
