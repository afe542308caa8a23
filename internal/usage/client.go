package usage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	usageEndpointPath = "/api/oauth/usage"
	betaHeader        = "oauth-2025-04-20"

	maxResponseBytes = 1_000_000
)

// Client fetches the current usage snapshot from the remote endpoint.
// Every failure mode collapses to "no data"; the caller bounds the
// request through its context.
type Client struct {
	settingsPath func() (string, bool)
	userAgent    func() string
}

func NewClient() *Client {
	return &Client{
		settingsPath: defaultSettingsPath,
		userAgent:    toolUserAgent,
	}
}

// Fetch issues one authenticated GET against {baseURL}/api/oauth/usage
// and returns the decoded snapshot. Connection failures, non-200
// responses, and undecodable bodies all return (nil, false).
func (c *Client) Fetch(ctx context.Context, baseURL, token string) (*Snapshot, bool) {
	endpoint := strings.TrimRight(baseURL, "/") + usageEndpointPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("anthropic-beta", betaHeader)
	req.Header.Set("User-Agent", c.userAgent())

	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, false
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil || res.StatusCode != http.StatusOK {
		return nil, false
	}

	var payload usageResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false
	}
	return &Snapshot{
		FiveHourUtilization: payload.FiveHour.Utilization,
		SevenDayUtilization: payload.SevenDay.Utilization,
		FiveHourResetsAt:    payload.FiveHour.ResetsAt,
		SevenDayResetsAt:    payload.SevenDay.ResetsAt,
	}, true
}

func (c *Client) httpClient() *http.Client {
	if path, ok := c.settingsPath(); ok {
		if proxy, ok := proxyFromSettings(path); ok {
			return &http.Client{Transport: &http.Transport{Proxy: http.ProxyURL(proxy)}}
		}
	}
	return &http.Client{}
}

func defaultSettingsPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".claude", "settings.json"), true
}

// proxyFromSettings reads the settings file and returns the configured
// proxy URL, preferring HTTPS_PROXY over HTTP_PROXY. Missing or
// malformed settings simply mean no proxy.
func proxyFromSettings(path string) (*url.URL, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var settings struct {
		Env struct {
			HTTPSProxy string `json:"HTTPS_PROXY"`
			HTTPProxy  string `json:"HTTP_PROXY"`
		} `json:"env"`
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, false
	}
	raw := strings.TrimSpace(settings.Env.HTTPSProxy)
	if raw == "" {
		raw = strings.TrimSpace(settings.Env.HTTPProxy)
	}
	if raw == "" {
		return nil, false
	}
	proxy, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	return proxy, true
}
