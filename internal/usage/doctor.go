package usage

import (
	"context"
	"fmt"
	"time"
)

type DoctorReport struct {
	Checks []DoctorCheck `json:"checks"`
}

type DoctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Details string `json:"details"`
}

// RunDoctor checks every dependency the segment touches: stored
// credentials, the cache file, and the usage endpoint.
func RunDoctor(ctx context.Context) DoctorReport {
	seg := NewSegment()

	var checks []DoctorCheck
	checks = append(checks, checkCredentials(seg.tokens))
	checks = append(checks, checkCache(seg.cache))
	checks = append(checks, checkEndpoint(ctx, seg))
	return DoctorReport{Checks: checks}
}

// Healthy reports whether the segment would produce output: live data
// or a readable cache.
func (r DoctorReport) Healthy() bool {
	for _, c := range r.Checks {
		if (c.Name == "usage endpoint" || c.Name == "usage cache") && c.OK {
			return true
		}
	}
	return false
}

func checkCredentials(tokens TokenProvider) DoctorCheck {
	if _, ok := tokens.Token(); !ok {
		return DoctorCheck{
			Name:    "credentials",
			OK:      false,
			Details: "no OAuth token in the keychain or credentials file",
		}
	}
	return DoctorCheck{
		Name:    "credentials",
		OK:      true,
		Details: "OAuth token found",
	}
}

func checkCache(cache *CacheStore) DoctorCheck {
	path, ok := cache.resolvePath()
	if !ok {
		return DoctorCheck{
			Name:    "usage cache",
			OK:      false,
			Details: "home directory unavailable; caching is disabled",
		}
	}
	record := cache.Load()
	if record == nil {
		return DoctorCheck{
			Name:    "usage cache",
			OK:      false,
			Details: fmt.Sprintf("no readable cache at %s", path),
		}
	}
	age := "unknown age"
	if cachedAt, err := time.Parse(time.RFC3339, record.CachedAt); err == nil {
		age = fmt.Sprintf("written %s ago", time.Since(cachedAt).Round(time.Second))
	}
	return DoctorCheck{
		Name:    "usage cache",
		OK:      true,
		Details: fmt.Sprintf("found %s, %s", path, age),
	}
}

func checkEndpoint(ctx context.Context, seg *Segment) DoctorCheck {
	token, ok := seg.tokens.Token()
	if !ok {
		return DoctorCheck{
			Name:    "usage endpoint",
			OK:      false,
			Details: "skipped: no credentials",
		}
	}
	cfg := seg.loadSettings()
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	snap, fetched := seg.client.Fetch(fetchCtx, cfg.baseURL, token)
	if !fetched {
		return DoctorCheck{
			Name:    "usage endpoint",
			OK:      false,
			Details: fmt.Sprintf("GET %s%s failed within %s", cfg.baseURL, usageEndpointPath, cfg.timeout),
		}
	}
	return DoctorCheck{
		Name: "usage endpoint",
		OK:   true,
		Details: fmt.Sprintf("five-hour %.0f%%, seven-day %.0f%%",
			snap.FiveHourUtilization, snap.SevenDayUtilization),
	}
}
