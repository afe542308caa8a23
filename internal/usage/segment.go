package usage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/olliecrow/claude_usage_line/internal/config"
	"github.com/olliecrow/claude_usage_line/internal/segment"
)

const SegmentID = "usage"

const (
	defaultAPIBaseURL           = "https://api.anthropic.com"
	defaultCacheDurationSeconds = 300
	defaultTimeoutSeconds       = 2

	secondarySeparator = "· "
)

// Segment renders the usage status-line segment. Each Collect performs
// at most one cache read, one bounded network fetch, and one cache
// write; every failure degrades to cached data or an absent segment.
type Segment struct {
	tokens  TokenProvider
	options func() map[string]any
	cache   *CacheStore
	client  *Client
}

func NewSegment() *Segment {
	return &Segment{
		tokens:  NewOAuthTokenProvider(),
		options: func() map[string]any { return config.Load().Options(SegmentID) },
		cache:   NewCacheStore(),
		client:  NewClient(),
	}
}

func (s *Segment) ID() string {
	return SegmentID
}

type settings struct {
	baseURL       string
	cacheDuration time.Duration
	timeout       time.Duration

	periodRaw string
	period    ResetPeriod
	periodOK  bool

	formatRaw string
	format    ResetFormat
	formatOK  bool
}

func (s *Segment) loadSettings() settings {
	opts := s.options()
	out := settings{
		baseURL:       config.StringOption(opts, "api_base_url", defaultAPIBaseURL),
		cacheDuration: time.Duration(config.IntOption(opts, "cache_duration", defaultCacheDurationSeconds)) * time.Second,
		timeout:       time.Duration(config.IntOption(opts, "timeout", defaultTimeoutSeconds)) * time.Second,
		periodRaw:     config.StringOption(opts, "reset_period", ""),
		formatRaw:     config.StringOption(opts, "reset_format", ""),
		period:        ResetPeriodSession,
		periodOK:      true,
		format:        ResetFormatTime,
		formatOK:      true,
	}
	if out.periodRaw != "" {
		out.period, out.periodOK = ParseResetPeriod(out.periodRaw)
	}
	if out.formatRaw != "" {
		out.format, out.formatOK = ParseResetFormat(out.formatRaw)
	}
	return out
}

// Collect produces the segment output for one prompt render, or nil
// when no token and no usable data are available.
func (s *Segment) Collect(ctx context.Context) *segment.Data {
	token, ok := s.tokens.Token()
	if !ok {
		return nil
	}
	cfg := s.loadSettings()

	snap := s.resolveSnapshot(ctx, token, cfg)
	if snap == nil {
		return nil
	}

	resetsAt := resetTimestampFor(cfg.period, *snap)
	resetStr := FormatResetTime(resetsAt)
	if cfg.format == ResetFormatDuration {
		resetStr = FormatResetDuration(resetsAt)
	}

	metadata := map[string]string{
		"dynamic_icon":          IconFor(snap.SevenDayUtilization / 100),
		"five_hour_utilization": strconv.FormatFloat(snap.FiveHourUtilization, 'f', -1, 64),
		"seven_day_utilization": strconv.FormatFloat(snap.SevenDayUtilization, 'f', -1, 64),
		"reset_period":          cfg.period.String(),
		"reset_format":          cfg.format.String(),
	}
	if !cfg.periodOK {
		metadata["invalid_reset_period"] = cfg.periodRaw
	}
	if !cfg.formatOK {
		metadata["invalid_reset_format"] = cfg.formatRaw
	}

	return &segment.Data{
		Primary:   fmt.Sprintf("%d%%", int(math.Round(snap.FiveHourUtilization))),
		Secondary: secondarySeparator + resetStr,
		Metadata:  metadata,
	}
}

// Refresh resolves the current snapshot through the same chain Collect
// uses, reporting why nothing was available.
func (s *Segment) Refresh(ctx context.Context) (*Snapshot, error) {
	token, ok := s.tokens.Token()
	if !ok {
		return nil, errors.New("no stored credentials")
	}
	snap := s.resolveSnapshot(ctx, token, s.loadSettings())
	if snap == nil {
		return nil, errors.New("usage data unavailable: fetch failed and no cache exists")
	}
	return snap, nil
}

// resolveSnapshot works through the fallback chain in order: fresh
// cache, network fetch with write-back, stale cache, nothing.
func (s *Segment) resolveSnapshot(ctx context.Context, token string, cfg settings) *Snapshot {
	cached := s.cache.Load()
	if cached != nil && s.cache.IsValid(*cached, cfg.cacheDuration) {
		snap := cached.Snapshot()
		return &snap
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()
	if snap, ok := s.client.Fetch(fetchCtx, cfg.baseURL, token); ok {
		s.cache.SaveSnapshot(*snap)
		return snap
	}

	if cached != nil {
		snap := cached.Snapshot()
		return &snap
	}
	return nil
}

// resetTimestampFor picks the configured window's reset timestamp with
// the other window as fallback when the preferred one is absent.
func resetTimestampFor(period ResetPeriod, snap Snapshot) *string {
	if period == ResetPeriodWeekly {
		if snap.SevenDayResetsAt != nil {
			return snap.SevenDayResetsAt
		}
		return snap.FiveHourResetsAt
	}
	if snap.FiveHourResetsAt != nil {
		return snap.FiveHourResetsAt
	}
	return snap.SevenDayResetsAt
}
