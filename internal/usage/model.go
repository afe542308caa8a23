package usage

import "time"

// Snapshot is the normalized rate-limit usage snapshot for the five-hour
// and seven-day windows. Utilization is a server-reported percentage in
// the 0-100 range and is intentionally not clamped.
type Snapshot struct {
	FiveHourUtilization float64
	SevenDayUtilization float64
	FiveHourResetsAt    *string
	SevenDayResetsAt    *string
}

// CacheRecord is the persisted form of a Snapshot.
type CacheRecord struct {
	FiveHourUtilization float64 `json:"five_hour_utilization"`
	SevenDayUtilization float64 `json:"seven_day_utilization"`
	FiveHourResetsAt    *string `json:"five_hour_resets_at,omitempty"`
	SevenDayResetsAt    *string `json:"seven_day_resets_at,omitempty"`
	// Legacy field used before reset timestamps were split per window.
	// Read on load for backfill, never written back.
	LegacyResetsAt *string `json:"resets_at,omitempty"`
	CachedAt       string  `json:"cached_at"`
}

// Snapshot returns the usage data carried by the record.
func (r CacheRecord) Snapshot() Snapshot {
	return Snapshot{
		FiveHourUtilization: r.FiveHourUtilization,
		SevenDayUtilization: r.SevenDayUtilization,
		FiveHourResetsAt:    r.FiveHourResetsAt,
		SevenDayResetsAt:    r.SevenDayResetsAt,
	}
}

func newCacheRecord(snap Snapshot, now time.Time) CacheRecord {
	return CacheRecord{
		FiveHourUtilization: snap.FiveHourUtilization,
		SevenDayUtilization: snap.SevenDayUtilization,
		FiveHourResetsAt:    snap.FiveHourResetsAt,
		SevenDayResetsAt:    snap.SevenDayResetsAt,
		CachedAt:            now.UTC().Format(time.RFC3339),
	}
}

type usageResponse struct {
	FiveHour usageWindow `json:"five_hour"`
	SevenDay usageWindow `json:"seven_day"`
}

type usageWindow struct {
	Utilization float64 `json:"utilization"`
	ResetsAt    *string `json:"resets_at"`
}
