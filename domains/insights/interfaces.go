package insights

import (
	"context"
	"time"
)

// DashboardOptions tunes one dashboard computation
type DashboardOptions struct {
	Now       time.Time // zero value means time.Now()
	RangeDays int       // zero means DefaultRangeDays
}

// IMessageStore supplies raw events for a viewer within a lookback window
type IMessageStore interface {
	// ListEventsForViewer returns events where the viewer is sender or
	// recipient, sent at or after since, ordered by recency, capped at limit.
	ListEventsForViewer(ctx context.Context, viewerID string, since time.Time, limit int) ([]MessageEvent, error)
}

// INameResolver maps participant ids to display names, best effort.
// Callers must tolerate missing entries.
type INameResolver interface {
	ResolveNames(ctx context.Context, ids []string) (map[string]string, error)
}

// IFallbackProvider supplies a structurally valid substitute batch when
// the message store is unavailable, so the engine never receives
// "no data" as an error state
type IFallbackProvider interface {
	SampleEvents(viewerID string, now time.Time) []MessageEvent
}

// IInsightsService defines the messaging analytics surface
type IInsightsService interface {
	GetMessagingDashboard(ctx context.Context, viewerID string, opts DashboardOptions) (*Dashboard, error)
}
