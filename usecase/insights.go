package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/croquete1/Fitness-Pro-sub001/domains/insights"
	"github.com/sirupsen/logrus"
)

const (
	maxLookbackDays = 180
	minFetchLimit   = 480
	maxFetchLimit   = 2000
)

type InsightsService struct {
	store    insights.IMessageStore
	resolver insights.INameResolver
	fallback insights.IFallbackProvider
}

func NewInsightsService(store insights.IMessageStore, resolver insights.INameResolver, fallback insights.IFallbackProvider) *InsightsService {
	return &InsightsService{
		store:    store,
		resolver: resolver,
		fallback: fallback,
	}
}

// GetMessagingDashboard fetches the viewer's recent events and runs the
// full aggregation pipeline. A failing store degrades to the sample batch
// rather than surfacing an error, so the dashboard always renders.
func (s *InsightsService) GetMessagingDashboard(ctx context.Context, viewerID string, opts insights.DashboardOptions) (*insights.Dashboard, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	days := insights.ClampRangeDays(opts.RangeDays)

	lookback := lookbackDaysFor(days)
	since := now.AddDate(0, 0, -lookback)
	limit := fetchLimitFor(lookback)

	events, err := s.store.ListEventsForViewer(ctx, viewerID, since, limit)
	if err != nil {
		logrus.Warnf("⚠️  Insights: message store unavailable, serving sample data: %v", err)
		events = s.fallback.SampleEvents(viewerID, now)
	}

	names := s.resolveParticipantNames(ctx, viewerID, events)

	return buildDashboard(viewerID, events, now, days, names), nil
}

// lookbackDaysFor extends the fetch window past the reporting range so the
// previous window and cross-boundary reply pairs are covered, capped at
// 180 days
func lookbackDaysFor(rangeDays int) int {
	lookback := rangeDays * 2
	if withBuffer := rangeDays + 14; withBuffer > lookback {
		lookback = withBuffer
	}
	if lookback > maxLookbackDays {
		lookback = maxLookbackDays
	}
	return lookback
}

// fetchLimitFor scales the row cap with the lookback window, roughly one
// message per hour, clamped to a sane band
func fetchLimitFor(lookbackDays int) int {
	limit := lookbackDays * 24
	if limit < minFetchLimit {
		limit = minFetchLimit
	}
	if limit > maxFetchLimit {
		limit = maxFetchLimit
	}
	return limit
}

// resolveParticipantNames collects the non-viewer participant ids from the
// batch and resolves display names best effort. Resolution failures only
// degrade labels, never the dashboard.
func (s *InsightsService) resolveParticipantNames(ctx context.Context, viewerID string, events []insights.MessageEvent) map[string]string {
	seen := make(map[string]struct{})
	names := make(map[string]string)
	for _, event := range events {
		for _, id := range []string{event.FromID, event.ToID} {
			if id == "" || id == viewerID {
				continue
			}
			seen[id] = struct{}{}
		}
		// inline names from the events themselves serve as a first layer
		if event.FromName != "" && event.FromID != "" && event.FromID != viewerID {
			names[event.FromID] = event.FromName
		}
		if event.ToName != "" && event.ToID != "" && event.ToID != viewerID {
			names[event.ToID] = event.ToName
		}
	}
	if len(seen) == 0 || s.resolver == nil {
		return names
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	resolved, err := s.resolver.ResolveNames(ctx, ids)
	if err != nil {
		logrus.Debugf("Insights: name resolution failed for %d ids: %v", len(ids), err)
		return names
	}
	for id, name := range resolved {
		names[id] = name
	}
	return names
}
