package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/croquete1/Fitness-Pro-sub001/domains/insights"
	"github.com/croquete1/Fitness-Pro-sub001/pkg/utils"
)

// A reply only counts when the outbound lands within 14 days of the
// inbound it answers; older pairings are treated as abandoned threads.
const maxReplyLatencyMinutes = 14 * 24 * 60

const messagePreviewLength = 80

// conversationState accumulates per-conversation facts during the single
// pass. It exists only for the duration of one buildDashboard call.
type conversationState struct {
	key           string
	counterpartID string // empty for synthetic (thread-hint) keys

	// current-range counters
	total         int
	inbound       int
	outbound      int
	channelCounts map[insights.Channel]int

	// reply matching; sums cover valid matches from the whole batch
	replySum       float64
	replyCount     int
	pendingInRange int
	pendingQueue   []time.Time // FIFO of unanswered inbound timestamps

	// latest event across the entire batch, not range-limited
	lastMessageAt *time.Time
	lastDirection insights.Direction
}

// buildDashboard runs the full aggregation pipeline over one event batch.
// It is a pure function: identical input and reference time yield an
// identical result, and all working state is discarded on return.
func buildDashboard(viewerID string, events []insights.MessageEvent, now time.Time, rangeDays int, names map[string]string) *insights.Dashboard {
	days := insights.ClampRangeDays(rangeDays)
	current, previous := insights.ResolveWindows(now, days)

	sorted := make([]insights.MessageEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].SentAt, sorted[j].SentAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.Before(*tj)
	})

	conversations := make(map[string]*conversationState)
	var order []string // first-seen key order keeps downstream reductions deterministic
	var latencySample []float64
	var totals insights.Totals
	timeline := newTimeline(current)
	channelCounts := make(map[insights.Channel]int)
	participants := make(map[string]struct{})
	rows := make([]insights.MessageRow, 0, len(sorted))

	for _, event := range sorted {
		direction := insights.ClassifyDirection(viewerID, event)
		channel := insights.CanonicalChannel(event.Channel)
		key := insights.ConversationKey(viewerID, event, direction)

		state := conversations[key]
		if state == nil {
			state = &conversationState{key: key, channelCounts: make(map[insights.Channel]int)}
			if !insights.IsSyntheticKey(key) {
				state.counterpartID = key
			}
			conversations[key] = state
			order = append(order, key)
		}

		if event.FromID != "" && event.FromID != viewerID {
			participants[event.FromID] = struct{}{}
		}
		if event.ToID != "" && event.ToID != viewerID {
			participants[event.ToID] = struct{}{}
		}

		// events without a parsable timestamp are classified but excluded
		// from every range-scoped statistic
		inRange := event.SentAt != nil && current.Contains(*event.SentAt)
		inPrevious := event.SentAt != nil && previous.Contains(*event.SentAt)

		if inRange {
			totals.Total++
			state.total++
			state.channelCounts[channel]++
			channelCounts[channel]++
			timeline.add(*event.SentAt, direction)
		}
		if inPrevious {
			totals.PreviousTotal++
		}

		switch direction {
		case insights.DirectionInbound:
			if inRange {
				totals.Inbound++
				state.inbound++
			}
			if inPrevious {
				totals.PreviousInbound++
			}
			if event.SentAt != nil {
				state.pendingQueue = append(state.pendingQueue, *event.SentAt)
				if inRange {
					state.pendingInRange++
				}
			}
		case insights.DirectionOutbound:
			if inRange {
				totals.Outbound++
				state.outbound++
			}
			if inPrevious {
				totals.PreviousOutbound++
			}
			if event.SentAt != nil && len(state.pendingQueue) > 0 {
				inboundAt := state.pendingQueue[0]
				state.pendingQueue = state.pendingQueue[1:]
				latency := event.SentAt.Sub(inboundAt).Minutes()
				if latency >= 0 && latency < maxReplyLatencyMinutes {
					state.replySum += latency
					state.replyCount++
					// a reply closes a pending item even when the pairing
					// spans the range boundary
					if state.pendingInRange > 0 {
						state.pendingInRange--
					}
					if inRange {
						totals.Replies++
						latencySample = append(latencySample, latency)
						timeline.addReply(*event.SentAt)
					}
					if inPrevious {
						totals.PreviousReplies++
					}
				}
				// stale pairing: the popped inbound is dropped, not
				// re-queued, so abandoned threads cannot grow the queue
			}
		}

		if event.SentAt != nil {
			if state.lastMessageAt == nil || event.SentAt.After(*state.lastMessageAt) {
				t := *event.SentAt
				state.lastMessageAt = &t
				state.lastDirection = direction
			}
		}

		rows = append(rows, insights.MessageRow{
			ID:           event.ID,
			Preview:      utils.TruncateString(event.Body, messagePreviewLength),
			Direction:    direction,
			Channel:      channel,
			Counterpart:  displayName(names, key, state.counterpartID),
			SentAt:       event.SentAt,
			RelativeTime: formatRelative(now, event.SentAt),
		})
	}

	summaries := buildConversationSummaries(conversations, order, names)
	highlights := buildHighlights(summaries)
	heroes := buildHeroes(totals, latencySample, len(summaries), len(participants))

	sort.SliceStable(summaries, func(i, j int) bool {
		ti, tj := summaries[i].LastMessageAt, summaries[j].LastMessageAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := rows[i].SentAt, rows[j].SentAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})

	return &insights.Dashboard{
		Range: insights.RangeInfo{
			Days:  days,
			Since: current.Since,
			Until: current.Until,
			Label: fmt.Sprintf("Last %d days", days),
		},
		Totals:        totals,
		Heroes:        heroes,
		Timeline:      timeline.points(),
		Channels:      buildChannelSegments(channelCounts, totals.Total),
		Conversations: summaries,
		Messages:      rows,
		Highlights:    highlights,
	}
}

// timelineBuckets allocates one bucket per calendar day of the current
// window, inclusive of both endpoints
type timelineBuckets struct {
	keys    []string
	buckets map[string]*insights.TimelinePoint
	loc     *time.Location
}

func newTimeline(current insights.Window) *timelineBuckets {
	tb := &timelineBuckets{
		buckets: make(map[string]*insights.TimelinePoint),
		loc:     current.Since.Location(),
	}
	for day := current.Since; !day.After(current.Until); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		tb.keys = append(tb.keys, key)
		tb.buckets[key] = &insights.TimelinePoint{Day: key, Label: day.Format("Jan 2")}
	}
	return tb
}

func (tb *timelineBuckets) add(t time.Time, direction insights.Direction) {
	bucket := tb.buckets[t.In(tb.loc).Format("2006-01-02")]
	if bucket == nil {
		return
	}
	switch direction {
	case insights.DirectionInbound:
		bucket.Inbound++
	case insights.DirectionOutbound:
		bucket.Outbound++
	}
}

func (tb *timelineBuckets) addReply(outboundAt time.Time) {
	if bucket := tb.buckets[outboundAt.In(tb.loc).Format("2006-01-02")]; bucket != nil {
		bucket.Replies++
	}
}

func (tb *timelineBuckets) points() []insights.TimelinePoint {
	out := make([]insights.TimelinePoint, 0, len(tb.keys))
	for _, key := range tb.keys {
		out = append(out, *tb.buckets[key])
	}
	return out
}

// buildChannelSegments turns the in-range channel tally into the
// distribution. A zero batch still yields one placeholder segment so
// consumers never receive an empty set.
func buildChannelSegments(counts map[insights.Channel]int, total int) []insights.ChannelSegment {
	if total == 0 {
		return []insights.ChannelSegment{{
			Channel: insights.ChannelInApp,
			Label:   channelLabel(insights.ChannelInApp),
			Tone:    channelTone(insights.ChannelInApp),
		}}
	}

	segments := make([]insights.ChannelSegment, 0, len(counts))
	for channel, count := range counts {
		segments = append(segments, insights.ChannelSegment{
			Channel:    channel,
			Label:      channelLabel(channel),
			Count:      count,
			Percentage: float64(count) / float64(total),
			Tone:       channelTone(channel),
		})
	}
	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Count == segments[j].Count {
			return segments[i].Channel < segments[j].Channel
		}
		return segments[i].Count > segments[j].Count
	})
	return segments
}

// buildConversationSummaries rolls up every conversation with at least one
// event in the current range, in first-seen order
func buildConversationSummaries(conversations map[string]*conversationState, order []string, names map[string]string) []insights.ConversationSummary {
	summaries := make([]insights.ConversationSummary, 0, len(order))
	for _, key := range order {
		state := conversations[key]
		if state.total == 0 {
			continue
		}

		var average *float64
		if state.replyCount > 0 {
			avg := state.replySum / float64(state.replyCount)
			average = &avg
		}

		summaries = append(summaries, insights.ConversationSummary{
			Key:                    state.key,
			CounterpartID:          state.counterpartID,
			CounterpartName:        displayName(names, state.key, state.counterpartID),
			TotalMessages:          state.total,
			Inbound:                state.inbound,
			Outbound:               state.outbound,
			AverageResponseMinutes: average,
			PendingResponses:       state.pendingInRange,
			DominantChannel:        dominantChannel(state.channelCounts),
			LastMessageAt:          state.lastMessageAt,
			LastDirection:          state.lastDirection,
		})
	}
	return summaries
}

// dominantChannel picks the channel with the highest current-range count.
// Ties go to the lexicographically smaller channel key so the result is
// stable under input reordering.
func dominantChannel(counts map[insights.Channel]int) insights.Channel {
	best := insights.ChannelInApp
	bestCount := 0
	for channel, count := range counts {
		if count > bestCount || (count == bestCount && channel < best) {
			best = channel
			bestCount = count
		}
	}
	return best
}

// buildHeroes derives the four headline KPI cards
func buildHeroes(totals insights.Totals, latencySample []float64, activeConversations, distinctParticipants int) []insights.HeroMetric {
	heroes := make([]insights.HeroMetric, 0, 4)

	totalTrend := trendValue(float64(totals.Total), float64(totals.PreviousTotal))
	heroes = append(heroes, insights.HeroMetric{
		Key:   "messages-total",
		Label: "Messages",
		Value: formatCount(totals.Total),
		Hint:  fmt.Sprintf("%s received", formatCount(totals.Inbound)),
		Trend: totalTrend,
		Tone:  deltaTone(totals.Total, totals.PreviousTotal),
	})

	outboundShare := float64(totals.Outbound) / float64(maxInt(1, totals.Total))
	heroes = append(heroes, insights.HeroMetric{
		Key:   "messages-outbound",
		Label: "Sent by you",
		Value: formatCount(totals.Outbound),
		Hint:  fmt.Sprintf("%s of all messages", formatPercent(outboundShare)),
		Trend: trendValue(float64(totals.Outbound), float64(totals.PreviousOutbound)),
		Tone:  deltaTone(totals.Outbound, totals.PreviousOutbound),
	})

	medianLatency := median(latencySample)
	replyRate := float64(totals.Replies) / float64(maxInt(1, totals.Inbound))
	previousReplyRate := float64(totals.PreviousReplies) / float64(maxInt(1, totals.PreviousInbound))
	responseValue := "—"
	responseTone := toneNeutral
	if len(latencySample) > 0 {
		responseValue = formatDurationMinutes(medianLatency)
		if medianLatency <= 60 {
			responseTone = tonePositive
		}
	}
	heroes = append(heroes, insights.HeroMetric{
		Key:   "response-time",
		Label: "Median response time",
		Value: responseValue,
		Hint:  fmt.Sprintf("%s of inbound answered", formatPercent(replyRate)),
		Trend: trendValue(replyRate, previousReplyRate),
		Tone:  responseTone,
	})

	heroes = append(heroes, insights.HeroMetric{
		Key:   "conversations-active",
		Label: "Active conversations",
		Value: formatCount(activeConversations),
		Hint:  fmt.Sprintf("%s reached overall", formatCount(distinctParticipants)),
		Trend: nil,
		Tone:  toneNeutral,
	})

	return heroes
}

// buildHighlights selects at most three standout conversations, one per
// category, via independent top-1 reductions over the active set
func buildHighlights(summaries []insights.ConversationSummary) []insights.Highlight {
	var busiest, fastest, mostPending *insights.ConversationSummary
	for i := range summaries {
		c := &summaries[i]
		if busiest == nil || c.TotalMessages > busiest.TotalMessages {
			busiest = c
		}
		if c.AverageResponseMinutes != nil &&
			(fastest == nil || *c.AverageResponseMinutes < *fastest.AverageResponseMinutes) {
			fastest = c
		}
		if c.PendingResponses > 0 &&
			(mostPending == nil || c.PendingResponses > mostPending.PendingResponses) {
			mostPending = c
		}
	}

	var highlights []insights.Highlight
	if busiest != nil {
		highlights = append(highlights, insights.Highlight{
			ID:          "busiest-conversation",
			Title:       "Busiest conversation",
			Description: fmt.Sprintf("%s exchanged the most messages this period", busiest.CounterpartName),
			Value:       fmt.Sprintf("%d messages", busiest.TotalMessages),
			Tone:        toneNeutral,
			Meta:        busiest.CounterpartName,
		})
	}
	if fastest != nil {
		highlights = append(highlights, insights.Highlight{
			ID:          "fastest-response",
			Title:       "Fastest replies",
			Description: fmt.Sprintf("You reply quickest to %s", fastest.CounterpartName),
			Value:       formatDurationMinutes(*fastest.AverageResponseMinutes),
			Tone:        tonePositive,
			Meta:        fastest.CounterpartName,
		})
	}
	if mostPending != nil {
		highlights = append(highlights, insights.Highlight{
			ID:          "most-pending",
			Title:       "Waiting on you",
			Description: fmt.Sprintf("%s has messages without a reply", mostPending.CounterpartName),
			Value:       fmt.Sprintf("%d pending", mostPending.PendingResponses),
			Tone:        toneWarning,
			Meta:        mostPending.CounterpartName,
		})
	}
	return highlights
}

// median uses the standard sorted-sample formula: the middle value, or
// the average of the two middle values for an even-sized sample
func median(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
