package usecase

import (
	"reflect"
	"testing"
	"time"

	"github.com/croquete1/Fitness-Pro-sub001/domains/insights"
)

var engineNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func at(minutesAgo int) *time.Time {
	t := engineNow.Add(-time.Duration(minutesAgo) * time.Minute)
	return &t
}

func inboundEvent(id, from string, sentAt *time.Time, channel string) insights.MessageEvent {
	return insights.MessageEvent{ID: id, Body: "hi", FromID: from, ToID: "trainer-1", SentAt: sentAt, Channel: channel}
}

func outboundEvent(id, to string, sentAt *time.Time, channel string) insights.MessageEvent {
	return insights.MessageEvent{ID: id, Body: "hello", FromID: "trainer-1", ToID: to, SentAt: sentAt, Channel: channel}
}

func TestBuildDashboardReplyMatching(t *testing.T) {
	events := []insights.MessageEvent{
		inboundEvent("m1", "client-1", at(300), "whatsapp"),
		outboundEvent("m2", "client-1", at(270), "whatsapp"), // 30m reply
	}

	d := buildDashboard("trainer-1", events, engineNow, 14, nil)

	if d.Totals.Total != 2 || d.Totals.Inbound != 1 || d.Totals.Outbound != 1 {
		t.Fatalf("totals = %+v", d.Totals)
	}
	if d.Totals.Replies != 1 {
		t.Errorf("replies = %d, want 1", d.Totals.Replies)
	}

	if len(d.Conversations) != 1 {
		t.Fatalf("conversations = %d, want 1", len(d.Conversations))
	}
	conv := d.Conversations[0]
	if conv.AverageResponseMinutes == nil || *conv.AverageResponseMinutes != 30 {
		t.Errorf("average response = %v, want 30", conv.AverageResponseMinutes)
	}
	if conv.PendingResponses != 0 {
		t.Errorf("pending = %d, want 0", conv.PendingResponses)
	}
	if conv.DominantChannel != insights.ChannelWhatsApp {
		t.Errorf("dominant channel = %v", conv.DominantChannel)
	}
}

func TestBuildDashboardStaleInboundNotAReply(t *testing.T) {
	// 15 days between inbound and outbound exceeds the matching cutoff
	events := []insights.MessageEvent{
		inboundEvent("m1", "client-1", at(20*24*60), "sms"),
		outboundEvent("m2", "client-1", at(5*24*60), "sms"),
	}

	d := buildDashboard("trainer-1", events, engineNow, 90, nil)

	if d.Totals.Replies != 0 {
		t.Errorf("replies = %d, want 0", d.Totals.Replies)
	}
	conv := d.Conversations[0]
	if conv.AverageResponseMinutes != nil {
		t.Errorf("average response = %v, want nil", *conv.AverageResponseMinutes)
	}
	// the stale inbound is consumed, not re-queued, but it still counts
	// as unanswered
	if conv.PendingResponses != 1 {
		t.Errorf("pending = %d, want 1", conv.PendingResponses)
	}
}

func TestBuildDashboardQuickExchange(t *testing.T) {
	// inbound 09:00, reply 09:05
	in := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	out := in.Add(5 * time.Minute)
	events := []insights.MessageEvent{
		{ID: "m1", FromID: "client-1", ToID: "trainer-1", SentAt: &in},
		{ID: "m2", FromID: "trainer-1", ToID: "client-1", SentAt: &out},
	}

	d := buildDashboard("trainer-1", events, engineNow, 14, nil)

	if d.Totals.Inbound != 1 || d.Totals.Outbound != 1 || d.Totals.Replies != 1 {
		t.Fatalf("totals = %+v", d.Totals)
	}

	var responseHero *insights.HeroMetric
	for i := range d.Heroes {
		if d.Heroes[i].Key == "response-time" {
			responseHero = &d.Heroes[i]
		}
	}
	if responseHero == nil {
		t.Fatal("response-time hero missing")
	}
	if responseHero.Value != "5m" {
		t.Errorf("response-time value = %q, want %q", responseHero.Value, "5m")
	}
	if responseHero.Tone != "positive" {
		t.Errorf("response-time tone = %q, want positive", responseHero.Tone)
	}
}

func TestBuildDashboardSingleInbound(t *testing.T) {
	events := []insights.MessageEvent{
		inboundEvent("m1", "client-1", at(60), ""),
	}

	d := buildDashboard("trainer-1", events, engineNow, 14, nil)

	conv := d.Conversations[0]
	if conv.PendingResponses != 1 {
		t.Errorf("pending = %d, want 1", conv.PendingResponses)
	}
	if conv.AverageResponseMinutes != nil {
		t.Errorf("average response should be nil with no matched reply")
	}

	for _, h := range d.Highlights {
		if h.ID == "fastest-response" {
			t.Error("fastest-response highlight should not exist without matched replies")
		}
	}

	var responseHero insights.HeroMetric
	for _, h := range d.Heroes {
		if h.Key == "response-time" {
			responseHero = h
		}
	}
	if responseHero.Value != "—" {
		t.Errorf("response-time value = %q, want placeholder", responseHero.Value)
	}
}

func TestBuildDashboardWindowBoundsInclusive(t *testing.T) {
	current, _ := insights.ResolveWindows(engineNow, 7)
	lower := current.Since
	upper := current.Until
	before := current.Since.Add(-time.Second)

	events := []insights.MessageEvent{
		{ID: "m1", FromID: "client-1", ToID: "trainer-1", SentAt: &lower},
		{ID: "m2", FromID: "client-1", ToID: "trainer-1", SentAt: &upper},
		{ID: "m3", FromID: "client-1", ToID: "trainer-1", SentAt: &before},
	}

	d := buildDashboard("trainer-1", events, engineNow, 7, nil)

	if d.Totals.Total != 2 {
		t.Errorf("total = %d, want 2 (both bounds inclusive, before excluded)", d.Totals.Total)
	}
}

func TestBuildDashboardPreviousWindowCounters(t *testing.T) {
	events := []insights.MessageEvent{
		// previous window: 14 messages back is inside [since-14d, since)
		inboundEvent("p1", "client-1", at(20*24*60), ""),
		outboundEvent("p2", "client-1", at(20*24*60-30), ""),
		// current window
		inboundEvent("c1", "client-1", at(60), ""),
		outboundEvent("c2", "client-1", at(30), ""),
		outboundEvent("c3", "client-2", at(10), ""),
	}

	d := buildDashboard("trainer-1", events, engineNow, 14, nil)

	if d.Totals.PreviousTotal != 2 || d.Totals.PreviousInbound != 1 || d.Totals.PreviousOutbound != 1 {
		t.Errorf("previous counters = %+v", d.Totals)
	}
	if d.Totals.PreviousReplies != 1 {
		t.Errorf("previous replies = %d, want 1", d.Totals.PreviousReplies)
	}
	if d.Totals.Total != 3 || d.Totals.Replies != 1 {
		t.Errorf("current counters = %+v", d.Totals)
	}
}

func TestBuildDashboardCrossBoundaryReply(t *testing.T) {
	// inbound lands in the previous window, the reply in the current one:
	// the reply still counts and pending never goes negative
	events := []insights.MessageEvent{
		inboundEvent("m1", "client-1", at(15*24*60), ""),
		outboundEvent("m2", "client-1", at(2*24*60), ""),
	}

	d := buildDashboard("trainer-1", events, engineNow, 14, nil)

	if d.Totals.Replies != 1 {
		t.Errorf("replies = %d, want 1", d.Totals.Replies)
	}
	conv := d.Conversations[0]
	if conv.PendingResponses != 0 {
		t.Errorf("pending = %d, want 0", conv.PendingResponses)
	}
}

func TestBuildDashboardTimeline(t *testing.T) {
	events := []insights.MessageEvent{
		inboundEvent("m1", "client-1", at(30), "app"),
		outboundEvent("m2", "client-1", at(20), "app"),
	}

	d := buildDashboard("trainer-1", events, engineNow, 7, nil)

	if len(d.Timeline) != 7 {
		t.Fatalf("timeline length = %d, want 7", len(d.Timeline))
	}
	today := d.Timeline[len(d.Timeline)-1]
	if today.Day != "2026-03-10" {
		t.Errorf("last bucket = %q, want today", today.Day)
	}
	if today.Inbound != 1 || today.Outbound != 1 || today.Replies != 1 {
		t.Errorf("today bucket = %+v", today)
	}
	for _, point := range d.Timeline[:len(d.Timeline)-1] {
		if point.Inbound != 0 || point.Outbound != 0 {
			t.Errorf("unexpected activity in bucket %s: %+v", point.Day, point)
		}
	}
}

func TestBuildDashboardChannelDistribution(t *testing.T) {
	events := []insights.MessageEvent{
		inboundEvent("m1", "client-1", at(10), "whatsapp"),
		inboundEvent("m2", "client-1", at(20), "whatsapp"),
		inboundEvent("m3", "client-2", at(30), "email"),
		inboundEvent("m4", "client-3", at(40), "pigeon"),
	}

	d := buildDashboard("trainer-1", events, engineNow, 14, nil)

	if len(d.Channels) != 3 {
		t.Fatalf("segments = %d, want 3", len(d.Channels))
	}
	if d.Channels[0].Channel != insights.ChannelWhatsApp || d.Channels[0].Count != 2 {
		t.Errorf("top segment = %+v", d.Channels[0])
	}
	var sum float64
	for _, seg := range d.Channels {
		sum += seg.Percentage
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("percentages sum to %v, want 1", sum)
	}
}

func TestBuildDashboardEmptyBatch(t *testing.T) {
	d := buildDashboard("trainer-1", nil, engineNow, 14, nil)

	if d.Totals.Total != 0 {
		t.Errorf("total = %d", d.Totals.Total)
	}
	if len(d.Channels) != 1 {
		t.Fatalf("segments = %d, want single placeholder", len(d.Channels))
	}
	placeholder := d.Channels[0]
	if placeholder.Channel != insights.ChannelInApp || placeholder.Count != 0 || placeholder.Percentage != 0 {
		t.Errorf("placeholder = %+v", placeholder)
	}
	if len(d.Timeline) != 14 {
		t.Errorf("timeline length = %d, want 14", len(d.Timeline))
	}
	if len(d.Conversations) != 0 || len(d.Highlights) != 0 {
		t.Errorf("empty batch produced conversations or highlights")
	}
	if len(d.Heroes) != 4 {
		t.Errorf("heroes = %d, want 4", len(d.Heroes))
	}
}

func TestBuildDashboardDeterministic(t *testing.T) {
	events := []insights.MessageEvent{
		inboundEvent("m1", "client-1", at(300), "whatsapp"),
		outboundEvent("m2", "client-1", at(270), "whatsapp"),
		inboundEvent("m3", "client-2", at(100), "email"),
		outboundEvent("m4", "client-3", at(50), "sms"),
	}

	first := buildDashboard("trainer-1", events, engineNow, 14, nil)
	second := buildDashboard("trainer-1", events, engineNow, 14, nil)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different dashboards")
	}

	// input order must not matter either
	shuffled := []insights.MessageEvent{events[2], events[0], events[3], events[1]}
	third := buildDashboard("trainer-1", shuffled, engineNow, 14, nil)
	if !reflect.DeepEqual(first, third) {
		t.Error("reordered input produced a different dashboard")
	}
}

func TestBuildDashboardTrendConventions(t *testing.T) {
	// activity only in the current window: trend is unbounded growth
	events := []insights.MessageEvent{
		inboundEvent("m1", "client-1", at(60), ""),
	}
	d := buildDashboard("trainer-1", events, engineNow, 14, nil)
	total := d.Heroes[0]
	if total.Key != "messages-total" {
		t.Fatalf("first hero = %q", total.Key)
	}
	if total.Trend == nil || *total.Trend != "+∞%" {
		t.Errorf("trend = %v, want +∞%%", total.Trend)
	}

	// no activity at all: no trend
	empty := buildDashboard("trainer-1", nil, engineNow, 14, nil)
	if empty.Heroes[0].Trend != nil {
		t.Errorf("empty trend = %q, want nil", *empty.Heroes[0].Trend)
	}

	// both windows populated: signed percent delta
	both := buildDashboard("trainer-1", []insights.MessageEvent{
		inboundEvent("p1", "client-1", at(20*24*60), ""),
		inboundEvent("c1", "client-1", at(60), ""),
		inboundEvent("c2", "client-1", at(30), ""),
	}, engineNow, 14, nil)
	if both.Heroes[0].Trend == nil || *both.Heroes[0].Trend != "+100.0%" {
		t.Errorf("trend = %v, want +100.0%%", both.Heroes[0].Trend)
	}
}

func TestBuildDashboardInternalBroadcast(t *testing.T) {
	events := []insights.MessageEvent{
		{ID: "b1", FromID: "admin", ToID: "all-trainers", SentAt: at(120), Channel: "platform"},
		inboundEvent("m1", "client-1", at(60), ""),
	}

	d := buildDashboard("trainer-1", events, engineNow, 14, nil)

	if d.Totals.Total != 2 {
		t.Errorf("total = %d, want 2", d.Totals.Total)
	}
	if d.Totals.Inbound != 1 || d.Totals.Outbound != 0 {
		t.Errorf("direction counts = %+v", d.Totals)
	}
	// internal traffic counts in totals and channels but not the timeline
	// direction series
	for _, point := range d.Timeline {
		if point.Inbound+point.Outbound > 1 {
			t.Errorf("internal event leaked into timeline bucket %s", point.Day)
		}
	}
}

func TestDominantChannelTieBreak(t *testing.T) {
	counts := map[insights.Channel]int{
		insights.ChannelEmail: 1,
		insights.ChannelCall:  1,
	}
	if got := dominantChannel(counts); got != insights.ChannelCall {
		t.Errorf("dominantChannel = %v, want call (lexicographic tie-break)", got)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		sample []float64
		want   float64
	}{
		{nil, 0},
		{[]float64{5}, 5},
		{[]float64{1, 3, 9}, 3},
		{[]float64{10, 20, 30, 40}, 25},
	}
	for _, tc := range tests {
		if got := median(tc.sample); got != tc.want {
			t.Errorf("median(%v) = %v, want %v", tc.sample, got, tc.want)
		}
	}
}

func TestBuildDashboardHighlights(t *testing.T) {
	events := []insights.MessageEvent{
		// client-1: busiest, replied in 10m
		inboundEvent("a1", "client-1", at(400), ""),
		outboundEvent("a2", "client-1", at(390), ""),
		inboundEvent("a3", "client-1", at(200), ""),
		outboundEvent("a4", "client-1", at(190), ""),
		// client-2: two unanswered messages
		inboundEvent("b1", "client-2", at(150), ""),
		inboundEvent("b2", "client-2", at(100), ""),
	}

	d := buildDashboard("trainer-1", events, engineNow, 14, nil)

	if len(d.Highlights) != 3 {
		t.Fatalf("highlights = %d, want 3", len(d.Highlights))
	}
	byID := make(map[string]insights.Highlight)
	for _, h := range d.Highlights {
		byID[h.ID] = h
	}
	if byID["busiest-conversation"].Value != "4 messages" {
		t.Errorf("busiest = %+v", byID["busiest-conversation"])
	}
	if byID["fastest-response"].Value != "10m" {
		t.Errorf("fastest = %+v", byID["fastest-response"])
	}
	if byID["most-pending"].Value != "2 pending" {
		t.Errorf("most pending = %+v", byID["most-pending"])
	}
}

func TestBuildDashboardOrdering(t *testing.T) {
	events := []insights.MessageEvent{
		inboundEvent("m1", "client-1", at(300), ""),
		inboundEvent("m2", "client-2", at(30), ""),
		{ID: "m3", FromID: "client-3", ToID: "trainer-1"}, // no timestamp
	}

	d := buildDashboard("trainer-1", events, engineNow, 14, nil)

	if len(d.Messages) != 3 {
		t.Fatalf("messages = %d", len(d.Messages))
	}
	if d.Messages[0].ID != "m2" || d.Messages[1].ID != "m1" || d.Messages[2].ID != "m3" {
		t.Errorf("message order = %s, %s, %s (want newest first, timestampless last)",
			d.Messages[0].ID, d.Messages[1].ID, d.Messages[2].ID)
	}

	if len(d.Conversations) != 2 {
		t.Fatalf("conversations = %d (timestampless event is out of range)", len(d.Conversations))
	}
	if d.Conversations[0].Key != "client-2" {
		t.Errorf("conversation order starts with %q, want most recent", d.Conversations[0].Key)
	}
}

func TestBuildDashboardNameResolution(t *testing.T) {
	names := map[string]string{"client-1": "Ana Martins"}
	events := []insights.MessageEvent{
		inboundEvent("m1", "client-1", at(60), ""),
		inboundEvent("m2", "very-long-client-identifier", at(30), ""),
	}

	d := buildDashboard("trainer-1", events, engineNow, 14, names)

	byKey := make(map[string]insights.ConversationSummary)
	for _, c := range d.Conversations {
		byKey[c.Key] = c
	}
	if byKey["client-1"].CounterpartName != "Ana Martins" {
		t.Errorf("resolved name = %q", byKey["client-1"].CounterpartName)
	}
	if byKey["very-long-client-identifier"].CounterpartName != "very-long-cl..." {
		t.Errorf("fallback name = %q", byKey["very-long-client-identifier"].CounterpartName)
	}
}
