package insights

import "time"

// RangeInfo describes the resolved reporting window
type RangeInfo struct {
	Days  int       `json:"days"`
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
	Label string    `json:"label"`
}

// Totals holds the headline counters for the current window plus the
// previous-window counters used for trend deltas
type Totals struct {
	Total            int `json:"total"`
	Inbound          int `json:"inbound"`
	Outbound         int `json:"outbound"`
	Replies          int `json:"replies"`
	PreviousTotal    int `json:"previous_total"`
	PreviousInbound  int `json:"previous_inbound"`
	PreviousOutbound int `json:"previous_outbound"`
	PreviousReplies  int `json:"previous_replies"`
}

// HeroMetric is one headline KPI card
type HeroMetric struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value string  `json:"value"`
	Hint  string  `json:"hint,omitempty"`
	Trend *string `json:"trend"` // nil when there is no previous baseline
	Tone  string  `json:"tone"`
}

// TimelinePoint is one calendar-day bucket of the current window
type TimelinePoint struct {
	Day      string `json:"day"`   // YYYY-MM-DD
	Label    string `json:"label"` // short display label, e.g. "Jan 2"
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
	Replies  int    `json:"replies"`
}

// ChannelSegment is one slice of the channel distribution
type ChannelSegment struct {
	Channel    Channel `json:"channel"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Tone       string  `json:"tone"`
}

// ConversationSummary is the per-conversation rollup for the table view
type ConversationSummary struct {
	Key                    string     `json:"key"`
	CounterpartID          string     `json:"counterpart_id,omitempty"`
	CounterpartName        string     `json:"counterpart_name"`
	TotalMessages          int        `json:"total_messages"`
	Inbound                int        `json:"inbound"`
	Outbound               int        `json:"outbound"`
	AverageResponseMinutes *float64   `json:"average_response_minutes"` // nil when no reply was matched
	PendingResponses       int        `json:"pending_responses"`
	DominantChannel        Channel    `json:"dominant_channel"`
	LastMessageAt          *time.Time `json:"last_message_at,omitempty"`
	LastDirection          Direction  `json:"last_direction,omitempty"`
}

// MessageRow is the flat per-event projection for the recent-messages list
type MessageRow struct {
	ID           string     `json:"id"`
	Preview      string     `json:"preview"`
	Direction    Direction  `json:"direction"`
	Channel      Channel    `json:"channel"`
	Counterpart  string     `json:"counterpart"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	RelativeTime string     `json:"relative_time,omitempty"`
}

// Highlight is a ranked narrative summary of one standout conversation
type Highlight struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Value       string `json:"value"`
	Tone        string `json:"tone"`
	Meta        string `json:"meta,omitempty"`
}

// Dashboard is the fully assembled messaging insights result. It is
// self-describing: consumers need no further lookups.
type Dashboard struct {
	Range         RangeInfo             `json:"range"`
	Totals        Totals                `json:"totals"`
	Heroes        []HeroMetric          `json:"heroes"`
	Timeline      []TimelinePoint       `json:"timeline"`
	Channels      []ChannelSegment      `json:"channels"`
	Conversations []ConversationSummary `json:"conversations"`
	Messages      []MessageRow          `json:"messages"`
	Highlights    []Highlight           `json:"highlights"`
}
