package insights

import (
	"strings"
	"time"
)

// Direction classifies a message relative to the viewer
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
	DirectionInternal Direction = "internal" // viewer is neither sender nor recipient (e.g. team broadcast)
)

// Channel is the canonical delivery channel of a message
type Channel string

const (
	ChannelInApp    Channel = "in-app"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelCall     Channel = "call"
	ChannelSocial   Channel = "social"
	ChannelUnknown  Channel = "unknown"
)

// MessageEvent is one raw message as fetched from the store.
// Every field except ID may be missing.
type MessageEvent struct {
	ID        string     `json:"id"`
	Body      string     `json:"body,omitempty"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	FromID    string     `json:"from_id,omitempty"`
	ToID      string     `json:"to_id,omitempty"`
	FromName  string     `json:"from_name,omitempty"`
	ToName    string     `json:"to_name,omitempty"`
	Channel   string     `json:"channel,omitempty"` // raw label, see CanonicalChannel
	ReadAt    *time.Time `json:"read_at,omitempty"`
	ReplyToID string     `json:"reply_to_id,omitempty"`
}

// ClassifyDirection resolves the message direction from the viewer's perspective
func ClassifyDirection(viewerID string, event MessageEvent) Direction {
	if viewerID != "" && event.FromID == viewerID {
		return DirectionOutbound
	}
	if viewerID != "" && event.ToID == viewerID {
		return DirectionInbound
	}
	return DirectionInternal
}

// channelRule maps raw label keywords to a canonical channel. Rules are
// evaluated in order and the first match wins, so specific keywords must
// come before generic ones ("whatsapp" contains "app").
type channelRule struct {
	keywords []string
	channel  Channel
}

var channelRules = []channelRule{
	{keywords: []string{"whats"}, channel: ChannelWhatsApp},
	{keywords: []string{"email", "@"}, channel: ChannelEmail},
	{keywords: []string{"sms", "text"}, channel: ChannelSMS},
	{keywords: []string{"call", "phone"}, channel: ChannelCall},
	{keywords: []string{"insta", "facebook", "social"}, channel: ChannelSocial},
	{keywords: []string{"app", "in-app", "platform"}, channel: ChannelInApp},
}

// CanonicalChannel normalizes a free-text channel label.
// Missing labels default to the in-app channel.
func CanonicalChannel(label string) Channel {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return ChannelInApp
	}
	for _, rule := range channelRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.channel
			}
		}
	}
	return ChannelUnknown
}

const (
	internalKeyPrefix = "internal-"
	unknownKeyPrefix  = "unknown-"
)

// ConversationKey derives the stable grouping key for an event: the
// non-viewer participant id when known, otherwise a synthetic key built
// from the thread hint so the same real counterpart always maps to the
// same key within one batch.
func ConversationKey(viewerID string, event MessageEvent, direction Direction) string {
	if event.FromID != "" && event.FromID != viewerID {
		return event.FromID
	}
	if event.ToID != "" && event.ToID != viewerID {
		return event.ToID
	}
	hint := event.ReplyToID
	if hint == "" {
		hint = event.ID
	}
	if direction == DirectionInternal {
		return internalKeyPrefix + hint
	}
	return unknownKeyPrefix + hint
}

// IsSyntheticKey reports whether key was derived from a thread hint
// rather than a real counterpart id
func IsSyntheticKey(key string) bool {
	return strings.HasPrefix(key, internalKeyPrefix) || strings.HasPrefix(key, unknownKeyPrefix)
}

// IsInternalKey reports whether key groups internal-direction events
func IsInternalKey(key string) bool {
	return strings.HasPrefix(key, internalKeyPrefix)
}
