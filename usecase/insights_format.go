package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/croquete1/Fitness-Pro-sub001/domains/insights"
	"github.com/croquete1/Fitness-Pro-sub001/pkg/utils"
)

const (
	tonePositive = "positive"
	toneNeutral  = "neutral"
	toneWarning  = "warning"
)

var channelLabels = map[insights.Channel]string{
	insights.ChannelInApp:    "In-app",
	insights.ChannelWhatsApp: "WhatsApp",
	insights.ChannelEmail:    "Email",
	insights.ChannelSMS:      "SMS",
	insights.ChannelCall:     "Calls",
	insights.ChannelSocial:   "Social",
	insights.ChannelUnknown:  "Other",
}

var channelTones = map[insights.Channel]string{
	insights.ChannelInApp:    tonePositive,
	insights.ChannelWhatsApp: tonePositive,
	insights.ChannelEmail:    toneNeutral,
	insights.ChannelSMS:      toneNeutral,
	insights.ChannelCall:     toneNeutral,
	insights.ChannelSocial:   toneNeutral,
	insights.ChannelUnknown:  toneWarning,
}

func channelLabel(channel insights.Channel) string {
	if label, ok := channelLabels[channel]; ok {
		return label
	}
	return "Other"
}

func channelTone(channel insights.Channel) string {
	if tone, ok := channelTones[channel]; ok {
		return tone
	}
	return toneNeutral
}

func formatCount(n int) string {
	return fmt.Sprintf("%d", n)
}

// formatPercent renders a 0..1 ratio as a percentage with one decimal
func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// formatDurationMinutes renders a minute count at the largest sensible
// unit: "5m", "1h 12m", "2d 3h"
func formatDurationMinutes(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 0 {
		total = 0
	}
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	if total < 24*60 {
		return fmt.Sprintf("%dh %dm", total/60, total%60)
	}
	return fmt.Sprintf("%dd %dh", total/(24*60), (total%(24*60))/60)
}

// trendValue renders the percent change between two period values. No
// baseline and no activity yields no trend at all; activity appearing
// against an empty baseline is shown as unbounded growth.
func trendValue(current, previous float64) *string {
	if previous == 0 {
		if current == 0 {
			return nil
		}
		s := "+∞%"
		return &s
	}
	change := (current - previous) / previous * 100
	s := fmt.Sprintf("%+.1f%%", change)
	return &s
}

func deltaTone(current, previous int) string {
	switch {
	case current > previous:
		return tonePositive
	case current < previous:
		return toneWarning
	default:
		return toneNeutral
	}
}

// formatRelative renders how long ago t was, floored to the largest unit
func formatRelative(now time.Time, t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	elapsed := now.Sub(*t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}

// displayName resolves what to show for a conversation counterpart.
// Synthetic keys have no participant to resolve, so they map to fixed
// labels instead.
func displayName(names map[string]string, key, counterpartID string) string {
	if counterpartID != "" {
		if name, ok := names[counterpartID]; ok && strings.TrimSpace(name) != "" {
			return name
		}
		return utils.TruncateString(counterpartID, 12)
	}
	if insights.IsInternalKey(key) {
		return "Team update"
	}
	return "Unknown contact"
}
