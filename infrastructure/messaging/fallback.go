package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/croquete1/Fitness-Pro-sub001/domains/insights"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SampleProvider produces a structurally valid demo batch. It backs two
// paths: the fallback when the primary store errors, and first-run seeding.
type SampleProvider struct{}

func NewSampleProvider() *SampleProvider {
	return &SampleProvider{}
}

// sampleContact is one scripted counterpart in the demo data
type sampleContact struct {
	id      string
	name    string
	channel string
	// exchanges are (minutes before now, outbound) pairs, oldest first
	exchanges []sampleExchange
}

type sampleExchange struct {
	minutesAgo int
	outbound   bool
	body       string
}

var sampleContacts = []sampleContact{
	{
		id: "client-ana", name: "Ana Martins", channel: "WhatsApp",
		exchanges: []sampleExchange{
			{minutesAgo: 4 * 24 * 60, outbound: false, body: "Coach, can we move Thursday's session to the morning?"},
			{minutesAgo: 4*24*60 - 25, outbound: true, body: "Morning works, let's do 7:30."},
			{minutesAgo: 2 * 24 * 60, outbound: false, body: "Knee felt much better today, thanks for the mobility plan!"},
			{minutesAgo: 2*24*60 - 90, outbound: true, body: "Great news. Keep the foam rolling before each run."},
		},
	},
	{
		id: "client-bruno", name: "Bruno Costa", channel: "in-app",
		exchanges: []sampleExchange{
			{minutesAgo: 6 * 24 * 60, outbound: true, body: "Your new hypertrophy block is published, take a look."},
			{minutesAgo: 6*24*60 - 180, outbound: false, body: "Looks intense. Is the deload week still on?"},
			{minutesAgo: 6*24*60 - 175, outbound: true, body: "Yes, week four is the deload."},
			{minutesAgo: 60, outbound: false, body: "Finished day one, legs are done."},
		},
	},
	{
		id: "client-carla", name: "Carla Nunes", channel: "email",
		exchanges: []sampleExchange{
			{minutesAgo: 9 * 24 * 60, outbound: false, body: "Attached my nutrition log for last week."},
			{minutesAgo: 8 * 24 * 60, outbound: true, body: "Reviewed. Protein is low on rest days, notes inline."},
			{minutesAgo: 30, outbound: false, body: "Quick question about the Sunday long run pace."},
		},
	},
	{
		id: "client-diego", name: "Diego Ramos", channel: "sms",
		exchanges: []sampleExchange{
			{minutesAgo: 20 * 24 * 60, outbound: false, body: "Back from vacation, ready to restart."},
			{minutesAgo: 12 * 24 * 60, outbound: true, body: "Welcome back. First session Friday?"},
		},
	},
}

// SampleEvents returns the scripted batch shifted relative to now. Event ids
// are derived from the script position so repeated calls stay stable.
func (p *SampleProvider) SampleEvents(viewerID string, now time.Time) []insights.MessageEvent {
	var events []insights.MessageEvent

	for _, contact := range sampleContacts {
		for i, exchange := range contact.exchanges {
			sentAt := now.Add(-time.Duration(exchange.minutesAgo) * time.Minute)
			event := insights.MessageEvent{
				ID:      sampleEventID(contact.id, i),
				Body:    exchange.body,
				SentAt:  &sentAt,
				Channel: contact.channel,
			}
			if exchange.outbound {
				event.FromID = viewerID
				event.ToID = contact.id
				event.ToName = contact.name
			} else {
				event.FromID = contact.id
				event.ToID = viewerID
				event.FromName = contact.name
			}
			events = append(events, event)
		}
	}

	// one team broadcast the viewer is neither sender nor recipient of
	broadcastAt := now.Add(-3 * 24 * time.Hour)
	events = append(events, insights.MessageEvent{
		ID:      sampleEventID("studio", 0),
		Body:    "Studio closed next Monday for maintenance.",
		SentAt:  &broadcastAt,
		FromID:  "studio-admin",
		ToID:    "all-trainers",
		Channel: "platform",
	})

	return events
}

func sampleEventID(contactID string, index int) string {
	seed := fmt.Sprintf("fitnesspro/sample/%s/%d", contactID, index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

// SeedIfEmpty loads the demo batch into an empty store so a fresh
// install serves a populated dashboard
func SeedIfEmpty(ctx context.Context, repo *SQLiteRepository, provider *SampleProvider, viewerID string) error {
	count, err := repo.CountMessages(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	events := provider.SampleEvents(viewerID, time.Now())
	for _, event := range events {
		if err := repo.SaveEvent(ctx, event); err != nil {
			return err
		}
	}
	for _, contact := range sampleContacts {
		if err := repo.SaveProfile(ctx, contact.id, contact.name, "client"); err != nil {
			return err
		}
	}

	logrus.Infof("🌱 Seeded %d sample messages for viewer %s", len(events), viewerID)
	return nil
}
