// Package scheduler drives the proactive side of the bot: upcoming-event
// reminders, alerts when new conflicts appear, and a cron-scheduled morning
// summary for every subscribed chat.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"

	"github.com/marcusyeo/TimeButler/internal/butler"
	"github.com/marcusyeo/TimeButler/internal/format"
	"github.com/marcusyeo/TimeButler/internal/models"
)

const reminderLead = 15 * time.Minute

type Scheduler struct {
	api           *tgbotapi.BotAPI
	core          *butler.Butler
	loc           *time.Location
	summarySpec   string
	checkInterval time.Duration
	notifyCh      chan struct{}

	// sent reminder/alert ids, so a ticker pass never repeats itself
	remindedEvents   map[string]bool
	alertedConflicts map[string]bool
}

func New(api *tgbotapi.BotAPI, core *butler.Butler, loc *time.Location, summarySpec string) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		api:              api,
		core:             core,
		loc:              loc,
		summarySpec:      summarySpec,
		checkInterval:    1 * time.Minute,
		notifyCh:         make(chan struct{}, 1),
		remindedEvents:   map[string]bool{},
		alertedConflicts: map[string]bool{},
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler started")

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.summarySpec, func() { s.sendDailySummary(ctx) }); err != nil {
		log.Printf("Invalid summary cron %q, daily summary disabled: %v", s.summarySpec, err)
	} else {
		c.Start()
		defer c.Stop()
	}

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			log.Println("Scheduler triggered by notification")
			s.check(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	s.checkUpcomingEvents(ctx)
	s.checkNewConflicts(ctx)
}

// checkUpcomingEvents reminds subscribers about events starting within the
// lead window.
func (s *Scheduler) checkUpcomingEvents(ctx context.Context) {
	now := time.Now().In(s.loc)
	today := now.Format(models.DateLayout)
	events, err := s.core.Agenda(today)
	if err != nil {
		log.Printf("Failed to load today's agenda: %v", err)
		return
	}

	for _, e := range events {
		if s.remindedEvents[e.ID] {
			continue
		}
		until := e.Start.Sub(now)
		if until <= 0 || until > reminderLead {
			continue
		}
		s.remindedEvents[e.ID] = true

		text := fmt.Sprintf("⏰ **Coming up at %s**\n\n%s", e.Start.Format("3:04 PM"), format.EventLine(e))
		if e.Location != "" {
			text += "\n📍 " + e.Location
		}
		s.broadcast(text)
	}
}

// checkNewConflicts alerts subscribers the first time a conflict id shows up.
func (s *Scheduler) checkNewConflicts(ctx context.Context) {
	for _, c := range s.core.ActiveConflicts() {
		if s.alertedConflicts[c.ID] {
			continue
		}
		s.alertedConflicts[c.ID] = true
		text := fmt.Sprintf("🚨 **New conflict detected**\n\n%s\n\nUse /conflicts to review your options.",
			strings.TrimRight(format.Conflict(1, c), "\n"))
		s.broadcast(text)
	}
}

// sendDailySummary sends the morning agenda plus the conflict report.
func (s *Scheduler) sendDailySummary(ctx context.Context) {
	today := time.Now().In(s.loc).Format(models.DateLayout)
	events, err := s.core.Agenda(today)
	if err != nil {
		log.Printf("Failed to build daily summary: %v", err)
		return
	}
	conflicts := s.core.ActiveConflicts()

	var sb strings.Builder
	sb.WriteString("☀️ **Good morning!**\n\n")
	sb.WriteString(format.Agenda(today, events))
	if len(conflicts) > 0 {
		sb.WriteString("\n")
		sb.WriteString(format.ConflictList(conflicts))
	}
	s.broadcast(sb.String())
}

func (s *Scheduler) broadcast(text string) {
	parsed := format.ParseMarkdown(text)
	for _, chatID := range s.core.Subscribers() {
		msg := tgbotapi.NewMessage(chatID, parsed.Text)
		msg.Entities = parsed.Entities
		if _, err := s.api.Send(msg); err != nil {
			log.Printf("Failed to send to chat %d: %v", chatID, err)
		}
	}
}
