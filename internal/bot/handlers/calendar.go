package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/marcusyeo/TimeButler/internal/format"
	"github.com/marcusyeo/TimeButler/internal/ics"
	"github.com/marcusyeo/TimeButler/internal/models"
)

func (h *Handlers) handleAgenda(ctx context.Context, msg *tgbotapi.Message, date string) {
	events, err := h.core.Agenda(date)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "❌ "+err.Error())
		return
	}
	h.sendMessage(msg.Chat.ID, format.Agenda(date, events))
}

func (h *Handlers) handleAgendaArg(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		h.handleAgenda(ctx, msg, h.today())
		return
	}
	if _, err := time.Parse(models.DateLayout, arg); err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /agenda YYYY-MM-DD")
		return
	}
	h.handleAgenda(ctx, msg, arg)
}

func (h *Handlers) handleConflicts(ctx context.Context, msg *tgbotapi.Message) {
	conflicts := h.core.ActiveConflicts()
	h.sendMessage(msg.Chat.ID, format.ConflictList(conflicts))
}

// handleResolve accepts /resolve <conflict#> <option#> against the numbering
// /conflicts shows.
func (h *Handlers) handleResolve(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /resolve <conflict> <option> (numbers from /conflicts)")
		return
	}
	conflicts := h.core.ActiveConflicts()
	ci, err1 := strconv.Atoi(args[0])
	oi, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || ci < 1 || ci > len(conflicts) {
		h.sendMessage(msg.Chat.ID, "I don't have that conflict. Run /conflicts to see the current list.")
		return
	}
	c := conflicts[ci-1]
	if oi < 1 || oi > len(c.Resolutions) {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("Conflict %d has %d options.", ci, len(c.Resolutions)))
		return
	}
	r, err := h.core.Resolve(c.ID, c.Resolutions[oi-1].ID)
	if err != nil {
		log.Printf("resolve %s/%s: %v", c.ID, c.Resolutions[oi-1].ID, err)
		h.sendMessage(msg.Chat.ID, "❌ Couldn't apply that resolution: "+err.Error())
		return
	}
	text := fmt.Sprintf("✅ **Resolved: %s**\n\n%s", c.Title, r.Reasoning)
	if r.AutoMessage != "" {
		text += fmt.Sprintf("\n\n📤 Sent: \"%s\"", r.AutoMessage)
	}
	h.sendMessage(msg.Chat.ID, text)
	h.notifyChanged()
}

func (h *Handlers) handleSuggestions(ctx context.Context, msg *tgbotapi.Message) {
	suggestions := h.core.Suggestions()
	if len(suggestions) == 0 {
		h.sendMessage(msg.Chat.ID, "No open suggestions right now. ✨")
		return
	}
	var sb strings.Builder
	sb.WriteString("💡 **Smart Suggestions**\n\n")
	for i, s := range suggestions {
		sb.WriteString(format.Suggestion(i+1, s))
		sb.WriteString("\n")
	}
	sb.WriteString("Use /apply <suggestion> [option] to act on one.")
	h.sendMessage(msg.Chat.ID, sb.String())
}

// handleApply accepts /apply <suggestion#> [option#] against the numbering
// /suggestions shows.
func (h *Handlers) handleApply(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 || len(args) > 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /apply <suggestion> [option]")
		return
	}
	suggestions := h.core.Suggestions()
	si, err := strconv.Atoi(args[0])
	if err != nil || si < 1 || si > len(suggestions) {
		h.sendMessage(msg.Chat.ID, "I don't have that suggestion. Run /suggestions to see the current list.")
		return
	}
	s := suggestions[si-1]
	option := -1
	if len(args) == 2 {
		oi, err := strconv.Atoi(args[1])
		if err != nil || oi < 1 || oi > len(s.Options) {
			h.sendMessage(msg.Chat.ID, fmt.Sprintf("Suggestion %d has %d options.", si, len(s.Options)))
			return
		}
		option = oi - 1
	} else if len(s.Options) > 0 {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("Pick an option: /apply %d <1-%d>", si, len(s.Options)))
		return
	}
	m, err := h.core.ApplySuggestion(s.ID, option)
	if err != nil {
		log.Printf("apply suggestion %s: %v", s.ID, err)
		h.sendMessage(msg.Chat.ID, "❌ Couldn't apply that suggestion: "+err.Error())
		return
	}
	h.sendMessage(msg.Chat.ID, appliedText(s.Title, m))
	h.notifyChanged()
}

func (h *Handlers) handlePatterns(ctx context.Context, msg *tgbotapi.Message) {
	patterns, applied := h.core.Patterns()
	if len(patterns) == 0 {
		h.sendMessage(msg.Chat.ID, "No pattern insights yet.")
		return
	}
	var sb strings.Builder
	sb.WriteString("🧠 **Pattern Insights**\n\n")
	for i, p := range patterns {
		sb.WriteString(format.Pattern(i+1, p, applied.Has(p.ID)))
		sb.WriteString("\n")
	}
	sb.WriteString("Use /pattern <number> to act on one.")
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handlePattern(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	patterns, _ := h.core.Patterns()
	pi, err := strconv.Atoi(arg)
	if err != nil || pi < 1 || pi > len(patterns) {
		h.sendMessage(msg.Chat.ID, "Usage: /pattern <number> (numbers from /patterns)")
		return
	}
	p := patterns[pi-1]
	m, err := h.core.ApplyPattern(p.ID)
	if err != nil {
		log.Printf("apply pattern %s: %v", p.ID, err)
		h.sendMessage(msg.Chat.ID, "❌ Couldn't apply that pattern: "+err.Error())
		return
	}
	h.sendMessage(msg.Chat.ID, appliedText(p.Title, m))
	h.notifyChanged()
}

func (h *Handlers) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	payload, err := ics.Export(h.core.Events(), h.loc)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "❌ Export failed: "+err.Error())
		return
	}
	file := tgbotapi.FileBytes{
		Name:  ics.Filename(time.Now().In(h.loc)),
		Bytes: []byte(payload),
	}
	doc := tgbotapi.NewDocument(msg.Chat.ID, file)
	doc.Caption = "Your calendar, ready to import 📅"
	if _, err := h.api.Send(doc); err != nil {
		log.Printf("Failed to send export: %v", err)
	}
}

func (h *Handlers) handleReset(ctx context.Context, msg *tgbotapi.Message) {
	if err := h.core.Reset(); err != nil {
		h.sendMessage(msg.Chat.ID, "❌ Reset failed: "+err.Error())
		return
	}
	h.sendMessage(msg.Chat.ID, "🔄 Calendar reseeded. Fresh start!")
	h.notifyChanged()
}

func appliedText(title string, m models.Mutation) string {
	switch m.Kind {
	case models.MutationCreateEvent:
		return fmt.Sprintf("✅ **%s**\n\nAdded 1 event to your calendar.", title)
	case models.MutationCreateEvents:
		return fmt.Sprintf("✅ **%s**\n\nAdded %d events to your calendar.", title, len(m.Events))
	case models.MutationUpdateEvent:
		return fmt.Sprintf("✅ **%s**\n\nUpdated your calendar.", title)
	case models.MutationRemoveEvents:
		return fmt.Sprintf("✅ **%s**\n\nRemoved %d event(s).", title, len(m.EventIDs))
	case models.MutationEnableFeature:
		if m.Message != "" {
			return fmt.Sprintf("✅ **%s**\n\n%s", title, m.Message)
		}
		return fmt.Sprintf("✅ **%s**\n\nFeature enabled.", title)
	case models.MutationSendMessage:
		return fmt.Sprintf("✅ **%s**\n\n📤 Sent: \"%s\"", title, m.Message)
	default:
		return fmt.Sprintf("✅ **%s**\n\nNothing to change, already taken care of.", title)
	}
}
