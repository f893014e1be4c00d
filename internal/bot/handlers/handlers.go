package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/marcusyeo/TimeButler/internal/assistant"
	"github.com/marcusyeo/TimeButler/internal/butler"
	"github.com/marcusyeo/TimeButler/internal/format"
)

type Handlers struct {
	api       *tgbotapi.BotAPI
	core      *butler.Butler
	responder *assistant.Responder
	loc       *time.Location
	devMode   bool

	// notify is invoked after a command changes the calendar, so the
	// scheduler re-checks without waiting for its next tick.
	notify func()
}

// SetNotify registers the post-mutation callback.
func (h *Handlers) SetNotify(fn func()) {
	h.notify = fn
}

func (h *Handlers) notifyChanged() {
	if h.notify != nil {
		h.notify()
	}
}

func New(api *tgbotapi.BotAPI, core *butler.Butler, responder *assistant.Responder, loc *time.Location, devMode bool) *Handlers {
	if loc == nil {
		loc = time.Local
	}
	return &Handlers{
		api:       api,
		core:      core,
		responder: responder,
		loc:       loc,
		devMode:   devMode,
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "today":
		h.handleAgenda(ctx, msg, h.today())
	case "agenda":
		h.handleAgendaArg(ctx, msg)
	case "conflicts":
		h.handleConflicts(ctx, msg)
	case "resolve":
		h.handleResolve(ctx, msg)
	case "suggestions":
		h.handleSuggestions(ctx, msg)
	case "apply":
		h.handleApply(ctx, msg)
	case "patterns":
		h.handlePatterns(ctx, msg)
	case "pattern":
		h.handlePattern(ctx, msg)
	case "connect":
		h.handleConnect(ctx, msg)
	case "export":
		h.handleExport(ctx, msg)
	case "reset":
		h.handleReset(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

// HandleMessage routes free text through the scripted assistant.
func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	reply := h.responder.Respond(msg.Text)
	h.sendReply(msg.Chat.ID, reply)
	h.notifyChanged()
}

// HandleCallbackQuery handles taps on assistant follow-up buttons. The
// callback data carries the phrase to feed back into the script.
func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}
	if callback.Message == nil || callback.Data == "" {
		return
	}
	reply := h.responder.Respond(callback.Data)
	h.sendReply(callback.Message.Chat.ID, reply)
	h.notifyChanged()
}

func (h *Handlers) today() string {
	return time.Now().In(h.loc).Format("2006-01-02")
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	parsed := format.ParseMarkdown(text)
	msg := tgbotapi.NewMessage(chatID, parsed.Text)
	msg.Entities = parsed.Entities
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

// sendReply sends the assistant's answer with its follow-up phrases as
// inline buttons that loop back through the script.
func (h *Handlers) sendReply(chatID int64, reply assistant.Reply) {
	parsed := format.ParseMarkdown(reply.Message)
	msg := tgbotapi.NewMessage(chatID, parsed.Text)
	msg.Entities = parsed.Entities

	if len(reply.Suggestions) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reply.Suggestions))
		for _, s := range reply.Suggestions {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(s, s),
			))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := h.core.Subscribe(msg.Chat.ID); err != nil {
		log.Printf("Failed to subscribe chat %d: %v", msg.Chat.ID, err)
	}
	text := fmt.Sprintf(`👋 Hello %s!

I'm TimeButler, your personal scheduling assistant.

I keep an eye on your calendar and help you:
🚨 Spot schedule conflicts before they bite
🔧 Resolve them with one tap
🛡️ Protect family time and focus time
💡 Act on smart suggestions and patterns

Try /today for your agenda or /conflicts for a conflict check.
You can also just talk to me, e.g. "check my conflicts".

Use /help to see all commands`, msg.From.FirstName)
	h.sendMessage(msg.Chat.ID, text)
}

var appNames = map[string]string{
	"google":   "Google Calendar 📅",
	"whatsapp": "WhatsApp 💬",
}

// handleConnect records an app link. Status only; nothing actually syncs.
func (h *Handlers) handleConnect(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	if arg == "" {
		status := h.core.ConnectedApps()
		var sb strings.Builder
		sb.WriteString("🔗 **Connections**\n\n")
		for _, app := range butler.ConnectableApps {
			mark := "⚪ not connected"
			if status[app] {
				mark = "✅ connected"
			}
			sb.WriteString(fmt.Sprintf("• %s: %s\n", appNames[app], mark))
		}
		sb.WriteString("\nUse /connect google or /connect whatsapp to link one.")
		h.sendMessage(msg.Chat.ID, sb.String())
		return
	}
	fresh, err := h.core.Connect(arg)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "I can connect google or whatsapp.")
		return
	}
	if !fresh {
		h.sendMessage(msg.Chat.ID, appNames[arg]+" is already connected. ✅")
		return
	}
	h.sendMessage(msg.Chat.ID, "✅ "+appNames[arg]+" connected!")
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	text := `📖 **Commands**

**Schedule**
/today - today's agenda
/agenda <YYYY-MM-DD> - agenda for a day

**Conflicts**
/conflicts - list active conflicts
/resolve <conflict> <option> - apply a resolution

**Suggestions & patterns**
/suggestions - list smart suggestions
/apply <suggestion> [option] - apply one
/patterns - list pattern insights
/pattern <number> - apply a pattern

**Calendar**
/connect [app] - link calendar & messaging (simulated)
/export - download your calendar as .ics
/reset - reseed the demo calendar

💡 You can also just type a question!`
	h.sendMessage(msg.Chat.ID, text)
}
