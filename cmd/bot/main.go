package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/marcusyeo/TimeButler/internal/bot"
	"github.com/marcusyeo/TimeButler/internal/butler"
	"github.com/marcusyeo/TimeButler/internal/config"
	"github.com/marcusyeo/TimeButler/internal/models"
	"github.com/marcusyeo/TimeButler/internal/scheduler"
	"github.com/marcusyeo/TimeButler/internal/seed"
	"github.com/marcusyeo/TimeButler/internal/state"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}
	// Seed fixtures and state snapshots must decode in the configured zone,
	// not the host zone, so set it before anything is loaded.
	models.SetLocation(loc)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the local state store
	st, err := state.Open(cfg.StatePath)
	if err != nil {
		log.Fatalf("Failed to open state store: %v", err)
	}
	defer st.Close()
	log.Printf("State store ready at %s", cfg.StatePath)

	// Load the demo calendar fixtures
	data, err := seed.Load()
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	// Build the scheduling core
	core, err := butler.New(butler.Options{
		Events:      data.Events,
		Catalog:     data.Conflicts,
		Patterns:    data.Patterns,
		Suggestions: data.Suggestions,
		State:       st,
		Location:    loc,
	})
	if err != nil {
		log.Fatalf("Failed to build scheduling core: %v", err)
	}
	log.Printf("Scheduling core ready (%d events)", len(core.Events()))

	// Create bot
	b, err := bot.New(cfg.TelegramToken, core, loc, cfg.DevMode)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Create and start scheduler
	sched := scheduler.New(b.API(), core, loc, cfg.SummaryCron)
	b.SetNotify(sched.Notify)
	go sched.Start(ctx)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
}
