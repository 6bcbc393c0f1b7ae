package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/trek/internal/cache"
	"github.com/alexanderramin/trek/internal/cli"
	"github.com/alexanderramin/trek/internal/config"
	"github.com/alexanderramin/trek/internal/db"
	"github.com/alexanderramin/trek/internal/itinerary"
	"github.com/alexanderramin/trek/internal/llm"
	"github.com/alexanderramin/trek/internal/repository"
	"github.com/alexanderramin/trek/internal/service"
	"github.com/alexanderramin/trek/internal/template"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.Log {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
		observer = service.NewSlogUseCaseObserver(logger)
	}

	lib, err := loadTemplates(cfg)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	tripRepo := repository.NewSQLiteTripRepo(database)
	adjustmentRepo := repository.NewSQLiteAdjustmentRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Without a backend every plan comes from the fallback chain.
	var gen llm.TextGenerator
	if cfg.LLM.Enabled {
		var llmObserver llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			llmObserver = llm.NewLogObserver(os.Stderr)
		}
		gen, err = llm.New(ctx, cfg.LLM, llmObserver)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: generative backend unavailable, using templates: %v\n", err)
			gen = nil
		}
	}

	plans, closeCache := openPlanCache(ctx, cfg)
	defer closeCache()

	synth := itinerary.NewSynthesizer(gen, itinerary.NewFallbackChain(lib), itinerary.WithLogger(logger))

	app := &cli.App{
		Conversation: service.NewConversationService(synth, tripRepo,
			service.WithPlanCache(plans),
			service.WithFollowUpGenerator(gen),
			service.WithObserver(observer),
			service.WithLogger(logger),
		),
		Trips:      service.NewTripService(tripRepo, adjustmentRepo, uow, observer),
		Persistent: cfg.Persistent(),
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// loadTemplates returns the built-in library unless a file is configured.
// A corrupt file is fatal unless TREK_TEMPLATES_OPTIONAL is set.
func loadTemplates(cfg config.Config) (*template.Library, error) {
	if cfg.TemplatesPath == "" {
		return template.Builtin(), nil
	}
	lib, err := template.Load(cfg.TemplatesPath)
	if err != nil {
		if !cfg.TemplatesOptional {
			return nil, fmt.Errorf("loading templates: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: ignoring template library: %v\n", err)
		return template.NewLibrary(), nil
	}
	return lib, nil
}

// openPlanCache prefers Redis when configured and reachable, otherwise an
// in-process cache.
func openPlanCache(ctx context.Context, cfg config.Config) (cache.PlanCache, func()) {
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err == nil {
			return cache.NewRedisPlanCache(client, cfg.CacheTTL), func() { _ = client.Close() }
		}
		fmt.Fprintf(os.Stderr, "Warning: redis unavailable, caching in memory: %v\n", err)
	}
	return cache.NewMemoryPlanCache(cfg.CacheTTL), func() {}
}
