package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/uhyunpark/swaproute/params"
	"github.com/uhyunpark/swaproute/pkg/api"
	"github.com/uhyunpark/swaproute/pkg/orchestrator"
	"github.com/uhyunpark/swaproute/pkg/providers"
	"github.com/uhyunpark/swaproute/pkg/queue"
	"github.com/uhyunpark/swaproute/pkg/quote"
	"github.com/uhyunpark/swaproute/pkg/registry"
	"github.com/uhyunpark/swaproute/pkg/storage"
	"github.com/uhyunpark/swaproute/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "data/router.log"
	}
	logger, err := util.NewLoggerWithFile(logFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", logFile)

	// ---- Providers (mock DEX adapters) ----
	// Each source gets a deterministic seed from its slot so a given SOURCES
	// list behaves the same across restarts.
	sources := make([]quote.Source, len(cfg.Quotes.Sources))
	for i, name := range cfg.Quotes.Sources {
		sources[i] = providers.NewMockSource(name, cfg.Quotes.BasePrice, int64(i+1))
	}
	executor := providers.NewMockExecutor(cfg.Quotes.BasePrice, int64(len(sources)+1))

	// ---- Core pipeline ----
	reg := registry.New(sugar)
	agg := quote.NewAggregator(sources, cfg.Quotes.PerSourceTimeout, sugar)
	orch := orchestrator.New(agg, executor, reg, sugar)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Work queue ----
	var q queue.Queue
	switch cfg.Queue.Mode {
	case "kafka":
		q = queue.NewKafka(cfg.Queue.Brokers, cfg.Queue.Topic, cfg.Queue.GroupID, orch.Process, sugar)
	default:
		journal, err := storage.OpenJournal(cfg.Queue.JournalPath)
		if err != nil {
			sugar.Fatalw("journal_open_failed", "path", cfg.Queue.JournalPath, "err", err)
		}
		defer journal.Close()

		mem := queue.NewMemory(cfg.Queue.Workers, cfg.Queue.Buffer, journal, orch.Process, sugar)
		if err := mem.Replay(ctx); err != nil {
			sugar.Fatalw("journal_replay_failed", "err", err)
		}
		q = mem
	}
	q.Start(ctx)
	defer q.Close()

	// ---- API ----
	server := api.NewServer(q, reg, agg.Sources(), sugar)
	go func() {
		if err := server.Start(cfg.Server.Addr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	sugar.Infow("router_started",
		"addr", cfg.Server.Addr,
		"queue_mode", cfg.Queue.Mode,
		"sources", cfg.Quotes.Sources)

	<-ctx.Done()
	sugar.Info("shutting down")
}
