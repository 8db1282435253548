package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/agentit/Prompty-Veille/internal/api"
	"github.com/agentit/Prompty-Veille/internal/checker"
	"github.com/agentit/Prompty-Veille/internal/compiler"
	"github.com/agentit/Prompty-Veille/internal/config"
	"github.com/agentit/Prompty-Veille/internal/extract"
	"github.com/agentit/Prompty-Veille/internal/notifier"
	"github.com/agentit/Prompty-Veille/internal/reporter"
	"github.com/agentit/Prompty-Veille/internal/scheduler"
	"github.com/agentit/Prompty-Veille/internal/source"
	"github.com/agentit/Prompty-Veille/internal/storage"
	"github.com/agentit/Prompty-Veille/internal/summary"
)

const shutdownTimeout = 10 * time.Second

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(); err != nil {
		slog.Error("veille failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Get()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := storage.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.EnsureSchema(ctx, db); err != nil {
		return err
	}

	var (
		sourceStorage  = storage.NewSourceStorage(db)
		summaryStorage = storage.NewSummaryStorage(db)
		articleStorage = storage.NewArticleStorage(db)
	)

	llm, err := buildCompleter(cfg)
	if err != nil {
		return err
	}

	var bot *tgbotapi.BotAPI
	if cfg.TelegramBotToken != "" {
		if bot, err = tgbotapi.NewBotAPI(cfg.TelegramBotToken); err != nil {
			return err
		}
	}

	var (
		extractor = extract.New(cfg.FetchTimeout)
		generator = summary.NewGenerator(llm, cfg.AIPrompt)
		comp      = compiler.New(extractor, llm)
		resolver  = source.NewResolver(cfg.CheckInsecure, cfg.FetchTimeout)
		notif     = notifier.New(bot, cfg.TelegramChannelID)
		rep       = reporter.New(bot, cfg.TelegramAdminChatID)
	)

	chk := checker.New(
		sourceStorage,
		summaryStorage,
		resolver,
		extractor,
		generator,
		notif,
		rep,
		cfg.FetchDelay,
	)

	sched, err := scheduler.New(cfg.CheckTime, cfg.Timezone, func() {
		chk.CheckAll(ctx)
	})
	if err != nil {
		return err
	}
	sched.Start()

	server := api.New(
		sourceStorage,
		summaryStorage,
		articleStorage,
		extractor,
		generator,
		comp,
		chk,
	)
	e := server.Router(cfg.CORSOrigins)

	go func() {
		slog.Info("serving API", "addr", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	<-sched.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	return e.Shutdown(shutdownCtx)
}

// buildCompleter picks the configured LLM backend.
func buildCompleter(cfg config.Config) (summary.Completer, error) {
	switch cfg.AIType {
	case "openai":
		if cfg.AIKey == "" {
			return nil, errors.New(`ai_key is required when ai_type is "openai"`)
		}
		slog.Info("using OpenAI-compatible model", "model", cfg.AIModel)
		return summary.NewOpenAIClient(cfg.AIBaseURL, cfg.AIKey, cfg.AIModel, cfg.AITimeout), nil
	default:
		if cfg.AIBaseURL == "" {
			return nil, errors.New(`ai_base_url is required when ai_type is "ollama"`)
		}
		slog.Info("using Ollama model", "model", cfg.AIModel)
		return summary.NewOllamaClient(cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout), nil
	}
}
