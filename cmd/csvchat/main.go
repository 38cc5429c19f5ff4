package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"csvchat/internal/analyzer"
	"csvchat/internal/catalog/memory"
	"csvchat/internal/catalog/rest"
	"csvchat/internal/chat"
	"csvchat/internal/config"
	"csvchat/internal/domain"
	"csvchat/internal/inference"
	"csvchat/internal/llm/openai"
	"csvchat/internal/materializer"
	"csvchat/internal/retriever"
	"csvchat/internal/session"
	"csvchat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/csvchat/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.Log)

	// Assemble components
	var cat domain.Catalog
	switch cfg.Catalog.Type {
	case "rest", "":
		cat = rest.NewClient(rest.Config{
			BaseURL: cfg.Catalog.REST.BaseURL,
			APIKey:  os.Getenv(cfg.Catalog.REST.APIKeyEnv),
			Timeout: time.Duration(cfg.Catalog.REST.TimeoutSecs) * time.Second,
		})
	case "memory":
		if cfg.Catalog.Memory == nil || cfg.Catalog.Memory.Manifest == "" {
			log.Fatalf("memory catalog manifest missing")
		}
		cat, err = memory.LoadManifest(cfg.Catalog.Memory.Manifest)
		if err != nil {
			log.Fatalf("memory catalog init failed: %v", err)
		}
	default:
		log.Fatalf("unknown catalog: %s", cfg.Catalog.Type)
	}

	model, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
		Model:     cfg.LLM.Model,
		Timeout:   time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("llm client init failed: %v", err)
	}

	sess := session.New(cat)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = sess.RefreshVocabulary(ctx)
	cancel()
	if err != nil {
		log.Fatalf("failed to fetch catalog vocabularies: %v", err)
	}
	logger.Info("connected to catalog",
		slog.Int("genres", len(sess.Vocab().Genres)),
		slog.Int("categories", len(sess.Vocab().Categories)))

	inf := inference.New(model, logger)
	ret := retriever.New(inf, cat, cfg.Retriever.Workers, logger)
	mat := materializer.New(cat, logger)
	ana := analyzer.New(model, logger)
	svc := chat.New(ret, mat, ana, sess, cfg.Download.Dir, logger)

	m := tui.New(svc)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Goodbye!")
}

// newLogger writes debug-level diagnostics to the configured log file so the
// TUI surface stays clean; if the file cannot be opened it falls back to
// stderr at error level.
func newLogger(cfg config.LogConfig) *slog.Logger {
	level := parseLevel(cfg.Level)
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug", "":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
