// ABOUTME: Entry point for the lingo-relay translation bot backend
// ABOUTME: Wires config, profile store, gate, translator, and the webhook server

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hibiscus-labs/lingo-relay/internal/bot"
	"github.com/hibiscus-labs/lingo-relay/internal/config"
	"github.com/hibiscus-labs/lingo-relay/internal/gate"
	"github.com/hibiscus-labs/lingo-relay/internal/profile"
	"github.com/hibiscus-labs/lingo-relay/internal/sheet"
	"github.com/hibiscus-labs/lingo-relay/internal/translate"
	"github.com/hibiscus-labs/lingo-relay/internal/webhook"
)

// Version is set by goreleaser at build time.
var version = "dev"

// getConfigPath returns the path to the config file.
// Priority: LINGO_CONFIG env var > ./config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("LINGO_CONFIG"); envPath != "" {
		return envPath
	}
	return "config.yaml"
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: lingo-relay <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve    Start the webhook server")
		fmt.Println("  health   Check server health")
		fmt.Println("  version  Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "health":
		err = runHealth(ctx)
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	// .env is optional; real deployments pass environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	logger.Info("starting lingo-relay",
		"version", version,
		"http_addr", cfg.Server.HTTPAddr)

	store, closeStore, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	g := gate.New(store, cfg.Bot.Passphrase)
	rewriter := translate.NewOpenAIRewriter(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	dispatcher := bot.New(store, g, translate.New(rewriter, logger), logger)
	processor := webhook.NewProcessor(dispatcher, webhook.NewLineClient(cfg.Line.ChannelAccessToken), logger)

	mux := http.NewServeMux()
	mux.Handle("/webhook", webhook.NewHandler(processor, cfg.Line.ChannelSecret, logger))
	mux.HandleFunc("/healthz", webhook.Healthz)
	mux.HandleFunc("/", webhook.Healthz)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildStore selects the profile backend from config: the sheet-backed
// store matching production, or the SQLite alternative.
func buildStore(cfg *config.Config, logger *slog.Logger) (profile.Store, func(), error) {
	if cfg.Sheets.SpreadsheetID != "" {
		creds, err := cfg.Sheets.Credentials()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving sheets credentials: %w", err)
		}
		table := sheet.NewClient(cfg.Sheets.SpreadsheetID, creds, logger)
		return profile.NewSheetStore(table, logger), func() {}, nil
	}

	store, err := profile.NewSQLiteStore(cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening profile database: %w", err)
	}
	return store, func() { store.Close() }, nil
}

func runHealth(ctx context.Context) error {
	addr := ":8080"
	if cfg, err := config.Load(getConfigPath()); err == nil {
		addr = cfg.Server.HTTPAddr
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, "http://"+addr+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	fmt.Println("ok")
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
