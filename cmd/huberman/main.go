// Command huberman serves hybrid search over Huberman Lab podcast
// transcripts via HTTP, MCP (stdio) or the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/huberman-health-mcp/internal/assistant"
	"github.com/dshills/huberman-health-mcp/internal/config"
	"github.com/dshills/huberman-health-mcp/internal/corpus"
	"github.com/dshills/huberman-health-mcp/internal/embedder"
	"github.com/dshills/huberman-health-mcp/internal/httpapi"
	"github.com/dshills/huberman-health-mcp/internal/mcp"
	"github.com/dshills/huberman-health-mcp/internal/ranker"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "huberman",
		Usage:   "Hybrid search over Huberman Lab podcast transcripts",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{config.EnvLogLevel},
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory holding merged.json and videos.json",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite corpus produced by the import command (overrides JSON files)",
			},
			&cli.StringFlag{
				Name:  "embedding-provider",
				Usage: "Embedding provider: openai, ollama, local or none",
			},
			&cli.StringFlag{
				Name:  "search-mode",
				Usage: "Default search mode: hybrid, semantic or keyword",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP search API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP protocol on stdio",
				Action: mcpCommand,
			},
			{
				Name:      "search",
				Usage:     "Search from the terminal",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max-results",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   assistant.DefaultMaxResults,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode for this query: hybrid, semantic or keyword",
					},
					&cli.BoolFlag{
						Name:  "recommend",
						Usage: "Also generate a recommendation (needs OPENROUTER_API_KEY)",
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Import the JSON corpus into a SQLite database",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "merged",
						Usage: "Path to merged.json (defaults into --data-dir)",
					},
					&cli.StringFlag{
						Name:  "videos",
						Usage: "Path to videos.json (defaults into --data-dir)",
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "SQLite database to write",
						Required: true,
					},
				},
			},
			{
				Name:   "topics",
				Usage:  "List health topics and how many episodes cover them",
				Action: topicsCommand,
			},
			{
				Name:   "version",
				Usage:  "Print build information",
				Action: versionCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Stdout is reserved for the MCP protocol and command output.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// loadConfig reads the environment and applies global flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
		cfg.MergedPath = ""
		cfg.VideosPath = ""
	}
	if c.IsSet("db") {
		cfg.DatabasePath = c.String("db")
	}
	if c.IsSet("embedding-provider") {
		cfg.EmbeddingProvider = c.String("embedding-provider")
	}
	if c.IsSet("search-mode") {
		cfg.SearchMode = c.String("search-mode")
	}
	return cfg, cfg.Validate()
}

func newAssistant(ctx context.Context, c *cli.Context, mutate func(*config.Config)) (*assistant.Assistant, config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cfg, err
	}
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := assistant.New(ctx, cfg, slog.Default())
	return a, cfg, err
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, cfg, err := newAssistant(ctx, c, func(cfg *config.Config) {
		if c.IsSet("addr") {
			cfg.HTTPAddr = c.String("addr")
		}
	})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	logger := slog.Default()
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewHandler(a, httpapi.Options{CORSOrigin: cfg.CORSOrigin, Logger: logger}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api server starting", "addr", cfg.HTTPAddr, "semantic", a.Health().SemanticIndexReady)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}

func mcpCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, _, err := newAssistant(ctx, c, nil)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	slog.Info("huberman MCP server starting", "version", version, "driver", corpus.DriverName)
	return mcp.NewServer(a, slog.Default()).Serve(ctx, os.Stdin, os.Stdout)
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("a query is required")
	}

	a, _, err := newAssistant(c.Context, c, nil)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if c.Bool("recommend") {
		ans, err := a.Search(c.Context, query, c.Int("max-results"))
		if err != nil {
			return err
		}
		printResults(c, ans.Videos, ans.SearchType)
		fmt.Fprintf(c.App.Writer, "\n%s\n%s\n", color.New(color.FgGreen, color.Bold).Sprint("Recommendation:"), ans.Recommendation)
		return nil
	}

	var mode ranker.SearchMode
	if c.IsSet("mode") {
		if mode, err = ranker.ParseSearchMode(c.String("mode")); err != nil {
			return err
		}
	}
	resp, err := a.Rank(c.Context, ranker.SearchRequest{Query: query, Limit: c.Int("max-results"), Mode: mode})
	if err != nil {
		return err
	}
	printResults(c, resp.Results, string(resp.SearchMode))
	for _, d := range resp.Diagnostics {
		slog.Warn("search diagnostic", "video_id", d.VideoID, "reason", d.Reason)
	}
	return nil
}

func importCommand(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	merged := c.String("merged")
	if merged == "" {
		merged = cfg.MergedFile()
	}
	videos := c.String("videos")
	if videos == "" {
		videos = cfg.VideosFile()
		if _, err := os.Stat(videos); err != nil {
			videos = ""
		}
	}

	store, err := corpus.LoadJSON(merged, videos)
	if err != nil {
		return err
	}
	for _, w := range store.Warnings() {
		slog.Warn("corpus entry skipped", "reason", w)
	}

	db, err := corpus.OpenSQLite(c.Context, c.String("out"))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Import(c.Context, store, merged); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s %d videos, %d segments into %s\n",
		color.New(color.FgGreen, color.Bold).Sprint("Imported"),
		store.Len(), store.SegmentCount(), c.String("out"))
	return nil
}

func topicsCommand(c *cli.Context) error {
	// Topic counts need titles only; skip building the embedding index.
	a, _, err := newAssistant(c.Context, c, func(cfg *config.Config) {
		cfg.EmbeddingProvider = embedder.ProviderNone
	})
	if err != nil {
		return err
	}

	counts, err := a.TopicCounts()
	if err != nil {
		return err
	}

	bold := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintln(c.App.Writer, bold("Health topics"))
	for _, tc := range counts {
		fmt.Fprintf(c.App.Writer, "  %-12s %d videos\n", tc.Topic, tc.Count)
	}
	fmt.Fprintf(c.App.Writer, "%s %d\n", bold("Total videos:"), a.Store().Len())
	return nil
}

func versionCommand(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "Huberman Health Search\n")
	fmt.Fprintf(c.App.Writer, "Version: %s\n", version)
	fmt.Fprintf(c.App.Writer, "Build Time: %s\n", buildTime)
	fmt.Fprintf(c.App.Writer, "Build Mode: %s\n", corpus.BuildMode)
	fmt.Fprintf(c.App.Writer, "SQLite Driver: %s\n", corpus.DriverName)
	return nil
}
