package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pevans/pttcrawl/articles"
	"github.com/pevans/pttcrawl/config"
	"github.com/pevans/pttcrawl/discovery"
	"github.com/pevans/pttcrawl/export"
	"github.com/pevans/pttcrawl/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	opts, set, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	cfg, err := resolveConfig(opts, set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(logging.Options{
		File:    cfg.LogFile,
		Level:   cfg.LogLevel,
		Console: zapcore.Lock(os.Stderr),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// SIGINT/SIGTERM stop the crawl; whatever was gathered is still saved
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = run(ctx, cfg, opts.json, logger, os.Stdout)
	stop()

	if err != nil {
		logger.Error("crawler failed", zap.Error(err))
	}
	logger.Sync()
	closer.Close()

	if err != nil {
		os.Exit(1)
	}
}

// run resets storage, crawls, then saves and exports the result.
func run(ctx context.Context, cfg *config.Config, asJSON bool, logger *zap.Logger, out io.Writer) error {
	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))

	logger.Info("starting crawl",
		zap.String("board", cfg.Board.Board),
		zap.String("source", cfg.Source),
		zap.Int("pages", cfg.Pages),
	)

	if err := resetStore(ctx, cfg, logger); err != nil {
		return err
	}

	fetcher, err := discovery.NewFetcher(cfg.Board.Origin, cfg.Fetch, logger)
	if err != nil {
		return err
	}
	crawler := discovery.NewCrawler(fetcher, cfg.Board, logger)

	var items []articles.Article
	switch cfg.Source {
	case config.SourceFeed:
		items, err = crawler.CrawlFeed(ctx)
	default:
		items, err = crawler.Crawl(ctx, cfg.Pages)
	}
	if err != nil {
		// Interrupted: keep the partial result
		logger.Warn("crawl interrupted", zap.Error(err), zap.Int("articles", len(items)))
	}

	// Storage and export run to completion even after an interrupt
	ctx = context.WithoutCancel(ctx)

	if err := saveArticles(ctx, cfg, runID, items, logger); err != nil {
		return err
	}

	if err := export.Write(items, cfg.XLSXPath); err != nil {
		return fmt.Errorf("failed to export articles: %w", err)
	}
	logger.Info("exported articles", zap.String("path", cfg.XLSXPath), zap.Int("count", len(items)))

	if asJSON {
		return printJSON(out, items)
	}
	printSummary(out, items, crawler.Stats(), cfg.XLSXPath)
	return nil
}

// resetStore drops and recreates the articles table. The connection is not
// kept open across the crawl.
func resetStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := articles.NewStore(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		return fmt.Errorf("failed to open article store: %w", err)
	}
	defer store.Close()

	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to initialize article store: %w", err)
	}
	return nil
}

func saveArticles(ctx context.Context, cfg *config.Config, runID string, items []articles.Article, logger *zap.Logger) error {
	store, err := articles.NewStore(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		return fmt.Errorf("failed to open article store: %w", err)
	}
	defer store.Close()

	if err := store.Save(ctx, runID, items); err != nil {
		logger.Error("failed to save articles", zap.Error(err))
		return err
	}
	return nil
}
