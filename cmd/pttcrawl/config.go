package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/pevans/pttcrawl/config"
)

// options holds everything parsed from the command line.
type options struct {
	configPath string
	json       bool

	pages    int
	board    string
	source   string
	dbDriver string
	dbDSN    string
	xlsxPath string
	logFile  string
	logLevel string
	timeout  time.Duration
}

// parseFlags parses args. Flag defaults are empty so that only values the
// user actually passed override the environment and config file.
func parseFlags(args []string, output io.Writer) (*options, map[string]bool, error) {
	opts := &options{}

	fs := flag.NewFlagSet("pttcrawl", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "Path to YAML config file (PTTCRAWL_CONFIG, default ~/.pttcrawl/config.yaml)")
	fs.BoolVar(&opts.json, "json", false, "Print crawled articles as JSON")
	fs.IntVar(&opts.pages, "pages", 0, "Number of listing pages to crawl (PTTCRAWL_PAGES, default 3)")
	fs.StringVar(&opts.board, "board", "", "Board to crawl (PTTCRAWL_BOARD, default Gossiping)")
	fs.StringVar(&opts.source, "source", "", "Where to list articles from: index or feed (PTTCRAWL_SOURCE, default index)")
	fs.StringVar(&opts.dbDriver, "db-driver", "", "Database driver: sqlite3 or mysql (PTTCRAWL_DB_DRIVER, default sqlite3)")
	fs.StringVar(&opts.dbDSN, "db", "", "Database DSN or SQLite path (PTTCRAWL_DB_DSN, default ptt_gossip.db)")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "Spreadsheet output path (PTTCRAWL_XLSX, default ptt_gossip.xlsx)")
	fs.StringVar(&opts.logFile, "log-file", "", "Log file path (PTTCRAWL_LOG_FILE, default ptt_crawler.log)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (PTTCRAWL_LOG_LEVEL, default info)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Timeout per request (PTTCRAWL_TIMEOUT, default 10s)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	return opts, set, nil
}

// resolveConfig builds the run configuration. Precedence, highest first:
// flags, environment, config file, built-in defaults.
func resolveConfig(opts *options, set map[string]bool) (*config.Config, error) {
	cfg := config.Default()

	configPath := getEnv("PTTCRAWL_CONFIG", opts.configPath)
	if set["config"] {
		configPath = opts.configPath
	}
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	fileConfig, err := config.LoadConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFile(fileConfig); err != nil {
		return nil, err
	}

	cfg.Pages = getEnvInt("PTTCRAWL_PAGES", cfg.Pages)
	cfg.Board.Board = getEnv("PTTCRAWL_BOARD", cfg.Board.Board)
	cfg.Source = getEnv("PTTCRAWL_SOURCE", cfg.Source)
	cfg.DBDriver = getEnv("PTTCRAWL_DB_DRIVER", cfg.DBDriver)
	cfg.DBDSN = getEnv("PTTCRAWL_DB_DSN", cfg.DBDSN)
	cfg.XLSXPath = getEnv("PTTCRAWL_XLSX", cfg.XLSXPath)
	cfg.LogFile = getEnv("PTTCRAWL_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = getEnv("PTTCRAWL_LOG_LEVEL", cfg.LogLevel)
	cfg.Fetch.Timeout = getEnvDuration("PTTCRAWL_TIMEOUT", cfg.Fetch.Timeout)

	if set["pages"] {
		cfg.Pages = opts.pages
	}
	if set["board"] {
		cfg.Board.Board = opts.board
	}
	if set["source"] {
		cfg.Source = opts.source
	}
	if set["db-driver"] {
		cfg.DBDriver = opts.dbDriver
	}
	if set["db"] {
		cfg.DBDSN = opts.dbDSN
	}
	if set["xlsx"] {
		cfg.XLSXPath = opts.xlsxPath
	}
	if set["log-file"] {
		cfg.LogFile = opts.logFile
	}
	if set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}
	if set["timeout"] {
		cfg.Fetch.Timeout = opts.timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
