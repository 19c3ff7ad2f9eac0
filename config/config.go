package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/pevans/pttcrawl/articles"
	"github.com/pevans/pttcrawl/discovery"
	"github.com/pevans/pttcrawl/logging"
	"github.com/pevans/pttcrawl/scraper"
)

// Crawl sources
const (
	SourceIndex = "index" // walk listing pages
	SourceFeed  = "feed"  // read the board's Atom feed
)

// Custom errors for configuration validation
var (
	ErrInvalidPages  = errors.New("pages must be greater than zero")
	ErrInvalidSource = errors.New("source must be index or feed")
	ErrInvalidDelay  = errors.New("max delay must not be less than min delay")
	ErrMissingPath   = errors.New("path must not be empty")
)

// Config is the resolved configuration for one crawl run.
type Config struct {
	Board  scraper.BoardConfig
	Fetch  discovery.FetchConfig
	Pages  int
	Source string

	DBDriver string
	DBDSN    string
	XLSXPath string

	LogFile  string
	LogLevel string
}

// Default returns the built-in configuration: three pages of Gossiping,
// stored in ptt_gossip.db and exported to ptt_gossip.xlsx.
func Default() *Config {
	log := logging.DefaultOptions()

	return &Config{
		Board:    scraper.DefaultBoardConfig(),
		Fetch:    discovery.DefaultFetchConfig(),
		Pages:    3,
		Source:   SourceIndex,
		DBDriver: articles.DriverSQLite,
		DBDSN:    "ptt_gossip.db",
		XLSXPath: "ptt_gossip.xlsx",
		LogFile:  log.File,
		LogLevel: log.Level,
	}
}

// ApplyFile overlays every non-zero value in fc onto c. A nil fc is a no-op.
func (c *Config) ApplyFile(fc *FileConfig) error {
	if fc == nil {
		return nil
	}

	setString(&c.Board.Origin, fc.Crawl.Origin)
	setString(&c.Board.Board, fc.Crawl.Board)
	setString(&c.Source, fc.Crawl.Source)
	if fc.Crawl.Pages != 0 {
		c.Pages = fc.Crawl.Pages
	}

	durations := []struct {
		field *time.Duration
		value string
		name  string
	}{
		{&c.Fetch.Timeout, fc.Crawl.Timeout, "timeout"},
		{&c.Fetch.MinDelay, fc.Crawl.MinDelay, "min_delay"},
		{&c.Fetch.MaxDelay, fc.Crawl.MaxDelay, "max_delay"},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid crawl.%s: %w", d.name, err)
		}
		*d.field = parsed
	}

	setString(&c.DBDriver, fc.Storage.Driver)
	setString(&c.DBDSN, fc.Storage.DSN)
	setString(&c.XLSXPath, fc.Export.Path)
	setString(&c.LogFile, fc.Log.File)
	setString(&c.LogLevel, fc.Log.Level)

	return nil
}

// Validate checks that the configuration can drive a crawl.
func (c *Config) Validate() error {
	if c.Pages <= 0 {
		return ErrInvalidPages
	}
	if c.Source != SourceIndex && c.Source != SourceFeed {
		return fmt.Errorf("%w: %q", ErrInvalidSource, c.Source)
	}
	if c.DBDriver != articles.DriverSQLite && c.DBDriver != articles.DriverMySQL {
		return fmt.Errorf("%w: %q", articles.ErrUnsupportedDriver, c.DBDriver)
	}
	if c.Fetch.MaxDelay < c.Fetch.MinDelay {
		return ErrInvalidDelay
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New("timeout must be greater than zero")
	}
	if c.DBDSN == "" {
		return fmt.Errorf("database: %w", ErrMissingPath)
	}
	if c.XLSXPath == "" {
		return fmt.Errorf("xlsx: %w", ErrMissingPath)
	}
	if c.Board.Origin == "" || c.Board.Board == "" {
		return errors.New("board origin and name must not be empty")
	}
	return nil
}

func setString(field *string, value string) {
	if value != "" {
		*field = value
	}
}
