package discovery

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Page fetches the raw markup at a URL.
type Page interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Browser-like headers sent with every request.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language": "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7",
}

// FetchConfig holds configuration for the page fetcher.
type FetchConfig struct {
	// Timeout per request
	Timeout time.Duration
	// Random delay before each request is drawn from [MinDelay, MaxDelay)
	MinDelay time.Duration
	MaxDelay time.Duration

	// Largest response body accepted; zero means defaultMaxBodyBytes
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 8 << 20

// DefaultFetchConfig returns the default fetch configuration.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout:      10 * time.Second,
		MinDelay:     500 * time.Millisecond,
		MaxDelay:     time.Second,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

// Fetcher performs single-attempt GET requests with a fixed header set and an
// age verification cookie held in its session jar.
type Fetcher struct {
	client *http.Client
	config FetchConfig
	logger *zap.Logger

	// sleep is swapped out in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher creates a fetcher whose session carries over18=1 for origin's
// domain. A nil logger is replaced with a no-op logger.
func NewFetcher(origin string, config FetchConfig, logger *zap.Logger) (*Fetcher, error) {
	originURL, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	jar.SetCookies(originURL, []*http.Cookie{{
		Name:   "over18",
		Value:  "1",
		Path:   "/",
		Domain: originURL.Hostname(),
	}})

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: config.Timeout,
			Jar:     jar,
		},
		config: config,
		logger: logger,
		sleep:  sleepContext,
	}, nil
}

// Fetch waits a random delay, then GETs url once. Any transport failure or
// non-2xx status is logged and returned as an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.sleep(ctx, f.delay()); err != nil {
		return "", err
	}

	body, err := f.get(ctx, url)
	if err != nil {
		f.logger.Error("failed to fetch page", zap.String("url", url), zap.Error(err))
		return "", err
	}

	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range defaultHeaders {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch %s: HTTP error: %s", url, resp.Status)
	}

	limit := f.maxBodyBytes()
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("failed to read %s: body exceeds %d bytes", url, limit)
	}

	return string(data), nil
}

func (f *Fetcher) maxBodyBytes() int64 {
	if f.config.MaxBodyBytes > 0 {
		return f.config.MaxBodyBytes
	}
	return defaultMaxBodyBytes
}

// delay draws a duration in [MinDelay, MaxDelay).
func (f *Fetcher) delay() time.Duration {
	spread := f.config.MaxDelay - f.config.MinDelay
	if spread <= 0 {
		return f.config.MinDelay
	}
	return f.config.MinDelay + time.Duration(rand.Int63n(int64(spread)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
