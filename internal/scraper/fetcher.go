package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// page is a fetched HTML document.
type page struct {
	URL  *url.URL
	Body []byte
}

// fetch downloads one page with a fresh collector.
func (s *Scraper) fetch(ctx context.Context, target string) (*page, error) {
	c := colly.NewCollector(
		colly.UserAgent(s.cfg.UserAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.cfg.Timeout)
	if s.cfg.Transport != nil {
		c.WithTransport(s.cfg.Transport)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7")
		r.Headers.Set("Referer", "https://www.arabam.com/")
	})

	var (
		result   *page
		fetchErr error
	)
	c.OnResponse(func(r *colly.Response) {
		result = &page{URL: r.Request.URL, Body: r.Body}
	})
	c.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = fmt.Errorf("%w: %s returned status %d: %v", ErrFetch, target, status, err)
	})

	if err := c.Visit(target); err != nil {
		if fetchErr != nil {
			return nil, fetchErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to visit %s: %v", ErrFetch, target, err)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if result == nil {
		return nil, fmt.Errorf("%w: empty response from %s", ErrFetch, target)
	}
	return result, nil
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DefaultConfig mirrors a desktop browser with a 30s timeout.
func DefaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
		Delay:     time.Second,
		MaxPages:  20,
	}
}

// Config tunes fetching.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// Delay is the pause between detail page requests.
	Delay time.Duration
	// MaxPages caps how many detail pages are visited.
	MaxPages  int
	Transport http.RoundTripper
}
