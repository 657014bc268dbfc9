// Package scraper imports listings from arabam.com gallery pages.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"galeri/internal/models"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var (
	// ErrInvalidURL is returned for anything that is not an arabam.com page.
	ErrInvalidURL = errors.New("a valid arabam.com URL is required")
	// ErrFetch is returned when the gallery page cannot be downloaded.
	ErrFetch = errors.New("page could not be loaded")
)

// Result is the outcome of one scrape.
type Result struct {
	Source  string                `json:"source" yaml:"source"`
	Cars    []models.BulkCarInput `json:"cars" yaml:"cars"`
	Count   int                   `json:"count" yaml:"count"`
	Skipped []string              `json:"skipped" yaml:"skipped"`
}

// Scraper fetches gallery and listing pages one at a time.
type Scraper struct {
	cfg Config
	log *zap.Logger
	now func() time.Time
}

// New creates a Scraper. Zero config values fall back to DefaultConfig.
func New(cfg Config, log *zap.Logger) *Scraper {
	def := DefaultConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	return &Scraper{cfg: cfg, log: log, now: time.Now}
}

// ValidateURL accepts http(s) URLs on arabam.com or its subdomains.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidURL
	}
	host := strings.ToLower(u.Hostname())
	if host != "arabam.com" && !strings.HasSuffix(host, ".arabam.com") {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// Scrape reads the gallery table and falls back to visiting individual
// listing pages when the table yields nothing.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Result, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	s.log.Info("Scraping gallery", zap.String("url", target.String()))
	gallery, err := s.fetch(ctx, target.String())
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(gallery.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrFetch, target, err)
	}

	result := &Result{Source: target.String(), Cars: []models.BulkCarInput{}, Skipped: []string{}}
	now := s.now()

	cars, skipped := parseTable(doc, gallery.URL, now)
	for _, msg := range skipped {
		s.log.Debug("Skipped table row", zap.String("reason", msg))
	}
	result.Skipped = append(result.Skipped, skipped...)
	if len(cars) > 0 {
		result.Cars = cars
		result.Count = len(cars)
		s.log.Info("Scraped gallery table", zap.Int("cars", len(cars)), zap.Int("skipped", len(skipped)))
		return result, nil
	}

	links := collectDetailLinks(doc, gallery.URL, s.cfg.MaxPages)
	s.log.Info("Gallery table empty, visiting listing pages", zap.Int("links", len(links)))

	for i, link := range links {
		if i > 0 {
			if err := wait(ctx, s.cfg.Delay); err != nil {
				return nil, err
			}
		}

		car, err := s.scrapeDetail(ctx, link, now)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Warn("Skipped listing page", zap.String("url", link), zap.Error(err))
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", link, err))
			continue
		}
		result.Cars = append(result.Cars, car)
	}

	result.Count = len(result.Cars)
	s.log.Info("Scraped listing pages", zap.Int("cars", result.Count), zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (s *Scraper) scrapeDetail(ctx context.Context, link string, now time.Time) (models.BulkCarInput, error) {
	p, err := s.fetch(ctx, link)
	if err != nil {
		return models.BulkCarInput{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return models.BulkCarInput{}, fmt.Errorf("failed to parse page: %w", err)
	}
	car, ok := parseDetail(doc, p.URL, now)
	if !ok {
		return models.BulkCarInput{}, errors.New("missing price")
	}
	return car, nil
}
