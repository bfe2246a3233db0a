// Package scrape collects committee and hearing data from the chamber
// websites. Scrapers return the same record shapes as the upstream API
// client so the resolver has a single input format, and they never write
// to the database themselves.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/congress-network/congressx/pkg/utils"
	"go.uber.org/zap"
)

// Opts configures a scraper.
type Opts struct {
	Delay      time.Duration
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func (o *Opts) defaults() {
	if o.Delay <= 0 {
		o.Delay = 1 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	} else if o.HTTPClient.Timeout == 0 {
		o.HTTPClient.Timeout = o.Timeout
	}
}

// scraper is the shared fetch/parse core of the chamber scrapers.
type scraper struct {
	name   string
	base   string
	http   *http.Client
	delay  time.Duration
	logger *zap.Logger

	mu        sync.Mutex
	lastFetch time.Time
}

func newScraper(name, base string, o Opts) *scraper {
	o.defaults()
	return &scraper{
		name:   name,
		base:   strings.TrimRight(base, "/"),
		http:   o.HTTPClient,
		delay:  o.Delay,
		logger: o.Logger,
	}
}

// fetch retrieves one page, pacing requests by the configured delay.
func (s *scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	s.pace(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", s.name, err)
	}
	req.Header.Set("User-Agent", "congressx/1.0 (congressional data pipeline)")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch %s: %w", s.name, pageURL, err)
	}
	defer func() { _ = utils.DrainAndClose(resp.Body) }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: fetch %s: status %d", s.name, pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse %s: %w", s.name, pageURL, err)
	}
	return doc, nil
}

func (s *scraper) pace(ctx context.Context) {
	s.mu.Lock()
	wait := time.Duration(0)
	now := time.Now()
	if !s.lastFetch.IsZero() {
		if since := now.Sub(s.lastFetch); since < s.delay {
			wait = s.delay - since
		}
	}
	s.lastFetch = now.Add(wait)
	s.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}
}

// absolute resolves a possibly-relative href against the scraper base.
func (s *scraper) absolute(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return href
	}
	base, err := url.Parse(s.base)
	if err != nil {
		return href
	}
	return base.ResolveReference(u).String()
}

// cleanText collapses whitespace runs in scraped text.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// dateLayouts are the formats seen on the chamber sites.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
	"2006-01-02",
	"2 January 2006",
	"2 Jan 2006",
}

// parseDate tries the known chamber-site date formats.
func parseDate(text string) (time.Time, bool) {
	text = cleanText(text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
