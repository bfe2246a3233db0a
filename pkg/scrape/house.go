package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/congress-network/congressx/pkg/congress"
	"go.uber.org/zap"
)

// HouseScraper collects committee and hearing data from house.gov.
type HouseScraper struct {
	*scraper

	// Overridable for tests.
	CommitteeListURL   string
	HearingCalendarURL string
}

func NewHouseScraper(o Opts) *HouseScraper {
	return &HouseScraper{
		scraper:            newScraper("house_scraper", "https://www.house.gov", o),
		CommitteeListURL:   "https://www.house.gov/committees",
		HearingCalendarURL: "https://www.house.gov/legislative-activity/committee-hearings",
	}
}

// ScrapeCommittees collects the committee list. Network failures degrade
// to an empty slice with a warning so the API data still flows.
func (h *HouseScraper) ScrapeCommittees(ctx context.Context) []congress.CommitteeRecord {
	doc, err := h.fetch(ctx, h.CommitteeListURL)
	if err != nil {
		h.logger.Warn("House committee scrape failed", zap.Error(err))
		return nil
	}

	var committees []congress.CommitteeRecord
	seen := map[string]bool{}
	doc.Find("a[href*='/committees/']").Each(func(_ int, sel *goquery.Selection) {
		name := cleanText(sel.Text())
		href, _ := sel.Attr("href")
		pageURL := h.absolute(href)
		if name == "" || pageURL == "" || seen[name] {
			return
		}
		seen[name] = true
		committees = append(committees, congress.CommitteeRecord{
			Name:       name,
			Chamber:    "House",
			WebsiteURL: pageURL,
		})
	})

	h.logger.Info("Scraped House committees", zap.Int("count", len(committees)))
	return committees
}

// ScrapeHearings collects the hearing calendar.
func (h *HouseScraper) ScrapeHearings(ctx context.Context) []congress.HearingRecord {
	doc, err := h.fetch(ctx, h.HearingCalendarURL)
	if err != nil {
		h.logger.Warn("House hearing scrape failed", zap.Error(err))
		return nil
	}

	var hearings []congress.HearingRecord
	doc.Find(".hearing, .event, [class*='committee-hearing']").Each(func(_ int, sel *goquery.Selection) {
		if rec, ok := h.extractHearing(sel); ok {
			hearings = append(hearings, rec)
		}
	})

	h.logger.Info("Scraped House hearings", zap.Int("count", len(hearings)))
	return hearings
}

func (h *HouseScraper) extractHearing(sel *goquery.Selection) (congress.HearingRecord, bool) {
	rec := congress.HearingRecord{Chamber: "House"}

	for _, titleSel := range []string{".title", ".hearing-title", "h1", "h2", "h3"} {
		if t := cleanText(sel.Find(titleSel).First().Text()); t != "" {
			rec.Title = t
			break
		}
	}
	if rec.Title == "" {
		return rec, false
	}

	if dateText := cleanText(sel.Find(".date, .hearing-date, [class*='date']").First().Text()); dateText != "" {
		if t, ok := parseDate(dateText); ok {
			rec.Dates = []congress.HearingDate{{Date: t.Format("2006-01-02")}}
		}
	}

	if loc := cleanText(sel.Find(".location, .hearing-location, .room").First().Text()); loc != "" {
		rec.Location = &congress.HearingLocation{Building: loc}
	}

	// Only substantial paragraphs count as descriptions.
	if desc := cleanText(sel.Find(".description, .hearing-description, p").First().Text()); len(desc) > 20 {
		rec.Description = desc
	}

	sel.Find("a[href*='video'], a[href*='youtube'], a[href*='webcast']").Each(func(_ int, link *goquery.Selection) {
		if href, ok := link.Attr("href"); ok {
			if u := h.absolute(href); u != "" && !contains(rec.VideoURLs, u) {
				rec.VideoURLs = append(rec.VideoURLs, u)
			}
		}
	})
	sel.Find("a[href$='.pdf']").Each(func(_ int, link *goquery.Selection) {
		if href, ok := link.Attr("href"); ok {
			if u := h.absolute(href); u != "" && !contains(rec.DocumentURLs, u) {
				rec.DocumentURLs = append(rec.DocumentURLs, u)
			}
		}
	})

	return rec, true
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if strings.EqualFold(e, v) {
			return true
		}
	}
	return false
}
