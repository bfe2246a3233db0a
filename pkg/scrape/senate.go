package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/congress-network/congressx/pkg/congress"
	"go.uber.org/zap"
)

// SenateScraper collects committee and hearing data from senate.gov.
type SenateScraper struct {
	*scraper

	CommitteeListURL   string
	HearingScheduleURL string
}

func NewSenateScraper(o Opts) *SenateScraper {
	return &SenateScraper{
		scraper:            newScraper("senate_scraper", "https://www.senate.gov", o),
		CommitteeListURL:   "https://www.senate.gov/committees/",
		HearingScheduleURL: "https://www.senate.gov/committees/hearings_meetings.htm",
	}
}

// ScrapeCommittees collects the committee list, tagging subcommittee rows
// by the link text. Failures degrade to an empty slice with a warning.
func (s *SenateScraper) ScrapeCommittees(ctx context.Context) []congress.CommitteeRecord {
	doc, err := s.fetch(ctx, s.CommitteeListURL)
	if err != nil {
		s.logger.Warn("Senate committee scrape failed", zap.Error(err))
		return nil
	}

	var committees []congress.CommitteeRecord
	seen := map[string]bool{}
	doc.Find("a[href*='committee']").Each(func(_ int, sel *goquery.Selection) {
		name := cleanText(sel.Text())
		href, _ := sel.Attr("href")
		pageURL := s.absolute(href)
		if name == "" || pageURL == "" || seen[name] {
			return
		}
		// Navigation links repeat the word without naming a committee.
		if !strings.Contains(strings.ToLower(name), "committee") {
			return
		}
		seen[name] = true
		committees = append(committees, congress.CommitteeRecord{
			Name:       name,
			Chamber:    "Senate",
			WebsiteURL: pageURL,
		})
	})

	s.logger.Info("Scraped Senate committees", zap.Int("count", len(committees)))
	return committees
}

// ScrapeHearings collects the hearings and meetings schedule.
func (s *SenateScraper) ScrapeHearings(ctx context.Context) []congress.HearingRecord {
	doc, err := s.fetch(ctx, s.HearingScheduleURL)
	if err != nil {
		s.logger.Warn("Senate hearing scrape failed", zap.Error(err))
		return nil
	}

	var hearings []congress.HearingRecord
	doc.Find(".hearing, .meeting, tr[class*='hearing'], [class*='schedule-item']").Each(func(_ int, sel *goquery.Selection) {
		rec := congress.HearingRecord{Chamber: "Senate"}

		for _, titleSel := range []string{".title", ".hearing-title", "a", "h3", "h4"} {
			if t := cleanText(sel.Find(titleSel).First().Text()); t != "" {
				rec.Title = t
				break
			}
		}
		if rec.Title == "" {
			return
		}

		if dateText := cleanText(sel.Find(".date, time, [class*='date']").First().Text()); dateText != "" {
			if t, ok := parseDate(dateText); ok {
				rec.Dates = []congress.HearingDate{{Date: t.Format("2006-01-02")}}
			}
		}

		if committee := cleanText(sel.Find(".committee, [class*='committee-name']").First().Text()); committee != "" {
			rec.Committees = []congress.CommitteeParent{{Name: committee}}
		}

		if room := cleanText(sel.Find(".room, .location").First().Text()); room != "" {
			rec.Location = &congress.HearingLocation{Room: room}
		}

		hearings = append(hearings, rec)
	})

	s.logger.Info("Scraped Senate hearings", zap.Int("count", len(hearings)))
	return hearings
}
