package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const houseCommitteesHTML = `<html><body>
<nav><a href="/about">About</a></nav>
<ul>
  <li><a href="/committees/agriculture">Committee on Agriculture</a></li>
  <li><a href="/committees/armed-services">Committee on Armed Services</a></li>
  <li><a href="/committees/agriculture">Committee on Agriculture</a></li>
</ul>
</body></html>`

const houseHearingsHTML = `<html><body>
<div class="hearing">
  <h2>Oversight of Rural Broadband Programs</h2>
  <span class="date">March 4, 2025</span>
  <span class="location">2318 Rayburn</span>
  <p>The committee will examine the implementation of rural broadband grant programs.</p>
  <a href="/video/12345">Watch live</a>
  <a href="/documents/testimony.pdf">Witness testimony</a>
</div>
<div class="event">
  <h3>Member Day</h3>
</div>
<div class="hearing"><span class="date">junk only, no title</span></div>
</body></html>`

const senateHearingsHTML = `<html><body>
<table>
<tr class="hearing-row hearing">
  <td><a href="/h/1">Nomination Hearing for the Department of Energy</a></td>
  <td class="date">2025-03-05</td>
  <td class="committee">Committee on Energy and Natural Resources</td>
  <td class="room">SD-366</td>
</tr>
</table>
</body></html>`

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testOpts(t *testing.T) Opts {
	t.Helper()
	return Opts{Delay: time.Millisecond, Timeout: 5 * time.Second, Logger: zaptest.NewLogger(t)}
}

func TestHouseScrapeCommittees(t *testing.T) {
	srv := serveHTML(t, houseCommitteesHTML)
	h := NewHouseScraper(testOpts(t))
	h.CommitteeListURL = srv.URL

	committees := h.ScrapeCommittees(context.Background())
	require.Len(t, committees, 2, "duplicates and non-committee links are dropped")
	assert.Equal(t, "Committee on Agriculture", committees[0].Name)
	assert.Equal(t, "House", committees[0].Chamber)
	assert.NotEmpty(t, committees[0].WebsiteURL)
}

func TestHouseScrapeHearings(t *testing.T) {
	srv := serveHTML(t, houseHearingsHTML)
	h := NewHouseScraper(testOpts(t))
	h.HearingCalendarURL = srv.URL

	hearings := h.ScrapeHearings(context.Background())
	require.Len(t, hearings, 2, "entries without a title are skipped")

	first := hearings[0]
	assert.Equal(t, "Oversight of Rural Broadband Programs", first.Title)
	require.Len(t, first.Dates, 1)
	assert.Equal(t, "2025-03-04", first.Dates[0].Date)
	require.NotNil(t, first.Location)
	assert.Equal(t, "2318 Rayburn", first.Location.Building)
	assert.NotEmpty(t, first.Description)
	require.Len(t, first.VideoURLs, 1)
	require.Len(t, first.DocumentURLs, 1)

	// Second entry has only a title.
	assert.Equal(t, "Member Day", hearings[1].Title)
	assert.Empty(t, hearings[1].Dates)
}

func TestSenateScrapeHearings(t *testing.T) {
	srv := serveHTML(t, senateHearingsHTML)
	s := NewSenateScraper(testOpts(t))
	s.HearingScheduleURL = srv.URL

	hearings := s.ScrapeHearings(context.Background())
	require.Len(t, hearings, 1)
	h := hearings[0]
	assert.Equal(t, "Nomination Hearing for the Department of Energy", h.Title)
	assert.Equal(t, "Senate", h.Chamber)
	require.Len(t, h.Dates, 1)
	assert.Equal(t, "2025-03-05", h.Dates[0].Date)
	require.Len(t, h.Committees, 1)
	assert.Equal(t, "Committee on Energy and Natural Resources", h.Committees[0].Name)
	require.NotNil(t, h.Location)
	assert.Equal(t, "SD-366", h.Location.Room)
}

func TestScrapeFailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := NewHouseScraper(testOpts(t))
	h.CommitteeListURL = srv.URL
	assert.Empty(t, h.ScrapeCommittees(context.Background()))

	s := NewSenateScraper(testOpts(t))
	s.HearingScheduleURL = srv.URL
	assert.Empty(t, s.ScrapeHearings(context.Background()))
}

func TestParseDateFormats(t *testing.T) {
	for _, in := range []string{"March 4, 2025", "Mar 4, 2025", "03/04/2025", "2025-03-04", "4 March 2025"} {
		got, ok := parseDate(in)
		require.True(t, ok, in)
		assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), got)
	}
	_, ok := parseDate("next Tuesday")
	assert.False(t, ok)
}
