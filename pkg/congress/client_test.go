package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Opts{
		BaseURL:      srv.URL,
		APIKey:       "test-key",
		RequestDelay: 1, // effectively no gap in tests
		DailyQuota:   5000,
		Logger:       zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return c, srv
}

func TestClientSendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		_, _ = w.Write([]byte(`{"members": []}`))
	}))

	_, err := c.Members(context.Background(), "", true)
	require.NoError(t, err)
	require.Equal(t, "test-key", gotKey)
}

func TestClientErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, "", ErrUpstreamUnavailable},
		{"bad gateway", http.StatusBadGateway, "", ErrUpstreamUnavailable},
		{"not found", http.StatusNotFound, "", ErrUpstreamRejected},
		{"forbidden", http.StatusForbidden, "", ErrUpstreamRejected},
		{"malformed json", http.StatusOK, "{not json", ErrUpstreamRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.List(context.Background(), "member", nil, 0)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListAllPaginatesAndDedups(t *testing.T) {
	// Two full pages with one overlapping member, then a short page.
	pages := map[string][]map[string]any{}
	makePage := func(start, count int) []map[string]any {
		items := make([]map[string]any, 0, count)
		for i := 0; i < count; i++ {
			items = append(items, map[string]any{"bioguideId": fmt.Sprintf("B%06d", start+i)})
		}
		return items
	}
	pages["0"] = makePage(0, PageLimit)
	// Second page repeats the last entry of the first.
	second := makePage(PageLimit-1, PageLimit)
	pages[strconv.Itoa(PageLimit)] = second
	pages[strconv.Itoa(2*PageLimit)] = makePage(2*PageLimit-1, 10)

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		_ = json.NewEncoder(w).Encode(map[string]any{"members": pages[offset]})
	}))

	raws, err := c.ListAll(context.Background(), "member", nil)
	require.NoError(t, err)

	// 250, then 249 new, then 10 more with one duplicate.
	require.Len(t, raws, 2*PageLimit+9)
}

func TestListAllStopsAtCeiling(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		items := make([]map[string]any, PageLimit)
		for i := range items {
			items[i] = map[string]any{"bioguideId": fmt.Sprintf("B%06d", offset+i)}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"members": items})
	}))

	raws, err := c.ListAll(context.Background(), "member", nil)
	require.NoError(t, err)
	// Pages at offsets 0..5000 inclusive, full pages each.
	require.Len(t, raws, OffsetCeiling+PageLimit)
}

func TestListAllQuotaSurfacesPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]any, PageLimit)
		for i := range items {
			items[i] = map[string]any{"bioguideId": fmt.Sprintf("B%06d", i)}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"members": items})
	}))
	defer srv.Close()

	c, err := NewClient(Opts{
		BaseURL:      srv.URL,
		APIKey:       "test-key",
		RequestDelay: 1,
		DailyQuota:   5000,
		Logger:       zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	// Replace the shared limiter with a two-request budget.
	c.limiter = NewLimiter(0, 2)

	raws, listErr := c.ListAll(context.Background(), "member", nil)
	require.ErrorIs(t, listErr, ErrQuotaExhausted)
	require.Len(t, raws, 2*PageLimit)
}

func TestMemberRecordChamber(t *testing.T) {
	m := MemberRecord{Terms: &MemberTerms{Items: []MemberTerm{
		{Chamber: "House of Representatives", StartYear: 2019},
		{Chamber: "Senate", StartYear: 2023},
	}}}
	require.Equal(t, "Senate", m.Chamber())
	require.Empty(t, MemberRecord{}.Chamber())
}

func TestHearingDetailCarriesWitnessesAndDocuments(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/hearing/LC12345", r.URL.Path)
		_, _ = w.Write([]byte(`{"hearing": {
			"eventId": "LC12345",
			"title": "Oversight of the Federal Reserve",
			"witnesses": [
				{"name": "Jerome Powell", "position": "Chair", "organization": "Federal Reserve"},
				{"name": "Jane Doe"}
			],
			"documents": [
				{"title": "Prepared Testimony", "type": "Witness Statement", "url": "https://example.gov/testimony.pdf"}
			]
		}}`))
	}))

	h, err := c.HearingDetail(context.Background(), "LC12345")
	require.NoError(t, err)
	require.Equal(t, "LC12345", h.EventID)
	require.Len(t, h.Witnesses, 2)
	require.Equal(t, "Federal Reserve", h.Witnesses[0].Organization)
	require.Empty(t, h.Witnesses[1].Position)
	require.Len(t, h.Documents, 1)
	require.Equal(t, "https://example.gov/testimony.pdf", h.Documents[0].URL)
}

func TestCommitteeDetailPath(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/committee/senate/ssaf00", r.URL.Path)
		_, _ = w.Write([]byte(`{"committee": {
			"systemCode": "ssaf00",
			"name": "Committee on Agriculture, Nutrition, and Forestry",
			"chamber": "Senate",
			"phone": "(202) 224-2035",
			"websiteUrl": "https://www.agriculture.senate.gov"
		}}`))
	}))

	rec, err := c.CommitteeDetail(context.Background(), "Senate", "ssaf00")
	require.NoError(t, err)
	require.Equal(t, "(202) 224-2035", rec.Phone)
	require.Equal(t, "https://www.agriculture.senate.gov", rec.WebsiteURL)
}
