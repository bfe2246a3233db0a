package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/congress-network/congressx/pkg/utils"
	"go.uber.org/zap"
)

const (
	// PageLimit is the upstream page size for list endpoints.
	PageLimit = 250
	// OffsetCeiling bounds pagination so a bad response can never loop
	// the quota away. We warn and return what we have.
	OffsetCeiling = 5000

	defaultTimeout = 30 * time.Second
	userAgent      = "congressx/1.0 (congressional data pipeline)"
)

// Client talks to the congress.gov API. All requests flow through the
// shared per-origin limiter, so concurrent fetchers stay inside the quota.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *Limiter
	logger  *zap.Logger
}

// Opts configures a Client.
type Opts struct {
	BaseURL      string
	APIKey       string
	RequestDelay time.Duration
	DailyQuota   int
	Timeout      time.Duration
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// NewClient builds a client. Quota counters are shared per origin across
// all clients in the process.
func NewClient(o Opts) (*Client, error) {
	if o.APIKey == "" {
		return nil, fmt.Errorf("congress: api key is required")
	}
	if o.BaseURL == "" {
		o.BaseURL = "https://api.congress.gov/v3"
	}
	if o.RequestDelay <= 0 {
		o.RequestDelay = 1 * time.Second
	}
	if o.DailyQuota <= 0 {
		o.DailyQuota = 5000
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	httpClient := o.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.Timeout}
	} else if httpClient.Timeout == 0 {
		httpClient.Timeout = o.Timeout
	}

	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("congress: invalid base url %q: %w", o.BaseURL, err)
	}

	return &Client{
		baseURL: strings.TrimRight(o.BaseURL, "/"),
		apiKey:  o.APIKey,
		http:    httpClient,
		limiter: LimiterFor(u.Host, o.RequestDelay, o.DailyQuota),
		logger:  o.Logger,
	}, nil
}

// LimiterStatus reports the shared quota counters for this client's origin.
func (c *Client) LimiterStatus() LimiterStatus {
	return c.limiter.Status()
}

// get performs one rate-limited request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUpstreamRejected, err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = utils.DrainAndClose(resp.Body) }()

	status := c.limiter.Status()
	c.logger.Debug("Upstream request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("daily_count", status.DailyCount))

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d for %s", ErrUpstreamUnavailable, resp.StatusCode, path)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d for %s", ErrUpstreamRejected, resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstreamRejected, path, err)
	}
	return nil
}

// entityInfo maps a logical entity name to its upstream path, envelope key
// and external-ID field used for pagination dedup.
type entityInfo struct {
	path string
	key  string
}

var entities = map[string]entityInfo{
	"member":    {path: "/member", key: "members"},
	"committee": {path: "/committee", key: "committees"},
	"hearing":   {path: "/hearing", key: "hearings"},
}

// List fetches one page of an entity at the given offset.
func (c *Client) List(ctx context.Context, entity string, filter url.Values, offset int) ([]json.RawMessage, error) {
	info, ok := entities[entity]
	if !ok {
		return nil, fmt.Errorf("congress: unknown entity %q", entity)
	}

	params := url.Values{}
	for k, vs := range filter {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	params.Set("limit", strconv.Itoa(PageLimit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("format", "json")

	var envelope map[string]json.RawMessage
	if err := c.get(ctx, info.path, params, &envelope); err != nil {
		return nil, err
	}

	raw, ok := envelope[info.key]
	if !ok {
		// An empty result set omits the list key entirely.
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %s list: %v", ErrUpstreamRejected, entity, err)
	}
	return items, nil
}

// ListAll paginates an entity to exhaustion, deduplicating by external ID.
// A short page ends pagination; passing the offset ceiling logs a warning
// and returns what was collected so far.
func (c *Client) ListAll(ctx context.Context, entity string, filter url.Values) ([]json.RawMessage, error) {
	seen := map[string]bool{}
	var all []json.RawMessage

	for offset := 0; ; offset += PageLimit {
		if offset > OffsetCeiling {
			c.logger.Warn("Pagination hit safety ceiling, returning partial result",
				zap.String("entity", entity),
				zap.Int("offset", offset),
				zap.Int("collected", len(all)))
			return all, nil
		}

		items, err := c.List(ctx, entity, filter, offset)
		if err != nil {
			return all, err
		}
		if len(items) == 0 {
			return all, nil
		}

		for _, item := range items {
			id := externalID(item)
			if id != "" && seen[id] {
				continue
			}
			if id != "" {
				seen[id] = true
			}
			all = append(all, item)
		}

		if len(items) < PageLimit {
			return all, nil
		}
	}
}

// externalID reads the upstream identifier fields used for dedup.
func externalID(raw json.RawMessage) string {
	var ids struct {
		BioguideID   string `json:"bioguideId"`
		SystemCode   string `json:"systemCode"`
		EventID      string `json:"eventId"`
		JacketNumber int    `json:"jacketNumber"`
		URL          string `json:"url"`
	}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return ""
	}
	switch {
	case ids.BioguideID != "":
		return ids.BioguideID
	case ids.SystemCode != "":
		return ids.SystemCode
	case ids.EventID != "":
		return ids.EventID
	case ids.JacketNumber != 0:
		return "jacket-" + strconv.Itoa(ids.JacketNumber)
	}
	return ids.URL
}

// Members lists members, optionally filtered by chamber, current only.
func (c *Client) Members(ctx context.Context, chamber string, currentOnly bool) ([]MemberRecord, error) {
	filter := url.Values{}
	if chamber != "" {
		filter.Set("chamber", strings.ToLower(chamber))
	}
	if currentOnly {
		filter.Set("currentMember", "true")
	}
	raws, err := c.ListAll(ctx, "member", filter)
	records := decodeAll[MemberRecord](c, "member", raws)
	return records, err
}

// MemberDetail fetches one member by bioguide ID.
func (c *Client) MemberDetail(ctx context.Context, bioguideID string) (MemberRecord, error) {
	var envelope struct {
		Member MemberRecord `json:"member"`
	}
	err := c.get(ctx, "/member/"+url.PathEscape(bioguideID), nil, &envelope)
	return envelope.Member, err
}

// Committees lists committees, optionally filtered by chamber.
func (c *Client) Committees(ctx context.Context, chamber string) ([]CommitteeRecord, error) {
	filter := url.Values{}
	if chamber != "" {
		filter.Set("chamber", strings.ToLower(chamber))
	}
	raws, err := c.ListAll(ctx, "committee", filter)
	records := decodeAll[CommitteeRecord](c, "committee", raws)
	return records, err
}

// CommitteeDetail fetches one committee by chamber and system code.
func (c *Client) CommitteeDetail(ctx context.Context, chamber, systemCode string) (CommitteeRecord, error) {
	var envelope struct {
		Committee CommitteeRecord `json:"committee"`
	}
	path := "/committee/" + url.PathEscape(strings.ToLower(chamber)) + "/" + url.PathEscape(systemCode)
	err := c.get(ctx, path, nil, &envelope)
	return envelope.Committee, err
}

// CommitteeMembers fetches the membership roster of one committee.
func (c *Client) CommitteeMembers(ctx context.Context, chamber, systemCode string) ([]CommitteeMemberRecord, error) {
	var envelope struct {
		Members []CommitteeMemberRecord `json:"members"`
	}
	path := "/committee/" + url.PathEscape(strings.ToLower(chamber)) + "/" + url.PathEscape(systemCode) + "/member"
	err := c.get(ctx, path, nil, &envelope)
	return envelope.Members, err
}

// MemberAssignments fetches the committee assignments of one member.
func (c *Client) MemberAssignments(ctx context.Context, bioguideID string) ([]AssignmentRecord, error) {
	var envelope struct {
		Committees []AssignmentRecord `json:"committees"`
	}
	path := "/member/" + url.PathEscape(bioguideID) + "/committee-assignments"
	err := c.get(ctx, path, nil, &envelope)
	return envelope.Committees, err
}

// Hearings lists hearings for a congress.
func (c *Client) Hearings(ctx context.Context, congressNumber int) ([]HearingRecord, error) {
	filter := url.Values{}
	if congressNumber > 0 {
		filter.Set("congress", strconv.Itoa(congressNumber))
	}
	raws, err := c.ListAll(ctx, "hearing", filter)
	records := decodeAll[HearingRecord](c, "hearing", raws)
	return records, err
}

// HearingDetail fetches one hearing by event ID.
func (c *Client) HearingDetail(ctx context.Context, eventID string) (HearingRecord, error) {
	var envelope struct {
		Hearing HearingRecord `json:"hearing"`
	}
	err := c.get(ctx, "/hearing/"+url.PathEscape(eventID), nil, &envelope)
	return envelope.Hearing, err
}

// decodeAll unmarshals raw list items, skipping malformed entries with a
// warning so one bad record never sinks a whole page.
func decodeAll[T any](c *Client, entity string, raws []json.RawMessage) []T {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			c.logger.Warn("Skipping malformed record",
				zap.String("entity", entity),
				zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out
}
