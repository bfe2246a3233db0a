package activity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/congress-network/congressx/pkg/congress"
	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/congress-network/congressx/pkg/pipeline/types"
	"github.com/congress-network/congressx/pkg/relate"
	"github.com/congress-network/congressx/pkg/resolve"
	"go.uber.org/zap"
)

// IngestMembers pulls current members from the upstream API and upserts
// them in batches. A quota-exhausted fetch keeps whatever arrived and
// reports a partial run instead of failing.
func (c *Context) IngestMembers(ctx context.Context, in types.IngestInput) (types.IngestOutput, error) {
	start := time.Now()
	out := types.IngestOutput{Entity: "members"}

	records, err := c.Congress.Members(ctx, in.Chamber, true)
	if err != nil {
		if !errors.Is(err, congress.ErrQuotaExhausted) {
			return out, err
		}
		out.Partial = true
		c.Logger.Warn("Member fetch hit daily quota, continuing with partial data",
			zap.Int("fetched", len(records)))
	}
	out.Fetched = len(records)

	batch := make([]*models.Member, 0, c.batchSize())
	flush := func() {
		if len(batch) == 0 {
			return
		}
		summary, err := c.Staging.UpsertMembers(ctx, batch)
		out.Created += summary.Created
		out.Updated += summary.Updated
		out.Failed += summary.Failed
		if err != nil {
			c.Logger.Error("Member batch failed", zap.Error(err))
		}
		batch = batch[:0]
	}

	detailBudget := true
	for _, rec := range records {
		// List entries occasionally arrive without term history, which
		// leaves the chamber unknown. The detail endpoint has it.
		if detailBudget && rec.Terms == nil && rec.BioguideID != "" {
			full, err := c.Congress.MemberDetail(ctx, rec.BioguideID)
			switch {
			case errors.Is(err, congress.ErrQuotaExhausted):
				out.Partial = true
				detailBudget = false
				c.Logger.Warn("Member detail fetch hit daily quota, skipping further detail fetches")
			case err != nil:
				c.Logger.Warn("Member detail fetch failed",
					zap.String("bioguide_id", rec.BioguideID), zap.Error(err))
			case full.BioguideID != "":
				rec = full
			}
		}

		m := memberFromRecord(rec)
		if m.BioguideID == "" || m.LastName == "" {
			out.Failed++
			continue
		}
		batch = append(batch, m)
		if len(batch) >= c.batchSize() {
			flush()
		}
	}
	flush()

	out.DurationMs = durationMs(start)
	c.Logger.Info("Members ingested",
		zap.Int("fetched", out.Fetched),
		zap.Int("created", out.Created),
		zap.Int("updated", out.Updated),
		zap.Int("failed", out.Failed),
		zap.Bool("partial", out.Partial))
	return out, nil
}

func memberFromRecord(rec congress.MemberRecord) *models.Member {
	name := resolve.ParseMemberName(rec.Name)
	m := &models.Member{
		BioguideID: rec.BioguideID,
		FirstName:  name.First,
		LastName:   name.Last,
		Party:      rec.PartyName,
		Chamber:    resolve.ChamberName(rec.Chamber()),
		State:      resolve.StateAbbreviation(rec.State),
		District:   rec.District,
		IsCurrent:  true,
	}
	if name.Middle != "" {
		m.MiddleName = &name.Middle
	}
	if rec.URL != "" {
		m.OfficialWebsiteURL = &rec.URL
	}
	if rec.Depiction != nil && rec.Depiction.ImageURL != "" {
		m.OfficialPhotoURL = &rec.Depiction.ImageURL
	}
	if rec.Terms != nil && len(rec.Terms.Items) > 0 {
		last := rec.Terms.Items[len(rec.Terms.Items)-1]
		if last.StartYear > 0 {
			ts := time.Date(last.StartYear, 1, 3, 0, 0, 0, 0, time.UTC)
			m.TermStart = &ts
		}
		if last.EndYear != nil {
			te := time.Date(*last.EndYear, 1, 3, 0, 0, 0, 0, time.UTC)
			m.TermEnd = &te
		}
	}
	return m
}

// IngestCommittees merges the upstream committee list with the chamber
// site scrapers and upserts the canonicalized result.
func (c *Context) IngestCommittees(ctx context.Context, in types.IngestInput) (types.IngestOutput, error) {
	start := time.Now()
	out := types.IngestOutput{Entity: "committees"}

	records, err := c.Congress.Committees(ctx, in.Chamber)
	if err != nil {
		if !errors.Is(err, congress.ErrQuotaExhausted) {
			return out, err
		}
		out.Partial = true
		c.Logger.Warn("Committee fetch hit daily quota, continuing with partial data",
			zap.Int("fetched", len(records)))
	}
	if in.Chamber == "" || resolve.ChamberName(in.Chamber) == "House" {
		records = append(records, c.House.ScrapeCommittees(ctx)...)
	}
	if in.Chamber == "" || resolve.ChamberName(in.Chamber) == "Senate" {
		records = append(records, c.Senate.ScrapeCommittees(ctx)...)
	}
	out.Fetched = len(records)

	batch := make([]*models.Committee, 0, c.batchSize())
	seen := map[string]struct{}{}
	flush := func() {
		if len(batch) == 0 {
			return
		}
		summary, err := c.Staging.UpsertCommittees(ctx, batch)
		out.Created += summary.Created
		out.Updated += summary.Updated
		out.Failed += summary.Failed
		if err != nil {
			c.Logger.Error("Committee batch failed", zap.Error(err))
		}
		batch = batch[:0]
	}

	detailBudget := true
	for _, rec := range records {
		// API list entries carry no contact detail; the scrapers do.
		// Backfill from the detail endpoint for the rest.
		if detailBudget && rec.SystemCode != "" && rec.Phone == "" && rec.WebsiteURL == "" {
			full, err := c.Congress.CommitteeDetail(ctx, rec.Chamber, rec.SystemCode)
			switch {
			case errors.Is(err, congress.ErrQuotaExhausted):
				out.Partial = true
				detailBudget = false
				c.Logger.Warn("Committee detail fetch hit daily quota, skipping further detail fetches")
			case err != nil:
				c.Logger.Warn("Committee detail fetch failed",
					zap.String("system_code", rec.SystemCode), zap.Error(err))
			default:
				mergeCommitteeDetail(&rec, full)
			}
		}

		cm := c.committeeFromRecord(rec)
		if cm.Name == "" || cm.Chamber == "" {
			out.Failed++
			continue
		}
		key := cm.Name + "|" + cm.Chamber
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		batch = append(batch, cm)
		if len(batch) >= c.batchSize() {
			flush()
		}
	}
	flush()

	out.DurationMs = durationMs(start)
	c.Logger.Info("Committees ingested",
		zap.Int("fetched", out.Fetched),
		zap.Int("created", out.Created),
		zap.Int("updated", out.Updated),
		zap.Int("failed", out.Failed))
	return out, nil
}

func (c *Context) committeeFromRecord(rec congress.CommitteeRecord) *models.Committee {
	chamber := resolve.ChamberName(rec.Chamber)
	name := c.Resolver.CanonicalCommitteeName(rec.Name, chamber)

	cm := &models.Committee{
		Name:           name,
		Chamber:        chamber,
		CommitteeType:  committeeType(rec.CommitteeTypeCode),
		IsSubcommittee: rec.Parent != nil || relate.IsSubcommitteeName(name),
		IsActive:       true,
	}
	if cm.IsSubcommittee {
		cm.CommitteeType = "Subcommittee"
	}
	if rec.SystemCode != "" {
		cm.CongressGovID = &rec.SystemCode
	}
	setIfPresent := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	setIfPresent(&cm.Phone, rec.Phone)
	setIfPresent(&cm.Email, rec.Email)
	setIfPresent(&cm.OfficeLocation, rec.OfficeLocation)
	setIfPresent(&cm.WebsiteURL, rec.WebsiteURL)
	setIfPresent(&cm.HearingsURL, rec.HearingsURL)
	setIfPresent(&cm.MembersURL, rec.MembersURL)
	return cm
}

// mergeCommitteeDetail copies fields only the detail endpoint returns onto
// a list record, never overwriting what the list already had.
func mergeCommitteeDetail(rec *congress.CommitteeRecord, full congress.CommitteeRecord) {
	if rec.CommitteeTypeCode == "" {
		rec.CommitteeTypeCode = full.CommitteeTypeCode
	}
	if rec.Parent == nil {
		rec.Parent = full.Parent
	}
	rec.Phone = full.Phone
	rec.Email = full.Email
	rec.OfficeLocation = full.OfficeLocation
	rec.WebsiteURL = full.WebsiteURL
	rec.HearingsURL = full.HearingsURL
	rec.MembersURL = full.MembersURL
}

// committeeType maps an upstream type code onto the validated label set.
// Codes outside it (task forces, commissions) fold into Standing.
func committeeType(code string) string {
	switch strings.ToLower(code) {
	case "", "standing":
		return "Standing"
	case "select":
		return "Select"
	case "special":
		return "Special"
	case "joint":
		return "Joint"
	case "subcommittee":
		return "Subcommittee"
	default:
		return "Standing"
	}
}

// IngestHearings merges the upstream hearing list with both chamber
// scrapers, resolves identity and upserts. Batches roll back as a unit.
func (c *Context) IngestHearings(ctx context.Context, in types.IngestInput) (types.IngestOutput, error) {
	start := time.Now()
	out := types.IngestOutput{Entity: "hearings"}

	records, err := c.Congress.Hearings(ctx, c.Config.CongressNumber)
	if err != nil {
		if !errors.Is(err, congress.ErrQuotaExhausted) {
			return out, err
		}
		out.Partial = true
		c.Logger.Warn("Hearing fetch hit daily quota, continuing with partial data",
			zap.Int("fetched", len(records)))
	}
	records = append(records, c.House.ScrapeHearings(ctx)...)
	records = append(records, c.Senate.ScrapeHearings(ctx)...)
	out.Fetched = len(records)

	var details []hearingDetailRef
	for offset := 0; offset < len(records); offset += c.batchSize() {
		end := offset + c.batchSize()
		if end > len(records) {
			end = len(records)
		}
		chunk := records[offset:end]

		var created, updated int
		var chunkDetails []hearingDetailRef
		err := c.Staging.WithTx(ctx, func(ctx context.Context) error {
			for _, rec := range chunk {
				h, err := c.hearingFromRecord(ctx, rec)
				if err != nil {
					return err
				}
				if h == nil {
					continue
				}
				wasNew, err := c.Staging.UpsertHearing(ctx, h)
				if err != nil {
					return err
				}
				if wasNew {
					created++
				} else {
					updated++
				}
				if rec.EventID != "" {
					chunkDetails = append(chunkDetails, hearingDetailRef{id: h.ID, eventID: rec.EventID})
				}
			}
			return nil
		})
		if err != nil {
			out.Failed += len(chunk)
			c.Logger.Error("Hearing batch rolled back",
				zap.Int("size", len(chunk)), zap.Error(err))
			continue
		}
		out.Created += created
		out.Updated += updated
		details = append(details, chunkDetails...)
	}

	c.enrichHearings(ctx, details, &out)

	out.DurationMs = durationMs(start)
	c.Logger.Info("Hearings ingested",
		zap.Int("fetched", out.Fetched),
		zap.Int("created", out.Created),
		zap.Int("updated", out.Updated),
		zap.Int("failed", out.Failed))
	return out, nil
}

// hearingFromRecord converts and resolves one hearing record. Returns nil
// for records with no usable title.
func (c *Context) hearingFromRecord(ctx context.Context, rec congress.HearingRecord) (*models.Hearing, error) {
	if rec.Title == "" {
		return nil, nil
	}

	h := &models.Hearing{
		Title:               rec.Title,
		Status:              rec.Status,
		ScrapedVideoURLs:    rec.VideoURLs,
		ScrapedDocumentURLs: rec.DocumentURLs,
	}
	if id := rec.ExternalID(); id != "" {
		h.CongressGovID = &id
	}
	if rec.Description != "" {
		h.Description = &rec.Description
	}
	if len(rec.Dates) > 0 {
		if t, err := time.Parse("2006-01-02", rec.Dates[0].Date); err == nil {
			h.ScheduledDate = &t
		}
	}
	if rec.Location != nil {
		if rec.Location.Building != "" {
			h.Location = &rec.Location.Building
		}
		if rec.Location.Room != "" {
			h.Room = &rec.Location.Room
		}
	}
	setIfPresent := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	setIfPresent(&h.VideoURL, rec.VideoURL)
	setIfPresent(&h.WebcastURL, rec.WebcastURL)
	setIfPresent(&h.TranscriptURL, rec.TranscriptURL)

	if len(rec.Committees) > 0 {
		committee, err := c.Resolver.Committee(ctx, "", rec.Committees[0].SystemCode, rec.Committees[0].Name, rec.Chamber)
		if err != nil {
			return nil, err
		}
		if committee != nil {
			h.CommitteeID = &committee.ID
		}
	}

	existing, err := c.Resolver.Hearing(ctx, valueOrEmpty(h.CongressGovID), h.Title, h.ScheduledDate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		h.ID = existing.ID
		if h.CommitteeID == nil {
			h.CommitteeID = existing.CommitteeID
		}
		if h.CongressGovID == nil {
			h.CongressGovID = existing.CongressGovID
		}
	}
	return h, nil
}

// hearingDetailRef pairs a committed staging hearing with the upstream
// event ID its detail lives under.
type hearingDetailRef struct {
	id      int64
	eventID string
}

// enrichHearings fetches per-hearing detail and swaps in the witness and
// document lists. Quota exhaustion stops enrichment without failing the
// run; later runs pick up where this one left off.
func (c *Context) enrichHearings(ctx context.Context, refs []hearingDetailRef, out *types.IngestOutput) {
	if len(refs) == 0 {
		return
	}

	enriched := 0
	for _, ref := range refs {
		detail, err := c.Congress.HearingDetail(ctx, ref.eventID)
		if err != nil {
			if errors.Is(err, congress.ErrQuotaExhausted) {
				out.Partial = true
				c.Logger.Warn("Hearing detail fetch hit daily quota, stopping enrichment",
					zap.Int("enriched", enriched),
					zap.Int("remaining", len(refs)-enriched))
				return
			}
			c.Logger.Warn("Hearing detail fetch failed",
				zap.String("event_id", ref.eventID), zap.Error(err))
			continue
		}

		if len(detail.Witnesses) > 0 {
			if err := c.Staging.ReplaceWitnesses(ctx, ref.id, witnessesFromRecords(ref.id, detail.Witnesses)); err != nil {
				c.Logger.Warn("Witness replace failed",
					zap.String("event_id", ref.eventID), zap.Error(err))
				continue
			}
		}
		if len(detail.Documents) > 0 {
			if err := c.Staging.ReplaceHearingDocuments(ctx, ref.id, documentsFromRecords(ref.id, detail.Documents)); err != nil {
				c.Logger.Warn("Document replace failed",
					zap.String("event_id", ref.eventID), zap.Error(err))
				continue
			}
		}
		enriched++
	}
	c.Logger.Info("Hearings enriched",
		zap.Int("enriched", enriched), zap.Int("eligible", len(refs)))
}

func witnessesFromRecords(hearingID int64, recs []congress.WitnessRecord) []models.Witness {
	out := make([]models.Witness, 0, len(recs))
	for _, rec := range recs {
		if rec.Name == "" {
			continue
		}
		w := models.Witness{HearingID: hearingID, Name: rec.Name}
		if rec.Position != "" {
			position := rec.Position
			w.Title = &position
		}
		if rec.Organization != "" {
			org := rec.Organization
			w.Organization = &org
		}
		out = append(out, w)
	}
	return out
}

func documentsFromRecords(hearingID int64, recs []congress.HearingDocumentRecord) []models.HearingDocument {
	out := make([]models.HearingDocument, 0, len(recs))
	for _, rec := range recs {
		if rec.URL == "" {
			continue
		}
		d := models.HearingDocument{HearingID: hearingID, Title: rec.Title, URL: rec.URL}
		if rec.Type != "" {
			docType := rec.Type
			d.DocumentType = &docType
		}
		out = append(out, d)
	}
	return out
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
