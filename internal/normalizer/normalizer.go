// Package normalizer reconciles the per-source raw records into the canonical
// Opportunity shape: stable IDs, trimmed text, parsed calendar dates.
package normalizer

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/brassloom/brassloom/internal/collector"
	"github.com/brassloom/brassloom/internal/model"
)

// dateLayouts covers ISO-8601, the RFC-2822 style text RSS feeds emit, and the
// m/d/Y form Grants.gov uses in some payloads. Tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"01/02/2006",
	"2006/01/02",
}

// Normalize maps one raw record into an Opportunity. The second return is
// false when the record is unusable (no title and no link); such records are
// dropped, never propagated as errors.
func Normalize(raw collector.RawRecord, source model.Source) (model.Opportunity, bool) {
	title := strings.TrimSpace(raw.Title)
	link := strings.TrimSpace(raw.Link)
	if title == "" && link == "" {
		return model.Opportunity{}, false
	}

	nativeID := strings.TrimSpace(raw.NativeID)
	return model.Opportunity{
		ID:         deriveID(nativeID, title, raw.Agency, source),
		Title:      title,
		Agency:     strings.TrimSpace(raw.Agency),
		Source:     source,
		URL:        link,
		PostedDate: ParseDate(raw.Posted),
		CloseDate:  ParseDate(raw.Close),
		Summary:    strings.TrimSpace(raw.Summary),
		NativeID:   nativeID,
		Extra:      raw.Extra,
	}, true
}

// ParseDate parses a source date string into a calendar date. Anything it
// cannot parse is treated as absent.
func ParseDate(s string) *model.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := model.DateOf(t)
			return &d
		}
	}
	// Timestamps like "2024-03-01T00:00:00" or "2024-03-01 00:00:00" still
	// carry a usable date prefix.
	if len(s) > 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			d := model.DateOf(t)
			return &d
		}
	}
	return nil
}

// deriveID prefers the source's native identifier; otherwise a deterministic
// hash of title+agency+source so reruns produce the same IDs.
func deriveID(nativeID, title, agency string, source model.Source) string {
	if nativeID != "" {
		return string(source) + ":" + nativeID
	}
	h := sha1.New()
	h.Write([]byte(title + "|" + agency + "|" + string(source)))
	return string(source) + ":" + hex.EncodeToString(h.Sum(nil))
}
