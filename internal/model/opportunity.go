package model

// Source identifies the upstream a record was fetched from. The string values
// appear verbatim in the output dataset, so they must stay stable.
type Source string

const (
	SourceGrantsGov  Source = "grants_gov"
	SourceNIHGuide   Source = "nih_guide"
	SourceNSFFunding Source = "nsf_funding"
	SourceNASAMUREP  Source = "nasa_murep"
)

// Opportunity is the canonical funding-announcement record. Field names and
// casing are part of the viewer contract and must not change.
type Opportunity struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Agency          string   `json:"agency"`
	Source          Source   `json:"source"`
	URL             string   `json:"url"`
	PostedDate      *Date    `json:"posted_date"`
	CloseDate       *Date    `json:"close_date"`
	Summary         string   `json:"summary"`
	KeywordsMatched []string `json:"keywords_matched"`
	Score           int      `json:"score"`

	// NativeID is the source's own identifier (opportunity number, feed GUID).
	// Used as the authoritative dedupe key; not part of the output contract.
	NativeID string `json:"-"`
	// Extra keeps source-specific fields (eligibility, CFDA numbers, ...) for
	// the archive's jsonb column.
	Extra map[string]any `json:"-"`
}
