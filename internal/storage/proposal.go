package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/brassloom/brassloom/internal/config"
	"github.com/brassloom/brassloom/internal/model"
)

// Proposal is a pre-award tracker row created from a harvested opportunity.
type Proposal struct {
	ID                  string `gorm:"primaryKey;size:16" json:"id"` // GSU-P-NNNN
	Title               string `gorm:"size:512" json:"title"`
	PIID                string `gorm:"size:64" json:"piId"`
	PIName              string `gorm:"size:128" json:"piName"`
	Department          string `gorm:"size:128" json:"department"`
	College             string `gorm:"size:128" json:"college"`
	SponsorName         string `gorm:"size:256" json:"sponsorName"`
	SponsorType         string `gorm:"size:32" json:"sponsorType"`
	FundingOpportunity  string `gorm:"size:128" json:"fundingOpportunity"`
	InternalDeadline    string `gorm:"size:10" json:"internalDeadline"`
	DueDate             string `gorm:"size:10" json:"dueDate"`
	SubmissionMechanism string `gorm:"size:64" json:"submissionMechanism"`
	ProposalType        string `gorm:"size:32" json:"proposalType"`
	Status              string `gorm:"size:64" json:"status"`
	Notes               string `gorm:"size:512" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Task is one pre-award checklist item attached to a proposal.
type Task struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ProposalID string `gorm:"size:16;index" json:"proposalId"`
	Name       string `gorm:"size:256" json:"name"`
	DueDate    string `gorm:"size:10" json:"dueDate"`
	Owner      string `gorm:"size:64" json:"owner"`
	Status     string `gorm:"size:32" json:"status"`
	Notes      string `gorm:"size:256" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
}

var proposalIDPattern = regexp.MustCompile(`^GSU-P-(\d+)$`)

// NextProposalID returns the first GSU-P-NNNN identifier after the highest
// one present in existing.
func NextProposalID(existing []string) string {
	max := 0
	for _, id := range existing {
		m := proposalIDPattern.FindStringSubmatch(strings.TrimSpace(id))
		if m == nil {
			continue
		}
		n := 0
		fmt.Sscanf(m[1], "%d", &n)
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("GSU-P-%04d", max+1)
}

var federalAgencyMarkers = []string{
	"national science foundation", "nih", "health", "grants.gov", "nasa",
	"nsf", "department of", "dod", "doe", "usda", "epa", "nsf funding", "nih guide",
}

// SponsorTypeFromAgency classifies a sponsor as Federal, State or Nonprofit
// from its name. Crude keyword heuristic carried over from the workbook tool.
func SponsorTypeFromAgency(agency string) string {
	if agency == "" {
		return ""
	}
	low := strings.ToLower(agency)
	for _, marker := range federalAgencyMarkers {
		if strings.Contains(low, marker) {
			return "Federal"
		}
	}
	if strings.Contains(low, "board of regents") || strings.Contains(low, "state") {
		return "State"
	}
	return "Nonprofit"
}

// MechanismFromSource picks the submission mechanism for an opportunity from
// the configured map, falling back to a Grants.gov link heuristic.
func MechanismFromSource(rec model.Opportunity, mechanismMap map[string]string) string {
	src := strings.TrimSpace(string(rec.Source))
	if src == "" {
		src = strings.TrimSpace(rec.Agency)
	}
	for k, v := range mechanismMap {
		if strings.Contains(strings.ToLower(src), strings.ToLower(k)) {
			return v
		}
	}
	if strings.Contains(strings.ToLower(rec.URL), "grants.gov") {
		return "Grants.gov"
	}
	return "Other"
}

// taskTemplate is one standard pre-award task: name, days before the due
// date, owner, and notes.
type taskTemplate struct {
	name       string
	daysBefore int
	owner      string
	notes      string
}

func standardTasks(mechanism string) []taskTemplate {
	return []taskTemplate{
		{"Complete internal routing form", 10, "PI", "Attach signed PDF"},
		{"COI disclosures for all key personnel", 9, "PI/OSP", ""},
		{"Subrecipient commitment form(s)", 8, "OSP", "Collect UEI and F&A rate docs"},
		{"Export control & data security review", 8, "Compliance", "If foreign collaborators or controlled data"},
		{"Final budget & justification", 7, "OSP Pre-Award", "Check salary cap and F&A base"},
		{"Create application in " + mechanism, 7, "OSP Pre-Award", "Confirm FOA & forms"},
		{"Dean/Provost cost-share letter (if required)", 7, "Dean/Provost", "Upload letter"},
	}
}

// ImportOpportunities creates proposal and task rows for each opportunity that
// passes the keyword filter and is not already tracked (by title). Returns the
// number of proposals created.
func (s *Store) ImportOpportunities(records []model.Opportunity, filter []string, cfg *config.SyncConfig, now time.Time) (int, error) {
	var existing []Proposal
	if err := s.DB.Select("id", "title").Find(&existing).Error; err != nil {
		return 0, fmt.Errorf("storage: load proposals: %w", err)
	}
	existingTitles := make(map[string]struct{}, len(existing))
	existingIDs := make([]string, 0, len(existing))
	for _, p := range existing {
		existingTitles[strings.ToLower(strings.TrimSpace(p.Title))] = struct{}{}
		existingIDs = append(existingIDs, p.ID)
	}

	lowered := make([]string, 0, len(filter))
	for _, f := range filter {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			lowered = append(lowered, f)
		}
	}

	added := 0
	nextID := NextProposalID(existingIDs)
	today := model.DateOf(now)

	for _, rec := range records {
		if len(lowered) > 0 && !matchesFilter(rec, lowered) {
			continue
		}
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			continue
		}
		if _, ok := existingTitles[strings.ToLower(title)]; ok {
			continue
		}

		sponsor := rec.Agency
		if sponsor == "" {
			sponsor = string(rec.Source)
		}

		due := rec.CloseDate
		if due == nil {
			due = rec.PostedDate
		}
		dueStr, internalStr := "", ""
		if due != nil {
			dueStr = due.String()
			internal := model.DateOf(due.Time().AddDate(0, 0, -cfg.InternalDeadlineOffsetDays))
			internalStr = internal.String()
		}

		mechanism := MechanismFromSource(rec, cfg.MechanismMap)
		funding := rec.NativeID
		if funding == "" {
			funding = rec.ID
		}

		p := Proposal{
			ID:                  nextID,
			Title:               title,
			PIID:                cfg.DefaultPI.ID,
			PIName:              cfg.DefaultPI.Name,
			Department:          cfg.DefaultPI.Dept,
			College:             cfg.DefaultPI.College,
			SponsorName:         sponsor,
			SponsorType:         SponsorTypeFromAgency(sponsor),
			FundingOpportunity:  funding,
			InternalDeadline:    internalStr,
			DueDate:             dueStr,
			SubmissionMechanism: mechanism,
			ProposalType:        cfg.DefaultProposalType,
			Status:              cfg.DefaultStatus,
			Notes:               "Imported by BrassLoom on " + today.String(),
		}
		if err := s.DB.Create(&p).Error; err != nil {
			return added, fmt.Errorf("storage: create proposal %s: %w", p.ID, err)
		}

		// Tasks anchor on the due date; without one, assume a month out.
		taskDue := due
		if taskDue == nil {
			d := model.DateOf(now.AddDate(0, 0, 30))
			taskDue = &d
		}
		for _, tpl := range standardTasks(mechanism) {
			t := Task{
				ProposalID: p.ID,
				Name:       tpl.name,
				DueDate:    model.DateOf(taskDue.Time().AddDate(0, 0, -tpl.daysBefore)).String(),
				Owner:      tpl.owner,
				Status:     "Pending",
				Notes:      tpl.notes,
			}
			if err := s.DB.Create(&t).Error; err != nil {
				return added, fmt.Errorf("storage: create task for %s: %w", p.ID, err)
			}
		}

		existingTitles[strings.ToLower(title)] = struct{}{}
		existingIDs = append(existingIDs, nextID)
		nextID = NextProposalID(existingIDs)
		added++
	}

	log.Printf("imported %d proposals", added)
	return added, nil
}

// matchesFilter does the workbook tool's blunt match: any filter term
// anywhere in the serialized record.
func matchesFilter(rec model.Opportunity, lowered []string) bool {
	blob, err := json.Marshal(rec)
	if err != nil {
		return false
	}
	text := strings.ToLower(string(blob))
	for _, f := range lowered {
		if strings.Contains(text, f) {
			return true
		}
	}
	return false
}
