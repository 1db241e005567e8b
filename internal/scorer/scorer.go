// Package scorer assigns a priority score to each opportunity from keyword
// relevance and deadline urgency. Scoring is pure: identical inputs always
// produce identical output, which the test fixtures rely on.
package scorer

import (
	"regexp"
	"strings"
	"time"

	"github.com/brassloom/brassloom/internal/model"
)

const (
	hbcuBonus    = 20
	msiBonus     = 15
	keywordBonus = 10
	closeSoon    = 10 // closing within 30 days
	closeNear    = 5  // closing within 60 days
)

var (
	hbcuToken = regexp.MustCompile(`(?i)\bHBCU\b`)
	msiToken  = regexp.MustCompile(`(?i)\bMSI\b`)
)

// Score returns a copy of rec with Score and KeywordsMatched populated.
// Keywords match as case-insensitive substrings of title+summary; HBCU and
// MSI only count as exact tokens and are never double-counted through the
// configured keyword list. An absent or past close_date contributes nothing.
func Score(rec model.Opportunity, keywords []string, now time.Time) model.Opportunity {
	text := rec.Title + " " + rec.Summary
	lowered := strings.ToLower(text)

	matched := make([]string, 0, len(keywords)+2)
	score := 0

	if hbcuToken.MatchString(text) {
		score += hbcuBonus
		matched = append(matched, "HBCU")
	}
	if msiToken.MatchString(text) {
		score += msiBonus
		matched = append(matched, "MSI")
	}

	seen := make(map[string]struct{})
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		lkw := strings.ToLower(kw)
		if kw == "" || lkw == "hbcu" || lkw == "msi" {
			continue
		}
		if _, dup := seen[lkw]; dup {
			continue
		}
		seen[lkw] = struct{}{}
		if strings.Contains(lowered, lkw) {
			score += keywordBonus
			matched = append(matched, kw)
		}
	}

	if rec.CloseDate != nil {
		if days := rec.CloseDate.DaysUntil(now); days >= 0 {
			if days <= 30 {
				score += closeSoon
			} else if days <= 60 {
				score += closeNear
			}
		}
	}

	rec.Score = score
	rec.KeywordsMatched = matched
	return rec
}
