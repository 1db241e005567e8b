package collector

import (
	"context"

	"github.com/brassloom/brassloom/internal/model"
)

// RawRecord is the intermediate shape every adapter maps its upstream payload
// into. Date fields stay raw text here; the normalizer owns date parsing.
type RawRecord struct {
	NativeID string
	Title    string
	Agency   string
	Link     string
	Posted   string
	Close    string
	Summary  string
	Extra    map[string]any
}

// Fetcher abstracts one upstream source.
type Fetcher interface {
	Name() string
	Source() model.Source
	// Fetch returns the raw records posted or closing within windowDays of
	// the run time. A failed fetch returns an error; the caller decides
	// whether that aborts anything (it should not).
	Fetch(ctx context.Context, windowDays int) ([]RawRecord, error)
}
