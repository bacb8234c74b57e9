package headhunter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spigell/job-matcher/internal/matching"
)

// ExcludedOpportunities is the persisted list of opportunities the user never
// wants to see again.
type ExcludedOpportunities struct {
	Items []*ExcludedOpportunity
}

type ExcludedOpportunity struct {
	ID         string
	URL        string
	Company    string
	ExcludedAt time.Time
}

// Exclude builds exclusion entries for the given opportunities.
func Exclude(now time.Time, opps ...*matching.Opportunity) *ExcludedOpportunities {
	excluded := &ExcludedOpportunities{}
	for _, opp := range opps {
		if opp == nil {
			continue
		}
		excluded.Items = append(excluded.Items, &ExcludedOpportunity{
			ID:         opp.ID,
			URL:        opp.URL,
			Company:    opp.Company,
			ExcludedAt: now.UTC(),
		})
	}
	return excluded
}

// LoadExcluded reads an exclude file. A missing or empty file yields an
// empty list.
func LoadExcluded(path string) (*ExcludedOpportunities, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ExcludedOpportunities{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedOpportunities{}, nil
	}

	var excluded ExcludedOpportunities
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, fmt.Errorf("decode exclude file %s: %w", path, err)
	}
	return &excluded, nil
}

// Append adds entries whose IDs are not yet excluded.
func (e *ExcludedOpportunities) Append(s *ExcludedOpportunities) {
	known := make(map[string]bool, len(e.Items))
	for _, item := range e.Items {
		known[item.ID] = true
	}
	for _, item := range s.Items {
		if known[item.ID] {
			continue
		}
		known[item.ID] = true
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedOpportunities) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (e *ExcludedOpportunities) ToFile(path string) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	// A failed close can lose buffered data, so it is reported too.
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
