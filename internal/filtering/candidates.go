package filtering

import (
	"strings"

	"github.com/spigell/job-matcher/internal/matching"
)

// Candidate is a scored opportunity.
type Candidate struct {
	Opportunity *matching.Opportunity
	Result      matching.MatchResult
}

// Candidates is a ranked list. Steps preserve the ranking order.
type Candidates struct {
	Items []*Candidate
}

// NewCandidates pairs ranked results with their opportunities by ID. The
// engine rejects batches with duplicate IDs, so the pairing is unambiguous.
// Results without a matching opportunity keep a nil Opportunity.
func NewCandidates(opps []matching.Opportunity, results []matching.MatchResult) *Candidates {
	byID := make(map[string]*matching.Opportunity, len(opps))
	for i := range opps {
		byID[opps[i].ID] = &opps[i]
	}

	c := &Candidates{Items: make([]*Candidate, 0, len(results))}
	for _, r := range results {
		c.Items = append(c.Items, &Candidate{Opportunity: byID[r.OpportunityID], Result: r})
	}
	return c
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

// Results returns the match results in ranking order.
func (c *Candidates) Results() []matching.MatchResult {
	out := make([]matching.MatchResult, 0, len(c.Items))
	for _, item := range c.Items {
		out = append(out, item.Result)
	}
	return out
}

func (c *Candidates) FindByID(id string) *Candidate {
	for _, item := range c.Items {
		if item.Result.OpportunityID == id {
			return item
		}
	}
	return nil
}

// Remove drops every candidate for which drop returns true and returns the
// removed opportunity IDs.
func (c *Candidates) Remove(drop func(*Candidate) bool) []string {
	var removed []string
	kept := c.Items[:0]
	for _, item := range c.Items {
		if drop(item) {
			removed = append(removed, item.Result.OpportunityID)
			continue
		}
		kept = append(kept, item)
	}
	for i := len(kept); i < len(c.Items); i++ {
		c.Items[i] = nil
	}
	c.Items = kept
	return removed
}

func (c *Candidate) company() string {
	if c.Opportunity == nil {
		return ""
	}
	return c.Opportunity.Company
}

// text is the searchable text of the candidate's opportunity.
func (c *Candidate) text() string {
	if c.Opportunity == nil {
		return ""
	}
	o := c.Opportunity
	return strings.ToLower(strings.Join([]string{o.Title, o.Company, o.Description, o.Requirements}, " "))
}
