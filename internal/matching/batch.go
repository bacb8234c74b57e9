package matching

import (
	"context"
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/spigell/job-matcher/internal/errors"
)

// DefaultMinScore is the threshold used by callers that want "good" matches only.
const DefaultMinScore = 60

// MatchAll scores every opportunity against the profile and returns the
// results sorted by score, highest first. Ties keep their input order. All
// records are validated before any scoring happens.
func (e *Engine) MatchAll(opps []Opportunity, p *Profile) ([]MatchResult, error) {
	if err := validateBatch(opps, p); err != nil {
		return nil, err
	}

	now := e.now()
	results := make([]MatchResult, len(opps))
	for i := range opps {
		results[i] = e.score(&opps[i], p, now)
	}

	sortResults(results)
	return results, nil
}

// MatchAllConcurrent is MatchAll with scoring spread across workers. The
// output is identical to MatchAll for the same input.
func (e *Engine) MatchAllConcurrent(ctx context.Context, opps []Opportunity, p *Profile, workers int) ([]MatchResult, error) {
	if err := validateBatch(opps, p); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(opps) {
		workers = len(opps)
	}

	now := e.now()
	results := make([]MatchResult, len(opps))
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.score(&opps[i], p, now)
			}
		}()
	}

feed:
	for i := range opps {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("match cancelled: %w", err)
	}

	sortResults(results)
	return results, nil
}

// FilterByMinScore returns the results scoring at least threshold, in their
// original order.
func FilterByMinScore(results []MatchResult, threshold int) []MatchResult {
	out := make([]MatchResult, 0, len(results))
	for _, r := range results {
		if r.Score >= threshold {
			out = append(out, r)
		}
	}
	return out
}

func validateBatch(opps []Opportunity, p *Profile) error {
	if err := ValidateProfile(p); err != nil {
		return err
	}
	// Results are keyed by opportunity ID downstream, so IDs must be unique.
	seen := make(map[string]int, len(opps))
	for i := range opps {
		if err := ValidateOpportunity(&opps[i]); err != nil {
			return fmt.Errorf("opportunity %d: %w", i, err)
		}
		if first, ok := seen[opps[i].ID]; ok {
			return fmt.Errorf("opportunity %d: %w", i,
				apperrors.InvalidField("opportunity.id", fmt.Sprintf("duplicate id %q, first seen at %d", opps[i].ID, first)))
		}
		seen[opps[i].ID] = i
	}
	return nil
}

func sortResults(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
