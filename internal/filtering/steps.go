package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/headhunter"
)

type minScoreFilter struct {
	disabled  bool
	reason    string
	threshold int
}

// NewMinScore creates a filter that drops candidates scoring below the configured threshold.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.threshold = 0
	if cfg != nil {
		f.threshold = cfg.MinScore
	}
	if f.threshold < 0 || f.threshold > 100 {
		return fmt.Errorf("min score must be within 0..100, got %d", f.threshold)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	removed := c.Remove(func(item *Candidate) bool {
		return item.Result.Score < f.threshold
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Debug("excluding low scoring opportunities",
			zap.Int("min_score", f.threshold),
			zap.Strings("excluded_opportunities", removed),
		)
	}

	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_score": strconv.Itoa(f.threshold)},
	}
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes opportunities listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	if f.path == "" {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	excluded, err := headhunter.LoadExcluded(f.path)
	if err != nil {
		return c, Step{}, fmt.Errorf("getting excluded opportunities from file: %w", err)
	}

	ids := make(map[string]bool, len(excluded.Items))
	for _, id := range excluded.IDs() {
		ids[id] = true
	}

	removed := c.Remove(func(item *Candidate) bool {
		return ids[item.Result.OpportunityID]
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding opportunities based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_opportunities", removed),
			zap.Int("opportunities_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type companiesFilter struct {
	companies []string
}

// NewCompanies creates a filter that removes opportunities from companies configured in the config.
func NewCompanies() Filter {
	return &companiesFilter{}
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Disable(string) {}

func (f *companiesFilter) IsEnabled() bool { return true }

func (f *companiesFilter) Validate(cfg *Config) error {
	f.companies = nil
	if cfg == nil {
		return nil
	}
	for _, company := range cfg.Companies {
		if company = strings.TrimSpace(company); company != "" {
			f.companies = append(f.companies, company)
		}
	}
	return nil
}

func (f *companiesFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	if len(f.companies) == 0 {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	removed := c.Remove(func(item *Candidate) bool {
		company := strings.TrimSpace(item.company())
		for _, excluded := range f.companies {
			if strings.EqualFold(company, excluded) {
				return true
			}
		}
		return false
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding opportunities by companies",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_opportunities", removed),
			zap.Int("opportunities_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type redFlagsFilter struct {
	flags []string
}

// NewRedFlags creates a filter that removes opportunities mentioning any red flag term.
func NewRedFlags() Filter {
	return &redFlagsFilter{}
}

func (f *redFlagsFilter) Name() string { return "red_flags" }

func (f *redFlagsFilter) Disable(string) {}

func (f *redFlagsFilter) IsEnabled() bool { return true }

func (f *redFlagsFilter) Validate(cfg *Config) error {
	f.flags = nil
	if cfg == nil {
		return nil
	}
	for _, flag := range cfg.RedFlags {
		if flag = strings.ToLower(strings.TrimSpace(flag)); flag != "" {
			f.flags = append(f.flags, flag)
		}
	}
	return nil
}

func (f *redFlagsFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	if len(f.flags) == 0 {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	removed := c.Remove(func(item *Candidate) bool {
		return ContainsRedFlag(item.text(), f.flags)
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding opportunities with red flags",
			zap.Strings("red_flags", f.flags),
			zap.Strings("excluded_opportunities", removed),
			zap.Int("opportunities_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

func (f *redFlagsFilter) Status() Status {
	details := map[string]string{}
	if len(f.flags) > 0 {
		details["red_flags"] = strings.Join(f.flags, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

// ContainsRedFlag reports whether any term occurs in text, ignoring case.
func ContainsRedFlag(text string, flags []string) bool {
	text = strings.ToLower(text)
	for _, flag := range flags {
		flag = strings.ToLower(strings.TrimSpace(flag))
		if flag == "" {
			continue
		}
		if strings.Contains(text, flag) {
			return true
		}
	}
	return false
}
