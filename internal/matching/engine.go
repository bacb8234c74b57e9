package matching

import (
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "github.com/spigell/job-matcher/internal/errors"
)

// Engine scores opportunities against profiles with a fixed weight vector.
// It is safe for concurrent use.
type Engine struct {
	weights Weights
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to compute availability. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New validates the weights and returns an engine.
func New(weights Weights, opts ...Option) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		weights: weights,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Weights returns the engine's weight vector.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Score validates both records and computes a fresh MatchResult.
func (e *Engine) Score(o *Opportunity, p *Profile) (*MatchResult, error) {
	if err := ValidateOpportunity(o); err != nil {
		return nil, err
	}
	if err := ValidateProfile(p); err != nil {
		return nil, err
	}

	result := e.score(o, p, e.now())
	return &result, nil
}

func (e *Engine) score(o *Opportunity, p *Profile, now time.Time) MatchResult {
	b := calculate(o, p, now)

	return MatchResult{
		OpportunityID: o.ID,
		ProfileID:     p.ID,
		Score:         Aggregate(b.components, e.weights),
		Components:    b.components,
		Reasoning:     reasoning(b.components, e.weights, b.evals),
		Confidence:    confidence(b.evals, e.weights),
		MatchedSkills: b.matched,
		MissingSkills: b.missing,
	}
}

func confidence(evals map[Criterion]evaluation, w Weights) float64 {
	informed := 0.0
	for _, c := range Criteria {
		if evals[c] != neutral {
			informed += w.Get(c)
		}
	}
	return math.Round(informed/w.Sum()*100) / 100
}

// ValidateOpportunity reports structural problems that make a record
// unscoreable. Missing optional data is not an error.
func ValidateOpportunity(o *Opportunity) error {
	if o == nil {
		return apperrors.InvalidInput("opportunity is nil", nil)
	}
	if strings.TrimSpace(o.ID) == "" {
		return apperrors.InvalidField("opportunity.id", "is required")
	}
	if err := validateSalary("opportunity.salary", o.Salary); err != nil {
		return err
	}
	return nil
}

// ValidateProfile reports structural problems that make a profile
// unscoreable.
func ValidateProfile(p *Profile) error {
	if p == nil {
		return apperrors.InvalidInput("profile is nil", nil)
	}
	if strings.TrimSpace(p.ID) == "" {
		return apperrors.InvalidField("profile.id", "is required")
	}
	if p.YearsOfExperience != nil && (*p.YearsOfExperience < 0 || math.IsNaN(*p.YearsOfExperience)) {
		return apperrors.InvalidField("profile.years-of-experience", "must not be negative")
	}
	for i, s := range p.Skills {
		if s.Years < 0 || math.IsNaN(s.Years) {
			return apperrors.InvalidField(fmt.Sprintf("profile.skills[%d].years", i), "must not be negative")
		}
	}
	if err := validateSalary("profile.salary", p.Salary); err != nil {
		return err
	}
	return nil
}

func validateSalary(field string, r *SalaryRange) error {
	if r == nil {
		return nil
	}
	if r.Min < 0 || math.IsNaN(r.Min) {
		return apperrors.InvalidField(field+".min", "must not be negative")
	}
	if r.Max < 0 || math.IsNaN(r.Max) {
		return apperrors.InvalidField(field+".max", "must not be negative")
	}
	return nil
}
