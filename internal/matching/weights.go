package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "github.com/spigell/job-matcher/internal/errors"
)

// Criterion names one scored dimension of a match.
type Criterion string

const (
	CriterionSkills       Criterion = "skills"
	CriterionExperience   Criterion = "experience"
	CriterionLocation     Criterion = "location"
	CriterionSalary       Criterion = "salary"
	CriterionPreferences  Criterion = "preferences"
	CriterionAvailability Criterion = "availability"
)

// Criteria lists every criterion in reporting priority order.
var Criteria = []Criterion{
	CriterionSkills,
	CriterionExperience,
	CriterionLocation,
	CriterionSalary,
	CriterionPreferences,
	CriterionAvailability,
}

const weightEpsilon = 1e-6

// Weights is the fixed weight vector used by the aggregator.
type Weights struct {
	Skills       float64 `json:"skills" mapstructure:"skills"`
	Experience   float64 `json:"experience" mapstructure:"experience"`
	Location     float64 `json:"location" mapstructure:"location"`
	Salary       float64 `json:"salary" mapstructure:"salary"`
	Preferences  float64 `json:"preferences" mapstructure:"preferences"`
	Availability float64 `json:"availability" mapstructure:"availability"`
}

// DefaultWeights returns the standard weight split.
func DefaultWeights() Weights {
	return Weights{
		Skills:       0.30,
		Experience:   0.25,
		Location:     0.15,
		Salary:       0.15,
		Preferences:  0.10,
		Availability: 0.05,
	}
}

// NewWeights builds a weight vector from criterion keys. Missing criteria weigh
// zero. Unknown keys, negative values and sums other than 1 are configuration
// errors.
func NewWeights(raw map[string]float64) (Weights, error) {
	var w Weights
	unknown := make([]string, 0)
	for key, value := range raw {
		if !w.set(Criterion(strings.ToLower(strings.TrimSpace(key))), value) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Weights{}, apperrors.Configuration(
			fmt.Sprintf("unknown weight criteria: %s", strings.Join(unknown, ", ")), nil)
	}

	if err := w.Validate(); err != nil {
		return Weights{}, err
	}

	return w, nil
}

func (w *Weights) set(c Criterion, value float64) bool {
	switch c {
	case CriterionSkills:
		w.Skills = value
	case CriterionExperience:
		w.Experience = value
	case CriterionLocation:
		w.Location = value
	case CriterionSalary:
		w.Salary = value
	case CriterionPreferences:
		w.Preferences = value
	case CriterionAvailability:
		w.Availability = value
	default:
		return false
	}
	return true
}

// Get returns the weight of a criterion.
func (w Weights) Get(c Criterion) float64 {
	switch c {
	case CriterionSkills:
		return w.Skills
	case CriterionExperience:
		return w.Experience
	case CriterionLocation:
		return w.Location
	case CriterionSalary:
		return w.Salary
	case CriterionPreferences:
		return w.Preferences
	case CriterionAvailability:
		return w.Availability
	default:
		return 0
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	sum := 0.0
	for _, c := range Criteria {
		sum += w.Get(c)
	}
	return sum
}

// Validate checks that no weight is negative and that the weights sum to 1.
func (w Weights) Validate() error {
	for _, c := range Criteria {
		v := w.Get(c)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.Configuration(fmt.Sprintf("weight for %s must be a non-negative number, got %v", c, v), nil)
		}
	}

	if sum := w.Sum(); math.Abs(sum-1) > weightEpsilon {
		return apperrors.Configuration(fmt.Sprintf("weights must sum to 1.0, got %.6f", sum), nil)
	}

	return nil
}

// Normalized rescales the weights so that they sum to 1. Negative weights and
// a vector summing to zero are configuration errors.
func (w Weights) Normalized() (Weights, error) {
	for _, c := range Criteria {
		v := w.Get(c)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Weights{}, apperrors.Configuration(fmt.Sprintf("weight for %s must be a non-negative number, got %v", c, v), nil)
		}
	}

	sum := w.Sum()
	if sum <= 0 {
		return Weights{}, apperrors.Configuration("weights sum to zero, nothing to normalize", nil)
	}

	var out Weights
	for _, c := range Criteria {
		out.set(c, w.Get(c)/sum)
	}
	return out, nil
}

// Map returns the weights keyed by criterion name.
func (w Weights) Map() map[string]float64 {
	m := make(map[string]float64, len(Criteria))
	for _, c := range Criteria {
		m[string(c)] = w.Get(c)
	}
	return m
}

// Aggregate reduces components to one integer score in 0..100.
func Aggregate(c Components, w Weights) int {
	total := 0.0
	for _, criterion := range Criteria {
		total += w.Get(criterion) * clamp01(c.Get(criterion))
	}

	score := int(math.Round(total * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
