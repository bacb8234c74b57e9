// Package matching scores how well an opportunity fits a profile.
//
// The engine is pure: it owns no mutable state after construction, performs no
// I/O and returns a fresh MatchResult on every call.
package matching

import (
	"strings"
	"time"
)

// EmploymentType is the employment category of an opportunity.
type EmploymentType string

const (
	FullTime   EmploymentType = "full-time"
	PartTime   EmploymentType = "part-time"
	Contract   EmploymentType = "contract"
	RemoteOnly EmploymentType = "remote-only"
	Internship EmploymentType = "internship"
)

var employmentAliases = map[string]EmploymentType{
	"full-time":   FullTime,
	"fulltime":    FullTime,
	"full":        FullTime,
	"permanent":   FullTime,
	"part-time":   PartTime,
	"parttime":    PartTime,
	"part":        PartTime,
	"contract":    Contract,
	"contractor":  Contract,
	"freelance":   Contract,
	"project":     Contract,
	"remote-only": RemoteOnly,
	"remote":      RemoteOnly,
	"internship":  Internship,
	"intern":      Internship,
	"probation":   Internship,
}

// ParseEmploymentType maps a loosely formatted label onto the enumeration.
// The second return value is false for unknown labels.
func ParseEmploymentType(s string) (EmploymentType, bool) {
	key := normalizeLabel(s)
	t, ok := employmentAliases[key]
	return t, ok
}

// Valid reports whether t is one of the known employment categories.
func (t EmploymentType) Valid() bool {
	_, ok := ParseEmploymentType(string(t))
	return ok
}

// Seniority is an experience band label.
type Seniority string

const (
	Entry     Seniority = "entry"
	Mid       Seniority = "mid"
	Senior    Seniority = "senior"
	Executive Seniority = "executive"
)

var seniorityAliases = map[string]Seniority{
	"entry":     Entry,
	"junior":    Entry,
	"intern":    Entry,
	"mid":       Mid,
	"middle":    Mid,
	"mid-level": Mid,
	"senior":    Senior,
	"lead":      Senior,
	"executive": Executive,
	"director":  Executive,
	"vp":        Executive,
}

// ParseSeniority maps a loosely formatted label onto a seniority band.
func ParseSeniority(s string) (Seniority, bool) {
	level, ok := seniorityAliases[normalizeLabel(s)]
	return level, ok
}

// Availability is an urgency band derived from the date a profile can start.
type Availability string

const (
	Immediate  Availability = "immediate"
	TwoWeeks   Availability = "within-2-weeks"
	Month      Availability = "within-month"
	Flexible   Availability = "flexible"
	NotLooking Availability = "not-looking"
)

var availabilityAliases = map[string]Availability{
	"immediate":      Immediate,
	"asap":           Immediate,
	"within-2-weeks": TwoWeeks,
	"2-weeks":        TwoWeeks,
	"two-weeks":      TwoWeeks,
	"within-month":   Month,
	"month":          Month,
	"flexible":       Flexible,
	"not-looking":    NotLooking,
}

// ParseAvailability maps a loosely formatted label onto an availability band.
func ParseAvailability(s string) (Availability, bool) {
	a, ok := availabilityAliases[normalizeLabel(s)]
	return a, ok
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	return s
}

// Location of an opportunity.
type Location struct {
	City    string `json:"city,omitempty" mapstructure:"city"`
	Region  string `json:"region,omitempty" mapstructure:"region"`
	Country string `json:"country,omitempty" mapstructure:"country"`
	Remote  bool   `json:"remote,omitempty" mapstructure:"remote"`
}

// SalaryRange is a compensation range. A zero bound means "not stated".
type SalaryRange struct {
	Min      float64 `json:"min,omitempty" mapstructure:"min"`
	Max      float64 `json:"max,omitempty" mapstructure:"max"`
	Currency string  `json:"currency,omitempty" mapstructure:"currency"`
}

// Opportunity is a job posting. The engine never mutates it.
type Opportunity struct {
	ID           string         `json:"id" mapstructure:"id"`
	Title        string         `json:"title,omitempty" mapstructure:"title"`
	Company      string         `json:"company,omitempty" mapstructure:"company"`
	URL          string         `json:"url,omitempty" mapstructure:"url"`
	Skills       []string       `json:"skills,omitempty" mapstructure:"skills"`
	Location     Location       `json:"location" mapstructure:"location"`
	Salary       *SalaryRange   `json:"salary,omitempty" mapstructure:"salary"`
	Type         EmploymentType `json:"type,omitempty" mapstructure:"type"`
	Seniority    Seniority      `json:"seniority,omitempty" mapstructure:"seniority"`
	Description  string         `json:"description,omitempty" mapstructure:"description"`
	Requirements string         `json:"requirements,omitempty" mapstructure:"requirements"`
	Industry     string         `json:"industry,omitempty" mapstructure:"industry"`
	CompanySize  string         `json:"company_size,omitempty" mapstructure:"company-size"`
	// Availability is the requested start urgency. Empty means no filter.
	Availability Availability `json:"availability,omitempty" mapstructure:"availability"`
}

// Skill held by a profile.
type Skill struct {
	Name  string  `json:"name" mapstructure:"name"`
	Level string  `json:"level,omitempty" mapstructure:"level"`
	Years float64 `json:"years,omitempty" mapstructure:"years"`
}

// ProfileLocation describes where a profile can work.
type ProfileLocation struct {
	City              string `json:"city,omitempty" mapstructure:"city"`
	Region            string `json:"region,omitempty" mapstructure:"region"`
	Country           string `json:"country,omitempty" mapstructure:"country"`
	RemoteOnly        bool   `json:"remote_only,omitempty" mapstructure:"remote-only"`
	AcceptsRemote     bool   `json:"accepts_remote,omitempty" mapstructure:"accepts-remote"`
	WillingToRelocate bool   `json:"willing_to_relocate,omitempty" mapstructure:"willing-to-relocate"`
}

// Profile is a seeker or candidate.
type Profile struct {
	ID                string           `json:"id" mapstructure:"id"`
	Name              string           `json:"name,omitempty" mapstructure:"name"`
	Skills            []Skill          `json:"skills,omitempty" mapstructure:"skills"`
	YearsOfExperience *float64         `json:"years_of_experience,omitempty" mapstructure:"years-of-experience"`
	Seniority         Seniority        `json:"seniority,omitempty" mapstructure:"seniority"`
	Location          ProfileLocation  `json:"location" mapstructure:"location"`
	Salary            *SalaryRange     `json:"salary,omitempty" mapstructure:"salary"`
	EmploymentTypes   []EmploymentType `json:"employment_types,omitempty" mapstructure:"employment-types"`
	AvailableFrom     *time.Time       `json:"available_from,omitempty" mapstructure:"available-from"`
	Industries        []string         `json:"industries,omitempty" mapstructure:"industries"`
	CompanySizes      []string         `json:"company_sizes,omitempty" mapstructure:"company-sizes"`
}

// SkillNames returns the names of the profile's skills.
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}

// Components is the per-criterion breakdown of a match, every value in [0,1].
type Components struct {
	Skills       float64 `json:"skills"`
	Experience   float64 `json:"experience"`
	Location     float64 `json:"location"`
	Salary       float64 `json:"salary"`
	Preferences  float64 `json:"preferences"`
	Availability float64 `json:"availability"`
}

// Get returns the component value for a criterion.
func (c Components) Get(criterion Criterion) float64 {
	switch criterion {
	case CriterionSkills:
		return c.Skills
	case CriterionExperience:
		return c.Experience
	case CriterionLocation:
		return c.Location
	case CriterionSalary:
		return c.Salary
	case CriterionPreferences:
		return c.Preferences
	case CriterionAvailability:
		return c.Availability
	default:
		return 0
	}
}

// MatchResult is the outcome of scoring one opportunity against one profile.
type MatchResult struct {
	OpportunityID string     `json:"opportunity_id"`
	ProfileID     string     `json:"profile_id"`
	Score         int        `json:"score"`
	Components    Components `json:"components"`
	Reasoning     []string   `json:"reasoning"`
	// Confidence is the weighted share of criteria computed from real data
	// rather than neutral defaults.
	Confidence    float64  `json:"confidence"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
	MissingSkills []string `json:"missing_skills,omitempty"`
}
