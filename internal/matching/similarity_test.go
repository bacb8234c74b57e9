package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestMatchSkills(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		have     []string
		expected float64
		eval     evaluation
		matched  []string
		missing  []string
	}{
		{
			name:     "all required present",
			required: []string{"React", "TypeScript"},
			have:     []string{"react", "typescript", "Node.js"},
			expected: 1,
			matched:  []string{"React", "TypeScript"},
		},
		{
			name:     "partial with substring match",
			required: []string{"Go", "Kubernetes", "Terraform"},
			have:     []string{"Golang", "kubernetes"},
			expected: 2.0 / 3.0,
			matched:  []string{"Go", "Kubernetes"},
			missing:  []string{"Terraform"},
		},
		{
			name:     "single rune skills match exactly only",
			required: []string{"C"},
			have:     []string{"C++"},
			expected: 0,
			missing:  []string{"C"},
		},
		{
			name:     "single rune exact match",
			required: []string{"R"},
			have:     []string{" r "},
			expected: 1,
			matched:  []string{"R"},
		},
		{
			name:     "duplicates collapse",
			required: []string{"Go", "go", " GO "},
			have:     []string{"go"},
			expected: 1,
			matched:  []string{"Go"},
		},
		{
			name:     "whitespace is collapsed",
			required: []string{"Machine   Learning"},
			have:     []string{"machine learning"},
			expected: 1,
			matched:  []string{"Machine   Learning"},
		},
		{
			name:     "empty requirements",
			required: nil,
			have:     []string{"go"},
			expected: 1,
			eval:     trivial,
		},
		{
			name:     "no skills at all",
			required: []string{"Go"},
			have:     nil,
			expected: 0,
			missing:  []string{"Go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchSkills(tt.required, tt.have)
			assert.InDelta(t, tt.expected, got.score, 0.0001)
			assert.Equal(t, tt.eval, got.eval)
			assert.Equal(t, tt.matched, got.matched)
			assert.Equal(t, tt.missing, got.missing)
		})
	}
}

func TestExperienceFit(t *testing.T) {
	tests := []struct {
		name     string
		years    float64
		level    Seniority
		expected float64
	}{
		{"within mid band", 3, Mid, 1},
		{"band ceiling is over-qualified but unpenalized", 5, Mid, 1},
		{"one year short of mid", 1, Mid, 0.5},
		{"no experience for mid hits floor", 0, Mid, 0.3},
		{"under-qualified for senior", 3, Senior, 0.6},
		{"entry band accepts zero years", 0, Entry, 1},
		{"heavily over-qualified for entry", 10, Entry, 0.6},
		{"moderately over-qualified for mid", 7.5, Mid, 0.75},
		{"executive within band", 12, Executive, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, experienceFit(tt.years, experienceBands[tt.level]), 0.0001)
		})
	}
}

func TestInferSeniority(t *testing.T) {
	tests := []struct {
		name     string
		opp      Opportunity
		expected Seniority
		ok       bool
	}{
		{"explicit label", Opportunity{Seniority: "Director"}, Executive, true},
		{"unknown explicit label", Opportunity{Seniority: "wizard"}, "", false},
		{"senior title", Opportunity{Title: "Senior Go Developer"}, Senior, true},
		{"junior title", Opportunity{Title: "Junior QA engineer"}, Entry, true},
		{"head title", Opportunity{Title: "Head of Platform"}, Executive, true},
		{"most senior keyword wins", Opportunity{Title: "Senior Director, Engineering"}, Executive, true},
		{"title beats description", Opportunity{Title: "Intern", Description: "work with senior staff"}, Entry, true},
		{"description fallback", Opportunity{Title: "Backend Engineer", Description: "You will lead the team"}, Senior, true},
		{"requirements fallback", Opportunity{Title: "Backend Engineer", Requirements: "junior candidates welcome"}, Entry, true},
		{"title only keyword in description", Opportunity{Title: "Backend Developer", Description: "Join our head office in Lusaka"}, Mid, true},
		{"staff as a noun", Opportunity{Title: "Backend Developer", Description: "You will mentor our support staff."}, Mid, true},
		{"graduate in description", Opportunity{Title: "Backend Engineer", Requirements: "graduate degree welcome"}, Mid, true},
		{"staff in title", Opportunity{Title: "Staff Engineer"}, Senior, true},
		{"whole words only", Opportunity{Title: "Engineer", Description: "seniority is not important"}, Mid, true},
		{"default mid", Opportunity{Title: "Backend Engineer"}, Mid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp := tt.opp
			level, ok := InferSeniority(&opp)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestMatchExperience(t *testing.T) {
	years := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		opp      Opportunity
		profile  Profile
		expected float64
		eval     evaluation
	}{
		{
			name:     "explicit years",
			opp:      Opportunity{Title: "Senior Engineer"},
			profile:  Profile{YearsOfExperience: years(6)},
			expected: 1,
		},
		{
			name:     "profile seniority midpoint",
			opp:      Opportunity{Title: "Senior Engineer"},
			profile:  Profile{Seniority: Senior},
			expected: 1,
		},
		{
			name:     "largest skill years",
			opp:      Opportunity{Title: "Senior Engineer"},
			profile:  Profile{Skills: []Skill{{Name: "go", Years: 2}, {Name: "sql", Years: 3}}},
			expected: 0.6,
		},
		{
			name:     "no profile experience data",
			opp:      Opportunity{Title: "Senior Engineer"},
			profile:  Profile{Skills: []Skill{{Name: "go"}}},
			expected: NeutralExperience,
			eval:     neutral,
		},
		{
			name:     "head office in description stays mid",
			opp:      Opportunity{Title: "Backend Developer", Description: "Join our head office in Lusaka"},
			profile:  Profile{YearsOfExperience: years(3)},
			expected: 1,
		},
		{
			name:     "unknown opportunity seniority",
			opp:      Opportunity{Seniority: "guru"},
			profile:  Profile{YearsOfExperience: years(4)},
			expected: NeutralExperience,
			eval:     neutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp, profile := tt.opp, tt.profile
			got := matchExperience(&opp, &profile)
			assert.InDelta(t, tt.expected, got.score, 0.0001)
			assert.Equal(t, tt.eval, got.eval)
		})
	}
}

func TestMatchLocation(t *testing.T) {
	tests := []struct {
		name     string
		opp      Location
		profile  ProfileLocation
		expected float64
		eval     evaluation
	}{
		{
			name:     "remote accepted",
			opp:      Location{Remote: true},
			profile:  ProfileLocation{City: "Lusaka", AcceptsRemote: true},
			expected: 1,
		},
		{
			name:     "remote-only profile satisfied",
			opp:      Location{City: "Berlin", Remote: true},
			profile:  ProfileLocation{RemoteOnly: true},
			expected: 1,
		},
		{
			name:     "remote-only profile onsite role",
			opp:      Location{City: "Lusaka"},
			profile:  ProfileLocation{City: "Lusaka", RemoteOnly: true},
			expected: 0.2,
		},
		{
			name:     "same city",
			opp:      Location{City: "Lusaka"},
			profile:  ProfileLocation{City: "  lusaka "},
			expected: 1,
		},
		{
			name:     "region match without city",
			opp:      Location{City: "Kitwe", Region: "Copperbelt Province"},
			profile:  ProfileLocation{Region: "Copperbelt"},
			expected: 1,
		},
		{
			name:     "same country different city",
			opp:      Location{City: "Kitwe", Country: "Zambia"},
			profile:  ProfileLocation{City: "Lusaka", Country: "Zambia"},
			expected: 0.7,
		},
		{
			name:     "same region different city",
			opp:      Location{City: "Ndola", Region: "Copperbelt"},
			profile:  ProfileLocation{City: "Kitwe", Region: "Copperbelt"},
			expected: 0.7,
		},
		{
			name:     "far away",
			opp:      Location{City: "Berlin", Country: "Germany"},
			profile:  ProfileLocation{City: "Lusaka", Country: "Zambia"},
			expected: 0.3,
		},
		{
			name:     "far away but willing to relocate",
			opp:      Location{City: "Berlin", Country: "Germany"},
			profile:  ProfileLocation{City: "Lusaka", WillingToRelocate: true},
			expected: 0.7,
		},
		{
			name:     "remote role without declared remote acceptance",
			opp:      Location{Remote: true},
			profile:  ProfileLocation{City: "Lusaka"},
			expected: 0.7,
		},
		{
			name:     "no data on either side",
			expected: NeutralLocation,
			eval:     neutral,
		},
		{
			name:     "profile has no location",
			opp:      Location{City: "Berlin"},
			expected: NeutralLocation,
			eval:     neutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchLocation(tt.opp, tt.profile)
			assert.InDelta(t, tt.expected, got.score, 0.0001)
			assert.Equal(t, tt.eval, got.eval)
		})
	}
}

func TestMatchSalary(t *testing.T) {
	tests := []struct {
		name     string
		opp      *SalaryRange
		profile  *SalaryRange
		expected float64
		eval     evaluation
	}{
		{
			name:     "partial overlap",
			opp:      &SalaryRange{Min: 60000, Max: 80000},
			profile:  &SalaryRange{Min: 65000, Max: 85000},
			expected: 0.875,
		},
		{
			name:     "identical ranges",
			opp:      &SalaryRange{Min: 60000, Max: 80000},
			profile:  &SalaryRange{Min: 60000, Max: 80000},
			expected: 1,
		},
		{
			name:     "opportunity covers profile",
			opp:      &SalaryRange{Min: 50000, Max: 100000},
			profile:  &SalaryRange{Min: 60000, Max: 80000},
			expected: 1,
		},
		{
			name:     "inverted bounds are swapped",
			opp:      &SalaryRange{Min: 80000, Max: 60000},
			profile:  &SalaryRange{Min: 65000, Max: 85000},
			expected: 0.875,
		},
		{
			name:     "single bound inside profile range",
			opp:      &SalaryRange{Min: 70000},
			profile:  &SalaryRange{Min: 65000, Max: 85000},
			expected: 1,
		},
		{
			name:     "point profile range inside",
			opp:      &SalaryRange{Min: 60000, Max: 80000},
			profile:  &SalaryRange{Max: 70000},
			expected: 1,
		},
		{
			name:     "touching ranges",
			opp:      &SalaryRange{Min: 60000, Max: 80000},
			profile:  &SalaryRange{Min: 80000, Max: 100000},
			expected: 0.5,
		},
		{
			name:     "large gap",
			opp:      &SalaryRange{Min: 60000, Max: 80000},
			profile:  &SalaryRange{Min: 150000, Max: 200000},
			expected: 0.0625,
		},
		{
			name:     "opportunity above expectations",
			opp:      &SalaryRange{Min: 100000, Max: 120000},
			profile:  &SalaryRange{Min: 60000, Max: 80000},
			expected: 0.4,
		},
		{
			name:     "matching currency ignores case",
			opp:      &SalaryRange{Min: 60000, Max: 80000, Currency: "usd"},
			profile:  &SalaryRange{Min: 60000, Max: 80000, Currency: "USD"},
			expected: 1,
		},
		{
			name:     "currency mismatch",
			opp:      &SalaryRange{Min: 60000, Max: 80000, Currency: "ZMW"},
			profile:  &SalaryRange{Min: 60000, Max: 80000, Currency: "USD"},
			expected: NeutralSalary,
			eval:     neutral,
		},
		{
			name:     "missing opportunity salary",
			profile:  &SalaryRange{Min: 60000, Max: 80000},
			expected: NeutralSalary,
			eval:     neutral,
		},
		{
			name:     "empty profile range",
			opp:      &SalaryRange{Min: 60000, Max: 80000},
			profile:  &SalaryRange{Currency: "USD"},
			expected: NeutralSalary,
			eval:     neutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchSalary(tt.opp, tt.profile)
			assert.InDelta(t, tt.expected, got.score, 0.0001)
			assert.Equal(t, tt.eval, got.eval)
		})
	}
}

func TestMatchPreferences(t *testing.T) {
	tests := []struct {
		name     string
		opp      Opportunity
		profile  Profile
		expected float64
		eval     evaluation
	}{
		{
			name:     "accepted type",
			opp:      Opportunity{Type: "Full time"},
			profile:  Profile{EmploymentTypes: []EmploymentType{FullTime, Contract}},
			expected: 1,
		},
		{
			name:     "rejected type",
			opp:      Opportunity{Type: Internship},
			profile:  Profile{EmploymentTypes: []EmploymentType{FullTime}},
			expected: 0.3,
		},
		{
			name:     "no stated preference",
			opp:      Opportunity{Type: PartTime},
			expected: 1,
			eval:     trivial,
		},
		{
			name:     "unknown opportunity type",
			opp:      Opportunity{Type: "gig"},
			profile:  Profile{EmploymentTypes: []EmploymentType{FullTime}},
			expected: NeutralPreferences,
			eval:     neutral,
		},
		{
			name:     "industry mismatch averaged in",
			opp:      Opportunity{Type: FullTime, Industry: "Banking"},
			profile:  Profile{EmploymentTypes: []EmploymentType{FullTime}, Industries: []string{"healthcare"}},
			expected: 0.75,
		},
		{
			name:     "company size without a known type",
			opp:      Opportunity{CompanySize: "Startup"},
			profile:  Profile{CompanySizes: []string{"startup"}},
			expected: 1,
		},
		{
			name:     "all secondary preferences miss",
			opp:      Opportunity{Type: Contract, Industry: "retail", CompanySize: "enterprise"},
			profile:  Profile{EmploymentTypes: []EmploymentType{FullTime}, Industries: []string{"fintech"}, CompanySizes: []string{"startup"}},
			expected: (0.3 + 0.5 + 0.6) / 3,
		},
		{
			name:     "no type preference with industry mismatch",
			opp:      Opportunity{Type: FullTime, Industry: "Healthcare"},
			profile:  Profile{Industries: []string{"fintech"}},
			expected: (1 + 0.5) / 2,
		},
		{
			name:     "unknown type with industry match",
			opp:      Opportunity{Type: "gig", Industry: "Fintech"},
			profile:  Profile{EmploymentTypes: []EmploymentType{FullTime}, Industries: []string{"fintech"}},
			expected: 1,
		},
		{
			name:     "industries declared but opportunity silent",
			opp:      Opportunity{Type: FullTime},
			profile:  Profile{Industries: []string{"fintech"}},
			expected: 1,
			eval:     trivial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp, profile := tt.opp, tt.profile
			got := matchPreferences(&opp, &profile)
			assert.InDelta(t, tt.expected, got.score, 0.0001)
			assert.Equal(t, tt.eval, got.eval)
		})
	}
}

func TestMatchAvailability(t *testing.T) {
	at := func(days float64) *time.Time {
		v := testNow.Add(time.Duration(days * 24 * float64(time.Hour)))
		return &v
	}

	tests := []struct {
		name      string
		requested Availability
		from      *time.Time
		expected  float64
		eval      evaluation
	}{
		{"no filter", "", at(200), 1, trivial},
		{"immediate and ready", Immediate, at(3), 1, evaluated},
		{"already available", Immediate, at(-30), 1, evaluated},
		{"a week late for immediate", Immediate, at(14), 0.3, evaluated},
		{"late for within month", Month, at(45), 0.5, evaluated},
		{"within two weeks exactly", TwoWeeks, at(14), 1, evaluated},
		{"not looking accepts anything", NotLooking, at(365), 1, trivial},
		{"no start date", Immediate, nil, NeutralAvailability, neutral},
		{"unknown filter", "someday", at(1), NeutralAvailability, neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchAvailability(tt.requested, tt.from, testNow)
			assert.InDelta(t, tt.expected, got.score, 0.0001)
			assert.Equal(t, tt.eval, got.eval)
		})
	}
}

func TestClassifyAvailability(t *testing.T) {
	day := 24 * time.Hour

	assert.Equal(t, Immediate, ClassifyAvailability(testNow, testNow))
	assert.Equal(t, TwoWeeks, ClassifyAvailability(testNow.Add(10*day), testNow))
	assert.Equal(t, Month, ClassifyAvailability(testNow.Add(20*day), testNow))
	assert.Equal(t, Flexible, ClassifyAvailability(testNow.Add(60*day), testNow))
	assert.Equal(t, NotLooking, ClassifyAvailability(testNow.Add(120*day), testNow))

	assert.InDelta(t, 2, DaysUntil(testNow.Add(36*time.Hour), testNow), 0.0001)
	assert.InDelta(t, 0, DaysUntil(testNow.Add(-48*time.Hour), testNow), 0.0001)
}
