package matching

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Neutral defaults used when a criterion cannot be evaluated from the input.
const (
	NeutralExperience   = 0.7
	NeutralLocation     = 0.5
	NeutralSalary       = 0.75
	NeutralPreferences  = 0.7
	NeutralAvailability = 0.7
)

const (
	underQualifiedFloor = 0.3
	overQualifiedFloor  = 0.6
	overQualifiedFactor = 0.5

	remoteOnlyMismatch = 0.2
	sameRegionScore    = 0.7
	relocationScore    = 0.7
	remoteFallback     = 0.7
	distantLocation    = 0.3

	salaryOverlapBase = 0.5

	typeMismatch        = 0.3
	industryMismatch    = 0.5
	companySizeMismatch = 0.6

	lateAvailabilityFloor = 0.3

	minSubstringRunes = 2
)

// evaluation describes how a component value was obtained.
type evaluation int

const (
	// evaluated from data on both sides.
	evaluated evaluation = iota
	// trivial: nothing was required, the criterion is satisfied by definition.
	trivial
	// neutral: data was missing or malformed, a neutral default was used.
	neutral
)

type assessment struct {
	score float64
	eval  evaluation
}

func scored(v float64) assessment {
	return assessment{score: clamp01(v), eval: evaluated}
}

type skillsAssessment struct {
	assessment
	matched []string
	missing []string
}

// breakdown is the full output of the similarity calculator for one pair.
type breakdown struct {
	components Components
	evals      map[Criterion]evaluation
	matched    []string
	missing    []string
}

func calculate(o *Opportunity, p *Profile, now time.Time) breakdown {
	skills := matchSkills(o.Skills, p.SkillNames())
	experience := matchExperience(o, p)
	location := matchLocation(o.Location, p.Location)
	salary := matchSalary(o.Salary, p.Salary)
	preferences := matchPreferences(o, p)
	availability := matchAvailability(o.Availability, p.AvailableFrom, now)

	return breakdown{
		components: Components{
			Skills:       skills.score,
			Experience:   experience.score,
			Location:     location.score,
			Salary:       salary.score,
			Preferences:  preferences.score,
			Availability: availability.score,
		},
		evals: map[Criterion]evaluation{
			CriterionSkills:       skills.eval,
			CriterionExperience:   experience.eval,
			CriterionLocation:     location.eval,
			CriterionSalary:       salary.eval,
			CriterionPreferences:  preferences.eval,
			CriterionAvailability: availability.eval,
		},
		matched: skills.matched,
		missing: skills.missing,
	}
}

// normalizeText lowercases s and collapses inner whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// containsEither reports whether a contains b or b contains a.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// skillMatches compares two normalized skill names. Very short names such as
// "c" or "r" only match exactly.
func skillMatches(required, possessed string) bool {
	if required == possessed {
		return true
	}
	if utf8.RuneCountInString(required) < minSubstringRunes || utf8.RuneCountInString(possessed) < minSubstringRunes {
		return false
	}
	return containsEither(required, possessed)
}

// matchSkills scores |matched required| / |required|.
func matchSkills(required, possessed []string) skillsAssessment {
	have := make([]string, 0, len(possessed))
	for _, s := range possessed {
		if n := normalizeText(s); n != "" {
			have = append(have, n)
		}
	}

	seen := make(map[string]bool, len(required))
	var matched, missing []string
	total := 0
	for _, raw := range required {
		req := normalizeText(raw)
		if req == "" || seen[req] {
			continue
		}
		seen[req] = true
		total++

		found := false
		for _, h := range have {
			if skillMatches(req, h) {
				found = true
				break
			}
		}

		if found {
			matched = append(matched, strings.TrimSpace(raw))
		} else {
			missing = append(missing, strings.TrimSpace(raw))
		}
	}

	if total == 0 {
		return skillsAssessment{assessment: assessment{score: 1, eval: trivial}}
	}

	return skillsAssessment{
		assessment: scored(float64(len(matched)) / float64(total)),
		matched:    matched,
		missing:    missing,
	}
}

type experienceBand struct {
	floor   float64
	ceiling float64
}

var experienceBands = map[Seniority]experienceBand{
	Entry:     {floor: 0, ceiling: 2},
	Mid:       {floor: 2, ceiling: 5},
	Senior:    {floor: 5, ceiling: 10},
	Executive: {floor: 10, ceiling: 20},
}

type seniorityKeywords []struct {
	level    Seniority
	keywords []string
}

// Both tables are checked from the most senior band down so that titles such
// as "Senior Director" land in the higher band.
var titleKeywords = seniorityKeywords{
	{Executive, []string{"executive", "director", "vp", "chief", "head", "cto", "ceo", "cfo"}},
	{Senior, []string{"senior", "sr", "lead", "principal", "staff"}},
	{Entry, []string{"entry", "junior", "jr", "intern", "internship", "graduate", "trainee"}},
}

// textKeywords applies to free description text, where words such as "head"
// or "staff" are ordinary nouns.
var textKeywords = seniorityKeywords{
	{Executive, []string{"executive", "director", "vp"}},
	{Senior, []string{"senior", "lead"}},
	{Entry, []string{"entry", "junior"}},
}

func words(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		out[w] = true
	}
	return out
}

func inferSeniority(text string, table seniorityKeywords) (Seniority, bool) {
	tokens := words(text)
	if len(tokens) == 0 {
		return "", false
	}
	for _, group := range table {
		for _, kw := range group.keywords {
			if tokens[kw] {
				return group.level, true
			}
		}
	}
	return "", false
}

// InferSeniority returns the seniority band an opportunity targets: the
// explicit label when present, otherwise one inferred from its title and then
// from its description with a narrower keyword set. The second value is false
// for an unknown explicit label.
func InferSeniority(o *Opportunity) (Seniority, bool) {
	if strings.TrimSpace(string(o.Seniority)) != "" {
		return ParseSeniority(string(o.Seniority))
	}
	if level, ok := inferSeniority(o.Title, titleKeywords); ok {
		return level, true
	}
	if level, ok := inferSeniority(o.Description+" "+o.Requirements, textKeywords); ok {
		return level, true
	}
	return Mid, true
}

func profileYears(p *Profile) (float64, bool) {
	if p.YearsOfExperience != nil {
		return *p.YearsOfExperience, true
	}
	if level, ok := ParseSeniority(string(p.Seniority)); ok {
		b := experienceBands[level]
		return (b.floor + b.ceiling) / 2, true
	}
	best := 0.0
	for _, s := range p.Skills {
		if s.Years > best {
			best = s.Years
		}
	}
	return best, best > 0
}

func matchExperience(o *Opportunity, p *Profile) assessment {
	level, ok := InferSeniority(o)
	if !ok {
		return assessment{score: NeutralExperience, eval: neutral}
	}
	years, ok := profileYears(p)
	if !ok {
		return assessment{score: NeutralExperience, eval: neutral}
	}
	return scored(experienceFit(years, experienceBands[level]))
}

func experienceFit(years float64, b experienceBand) float64 {
	switch {
	case years < b.floor:
		deficit := b.floor - years
		return math.Max(underQualifiedFloor, 1-deficit/b.floor)
	case years < b.ceiling:
		return 1
	default:
		excess := (years - b.ceiling) / b.ceiling
		return math.Max(overQualifiedFloor, 1-excess*overQualifiedFactor)
	}
}

func matchLocation(o Location, p ProfileLocation) assessment {
	acceptsRemote := p.AcceptsRemote || p.RemoteOnly
	if o.Remote && acceptsRemote {
		return scored(1)
	}
	if p.RemoteOnly && !o.Remote {
		return scored(remoteOnlyMismatch)
	}

	oppCity := normalizeText(o.City)
	oppRegion := normalizeText(o.Region)
	oppCountry := normalizeText(o.Country)
	oppText := normalizeText(strings.Join([]string{o.City, o.Region, o.Country}, " "))

	city := normalizeText(p.City)
	region := normalizeText(p.Region)
	country := normalizeText(p.Country)

	if city != "" && (containsEither(oppCity, city) || strings.Contains(oppText, city)) {
		return scored(1)
	}
	if city == "" && region != "" && (containsEither(oppRegion, region) || strings.Contains(oppText, region)) {
		return scored(1)
	}
	if region != "" && (containsEither(oppRegion, region) || strings.Contains(oppText, region)) {
		return scored(sameRegionScore)
	}
	if country != "" && (containsEither(oppCountry, country) || strings.Contains(oppText, country)) {
		return scored(sameRegionScore)
	}

	if o.Remote {
		return scored(remoteFallback)
	}
	if oppText == "" || (city == "" && region == "" && country == "") {
		if p.WillingToRelocate && oppText != "" {
			return scored(relocationScore)
		}
		return assessment{score: NeutralLocation, eval: neutral}
	}
	if p.WillingToRelocate {
		return scored(relocationScore)
	}
	return scored(distantLocation)
}

// salaryBounds normalizes a range: inverted bounds are swapped and a single
// stated bound becomes a point range.
func salaryBounds(r *SalaryRange) (lo, hi float64, ok bool) {
	if r == nil {
		return 0, 0, false
	}
	lo, hi = r.Min, r.Max
	if lo <= 0 && hi <= 0 {
		return 0, 0, false
	}
	if lo <= 0 {
		lo = hi
	}
	if hi <= 0 {
		hi = lo
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

func matchSalary(opp, profile *SalaryRange) assessment {
	oLo, oHi, ok := salaryBounds(opp)
	if !ok {
		return assessment{score: NeutralSalary, eval: neutral}
	}
	pLo, pHi, ok := salaryBounds(profile)
	if !ok {
		return assessment{score: NeutralSalary, eval: neutral}
	}

	oCur := strings.TrimSpace(opp.Currency)
	pCur := strings.TrimSpace(profile.Currency)
	if oCur != "" && pCur != "" && !strings.EqualFold(oCur, pCur) {
		return assessment{score: NeutralSalary, eval: neutral}
	}

	return scored(salaryFit(oLo, oHi, pLo, pHi))
}

// salaryFit maps overlapping ranges onto [0.5, 1] by the share of the profile
// range covered, and disjoint ranges onto [0, 0.5) by the relative gap.
func salaryFit(oLo, oHi, pLo, pHi float64) float64 {
	lo := math.Max(oLo, pLo)
	hi := math.Min(oHi, pHi)

	if hi >= lo {
		ratio := 1.0
		if width := pHi - pLo; width > 0 && oHi > oLo {
			ratio = math.Min(1, (hi-lo)/width)
		}
		return salaryOverlapBase + (1-salaryOverlapBase)*ratio
	}

	var gap, reference float64
	if oHi < pLo {
		gap, reference = pLo-oHi, oHi
	} else {
		gap, reference = oLo-pHi, oLo
	}
	if reference <= 0 {
		return 0
	}
	return salaryOverlapBase * math.Max(0, 1-gap/reference)
}

func matchPreferences(o *Opportunity, p *Profile) assessment {
	var parts []float64
	if len(p.Industries) > 0 && strings.TrimSpace(o.Industry) != "" {
		parts = append(parts, overlapScore(o.Industry, p.Industries, industryMismatch))
	}
	if len(p.CompanySizes) > 0 && strings.TrimSpace(o.CompanySize) != "" {
		parts = append(parts, overlapScore(o.CompanySize, p.CompanySizes, companySizeMismatch))
	}

	t := matchEmploymentType(o.Type, p.EmploymentTypes)
	if len(parts) == 0 {
		if t.eval == neutral {
			return assessment{score: NeutralPreferences, eval: neutral}
		}
		return t
	}

	// A known type with no stated preference still counts as a full match.
	if t.eval != neutral {
		parts = append(parts, t.score)
	}

	sum := 0.0
	for _, v := range parts {
		sum += v
	}
	return scored(sum / float64(len(parts)))
}

func matchEmploymentType(oppType EmploymentType, accepted []EmploymentType) assessment {
	set := make(map[EmploymentType]bool, len(accepted))
	for _, a := range accepted {
		if t, ok := ParseEmploymentType(string(a)); ok {
			set[t] = true
		}
	}

	if strings.TrimSpace(string(oppType)) == "" {
		return assessment{score: NeutralPreferences, eval: neutral}
	}
	t, ok := ParseEmploymentType(string(oppType))
	if !ok {
		return assessment{score: NeutralPreferences, eval: neutral}
	}
	if len(set) == 0 {
		return assessment{score: 1, eval: trivial}
	}
	if set[t] {
		return scored(1)
	}
	return scored(typeMismatch)
}

func overlapScore(value string, wanted []string, mismatch float64) float64 {
	v := normalizeText(value)
	for _, w := range wanted {
		if containsEither(v, normalizeText(w)) {
			return 1
		}
	}
	return mismatch
}

var availabilityLimits = map[Availability]float64{
	Immediate: 7,
	TwoWeeks:  14,
	Month:     30,
	Flexible:  90,
}

// DaysUntil returns the whole days from now until the given start date; past
// dates count as zero.
func DaysUntil(from, now time.Time) float64 {
	days := math.Ceil(from.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ClassifyAvailability maps a start date onto an urgency band.
func ClassifyAvailability(from, now time.Time) Availability {
	days := DaysUntil(from, now)
	switch {
	case days <= availabilityLimits[Immediate]:
		return Immediate
	case days <= availabilityLimits[TwoWeeks]:
		return TwoWeeks
	case days <= availabilityLimits[Month]:
		return Month
	case days <= availabilityLimits[Flexible]:
		return Flexible
	default:
		return NotLooking
	}
}

func matchAvailability(requested Availability, from *time.Time, now time.Time) assessment {
	if strings.TrimSpace(string(requested)) == "" {
		return assessment{score: 1, eval: trivial}
	}
	band, ok := ParseAvailability(string(requested))
	if !ok {
		return assessment{score: NeutralAvailability, eval: neutral}
	}
	limit, bounded := availabilityLimits[band]
	if !bounded {
		return assessment{score: 1, eval: trivial}
	}
	if from == nil {
		return assessment{score: NeutralAvailability, eval: neutral}
	}

	days := DaysUntil(*from, now)
	if days <= limit {
		return scored(1)
	}
	return scored(math.Max(lateAvailabilityFloor, 1-(days-limit)/limit))
}
