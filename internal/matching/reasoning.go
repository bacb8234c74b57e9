package matching

// Band classifies a component value for reasoning.
type Band int

const (
	BandCaution Band = iota
	BandModerate
	BandStrong
)

const (
	strongThreshold   = 0.8
	moderateThreshold = 0.5
)

func (b Band) String() string {
	switch b {
	case BandStrong:
		return "strong"
	case BandModerate:
		return "moderate"
	default:
		return "caution"
	}
}

// BandOf returns the band of a component value: strong above 0.8, moderate
// from 0.5 to 0.8, caution below 0.5.
func BandOf(v float64) Band {
	switch {
	case v > strongThreshold:
		return BandStrong
	case v >= moderateThreshold:
		return BandModerate
	default:
		return BandCaution
	}
}

// sentences is indexed by Band.
var sentences = map[Criterion][3]string{
	CriterionSkills: {
		"Skills gap: most required skills are missing",
		"Partial skills match: some required skills are missing",
		"Strong skills match: the profile covers the required skills",
	},
	CriterionExperience: {
		"Experience level differs significantly from what the role expects",
		"Experience level is close to what the role expects",
		"Experience level fits the role",
	},
	CriterionLocation: {
		"Location may require relocation or remote work",
		"Location is workable with some flexibility",
		"Location is a good fit",
	},
	CriterionSalary: {
		"Salary expectations are outside the offered range",
		"Salary expectations partially overlap the offered range",
		"Salary expectations align with the offered range",
	},
	CriterionPreferences: {
		"Employment type or preferences do not match",
		"Preferences match only in part",
		"Employment type and preferences match",
	},
	CriterionAvailability: {
		"Availability does not fit the requested start date",
		"Availability is slightly later than requested",
		"Available within the requested timeframe",
	},
}

// Sentence returns the reasoning line for a criterion and band.
func Sentence(c Criterion, b Band) string {
	return sentences[c][b]
}

// Reasoning renders one sentence per criterion in priority order. Criteria
// with zero weight are skipped.
func Reasoning(c Components, w Weights) []string {
	return reasoning(c, w, nil)
}

// reasoning skips criteria whose evaluation is not evaluated when evals is
// non-nil.
func reasoning(c Components, w Weights, evals map[Criterion]evaluation) []string {
	out := make([]string, 0, len(Criteria))
	for _, criterion := range Criteria {
		if w.Get(criterion) <= 0 {
			continue
		}
		if evals != nil && evals[criterion] != evaluated {
			continue
		}
		out = append(out, Sentence(criterion, BandOf(c.Get(criterion))))
	}
	return out
}
