package headhunter

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/job-matcher/internal/matching"
)

const (
	scheduleRemote = "remote"
	vacancyURLBase = "https://hh.ru/vacancy/"
)

// experienceLevels maps hh.ru experience ids onto seniority bands.
var experienceLevels = map[string]matching.Seniority{
	"noExperience": matching.Entry,
	"between1And3": matching.Mid,
	"between3And6": matching.Senior,
	"moreThan6":    matching.Senior,
}

// hh.ru still reports rubles with the pre-1998 code.
var currencyAliases = map[string]string{
	"RUR": "RUB",
}

var tags = regexp.MustCompile(`<[^>]*>`)

type Vacancies struct {
	Items []*Vacancy `json:"items"`
}

type IDName struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Area struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type Salary struct {
	From     int    `json:"from,omitempty"`
	To       int    `json:"to,omitempty"`
	Currency string `json:"currency,omitempty"`
	Gross    bool   `json:"gross,omitempty"`
}

type Employer struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	URL          string `json:"url,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Trusted      bool   `json:"trusted,omitempty"`
}

type Snippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

type KeySkill struct {
	Name string `json:"name,omitempty"`
}

// Vacancy is a hh.ru vacancy as returned by the public API and stored in
// vacancy dumps.
type Vacancy struct {
	ID                string     `json:"id,omitempty"`
	Name              string     `json:"name,omitempty"`
	Area              Area       `json:"area,omitempty"`
	HasTest           bool       `json:"has_test,omitempty"`
	Salary            *Salary    `json:"salary,omitempty"`
	Experience        IDName     `json:"experience,omitempty"`
	Schedule          IDName     `json:"schedule,omitempty"`
	Employment        IDName     `json:"employment,omitempty"`
	Employer          Employer   `json:"employer,omitempty"`
	AlternateURL      string     `json:"alternate_url,omitempty"`
	Description       string     `json:"description,omitempty"`
	KeySkills         []KeySkill `json:"key_skills,omitempty"`
	Archived          bool       `json:"archived,omitempty"`
	Snippet           Snippet    `json:"snippet,omitempty"`
	ProfessionalRoles []IDName   `json:"professional_roles,omitempty"`
	PublishedAt       string     `json:"published_at,omitempty"`
}

// LoadVacancies reads a vacancy dump. Both a bare JSON array and an object
// with an "items" array are accepted.
func LoadVacancies(path string) (*Vacancies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vacancies file: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse vacancies file %s: %w", path, err)
	}

	var items any
	switch typed := raw.(type) {
	case []any:
		items = typed
	case map[string]any:
		for key, value := range typed {
			if strings.EqualFold(key, "items") {
				items = value
			}
		}
	default:
		return nil, fmt.Errorf("vacancies file %s: unexpected top-level %T", path, raw)
	}

	vacancies := &Vacancies{}
	if items == nil {
		return vacancies, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &vacancies.Items,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode vacancies from %s: %w", path, err)
	}

	return vacancies, nil
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

func (v *Vacancies) FindByID(id string) *Vacancy {
	for _, vacancy := range v.Items {
		if vacancy.ID == id {
			return vacancy
		}
	}
	return nil
}

// Active drops archived vacancies.
func (v *Vacancies) Active() *Vacancies {
	active := &Vacancies{Items: make([]*Vacancy, 0, len(v.Items))}
	for _, vacancy := range v.Items {
		if !vacancy.Archived {
			active.Items = append(active.Items, vacancy)
		}
	}
	return active
}

// ToOpportunities converts every vacancy, keeping the dump order.
func (v *Vacancies) ToOpportunities() []matching.Opportunity {
	opps := make([]matching.Opportunity, 0, len(v.Items))
	for _, vacancy := range v.Items {
		opps = append(opps, vacancy.ToOpportunity())
	}
	return opps
}

// OpportunityID derives a stable opportunity ID from a hh.ru vacancy ID.
func OpportunityID(vacancyID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(vacancyURLBase+vacancyID)).String()
}

// URL returns the public page of the vacancy.
func (va *Vacancy) URL() string {
	if va.AlternateURL != "" {
		return va.AlternateURL
	}
	return vacancyURLBase + va.ID
}

// ToOpportunity maps the vacancy onto the matching model.
func (va *Vacancy) ToOpportunity() matching.Opportunity {
	opp := matching.Opportunity{
		ID:           OpportunityID(va.ID),
		Title:        strings.TrimSpace(va.Name),
		Company:      strings.TrimSpace(va.Employer.Name),
		URL:          va.URL(),
		Location:     matching.Location{City: va.Area.Name, Remote: va.Schedule.ID == scheduleRemote},
		Seniority:    experienceLevels[va.Experience.ID],
		Requirements: plainText(va.Snippet.Requirement),
		Description:  strings.TrimSpace(plainText(va.Snippet.Responsibility) + " " + plainText(va.Description)),
	}

	for _, skill := range va.KeySkills {
		if name := strings.TrimSpace(skill.Name); name != "" {
			opp.Skills = append(opp.Skills, name)
		}
	}

	if t, ok := matching.ParseEmploymentType(va.Employment.ID); ok {
		opp.Type = t
	}

	if va.Salary != nil && (va.Salary.From > 0 || va.Salary.To > 0) {
		currency := strings.ToUpper(strings.TrimSpace(va.Salary.Currency))
		if alias, ok := currencyAliases[currency]; ok {
			currency = alias
		}
		opp.Salary = &matching.SalaryRange{
			Min:      float64(va.Salary.From),
			Max:      float64(va.Salary.To),
			Currency: currency,
		}
	}

	return opp
}

// plainText strips markup from hh.ru snippets and descriptions.
func plainText(s string) string {
	s = tags.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}
