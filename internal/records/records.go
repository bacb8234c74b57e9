// Package records hydrates typed profiles and opportunities from YAML, JSON
// or TOML files.
package records

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	apperrors "github.com/spigell/job-matcher/internal/errors"
	"github.com/spigell/job-matcher/internal/matching"
)

const (
	profileKey       = "profile"
	opportunitiesKey = "opportunities"
	dateLayout       = "2006-01-02"
)

var (
	timeType           = reflect.TypeOf(time.Time{})
	employmentTypeType = reflect.TypeOf(matching.EmploymentType(""))
	seniorityType      = reflect.TypeOf(matching.Seniority(""))
	availabilityType   = reflect.TypeOf(matching.Availability(""))
	skillType          = reflect.TypeOf(matching.Skill{})
)

// LoadProfile reads a profile file. The profile may sit at the top level or
// under a "profile" key.
func LoadProfile(path string) (*matching.Profile, error) {
	v, err := read(path)
	if err != nil {
		return nil, err
	}

	raw := any(v.AllSettings())
	if v.IsSet(profileKey) {
		raw = v.Get(profileKey)
	}

	profile, err := DecodeProfile(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profile, nil
}

// LoadOpportunities reads the "opportunities" list from a file.
func LoadOpportunities(path string) ([]matching.Opportunity, error) {
	v, err := read(path)
	if err != nil {
		return nil, err
	}

	if !v.IsSet(opportunitiesKey) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s: no %q list found", path, opportunitiesKey), nil)
	}

	opps, err := DecodeOpportunities(v.Get(opportunitiesKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opps, nil
}

// DecodeProfile converts a generic map into a Profile.
func DecodeProfile(raw any) (*matching.Profile, error) {
	var profile matching.Profile
	if err := decode(raw, &profile); err != nil {
		return nil, apperrors.InvalidInput("decode profile", err)
	}
	return &profile, nil
}

// DecodeOpportunities converts a generic list of maps into opportunities.
func DecodeOpportunities(raw any) ([]matching.Opportunity, error) {
	var opps []matching.Opportunity
	if err := decode(raw, &opps); err != nil {
		return nil, apperrors.InvalidInput("decode opportunities", err)
	}
	return opps, nil
}

func read(path string) (*viper.Viper, error) {
	if strings.TrimSpace(path) == "" {
		return nil, apperrors.Configuration("records file path is empty", nil)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NotFound(fmt.Sprintf("records file %s", path), err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("read records file %s", path), err)
	}
	return v, nil
}

func decode(raw, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTimeHook,
			stringToListHook,
			labelHook,
		),
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// stringToTimeHook accepts RFC 3339 timestamps and plain dates.
func stringToTimeHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != timeType {
		return data, nil
	}

	s := strings.TrimSpace(reflect.ValueOf(data).String())
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: expected RFC3339 or %s", s, dateLayout)
	}
	return parsed, nil
}

// stringToListHook turns "go, sql" into a two element list.
func stringToListHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t.Kind() != reflect.Slice {
		return data, nil
	}

	var out []string
	for _, part := range strings.Split(reflect.ValueOf(data).String(), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// labelHook canonicalizes known enum labels and lets a bare name stand for a
// skill. Unknown labels pass through so the engine can treat them as missing
// data.
func labelHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String {
		return data, nil
	}

	s := reflect.ValueOf(data).String()
	switch t {
	case employmentTypeType:
		if v, ok := matching.ParseEmploymentType(s); ok {
			return string(v), nil
		}
	case seniorityType:
		if v, ok := matching.ParseSeniority(s); ok {
			return string(v), nil
		}
	case availabilityType:
		if v, ok := matching.ParseAvailability(s); ok {
			return string(v), nil
		}
	case skillType:
		return map[string]any{"name": strings.TrimSpace(s)}, nil
	}
	return data, nil
}
