// Package report renders ranked matches for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spigell/job-matcher/internal/filtering"
	"github.com/spigell/job-matcher/internal/matching"
	"github.com/spigell/job-matcher/internal/utils"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"

	titleWidth  = 40
	skillsShown = 3
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want %s or %s)", s, FormatTable, FormatJSON)
	}
}

// Entry is one ranked match with the opportunity details needed to act on it.
type Entry struct {
	Rank    int    `json:"rank"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
	URL     string `json:"url,omitempty"`
	matching.MatchResult
}

// Entries flattens candidates into ranked entries.
func Entries(c *filtering.Candidates) []Entry {
	entries := make([]Entry, 0, c.Len())
	for i, item := range c.Items {
		entry := Entry{Rank: i + 1, MatchResult: item.Result}
		if o := item.Opportunity; o != nil {
			entry.Title = o.Title
			entry.Company = o.Company
			entry.URL = o.URL
		}
		entries = append(entries, entry)
	}
	return entries
}

// Write renders candidates in the given format.
func Write(w io.Writer, format Format, c *filtering.Candidates) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, c)
	default:
		return WriteTable(w, c)
	}
}

// WriteTable renders an aligned, human readable ranking.
func WriteTable(w io.Writer, c *filtering.Candidates) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tCONF\tTITLE\tCOMPANY\tMATCHED\tMISSING")
	for _, e := range Entries(c) {
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%s\t%s\t%s\t%s\n",
			e.Rank,
			e.Score,
			e.Confidence,
			utils.TruncateForLog(orDash(e.Title, e.OpportunityID), titleWidth),
			orDash(e.Company, ""),
			orDash(utils.JoinLimited(e.MatchedSkills, skillsShown), ""),
			orDash(utils.JoinLimited(e.MissingSkills, skillsShown), ""),
		)
	}
	return tw.Flush()
}

// WriteJSON renders the ranking as an indented JSON array.
func WriteJSON(w io.Writer, c *filtering.Candidates) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Entries(c))
}

// WriteBreakdown renders the per-criterion components of one result.
func WriteBreakdown(w io.Writer, r matching.MatchResult, weights matching.Weights) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "opportunity:\t%s\n", r.OpportunityID)
	fmt.Fprintf(tw, "profile:\t%s\n", r.ProfileID)
	fmt.Fprintf(tw, "score:\t%d\n", r.Score)
	fmt.Fprintf(tw, "confidence:\t%.2f\n", r.Confidence)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CRITERION\tWEIGHT\tVALUE\tBAND")
	for _, c := range matching.Criteria {
		v := r.Components.Get(c)
		fmt.Fprintf(tw, "%s\t%.2f\t%.3f\t%s\n", c, weights.Get(c), v, matching.BandOf(v))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.MatchedSkills) > 0 {
		fmt.Fprintf(w, "\nmatched skills: %s\n", strings.Join(r.MatchedSkills, ", "))
	}
	if len(r.MissingSkills) > 0 {
		fmt.Fprintf(w, "missing skills: %s\n", strings.Join(r.MissingSkills, ", "))
	}
	if len(r.Reasoning) > 0 {
		fmt.Fprintln(w)
		for _, line := range r.Reasoning {
			fmt.Fprintf(w, "- %s\n", line)
		}
	}
	return nil
}

// ByCompany groups ranked entries by company.
func ByCompany(c *filtering.Candidates) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, e := range Entries(c) {
		key := orDash(e.Company, "")
		report[key] = append(report[key], map[string]string{
			"id":      e.OpportunityID,
			"title":   e.Title,
			"url":     e.URL,
			"score":   strconv.Itoa(e.Score),
			"matched": strings.Join(e.MatchedSkills, ", "),
			"missing": strings.Join(e.MissingSkills, ", "),
		})
	}
	return report
}

// DumpToTmpFile writes the JSON ranking to a new temporary file and returns its name.
// The file is removed when it could not be written completely.
func DumpToTmpFile(c *filtering.Candidates) (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}

	err = WriteJSON(file, c)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

func orDash(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	if fallback != "" {
		return fallback
	}
	return "-"
}
