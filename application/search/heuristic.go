package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/aurelia-hq/aurelia-backend/domain/profile"
)

// careerStatusPhrases maps query phrases to career status values. Longer
// phrases come first so "seeking opportunities" wins over its singular form.
var careerStatusPhrases = []struct {
	phrase string
	value  string
}{
	{"currently in industry", string(profile.StatusInIndustry)},
	{"in industry", string(profile.StatusInIndustry)},
	{"seeking opportunities", string(profile.StatusSeekingOpportunities)},
	{"seeking opportunity", string(profile.StatusSeekingOpportunities)},
	{"student", string(profile.StatusStudent)},
	{"career break", string(profile.StatusCareerBreak)},
}

// schoolMarkers introduce a school name in a query ("went to Virginia Tech").
var schoolMarkers = []string{"went to", "at", "from"}

// schoolStoppers end a school name.
var schoolStoppers = []string{" and ", " who ", " with ", " in "}

// HeuristicParser is the deterministic local parser used when no model
// credential is configured or the model output is unusable. It scans for
// known industry keywords and career-status phrases and extracts a school
// name following a marker word. Skills and location are left empty.
type HeuristicParser struct{}

// NewHeuristicParser creates the deterministic fallback parser.
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

// Parse never fails; unknown fields stay empty.
func (p *HeuristicParser) Parse(_ context.Context, query string) (Filters, error) {
	lowered := strings.ToLower(query)

	filters := Filters{Skills: []string{}}

	for _, option := range profile.IndustryOptions {
		if strings.Contains(lowered, strings.ToLower(option)) {
			filters.Industry = option
			break
		}
	}

	for _, entry := range careerStatusPhrases {
		if strings.Contains(lowered, entry.phrase) {
			filters.CareerStatus = entry.value
			break
		}
	}

	filters.School = extractSchool(lowered)

	return filters, nil
}

// extractSchool pulls the text following the first marker word, cut at the
// first stopper. Markers match on word boundaries so "at" does not trigger
// inside words like "data".
func extractSchool(lowered string) string {
	padded := " " + lowered + " "
	for _, marker := range schoolMarkers {
		idx := strings.Index(padded, " "+marker+" ")
		if idx == -1 {
			continue
		}
		after := strings.TrimSpace(padded[idx+len(marker)+2:])
		for _, stopper := range schoolStoppers {
			if cut := strings.Index(after, stopper); cut != -1 {
				after = strings.TrimSpace(after[:cut])
			}
		}
		if after == "" {
			return ""
		}
		return titleCase(after)
	}
	return ""
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		_, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}
