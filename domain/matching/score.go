// Package matching holds the deterministic profile compatibility heuristic.
// It ranks candidates when the remote model is unavailable and seeds the
// fallback recommendation reasons.
package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aurelia-hq/aurelia-backend/domain/profile"
)

// Scoring weights for shared profile attributes.
const (
	locationPoints     = 3
	industryPoints     = 4
	schoolPoints       = 4
	careerStatusPoints = 2
	sharedSkillPoints  = 2
)

// Score computes a compatibility score between a user and a candidate.
// It is deterministic and side-effect free. The location check is an
// asymmetric substring match: the user's location must appear within the
// candidate's. Existing ranking results depend on that behavior, so it is
// not a symmetric overlap.
func Score(user, candidate *profile.Profile) int {
	score := 0

	if user.Location != "" && candidate.Location != "" {
		if strings.Contains(strings.ToLower(candidate.Location), strings.ToLower(user.Location)) {
			score += locationPoints
		}
	}

	userIndustry := strings.ToLower(user.EffectiveIndustry())
	candIndustry := strings.ToLower(candidate.EffectiveIndustry())
	if userIndustry != "" && candIndustry != "" && userIndustry == candIndustry {
		score += industryPoints
	}

	if user.CurrentSchool != "" && candidate.CurrentSchool != "" {
		if strings.EqualFold(user.CurrentSchool, candidate.CurrentSchool) {
			score += schoolPoints
		}
	}

	if user.CareerStatus != "" && candidate.CareerStatus != "" && user.CareerStatus == candidate.CareerStatus {
		score += careerStatusPoints
	}

	score += sharedSkillPoints * sharedSkillCount(user.Skills, candidate.Skills)

	return score
}

// sharedSkillCount returns the size of the case-insensitive intersection
// of two skill-tag sets.
func sharedSkillCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[strings.ToLower(s)] = struct{}{}
	}
	seen := make(map[string]struct{}, len(b))
	count := 0
	for _, s := range b {
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := set[key]; ok {
			count++
		}
	}
	return count
}

// Rank sorts candidates by descending score against the user. The sort is
// stable: equal scores keep arrival order.
func Rank(user *profile.Profile, candidates []profile.Profile) []profile.Profile {
	ranked := make([]profile.Profile, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(user, &ranked[i]) > Score(user, &ranked[j])
	})
	return ranked
}

// Reason synthesizes a short justification from whichever shared
// attributes matched, or a generic phrase if none did.
func Reason(user, candidate *profile.Profile) string {
	var parts []string

	if user.CurrentSchool != "" && candidate.CurrentSchool != "" &&
		strings.EqualFold(user.CurrentSchool, candidate.CurrentSchool) {
		parts = append(parts, fmt.Sprintf("also at %s", candidate.CurrentSchool))
	}

	userIndustry := user.EffectiveIndustry()
	if userIndustry != "" && strings.EqualFold(userIndustry, candidate.EffectiveIndustry()) {
		parts = append(parts, fmt.Sprintf("works in %s too", candidate.EffectiveIndustry()))
	}

	if shared := sharedSkillCount(user.Skills, candidate.Skills); shared > 0 {
		if shared == 1 {
			parts = append(parts, "shares a skill with you")
		} else {
			parts = append(parts, fmt.Sprintf("shares %d skills with you", shared))
		}
	}

	if len(parts) == 0 {
		return "Similar professional background"
	}

	reason := strings.Join(parts, ", ")
	return strings.ToUpper(reason[:1]) + reason[1:]
}
