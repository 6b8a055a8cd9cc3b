package advisor

import (
	"slices"
	"sort"
	"strings"

	"github.com/i474232898/weather-insights/internal/weather"
)

// Gender selects gender-specific clothing items.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

// ParseGender maps s to a Gender; unknown values become GenderNeutral.
func ParseGender(s string) Gender {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g
	default:
		return GenderNeutral
	}
}

// Activity is what the user is dressing for.
type Activity string

const (
	ActivityCasual Activity = "casual"
	ActivityWork   Activity = "work"
	ActivitySport  Activity = "sport"
	ActivityFormal Activity = "formal"
)

// ParseActivity maps s to an Activity; unknown values become ActivityCasual.
func ParseActivity(s string) Activity {
	switch a := Activity(strings.ToLower(strings.TrimSpace(s))); a {
	case ActivityWork, ActivitySport, ActivityFormal:
		return a
	default:
		return ActivityCasual
	}
}

// AgeGroup tunes health alerts.
type AgeGroup string

const (
	AgeChild  AgeGroup = "child"
	AgeAdult  AgeGroup = "adult"
	AgeSenior AgeGroup = "senior"
)

// ParseAgeGroup maps s to an AgeGroup. "elderly" is an alias of senior;
// unknown values become AgeAdult.
func ParseAgeGroup(s string) AgeGroup {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "child":
		return AgeChild
	case "senior", "elderly":
		return AgeSenior
	default:
		return AgeAdult
	}
}

// wet reports whether a condition calls for rain gear.
func wet(c weather.Condition) bool {
	return c.Is("rain", "drizzle", "thunderstorm")
}

// sortedUnique returns the distinct values of items in ascending order. The
// result is never nil.
func sortedUnique(items []string) []string {
	out := make([]string, 0, len(items))
	out = append(out, items...)
	sort.Strings(out)
	return slices.Compact(out)
}

// orderedUnique drops repeated values, keeping first occurrences in order.
func orderedUnique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
