// Package suggest finds the closest known name to a misspelled one, for "did you mean" hints in
// configuration errors.
package suggest

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Names further than this many edits from the input are not suggested.
const maxDistance = 3

// Closest returns the candidate with the smallest case-insensitive edit distance to name, if any
// candidate is within maxDistance. Ties go to the earliest candidate.
func Closest(name string, candidates []string) (closest string, found bool) {
	lowerName := strings.ToLower(name)
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		distance := levenshtein.Distance(lowerName, strings.ToLower(candidate), nil)
		if distance < bestDistance {
			bestDistance = distance
			closest = candidate
			found = true
		}
	}

	return closest, found
}

// Hint formats the closest candidate as a sentence to append to an error message, or returns ""
// if there is none.
func Hint(name string, candidates []string) string {
	closest, found := Closest(name, candidates)
	if !found || closest == name {
		return ""
	}
	return " Did you mean '" + closest + "'?"
}
