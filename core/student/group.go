package student

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// groupMinSim is the similarity above which a typed group is taken for a known one.
var groupMinSim = .85

// NormalizeGroup snaps a typed group onto the most similar known group, so that
// "ielts-5" and "IELTS 5" end up in the same dashboard row.
// Groups whose digits differ are never merged.
// The group is returned unchanged when no known group is similar enough.
func NormalizeGroup(group string, known []string) string {
	key := groupKey(group)
	best, bestRatio := group, 0.0
	for _, k := range known {
		kKey := groupKey(k)
		if kKey == key {
			return k
		}
		if digits(kKey) != digits(key) {
			continue
		}
		ratio := difflib.NewMatcher(strings.Split(key, ""), strings.Split(kKey, "")).Ratio()
		if ratio >= groupMinSim && ratio > bestRatio {
			best, bestRatio = k, ratio
		}
	}
	return best
}

// groupKey lowers s and drops everything but letters and digits.
func groupKey(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
