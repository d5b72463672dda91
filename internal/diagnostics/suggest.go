package diagnostics

import (
	"fmt"

	"github.com/sahilm/fuzzy"
)

// Suggest returns the closest candidate to name, or "" when nothing is
// remotely similar.
func Suggest(name string, candidates []string) string {
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// DidYouMean formats a suggestion hint suitable for appending to a message.
// prefix is prepended to the candidate ("$" for variables, "" for mixins).
func DidYouMean(name, prefix string, candidates []string) string {
	match := Suggest(name, candidates)
	if match == "" || match == name {
		return ""
	}
	return fmt.Sprintf(" (did you mean %s%s?)", prefix, match)
}
