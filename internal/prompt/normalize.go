// Package prompt provides local, opt-in prompt tidying. It runs before
// submission on the caller's side; whatever string the orchestrator is
// handed is what reaches the backend, verbatim.
package prompt

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tidy collapses runs of whitespace, trims the ends and capitalizes the
// leading word. It never rewrites the prompt's content.
func Tidy(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	fields[0] = cases.Title(language.Und, cases.NoLower).String(fields[0])
	return strings.Join(fields, " ")
}
