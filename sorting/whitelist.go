// SPDX-License-Identifier: GPL-3.0-or-later
package sorting

import (
	"strings"

	"github.com/mailsort/go-imap-sorter/domain"
)

// Folders containing one of these substrings hold unwanted mail. Rules that
// sort into them must not whitelist their sender patterns, otherwise a rule
// that routes known-bad senders to Trash would exempt them from spam checks.
var spamFolderKeywords = []string{
	"junk",
	"spam",
	"trash",
	"deleted",
	"gelöscht",
	"papierkorb",
	"spamverdacht",
	"quarantine",
}

// Whitelist is the set of trusted domains and patterns derived from the
// sorting rules. It is rebuilt from the current rule set at the start of
// every run and never persisted.
type Whitelist map[string]struct{}

func (w Whitelist) Contains(entry string) bool {
	_, ok := w[strings.ToLower(entry)]
	return ok
}

func (w Whitelist) Len() int {
	return len(w)
}

// BuildWhitelist derives trusted entries from the from_contains patterns of
// all rules that do not sort into a spam destination. Patterns containing an
// "@" contribute the domain part, everything else is taken verbatim.
func BuildWhitelist(rules *domain.RuleSet) Whitelist {
	whitelist := Whitelist{}
	if rules == nil {
		return whitelist
	}

	for _, rule := range rules.Rules {
		if isSpamDestination(rule.Folder) {
			continue
		}

		for _, pattern := range rule.Conditions.FromContains {
			pattern = strings.ToLower(strings.TrimSpace(pattern))
			if at := strings.LastIndex(pattern, "@"); at >= 0 {
				pattern = pattern[at+1:]
			}

			if len(pattern) > 0 {
				whitelist[pattern] = struct{}{}
			}
		}
	}

	return whitelist
}

func isSpamDestination(folder string) bool {
	folder = strings.ToLower(folder)
	for _, keyword := range spamFolderKeywords {
		if strings.Contains(folder, keyword) {
			return true
		}
	}
	return false
}
