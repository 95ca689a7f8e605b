// SPDX-License-Identifier: GPL-3.0-or-later
package sorting

import (
	"strings"

	"github.com/mailsort/go-imap-sorter/domain"
)

// MatchRule reports whether a message satisfies any of the rule's conditions.
// Conditions are OR-ed, matching is case-insensitive substring containment.
// A rule without conditions never matches.
func MatchRule(m *domain.MailSummary, rule *domain.Rule) bool {
	return containsAny(m.From, rule.Conditions.FromContains) ||
		containsAny(m.Subject, rule.Conditions.SubjectContains) ||
		containsAny(m.To, rule.Conditions.ToContains)
}

// MatchAny scans the rule set in configured order and returns the first
// matching rule. Rule order is the authoritative tie-break, later rules are
// not evaluated once a rule matched. Returns nil when no rule matches.
func MatchAny(m *domain.MailSummary, rules *domain.RuleSet) *domain.Rule {
	if rules == nil {
		return nil
	}

	for i := range rules.Rules {
		if MatchRule(m, &rules.Rules[i]) {
			return &rules.Rules[i]
		}
	}

	return nil
}

func containsAny(field string, terms []string) bool {
	if len(terms) == 0 || len(field) == 0 {
		return false
	}

	field = strings.ToLower(field)
	for _, term := range terms {
		if len(term) > 0 && strings.Contains(field, strings.ToLower(term)) {
			return true
		}
	}

	return false
}
