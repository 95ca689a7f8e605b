// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/rules.go -package=mocks . RuleSource
type Conditions struct {
	FromContains    []string `json:"from_contains,omitempty"`
	SubjectContains []string `json:"subject_contains,omitempty"`
	ToContains      []string `json:"to_contains,omitempty"`
}

// Rule maps a set of OR-ed substring conditions to a destination folder.
// A rule without any conditions never matches.
type Rule struct {
	Name       string     `json:"name"`
	Folder     string     `json:"folder"`
	Conditions Conditions `json:"conditions"`
}

// RuleSet is an ordered sequence of rules. Order is significant, the first
// matching rule wins.
type RuleSet struct {
	Rules []Rule `json:"rules"`
}

type SpamConfig struct {
	Enabled                   bool     `json:"enabled"`
	WhitelistDomains          []string `json:"whitelist_domains"`
	BlacklistDomains          []string `json:"blacklist_domains"`
	BlacklistKeywordsSubject  []string `json:"blacklist_keywords_subject"`
	SuspiciousSubjectPatterns []string `json:"suspicious_subject_patterns"`
	SuspiciousFromPatterns    []string `json:"suspicious_from_patterns"`
	RequiredHeadersMissing    []string `json:"required_headers_missing"`
	CheckSpamassassinHeaders  bool     `json:"check_spamassassin_headers"`
	SpamScoreThreshold        float64  `json:"spam_score_threshold"`
	SpamFolder                string   `json:"spam_folder"`
}

type Account struct {
	Id                string `json:"id"`
	Name              string `json:"name"`
	ImapServer        string `json:"imap_server"`
	EmailUserSecret   string `json:"email_user_secret"`
	EmailPassSecret   string `json:"email_pass_secret"`
	RulesFile         string `json:"rules_file,omitempty"`
	SpamRulesFile     string `json:"spam_rules_file,omitempty"`
	Enabled           bool   `json:"enabled"`
	SpamFilteringOnly bool   `json:"spam_filtering_only"`
	Description       string `json:"description,omitempty"`
}

// RuleSource loads the per-account rule configuration. Implementations own
// file access and schema validation; the core consumes parsed structures only.
type RuleSource interface {
	SortingRules(account Account) (*RuleSet, error)
	SpamRules(account Account) (*SpamConfig, error)
}
