// SPDX-License-Identifier: GPL-3.0-or-later
package sorting

import (
	"testing"

	"github.com/mailsort/go-imap-sorter/domain"

	"github.com/stretchr/testify/assert"
)

func TestPipelineSpamBeforeSorting(t *testing.T) {
	// The message matches the subject-based sale rule too, but the spam
	// verdict wins and the rules are never consulted. The rule must not
	// whitelist the sender, so it matches on subject, not on from.
	rules := &domain.RuleSet{Rules: []domain.Rule{
		{
			Name:       "Sales",
			Folder:     "International",
			Conditions: domain.Conditions{SubjectContains: []string{"sale"}},
		},
	}}
	spamConfig := &domain.SpamConfig{
		Enabled:          true,
		BlacklistDomains: []string{"*.ru"},
		SpamFolder:       "Spamverdacht",
	}

	whitelist := BuildWhitelist(rules)
	assert.Equal(t, 0, whitelist.Len())

	pipeline := NewPipeline(rules, spamConfig, NewSpamClassifier(spamConfig, nil, nullLogger()), whitelist, false)
	result := pipeline.Classify(summary("user@mail.ru", "big sale", nil))

	assert.Equal(t, domain.ActionMove, result.Action)
	assert.Equal(t, "Spamverdacht", result.TargetFolder)
	assert.True(t, result.IsSpam)
	assert.Empty(t, result.MatchedRule)
	assert.Contains(t, result.Reason, ".ru")
}

func TestPipelineWhitelistedSenderSortsNormally(t *testing.T) {
	// Scenario from the rule-derived whitelist: the bank rule whitelists
	// bank.com, the generic "bank" blacklist entry does not fire and the
	// message lands in Finance.
	rules := &domain.RuleSet{Rules: []domain.Rule{
		rule("Finance", "Finance", "billing@bank.com"),
	}}
	spamConfig := &domain.SpamConfig{
		Enabled:          true,
		BlacklistDomains: []string{"bank"},
		SpamFolder:       "Spam",
	}

	pipeline := NewPipeline(rules, spamConfig, NewSpamClassifier(spamConfig, nil, nullLogger()), BuildWhitelist(rules), false)
	result := pipeline.Classify(summary("billing@bank.com", "Your statement", nil))

	assert.Equal(t, domain.ActionMove, result.Action)
	assert.Equal(t, "Finance", result.TargetFolder)
	assert.False(t, result.IsSpam)
	assert.Equal(t, "Finance", result.MatchedRule)
}

func TestPipelineFirstRuleWins(t *testing.T) {
	rules := &domain.RuleSet{Rules: []domain.Rule{
		rule("Newsletter", "Newsletter", "news@shop.example"),
		rule("Shopping", "Shopping", "shop.example"),
	}}
	spamConfig := &domain.SpamConfig{Enabled: false, SpamFolder: "Spam"}

	pipeline := NewPipeline(rules, spamConfig, NewSpamClassifier(spamConfig, nil, nullLogger()), BuildWhitelist(rules), false)
	result := pipeline.Classify(summary("news@shop.example", "sale", nil))

	assert.Equal(t, domain.ActionMove, result.Action)
	assert.Equal(t, "Newsletter", result.MatchedRule)
	assert.Equal(t, "Newsletter", result.TargetFolder)
}

func TestPipelineNoMatchSkips(t *testing.T) {
	rules := &domain.RuleSet{Rules: []domain.Rule{
		rule("Shopping", "Shopping", "amazon"),
	}}
	spamConfig := &domain.SpamConfig{Enabled: true, SpamFolder: "Spam"}

	pipeline := NewPipeline(rules, spamConfig, NewSpamClassifier(spamConfig, nil, nullLogger()), BuildWhitelist(rules), false)
	result := pipeline.Classify(summary("jane@example.com", "hello", map[string]string{"Message-Id": "<a@b>"}))

	assert.Equal(t, domain.ActionSkip, result.Action)
	assert.False(t, result.IsSpam)
	assert.Equal(t, "no rule matched", result.Reason)
}

func TestPipelineSpamFilteringOnly(t *testing.T) {
	rules := &domain.RuleSet{Rules: []domain.Rule{
		rule("Shopping", "Shopping", "amazon"),
	}}
	spamConfig := &domain.SpamConfig{
		Enabled:          true,
		BlacklistDomains: []string{"*.ru"},
		SpamFolder:       "Spam",
	}

	pipeline := NewPipeline(rules, spamConfig, NewSpamClassifier(spamConfig, nil, nullLogger()), BuildWhitelist(rules), true)

	// Spam is still moved.
	result := pipeline.Classify(summary("user@mail.ru", "hello", nil))
	assert.Equal(t, domain.ActionMove, result.Action)
	assert.True(t, result.IsSpam)

	// Sorting rules are not evaluated for clean mail.
	result = pipeline.Classify(summary("order@amazon.de", "your order", nil))
	assert.Equal(t, domain.ActionSkip, result.Action)
	assert.Empty(t, result.MatchedRule)
}
