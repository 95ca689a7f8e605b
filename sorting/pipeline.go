// SPDX-License-Identifier: GPL-3.0-or-later
package sorting

import (
	"fmt"

	"github.com/mailsort/go-imap-sorter/domain"
)

// Pipeline decides, per message, whether it is spam and which sorting rule
// applies. The spam check always runs first so that a sorting rule can never
// relocate a spam message into a legitimate-looking folder.
type Pipeline struct {
	rules             *domain.RuleSet
	spam              *SpamClassifier
	whitelist         Whitelist
	spamFolder        string
	spamFilteringOnly bool
}

func NewPipeline(rules *domain.RuleSet, spamConfig *domain.SpamConfig, spam *SpamClassifier, whitelist Whitelist, spamFilteringOnly bool) *Pipeline {
	return &Pipeline{
		rules:             rules,
		spam:              spam,
		whitelist:         whitelist,
		spamFolder:        spamConfig.SpamFolder,
		spamFilteringOnly: spamFilteringOnly,
	}
}

func (p *Pipeline) Classify(m *domain.MailSummary) domain.ClassificationResult {
	isSpam, reason := p.spam.Classify(m, p.whitelist)
	if isSpam {
		return domain.ClassificationResult{
			Action:       domain.ActionMove,
			TargetFolder: p.spamFolder,
			IsSpam:       true,
			Reason:       reason,
		}
	}

	if p.spamFilteringOnly {
		return domain.ClassificationResult{
			Action: domain.ActionSkip,
			Reason: "account sorts spam only",
		}
	}

	rule := MatchAny(m, p.rules)
	if rule == nil {
		return domain.ClassificationResult{
			Action: domain.ActionSkip,
			Reason: "no rule matched",
		}
	}

	return domain.ClassificationResult{
		Action:       domain.ActionMove,
		TargetFolder: rule.Folder,
		MatchedRule:  rule.Name,
		Reason:       fmt.Sprintf("matched rule %q", rule.Name),
	}
}
