// SPDX-License-Identifier: GPL-3.0-or-later
package sorting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mailsort/go-imap-sorter/domain"

	"github.com/sirupsen/logrus"
)

const (
	spamFlagHeader  = "X-Spam-Flag"
	spamScoreHeader = "X-Spam-Score"
)

// SpamClassifier evaluates one message against the spam configuration.
// The evaluation order is load-bearing: whitelists short-circuit before any
// blacklist or heuristic fires.
type SpamClassifier struct {
	enabled                  bool
	whitelistDomains         []string
	blacklistDomains         []string
	blacklistKeywordsSubject []string
	subjectPatterns          []*regexp.Regexp
	fromPatterns             []*regexp.Regexp
	requiredHeaders          []string
	checkSpamassassinHeaders bool
	scoreThreshold           float64

	scorer domain.SpamScorer

	l *logrus.Logger
}

// NewSpamClassifier compiles the spam configuration. Invalid regular
// expressions are logged and dropped, they never match. The scorer is
// optional and only consulted when spamassassin header checks are enabled
// but the message carries no spamassassin headers.
func NewSpamClassifier(config *domain.SpamConfig, scorer domain.SpamScorer, l *logrus.Logger) *SpamClassifier {
	return &SpamClassifier{
		enabled:                  config.Enabled,
		whitelistDomains:         lowerAll(config.WhitelistDomains),
		blacklistDomains:         lowerAll(config.BlacklistDomains),
		blacklistKeywordsSubject: config.BlacklistKeywordsSubject,
		subjectPatterns:          compilePatterns(config.SuspiciousSubjectPatterns, "subject", l),
		fromPatterns:             compilePatterns(config.SuspiciousFromPatterns, "from", l),
		requiredHeaders:          config.RequiredHeadersMissing,
		checkSpamassassinHeaders: config.CheckSpamassassinHeaders,
		scoreThreshold:           config.SpamScoreThreshold,
		scorer:                   scorer,
		l:                        l,
	}
}

// Classify returns the spam verdict and, for spam, a reason naming the check
// that fired.
func (c *SpamClassifier) Classify(m *domain.MailSummary, whitelist Whitelist) (bool, string) {
	if !c.enabled {
		return false, ""
	}

	if len(m.Domain) > 0 && whitelist.Contains(m.Domain) {
		return false, ""
	}

	if len(m.Domain) > 0 {
		for _, pattern := range c.whitelistDomains {
			if m.Domain == pattern || strings.HasSuffix(m.Domain, "."+pattern) {
				return false, ""
			}
		}
	}

	if c.checkSpamassassinHeaders {
		if isSpam, reason := c.checkSpamassassin(m); isSpam {
			return true, reason
		}
	}

	for _, entry := range c.blacklistDomains {
		if strings.HasPrefix(entry, "*.") {
			suffix := entry[1:]
			if len(m.Domain) > 0 && strings.HasSuffix(m.Domain, suffix) {
				return true, fmt.Sprintf("sender domain %q matches blacklisted suffix %q", m.Domain, suffix)
			}
		} else if len(entry) > 0 && strings.Contains(m.Domain, entry) {
			return true, fmt.Sprintf("sender domain %q contains blacklisted domain %q", m.Domain, entry)
		}
	}

	subject := strings.ToLower(m.Subject)
	for _, keyword := range c.blacklistKeywordsSubject {
		if len(keyword) > 0 && strings.Contains(subject, strings.ToLower(keyword)) {
			return true, fmt.Sprintf("subject contains blacklisted keyword %q", keyword)
		}
	}

	for _, pattern := range c.subjectPatterns {
		if pattern.MatchString(m.Subject) {
			return true, fmt.Sprintf("subject matches suspicious pattern %q", pattern.String())
		}
	}

	for _, pattern := range c.fromPatterns {
		if pattern.MatchString(m.From) {
			return true, fmt.Sprintf("from header matches suspicious pattern %q", pattern.String())
		}
	}

	for _, header := range c.requiredHeaders {
		if len(m.Header.Get(header)) == 0 {
			return true, fmt.Sprintf("missing required header: %s", header)
		}
	}

	return false, ""
}

func (c *SpamClassifier) checkSpamassassin(m *domain.MailSummary) (bool, string) {
	flag := strings.TrimSpace(m.Header.Get(spamFlagHeader))
	if strings.EqualFold(flag, "YES") {
		return true, "spamassassin flag is set"
	}

	scoreHeader := strings.TrimSpace(m.Header.Get(spamScoreHeader))
	if len(scoreHeader) > 0 {
		// Unparseable scores are ignored, the server decides the format.
		score, err := strconv.ParseFloat(scoreHeader, 64)
		if err == nil && score >= c.scoreThreshold {
			return true, fmt.Sprintf("spamassassin score %.1f is above threshold %.1f", score, c.scoreThreshold)
		}
		return false, ""
	}

	if len(flag) == 0 && c.scorer != nil {
		result, err := c.scorer.Score(m.RawMail)
		if err != nil {
			c.l.WithFields(logrus.Fields{"uid": m.Uid, "error": err}).Warn("Live spamassassin check failed, continuing with header checks")
			return false, ""
		}

		if result.IsSpam || result.Score >= c.scoreThreshold {
			return true, fmt.Sprintf("spamassassin rated score %.1f with threshold %.1f", result.Score, c.scoreThreshold)
		}
	}

	return false, ""
}

func compilePatterns(patterns []string, field string, l *logrus.Logger) []*regexp.Regexp {
	compiled := []*regexp.Regexp{}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			l.WithFields(logrus.Fields{"field": field, "pattern": pattern, "error": err}).Warn("Skipping invalid suspicious pattern")
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

func lowerAll(entries []string) []string {
	lowered := make([]string, len(entries))
	for i, entry := range entries {
		lowered[i] = strings.ToLower(strings.TrimSpace(entry))
	}
	return lowered
}
