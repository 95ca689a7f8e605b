// SPDX-License-Identifier: GPL-3.0-or-later
package imapsorter

import (
	"fmt"
	"sort"
	"time"

	"github.com/mailsort/go-imap-sorter/domain"
	"github.com/mailsort/go-imap-sorter/log"
	"github.com/mailsort/go-imap-sorter/mail"
	"github.com/mailsort/go-imap-sorter/sorting"

	"github.com/sirupsen/logrus"
)

// ConnectorFactory opens an imap session for one account. Injected so the
// run controller stays testable without a live server.
type ConnectorFactory func(server, user, password string) (domain.ImapConnector, error)

type ImapSorter struct {
	ruleSource  domain.RuleSource
	secrets     domain.SecretResolver
	persistence domain.Persistence
	scorer      domain.SpamScorer
	connect     ConnectorFactory

	configuration *configuration

	l *logrus.Logger
}

func NewImapSorter(ruleSource domain.RuleSource, secrets domain.SecretResolver, persistence domain.Persistence, scorer domain.SpamScorer, connect ConnectorFactory, configFunc ...ConfigFunc) (*ImapSorter, error) {
	config := &configuration{
		Mailbox: DefaultMailbox,
	}
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}

	return &ImapSorter{
		ruleSource:    ruleSource,
		secrets:       secrets,
		persistence:   persistence,
		scorer:        scorer,
		connect:       connect,
		configuration: config,
		l:             log.Logger(log.LOG_SORTER),
	}, nil
}

// Run processes all enabled accounts sequentially and returns the overall
// statistics plus the number of accounts that completed a pass. Account-level
// failures are logged and skipped, the remaining accounts still run.
func (is *ImapSorter) Run(accounts []domain.Account) (*RunStats, int) {
	overall := NewRunStats()
	processedAccounts := 0

	for _, account := range accounts {
		accountLogger := is.l.WithField("account", account.Id)
		if !account.Enabled {
			accountLogger.Debug("Account is disabled, skipping")
			continue
		}

		stats, err := is.processAccount(account)
		if err != nil {
			accountLogger.WithField("error", err).Error("Could not process account")
			continue
		}

		accountLogger.WithFields(stats.Fields()).Info("Processed account")
		overall.Merge(stats)
		processedAccounts++
	}

	is.l.WithFields(overall.Fields()).WithField("accounts", processedAccounts).Info("Finished run")
	return overall, processedAccounts
}

func (is *ImapSorter) processAccount(account domain.Account) (*RunStats, error) {
	ruleSet, err := is.ruleSource.SortingRules(account)
	if err != nil {
		return nil, fmt.Errorf("could not load sorting rules: %w", err)
	}

	spamConfig, err := is.ruleSource.SpamRules(account)
	if err != nil {
		return nil, fmt.Errorf("could not load spam rules: %w", err)
	}

	user, err := is.secrets.Resolve(account.EmailUserSecret)
	if err != nil {
		return nil, fmt.Errorf("could not resolve user secret: %w", err)
	}

	password, err := is.secrets.Resolve(account.EmailPassSecret)
	if err != nil {
		return nil, fmt.Errorf("could not resolve password secret: %w", err)
	}

	whitelist := sorting.BuildWhitelist(ruleSet)
	classifier := sorting.NewSpamClassifier(spamConfig, is.scorer, log.Logger(log.LOG_CLASSIFY))
	pipeline := sorting.NewPipeline(ruleSet, spamConfig, classifier, whitelist, account.SpamFilteringOnly)

	conn, err := is.connect(account.ImapServer, user, password)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", account.ImapServer, err)
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			is.l.WithFields(logrus.Fields{"account": account.Id, "error": err}).Warn("Could not close imap connection")
		}
	}()

	err = conn.Select(is.configuration.Mailbox, is.configuration.DryRun)
	if err != nil {
		return nil, fmt.Errorf("could not select %s: %w", is.configuration.Mailbox, err)
	}

	uids, err := conn.ListCandidates()
	if err != nil {
		return nil, fmt.Errorf("could not list candidate mails: %w", err)
	}

	accountLogger := is.l.WithFields(logrus.Fields{"account": account.Id, "mailbox": is.configuration.Mailbox})
	accountLogger.WithFields(logrus.Fields{"candidates": len(uids), "whitelist": whitelist.Len()}).Info("Found candidate mails")

	start := time.Now()
	stats := NewRunStats()
	decisions := []domain.Decision{}
	unmatchedDomains := map[string]int{}

	for _, uid := range uids {
		summary, err := conn.FetchSummary(uid)
		if err != nil {
			stats.Errors++
			if !conn.Alive() {
				accountLogger.WithField("error", err).Error("Connection lost, aborting account")
				break
			}
			accountLogger.WithFields(logrus.Fields{"uid": uid, "error": err}).Error("Could not fetch mail")
			continue
		}

		result := pipeline.Classify(summary)
		stats.Processed++

		mailLogger := accountLogger.WithFields(logrus.Fields{"uid": uid, "subject": mail.ShortSubject(summary.Subject)})

		if result.Action == domain.ActionSkip {
			mailLogger.WithField("reason", result.Reason).Debug("Leaving mail in place")
			if is.configuration.Analyze && !account.SpamFilteringOnly && summary.Domain != "" {
				unmatchedDomains[summary.Domain]++
			}
			continue
		}

		if is.configuration.DryRun {
			mailLogger.WithFields(logrus.Fields{"destination": result.TargetFolder, "reason": result.Reason}).Info("Not moving mail due to dry-run")
		} else {
			err = conn.EnsureFolder(result.TargetFolder)
			if err == nil {
				err = conn.Move([]uint32{uid}, result.TargetFolder)
			}
			if err != nil {
				stats.Errors++
				if !conn.Alive() {
					accountLogger.WithField("error", err).Error("Connection lost, aborting account")
					break
				}
				mailLogger.WithFields(logrus.Fields{"destination": result.TargetFolder, "error": err}).Error("Could not move mail")
				continue
			}
			mailLogger.WithFields(logrus.Fields{"destination": result.TargetFolder, "reason": result.Reason}).Info("Moved mail")
		}

		stats.Moved++
		if result.IsSpam {
			stats.Spam++
		}
		stats.ByFolder[result.TargetFolder]++

		decisions = append(
			decisions,
			domain.Decision{
				Uid:          uid,
				From:         summary.From,
				Subject:      summary.Subject,
				IsSpam:       result.IsSpam,
				Moved:        !is.configuration.DryRun,
				TargetFolder: result.TargetFolder,
				MatchedRule:  result.MatchedRule,
				Reason:       result.Reason,
			},
		)
	}

	if is.configuration.Analyze {
		reportUnmatched(accountLogger, unmatchedDomains)
	}

	is.saveRun(account, start, stats, decisions)

	return stats, nil
}

// saveRun records the account pass in the run history. Persistence failures
// must not invalidate classification work that already happened, they only
// warn.
func (is *ImapSorter) saveRun(account domain.Account, start time.Time, stats *RunStats, decisions []domain.Decision) {
	runId, err := is.persistence.SaveRun(domain.RunRecord{
		Account:   account.Id,
		Mailbox:   is.configuration.Mailbox,
		DryRun:    is.configuration.DryRun,
		StartedAt: start,
		Duration:  time.Since(start),
		Processed: stats.Processed,
		Moved:     stats.Moved,
		Spam:      stats.Spam,
		Errors:    stats.Errors,
	})
	if err != nil {
		is.l.WithFields(logrus.Fields{"account": account.Id, "error": err}).Warn("Could not persist run")
		return
	}

	err = is.persistence.SaveDecisions(runId, decisions)
	if err != nil {
		is.l.WithFields(logrus.Fields{"account": account.Id, "error": err}).Warn("Could not persist decisions")
	}
}

func reportUnmatched(l *logrus.Entry, unmatched map[string]int) {
	domains := make([]string, 0, len(unmatched))
	for d := range unmatched {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool {
		if unmatched[domains[i]] != unmatched[domains[j]] {
			return unmatched[domains[i]] > unmatched[domains[j]]
		}
		return domains[i] < domains[j]
	})

	l.WithField("domains", len(domains)).Info("Sender domains without a matching rule")
	for _, d := range domains {
		l.WithFields(logrus.Fields{"domain": d, "mails": unmatched[d]}).Info("Unmatched sender domain")
	}
}
