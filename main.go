// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"flag"
	"os"

	"github.com/mailsort/go-imap-sorter/config"
	"github.com/mailsort/go-imap-sorter/convert"
	"github.com/mailsort/go-imap-sorter/domain"
	"github.com/mailsort/go-imap-sorter/imapconnection"
	"github.com/mailsort/go-imap-sorter/imapsorter"
	"github.com/mailsort/go-imap-sorter/log"
	"github.com/mailsort/go-imap-sorter/persistence"
	"github.com/mailsort/go-imap-sorter/secrets"
	"github.com/mailsort/go-imap-sorter/spamassassin"

	"github.com/sirupsen/logrus"
)

func main() {
	configFile := flag.String("config", "config.toml", "path to the toml configuration")
	dryRun := flag.Bool("dry-run", false, "classify and log only, do not move mails")
	analyze := flag.Bool("analyze", false, "report sender domains without a matching rule, implies -dry-run")
	convertFile := flag.String("convert-thunderbird", "", "convert a thunderbird filter export to a rules file and exit")
	rulesOut := flag.String("rules-out", config.DefaultRulesFile, "output file for -convert-thunderbird")
	flag.Parse()

	log.InitLogging("debug")
	logger := log.Logger(log.LOG_MAIN)

	if len(*convertFile) > 0 {
		ruleSet, err := convert.ThunderbirdFile(*convertFile, *rulesOut)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not convert thunderbird filters")
		}
		logger.WithFields(logrus.Fields{"rules": len(ruleSet.Rules), "file": *rulesOut}).Info("Converted thunderbird filters")
		return
	}

	conf, err := config.ReadConfig(*configFile)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not load config")
	}

	if conf.Loglevel != nil {
		log.SetLogLevel(*conf.Loglevel)
	}

	p, err := persistence.NewPersistence(conf.Database)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not connect to database")
	}
	defer p.Close()

	var scorer domain.SpamScorer
	if len(conf.SpamdHost) > 0 {
		sa, err := spamassassin.NewSpamassassin(conf.SpamdHost)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not start spamassassin connector")
		}
		scorer = sa
	}

	accounts, err := config.ReadAccounts(conf.AccountsFile)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not load accounts")
	}

	connect := func(server, user, password string) (domain.ImapConnector, error) {
		return imapconnection.NewImapConnection(server, user, password)
	}

	configs := []imapsorter.ConfigFunc{imapsorter.Mailbox(conf.Mailbox)}
	if conf.DryRun || *dryRun {
		configs = append(configs, imapsorter.DryRun())
	}
	if conf.Analyze || *analyze {
		configs = append(configs, imapsorter.Analyze())
	}

	sorter, err := imapsorter.NewImapSorter(
		config.NewFileRuleSource(logger),
		secrets.NewResolver(),
		p,
		scorer,
		connect,
		configs...,
	)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not start sorter")
	}

	logger.WithFields(logrus.Fields{"accounts": len(accounts), "mailbox": conf.Mailbox, "dryrun": conf.DryRun || *dryRun}).Info("Sorting mails")
	if conf.DryRun || *dryRun {
		logger.Warn("Skipping mailbox mutations due to dry-run")
	}

	_, processedAccounts := sorter.Run(accounts)
	if processedAccounts == 0 {
		logger.Error("No account was processed")
		os.Exit(1)
	}
}
