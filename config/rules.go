// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mailsort/go-imap-sorter/domain"

	"github.com/sirupsen/logrus"
)

const (
	DefaultRulesFile     = "email_rules.json"
	DefaultSpamRulesFile = "spam_rules.json"
)

type accountsFile struct {
	Accounts []domain.Account `json:"accounts"`
}

func ReadAccounts(filename string) ([]domain.Account, error) {
	var parsed accountsFile
	err := readStrictJson(filename, &parsed)
	if err != nil {
		return nil, fmt.Errorf("could not read accounts file: %w", err)
	}

	for _, account := range parsed.Accounts {
		if !account.Enabled {
			continue
		}

		if err := validateAccount(account); err != nil {
			return nil, err
		}
	}

	return parsed.Accounts, nil
}

func ReadRuleSet(filename string) (*domain.RuleSet, error) {
	ruleSet := &domain.RuleSet{}
	err := readStrictJson(filename, ruleSet)
	if err != nil {
		return nil, fmt.Errorf("could not read rules file: %w", err)
	}

	seen := map[string]bool{}
	for i, rule := range ruleSet.Rules {
		if len(rule.Name) == 0 {
			return nil, fmt.Errorf("rule %d in %s has no name", i, filename)
		}
		if len(rule.Folder) == 0 {
			return nil, fmt.Errorf("rule %q in %s has no destination folder", rule.Name, filename)
		}
		if seen[rule.Name] {
			return nil, fmt.Errorf("duplicate rule name %q in %s", rule.Name, filename)
		}
		seen[rule.Name] = true
	}

	return ruleSet, nil
}

func ReadSpamConfig(filename string) (*domain.SpamConfig, error) {
	spamConfig := &domain.SpamConfig{}
	err := readStrictJson(filename, spamConfig)
	if err != nil {
		return nil, fmt.Errorf("could not read spam rules file: %w", err)
	}

	if spamConfig.Enabled && len(spamConfig.SpamFolder) == 0 {
		return nil, fmt.Errorf("spam_folder must be set in %s when spam filtering is enabled", filename)
	}

	return spamConfig, nil
}

// FileRuleSource resolves the per-account rule and spam configuration files.
type FileRuleSource struct {
	l *logrus.Logger
}

func NewFileRuleSource(l *logrus.Logger) *FileRuleSource {
	return &FileRuleSource{l: l}
}

func (s *FileRuleSource) SortingRules(account domain.Account) (*domain.RuleSet, error) {
	filename := account.RulesFile
	if len(filename) == 0 {
		if account.SpamFilteringOnly {
			// Spam-only accounts do not need sorting rules, they run with an
			// empty rule set and therefore without a rule-derived whitelist.
			return &domain.RuleSet{}, nil
		}
		filename = DefaultRulesFile
	}

	ruleSet, err := ReadRuleSet(filename)
	if err != nil {
		return nil, err
	}

	s.l.WithFields(logrus.Fields{"account": account.Id, "file": filename, "rules": len(ruleSet.Rules)}).Debug("Loaded sorting rules")
	return ruleSet, nil
}

func (s *FileRuleSource) SpamRules(account domain.Account) (*domain.SpamConfig, error) {
	filename := account.SpamRulesFile
	if len(filename) == 0 {
		filename = DefaultSpamRulesFile
	}

	spamConfig, err := ReadSpamConfig(filename)
	if err != nil {
		return nil, err
	}

	s.l.WithFields(logrus.Fields{"account": account.Id, "file": filename, "enabled": spamConfig.Enabled}).Debug("Loaded spam rules")
	return spamConfig, nil
}

func validateAccount(account domain.Account) error {
	if len(account.Id) == 0 {
		return fmt.Errorf("account without id in accounts file")
	}
	if len(account.ImapServer) == 0 {
		return fmt.Errorf("account %q has no imap_server", account.Id)
	}
	if len(account.EmailUserSecret) == 0 || len(account.EmailPassSecret) == 0 {
		return fmt.Errorf("account %q is missing credential secret references", account.Id)
	}

	return nil
}

func readStrictJson(filename string, target interface{}) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	// Unknown keys are a config mistake, not something to silently ignore.
	decoder.DisallowUnknownFields()
	err = decoder.Decode(target)
	if err != nil {
		return fmt.Errorf("could not decode %s: %w", filename, err)
	}

	return nil
}
