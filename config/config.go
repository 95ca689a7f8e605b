// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Database     string
	AccountsFile string

	Mailbox string

	SpamdHost string

	DryRun  bool
	Analyze bool

	Loglevel *string
}

func ReadConfig(filename string) (*Config, error) {
	config := &Config{
		Database:     "sorthistory.db",
		AccountsFile: "accounts.json",
		Mailbox:      "INBOX",
		DryRun:       true,
	}

	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if err := validateNonEmptyStringField(c.Database, "Database name must not be empty, set to a filename for the sqlite run history"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.AccountsFile, "AccountsFile must not be empty, set to the json file describing the imap accounts"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.Mailbox, "Mailbox must not be empty, set to the source mailbox to sort"); err != nil {
		return err
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}
