// SPDX-License-Identifier: GPL-3.0-or-later
package imapsorter

import "fmt"

const DefaultMailbox = "INBOX"

type ConfigFunc func(c *configuration) error

func DryRun() ConfigFunc {
	return func(c *configuration) error {
		c.DryRun = true

		return nil
	}
}

// Analyze reports sender domains without a matching rule. It implies DryRun,
// analysis never mutates the mailbox.
func Analyze() ConfigFunc {
	return func(c *configuration) error {
		c.Analyze = true
		c.DryRun = true
		return nil
	}
}

func Mailbox(mailbox string) ConfigFunc {
	return func(c *configuration) error {
		if len(mailbox) == 0 {
			return fmt.Errorf("Mailbox cannot be empty")
		}

		c.Mailbox = mailbox
		return nil
	}
}

type configuration struct {
	DryRun  bool
	Analyze bool

	Mailbox string
}
