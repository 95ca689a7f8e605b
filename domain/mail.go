// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "net/mail"

// MailSummary is the transient, per-fetch view of one message. It carries the
// already-decoded header strings the classification core works on plus the raw
// message for the optional live spamassassin check. It is never persisted.
type MailSummary struct {
	Uid     uint32
	From    string
	Subject string
	To      string
	Date    string
	// Domain is the lowercased registrable domain of From, empty when From
	// contains no address.
	Domain  string
	Header  mail.Header
	RawMail []byte
}

type Action int

const (
	ActionSkip = Action(0)
	ActionMove = Action(1)
)

// ClassificationResult is produced once per message and consumed immediately
// by the run controller.
type ClassificationResult struct {
	Action       Action
	TargetFolder string
	IsSpam       bool
	MatchedRule  string
	Reason       string
}
