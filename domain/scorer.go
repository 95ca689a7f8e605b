// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/scorer.go -package=mocks . SpamScorer
type SpamScore struct {
	IsSpam bool
	Score  float64
}

// SpamScorer scores a raw message through an external spamassassin daemon.
// It is optional, the spam classifier falls back to header-only checks when
// no scorer is configured.
type SpamScorer interface {
	Score(rawMail []byte) (*SpamScore, error)
}
