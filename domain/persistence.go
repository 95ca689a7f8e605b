// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "time"

//go:generate mockgen -destination=mocks/persistence.go -package=mocks . Persistence
type RunRecord struct {
	Account   string
	Mailbox   string
	DryRun    bool
	StartedAt time.Time
	Duration  time.Duration
	Processed int
	Moved     int
	Spam      int
	Errors    int
}

type Decision struct {
	Uid          uint32
	From         string
	Subject      string
	IsSpam       bool
	Moved        bool
	TargetFolder string
	MatchedRule  string
	Reason       string
}

type Persistence interface {
	Close() error
	SaveRun(run RunRecord) (int64, error)
	SaveDecisions(runId int64, decisions []Decision) error
}
