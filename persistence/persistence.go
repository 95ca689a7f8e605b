// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"fmt"

	"github.com/mailsort/go-imap-sorter/domain"
	"github.com/mailsort/go-imap-sorter/log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

type Persistence struct {
	db *sqlx.DB
	l  *logrus.Logger
}

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_runs",
			Up: []string{
				`CREATE TABLE runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account TEXT NOT NULL,
					mailbox TEXT NOT NULL,
					dryrun BOOLEAN NOT NULL,
					startedat DATETIME NOT NULL,
					durationms INTEGER NOT NULL,
					processed INTEGER NOT NULL,
					moved INTEGER NOT NULL,
					spam INTEGER NOT NULL,
					errors INTEGER NOT NULL
				)`,
			},
			Down: []string{`DROP TABLE runs`},
		},
		{
			Id: "2_decisions",
			Up: []string{
				`CREATE TABLE decisions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					runid INTEGER NOT NULL REFERENCES runs(id),
					uid INTEGER NOT NULL,
					sender TEXT NOT NULL,
					subject TEXT NOT NULL,
					isspam BOOLEAN NOT NULL,
					moved BOOLEAN NOT NULL,
					targetfolder TEXT NOT NULL,
					matchedrule TEXT NOT NULL,
					reason TEXT NOT NULL
				)`,
				`CREATE INDEX decisions_runid ON decisions(runid)`,
			},
			Down: []string{`DROP TABLE decisions`},
		},
	},
}

func NewPersistence(datasource string) (*Persistence, error) {
	db, err := sqlx.Connect("sqlite3", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := log.Logger(log.LOG_PERSISTENCE)
	l.WithField("file", datasource).Info("Connected")

	_, err = db.Exec(`PRAGMA journal_mode=WAL`)
	if err != nil {
		return nil, fmt.Errorf("could not set journal mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA synchronous=normal`)
	if err != nil {
		return nil, fmt.Errorf("could not set synchronous mode: %w", err)
	}

	appliedMigrations, err := migrate.Exec(db.DB, "sqlite3", migrationSource, migrate.Up)
	if err != nil {
		return nil, fmt.Errorf("could not migrate to newest version: %w", err)
	}

	l.WithField("migrations", appliedMigrations).Debug("Executed migrations")

	return &Persistence{
		db: db,
		l:  l,
	}, nil
}

func (p *Persistence) Close() error {
	err := p.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	p.l.Info("Disconnected")
	return nil
}

// SaveRun inserts the per-account summary row and returns its id so the
// individual decisions can reference it.
func (p *Persistence) SaveRun(run domain.RunRecord) (int64, error) {
	result, err := p.db.Exec(
		"INSERT INTO runs(account, mailbox, dryrun, startedat, durationms, processed, moved, spam, errors) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		run.Account,
		run.Mailbox,
		run.DryRun,
		run.StartedAt,
		run.Duration.Milliseconds(),
		run.Processed,
		run.Moved,
		run.Spam,
		run.Errors,
	)
	if err != nil {
		return 0, fmt.Errorf("could not save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not get run id: %w", err)
	}

	p.l.WithFields(logrus.Fields{"Account": run.Account, "Processed": run.Processed}).Debug("Persisted run")
	return id, nil
}

func (p *Persistence) SaveDecisions(runId int64, decisions []domain.Decision) error {
	tx, err := p.db.BeginTxx(context.TODO(), nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO decisions(runid, uid, sender, subject, isspam, moved, targetfolder, matchedrule, reason) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not prepare statement: %w", err))
	}

	for _, d := range decisions {
		_, err := stmt.Exec(
			runId, d.Uid, d.From, d.Subject, d.IsSpam, d.Moved, d.TargetFolder, d.MatchedRule, d.Reason,
		)

		if err != nil {
			return txEnd(tx, fmt.Errorf("could not save decision: %w", err))
		}
	}

	return txEnd(tx, nil)
}

func txEnd(tx *sqlx.Tx, err error) error {
	if err == nil {
		err = tx.Commit()
		if err != nil {
			return fmt.Errorf("could not commit tx: %w", err)
		}
	} else {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			errStr := err.Error()
			return fmt.Errorf("%s, could not rollback tx: %w", errStr, rollbackErr)
		} else {
			return err
		}
	}

	return nil
}
