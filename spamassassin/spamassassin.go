// SPDX-License-Identifier: GPL-3.0-or-later
package spamassassin

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/mailsort/go-imap-sorter/domain"
	"github.com/mailsort/go-imap-sorter/log"

	"github.com/sirupsen/logrus"
	"github.com/teamwork/spamc"
)

const SpamassassinTimeout = 20 * time.Second

// Spamassassin scores mails through a spamd instance. It is only consulted
// for mails that arrive without spamassassin headers already present.
type Spamassassin struct {
	client *spamc.Client
	l      *logrus.Logger
}

func NewSpamassassin(host string) (*Spamassassin, error) {
	client := spamc.New(host, &net.Dialer{
		Timeout: SpamassassinTimeout,
	})
	err := client.Ping(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("could not ping spamassassin: %w", err)
	}

	l := log.Logger(log.LOG_SPAMASSASSIN)
	l.WithField("host", host).Info("Connected to spamassassin")

	return &Spamassassin{client: client, l: l}, nil
}

func (sa *Spamassassin) Score(rawMail []byte) (*domain.SpamScore, error) {
	out, err := sa.client.Process(context.TODO(), bytes.NewReader(rawMail), nil)
	if err != nil {
		return nil, fmt.Errorf("could not check spamassassin: %w", err)
	}

	// The rewritten message is not needed, only the verdict.
	err = out.Message.Close()
	if err != nil {
		return nil, fmt.Errorf("could not close response: %w", err)
	}

	sa.l.WithFields(logrus.Fields{"IsSpam": out.IsSpam, "Score": out.Score}).Debug("Scored mail")

	return &domain.SpamScore{
		IsSpam: out.IsSpam,
		Score:  out.Score,
	}, nil
}
