// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/mailsort/go-imap-sorter/domain"
	"github.com/mailsort/go-imap-sorter/log"
	"github.com/mailsort/go-imap-sorter/mail"

	"github.com/emersion/go-imap"
	move "github.com/emersion/go-imap-move"
	uidplus "github.com/emersion/go-imap-uidplus"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"
)

type ImapConnection struct {
	connection    *client.Client
	uidplusClient *uidplus.Client
	mailDeleter   deleter
	mailMover     mover

	server, user string

	selectedFolder string
	knownFolders   map[string]bool

	l *logrus.Logger
}

func NewImapConnection(server string, user string, password string) (*ImapConnection, error) {
	imapClient, err := client.DialTLS(server, nil)
	if err != nil {
		return nil, fmt.Errorf("could not dial to imap: %w", err)
	}

	err = imapClient.Login(user, password)
	if err != nil {
		return nil, fmt.Errorf("could not login to imap: %w", err)
	}

	uidPlusClient := uidplus.NewClient(imapClient)
	uidPlusSupported, err := uidPlusClient.SupportUidPlus()
	if err != nil {
		return nil, fmt.Errorf("could not check for UIDPLUS support: %w", err)
	}

	moveClient := move.NewClient(imapClient)
	moveSupported, err := moveClient.SupportMove()
	if err != nil {
		return nil, fmt.Errorf("could not check for MOVE support: %w", err)
	}

	conn := &ImapConnection{
		connection:    imapClient,
		uidplusClient: uidPlusClient,
		server:        server,
		user:          user,
		l:             log.Logger(log.LOG_IMAP),
	}

	baseLogger := conn.l.WithFields(logrus.Fields{"server": server})
	baseLogger.Debug("Logged in to server")

	if uidPlusSupported {
		baseLogger.Debug("UIDPLUS supported on server, using UID delete")
		conn.mailDeleter = &uidPlusDeleter{
			imapConn: conn,
		}
	} else {
		baseLogger.Info("UIDPLUS not supported on server, falling back to flag&expunge")
		conn.mailDeleter = &compatibilityDeleter{
			imapConn: conn,
		}
	}

	if moveSupported {
		baseLogger.Debug("MOVE supported on server")
		conn.mailMover = &moveMover{
			moveClient: moveClient,
		}
	} else {
		baseLogger.Info("MOVE not supported on server, falling back to copy&delete")
		conn.mailMover = &compatibilityMover{
			imapConn: conn,
		}
	}

	return conn, nil
}

func (ic *ImapConnection) Select(mailbox string, readOnly bool) error {
	_, err := ic.connection.Select(mailbox, readOnly)
	if err != nil {
		return fmt.Errorf("could not select mailbox: %w", err)
	}

	ic.selectedFolder = mailbox
	return nil
}

// ListCandidates returns the uids of all messages in the selected mailbox
// that are not flagged deleted. Already-moved mail no longer shows up here,
// which is what makes re-runs safe.
func (ic *ImapConnection) ListCandidates() ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.DeletedFlag}
	ids, err := ic.connection.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("could not search mailbox: %w", err)
	}

	return ids, nil
}

// FetchSummary fetches one message with BODY.PEEK so the read/unread state
// of the mailbox is preserved.
func (ic *ImapConnection) FetchSummary(uid uint32) (*domain.MailSummary, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uid)

	fullBodySection := &imap.BodySectionName{
		Peek: true,
	}
	fetchItems := []imap.FetchItem{fullBodySection.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.UidFetch(seqset, fetchItems, messages)
	}()

	var summary *domain.MailSummary
	for msg := range messages {
		r := msg.GetBody(fullBodySection)
		if r == nil {
			continue
		}

		rawBody, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("could not read mail body: %w", err)
		}

		summary, err = mail.ParseSummary(uid, rawBody)
		if err != nil {
			return nil, fmt.Errorf("could not parse mail: %w", err)
		}
	}

	err := <-done
	if err != nil {
		return nil, fmt.Errorf("could not fetch mail: %w", err)
	}

	if summary == nil {
		return nil, fmt.Errorf("mail %d not found in %s", uid, ic.selectedFolder)
	}

	return summary, nil
}

// EnsureFolder creates and subscribes the destination folder, including all
// parent segments of a "/"-separated path, when it is not known yet.
func (ic *ImapConnection) EnsureFolder(folder string) error {
	if ic.knownFolders == nil {
		folders, err := ic.listFolders()
		if err != nil {
			return err
		}
		ic.knownFolders = folders
	}

	segments := strings.Split(folder, "/")
	for i := range segments {
		partial := strings.Join(segments[:i+1], "/")
		if ic.knownFolders[partial] {
			continue
		}

		ic.l.WithFields(logrus.Fields{"folder": partial}).Info("Creating folder")
		err := ic.connection.Create(partial)
		if err != nil {
			return fmt.Errorf("could not create folder %s: %w", partial, err)
		}

		err = ic.connection.Subscribe(partial)
		if err != nil {
			// Subscription is cosmetic, the folder exists and can be used.
			ic.l.WithFields(logrus.Fields{"folder": partial, "error": err}).Warn("Could not subscribe folder")
		}

		ic.knownFolders[partial] = true
	}

	return nil
}

func (ic *ImapConnection) Move(uids []uint32, folder string) error {
	return ic.mailMover.move(uids, folder)
}

func (ic *ImapConnection) delete(uids []uint32) error {
	return ic.mailDeleter.delete(uids)
}

func (ic *ImapConnection) Alive() bool {
	return ic.connection.State() != imap.LogoutState
}

func (ic *ImapConnection) Close() error {
	return ic.connection.Logout()
}

func (ic *ImapConnection) listFolders() (map[string]bool, error) {
	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.List("", "*", mailboxes)
	}()

	folders := map[string]bool{}
	for m := range mailboxes {
		folders[m.Name] = true
	}

	err := <-done
	if err != nil {
		return nil, fmt.Errorf("could not list folders: %w", err)
	}

	return folders, nil
}

func (ic *ImapConnection) flagDeleted(uids []uint32) (*imap.SeqSet, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)
	err := ic.connection.UidStore(seqset, imap.FormatFlagsOp(imap.AddFlags, true), []interface{}{imap.DeletedFlag}, nil)
	if err != nil {
		return nil, fmt.Errorf("could set delete flag: %w", err)
	}

	return seqset, nil
}

func (ic *ImapConnection) UidCopy(seqset *imap.SeqSet, dest string) error {
	return ic.connection.UidCopy(seqset, dest)
}

func (ic *ImapConnection) UidExpunge(seqSet *imap.SeqSet, ch chan uint32) error {
	return ic.uidplusClient.UidExpunge(seqSet, ch)
}

func (ic *ImapConnection) Expunge(ch chan uint32) error {
	return ic.connection.Expunge(ch)
}

func (ic *ImapConnection) UidSearch(criteria *imap.SearchCriteria) ([]uint32, error) {
	return ic.connection.UidSearch(criteria)
}
