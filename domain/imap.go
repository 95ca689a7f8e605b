// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/imap.go -package=mocks . ImapConnector
type ImapConnector interface {
	Select(mailbox string, readOnly bool) error
	// ListCandidates returns the uids of all messages in the selected mailbox
	// that are not flagged deleted.
	ListCandidates() ([]uint32, error)
	FetchSummary(uid uint32) (*MailSummary, error)
	EnsureFolder(folder string) error
	Move(uids []uint32, folder string) error
	// Alive reports whether the connection is still usable. The run controller
	// uses it to tell a transient per-message failure from a dead session.
	Alive() bool

	Close() error
}
