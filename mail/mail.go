// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"fmt"
	"mime"
	stdmail "net/mail"
	"strings"

	"github.com/mailsort/go-imap-sorter/domain"

	"github.com/emersion/go-message/charset"
)

// ParseSummary extracts the decoded header fields the classification core
// works on from a raw message. Headers that cannot be MIME-decoded fall back
// to their raw value, only an unparseable message is an error.
func ParseSummary(uid uint32, rawMail []byte) (*domain.MailSummary, error) {
	msg, err := stdmail.ReadMessage(bytes.NewReader(rawMail))
	if err != nil {
		return nil, fmt.Errorf("could not parse mail: %w", err)
	}

	return &domain.MailSummary{
		Uid:     uid,
		From:    decodeWords(msg.Header.Get("From")),
		Subject: decodeWords(msg.Header.Get("Subject")),
		To:      decodeWords(msg.Header.Get("To")),
		Date:    msg.Header.Get("Date"),
		Domain:  Domain(decodeWords(msg.Header.Get("From"))),
		Header:  msg.Header,
		RawMail: rawMail,
	}, nil
}

// Domain returns the lowercased domain of the address in a From header, or
// an empty string when the header contains no address. Display names in
// angle-bracket form are handled by net/mail, not re-parsed here.
func Domain(from string) string {
	addr := from
	if parsed, err := stdmail.ParseAddress(from); err == nil {
		addr = parsed.Address
	}

	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return ""
	}

	return strings.ToLower(strings.TrimRight(strings.TrimSpace(addr[at+1:]), ">"))
}

func ShortSubject(subject string) string {
	if (len(subject)) > 30 {
		subject = subject[:30] + "..."
	}
	return subject
}

func decodeWords(header string) string {
	if len(header) == 0 {
		return ""
	}

	dec := &mime.WordDecoder{
		CharsetReader: charset.Reader,
	}
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}

	return decoded
}
