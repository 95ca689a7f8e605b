// SPDX-License-Identifier: GPL-3.0-or-later
package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/mailsort/go-imap-sorter/log"

	"github.com/99designs/keyring"
	"github.com/sirupsen/logrus"
)

const serviceName = "go-imap-sorter"

// Resolver turns secret references from the accounts file into credentials.
// A reference is either "env:NAME", "keyring:KEY" or a bare name which is
// treated as an environment variable.
type Resolver struct {
	openRing func() (keyring.Keyring, error)
	l        *logrus.Logger
}

func NewResolver() *Resolver {
	return &Resolver{
		openRing: openKeyring,
		l:        log.Logger(log.LOG_SECRETS),
	}
}

func (r *Resolver) Resolve(ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, "env:"):
		return r.fromEnv(strings.TrimPrefix(ref, "env:"))
	case strings.HasPrefix(ref, "keyring:"):
		return r.fromKeyring(strings.TrimPrefix(ref, "keyring:"))
	default:
		return r.fromEnv(ref)
	}
}

func (r *Resolver) fromEnv(name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}

	return value, nil
}

func (r *Resolver) fromKeyring(key string) (string, error) {
	ring, err := r.openRing()
	if err != nil {
		return "", fmt.Errorf("could not open keyring: %w", err)
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("could not read keyring item %s: %w", key, err)
	}

	r.l.WithField("key", key).Debug("Resolved keyring secret")
	return string(item.Data), nil
}

func openKeyring() (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/go-imap-sorter/credentials",
		FilePasswordFunc:         keyring.TerminalPrompt,
		KeychainTrustApplication: true,
	})
}
