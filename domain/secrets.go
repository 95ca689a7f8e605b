// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/secrets.go -package=mocks . SecretResolver
type SecretResolver interface {
	Resolve(ref string) (string, error)
}
