// SPDX-License-Identifier: GPL-3.0-or-later
package imapsorter

import "github.com/sirupsen/logrus"

// RunStats accumulates classification outcomes per account. The overall run
// merges account stats only after an account's full pass completes.
type RunStats struct {
	Processed int
	Moved     int
	Spam      int
	Errors    int
	ByFolder  map[string]int
}

func NewRunStats() *RunStats {
	return &RunStats{
		ByFolder: map[string]int{},
	}
}

func (s *RunStats) Merge(other *RunStats) {
	s.Processed += other.Processed
	s.Moved += other.Moved
	s.Spam += other.Spam
	s.Errors += other.Errors
	for folder, count := range other.ByFolder {
		s.ByFolder[folder] += count
	}
}

func (s *RunStats) Fields() logrus.Fields {
	return logrus.Fields{
		"processed": s.Processed,
		"moved":     s.Moved,
		"spam":      s.Spam,
		"errors":    s.Errors,
		"folders":   len(s.ByFolder),
	}
}
