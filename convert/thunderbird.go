// SPDX-License-Identifier: GPL-3.0-or-later
package convert

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/url"
	"sort"
	"strings"

	"github.com/mailsort/go-imap-sorter/domain"
)

// Thunderbird filter exports reference destination folders by imap uri and
// search terms by numeric attribute codes. Only the subset that maps onto
// sorting rules is converted: enabled filters with a move action and with
// from/to/subject substring terms.
type thunderbirdExport struct {
	Filters []thunderbirdFilter `json:"filters"`
}

type thunderbirdFilter struct {
	FilterName  string              `json:"filterName"`
	Enabled     bool                `json:"enabled"`
	ActionList  []thunderbirdAction `json:"actionList"`
	SearchTerms []thunderbirdTerm   `json:"searchTerms"`
}

type thunderbirdAction struct {
	Type            int    `json:"type"`
	TargetFolderUri string `json:"targetFolderUri"`
}

type thunderbirdTerm struct {
	Attrib int `json:"attrib"`
	Value  struct {
		Str string `json:"str"`
	} `json:"value"`
}

const (
	attribSubject = 0
	attribFrom    = 1
	attribToOrCc  = 6

	actionMoveToFolder = 1
)

func ThunderbirdFile(inputFile, outputFile string) (*domain.RuleSet, error) {
	raw, err := ioutil.ReadFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("could not read filter export: %w", err)
	}

	ruleSet, err := Thunderbird(raw)
	if err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(ruleSet, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not marshal rules: %w", err)
	}

	err = ioutil.WriteFile(outputFile, out, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not write rules file: %w", err)
	}

	return ruleSet, nil
}

func Thunderbird(raw []byte) (*domain.RuleSet, error) {
	export := thunderbirdExport{}
	err := json.Unmarshal(raw, &export)
	if err != nil {
		return nil, fmt.Errorf("could not parse filter export: %w", err)
	}

	rules := []domain.Rule{}
	for _, filter := range export.Filters {
		if !filter.Enabled {
			continue
		}

		folder := ""
		for _, action := range filter.ActionList {
			if action.Type == actionMoveToFolder {
				folder = extractFolder(action.TargetFolderUri)
				break
			}
		}
		if folder == "" {
			continue
		}

		conditions := domain.Conditions{}
		for _, term := range filter.SearchTerms {
			if term.Value.Str == "" {
				continue
			}

			switch term.Attrib {
			case attribFrom, attribToOrCc:
				conditions.FromContains = appendUnique(conditions.FromContains, term.Value.Str)
			case attribSubject:
				conditions.SubjectContains = appendUnique(conditions.SubjectContains, term.Value.Str)
			}
		}

		if len(conditions.FromContains) == 0 && len(conditions.SubjectContains) == 0 {
			continue
		}

		name := filter.FilterName
		if name == "" {
			name = folder
		}

		rules = append(rules, domain.Rule{
			Name:       name,
			Folder:     folder,
			Conditions: conditions,
		})
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Folder < rules[j].Folder
	})

	return &domain.RuleSet{Rules: uniqueNames(rules)}, nil
}

// extractFolder pulls the folder path out of a target uri of the form
// imap://user@server/INBOX/Folder/Subfolder. Returns "" for uris that do not
// map to a sorting destination.
func extractFolder(folderUri string) string {
	if folderUri == "" {
		return ""
	}

	parts := strings.Split(folderUri, "/")
	if len(parts) < 4 {
		return ""
	}

	folder := strings.Join(parts[3:], "/")
	unescaped, err := url.PathUnescape(folder)
	if err == nil {
		folder = unescaped
	}

	switch {
	case strings.HasPrefix(folder, "INBOX/"):
		return folder[len("INBOX/"):]
	case folder == "INBOX":
		return "INBOX"
	case strings.HasPrefix(folder, "Trash"), strings.HasPrefix(folder, "Junk"):
		// Deletion and spam filters are not sorting rules.
		return ""
	}

	return folder
}

func appendUnique(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}

	return append(values, value)
}

// uniqueNames disambiguates duplicate filter names so the generated file
// passes rule validation.
func uniqueNames(rules []domain.Rule) []domain.Rule {
	seen := map[string]int{}
	for i := range rules {
		seen[rules[i].Name]++
		if count := seen[rules[i].Name]; count > 1 {
			rules[i].Name = fmt.Sprintf("%s (%d)", rules[i].Name, count)
		}
	}

	return rules
}
