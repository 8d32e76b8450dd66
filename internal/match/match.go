// Package match selects traineddata files by language code.
package match

import (
	"strings"

	"tessdl/pkg/models"
)

// Skip is an entry whose code matched but which cannot be downloaded
type Skip struct {
	Entry  models.TreeEntry
	Reason string
}

// Result holds downloadable matches and skipped candidates, both in tree order
type Result struct {
	Matches []models.TreeEntry
	Skipped []Skip
}

// LanguageCode derives the code of a file name: everything before the first
// ".". Names without a "." have no code.
func LanguageCode(name string) (string, bool) {
	code, _, found := strings.Cut(name, ".")
	if !found {
		return "", false
	}
	return code, true
}

// CanNeverMatch reports whether lang contains a "." and so can never equal a
// derived code.
func CanNeverMatch(lang string) bool {
	return strings.Contains(lang, ".")
}

// Match returns the entries whose file name code equals lang exactly.
// Directories, submodules and empty files are reported in Skipped instead.
func Match(lang string, entries []models.TreeEntry) Result {
	var res Result
	for _, e := range entries {
		code, ok := LanguageCode(e.Name())
		if !ok || code != lang {
			continue
		}

		switch {
		case !e.IsFile():
			res.Skipped = append(res.Skipped, Skip{Entry: e, Reason: "is a " + e.TypeName() + ", not a file"})
		case e.Size == 0:
			res.Skipped = append(res.Skipped, Skip{Entry: e, Reason: "has zero size"})
		default:
			res.Matches = append(res.Matches, e)
		}
	}
	return res
}
