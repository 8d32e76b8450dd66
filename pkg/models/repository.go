package models

import (
	"fmt"
	"strings"
)

// Owner is the GitHub organization that publishes the traineddata repositories
const Owner = "tesseract-ocr"

// LatestTag is the tag sentinel that selects the head of the default branch
const LatestTag = "latest"

// Repository identifies one of the known traineddata repositories
type Repository string

const (
	RepoTessdata     Repository = "tessdata"
	RepoTessdataFast Repository = "tessdata_fast"
	RepoTessdataBest Repository = "tessdata_best"
)

// DefaultRepository is used when no repository is selected
const DefaultRepository = RepoTessdataBest

// Repositories lists the known repositories in display order
var Repositories = []Repository{RepoTessdata, RepoTessdataFast, RepoTessdataBest}

// ParseRepository converts a name into a known Repository
func ParseRepository(name string) (Repository, error) {
	for _, r := range Repositories {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown repository %q (choose from %s)", name, RepositoryNames())
}

// RepositoryNames returns the known repository names joined for messages
func RepositoryNames() string {
	names := make([]string, len(Repositories))
	for i, r := range Repositories {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// IsKnown reports whether r is one of the known repositories
func (r Repository) IsKnown() bool {
	_, err := ParseRepository(string(r))
	return err == nil
}

// FullName returns owner/name as used in API paths
func (r Repository) FullName() string {
	return Owner + "/" + string(r)
}

func (r Repository) String() string {
	return string(r)
}

// Tag is a named pointer to a commit
type Tag struct {
	Name      string `json:"name"`
	CommitSHA string `json:"commit_sha"`
}

// IsLatest reports whether tag selects the default branch head
func IsLatest(tag string) bool {
	return tag == "" || tag == LatestTag
}
