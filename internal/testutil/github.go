// Package testutil provides a fake GitHub API serving traineddata
// repositories for tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"tessdl/pkg/models"
)

// FakeRepo is the content of one fake repository. Files maps a path to its
// content; every tag and the head point at the same tree. A non-zero
// TreeStatus makes the tree endpoint answer with that status.
type FakeRepo struct {
	DefaultBranch string
	Head          string
	Tags          []models.Tag
	Files         map[string]string
	Dirs          []string
	TreeStatus    int
}

// FakeGitHub serves the tags, refs, trees and raw content endpoints
type FakeGitHub struct {
	*httptest.Server

	mu       sync.Mutex
	repos    map[string]*FakeRepo
	requests []string
	status   int
}

// NewFakeGitHub starts a fake API that is closed when t finishes
func NewFakeGitHub(t *testing.T) *FakeGitHub {
	t.Helper()
	f := &FakeGitHub{repos: make(map[string]*FakeRepo)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// AddRepo registers repo under the tesseract-ocr owner
func (f *FakeGitHub) AddRepo(repo models.Repository, r *FakeRepo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.DefaultBranch == "" {
		r.DefaultBranch = "main"
	}
	f.repos[repo.String()] = r
}

// FailWith makes every endpoint answer with status and a GitHub error body
func (f *FakeGitHub) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// Requests returns the paths requested so far
func (f *FakeGitHub) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Requested reports whether any request path contained fragment
func (f *FakeGitHub) Requested(fragment string) bool {
	for _, p := range f.Requests() {
		if strings.Contains(p, fragment) {
			return true
		}
	}
	return false
}

func (f *FakeGitHub) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	status := f.status
	f.mu.Unlock()

	if status != 0 {
		writeStatus(w, status)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) >= 3 && parts[0] == "raw" {
		f.serveRaw(w, r, parts[1], strings.Join(parts[2:], "/"))
		return
	}
	if len(parts) < 3 || parts[0] != "repos" || parts[1] != models.Owner {
		http.NotFound(w, r)
		return
	}

	repo := f.repo(parts[2])
	if repo == nil {
		http.NotFound(w, r)
		return
	}

	rest := parts[3:]
	switch {
	case len(rest) == 0:
		writeJSON(w, map[string]string{"default_branch": repo.DefaultBranch})
	case len(rest) == 1 && rest[0] == "tags":
		tags := make([]map[string]interface{}, 0, len(repo.Tags))
		for _, t := range repo.Tags {
			tags = append(tags, map[string]interface{}{
				"name":   t.Name,
				"commit": map[string]string{"sha": t.CommitSHA},
			})
		}
		writeJSON(w, tags)
	case len(rest) == 4 && rest[0] == "git" && rest[1] == "ref" && rest[2] == "heads" && rest[3] == repo.DefaultBranch:
		writeJSON(w, map[string]interface{}{"object": map[string]string{"sha": repo.Head}})
	case len(rest) == 3 && rest[0] == "git" && rest[1] == "trees" && repo.TreeStatus != 0:
		writeStatus(w, repo.TreeStatus)
	case len(rest) == 3 && rest[0] == "git" && rest[1] == "trees" && repo.knows(rest[2]):
		writeJSON(w, map[string]interface{}{
			"sha":       rest[2],
			"tree":      f.tree(parts[2], repo),
			"truncated": false,
		})
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeGitHub) serveRaw(w http.ResponseWriter, r *http.Request, name, path string) {
	repo := f.repo(name)
	if repo == nil {
		http.NotFound(w, r)
		return
	}
	content, ok := repo.Files[path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = io.WriteString(w, content)
}

func (f *FakeGitHub) repo(name string) *FakeRepo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.repos[name]
}

func (f *FakeGitHub) tree(name string, repo *FakeRepo) []map[string]interface{} {
	paths := make([]string, 0, len(repo.Files))
	for p := range repo.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	entries := make([]map[string]interface{}, 0, len(paths)+len(repo.Dirs))
	for _, p := range paths {
		entries = append(entries, map[string]interface{}{
			"path": p,
			"mode": "100644",
			"type": "blob",
			"size": len(repo.Files[p]),
			"url":  f.URL + "/raw/" + name + "/" + p,
		})
	}
	for _, d := range repo.Dirs {
		entries = append(entries, map[string]interface{}{
			"path": d,
			"mode": "040000",
			"type": "tree",
		})
	}
	return entries
}

func (r *FakeRepo) knows(sha string) bool {
	if sha == r.Head {
		return true
	}
	for _, t := range r.Tags {
		if t.CommitSHA == sha {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(status)})
}
