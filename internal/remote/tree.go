package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"

	"tessdl/pkg/models"
)

// treeEntryResponse covers both the git trees API and the contents API
type treeEntryResponse struct {
	Path        string `json:"path"`
	Mode        string `json:"mode"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	GitURL      string `json:"git_url"`
	DownloadURL string `json:"download_url"`
}

type treeResponse struct {
	SHA       string               `json:"sha"`
	Tree      *[]treeEntryResponse `json:"tree"`
	Truncated bool                 `json:"truncated"`
}

// ListTree returns every entry under commit sha, recursively.
// An unrecognized response shape yields an error of severity warning.
func (c *Client) ListTree(ctx context.Context, repo models.Repository, sha string) ([]models.TreeEntry, error) {
	if err := requireKnown(repo); err != nil {
		return nil, err
	}

	url := c.repoURL(repo, "git", "trees", sha) + "?recursive=1"
	data, _, err := c.getJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	raw, truncated, err := decodeTree(data)
	if err != nil {
		return nil, unexpectedResponse(url, err)
	}
	if truncated {
		c.logger.WarnWithFields("tree listing truncated by the API", map[string]interface{}{
			"repository": repo.String(),
			"sha":        sha,
		})
	}

	entries := make([]models.TreeEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, c.normalize(repo, sha, r))
	}
	return entries, nil
}

// decodeTree accepts a single object carrying "tree" or a bare list of entries
func decodeTree(data []byte) ([]treeEntryResponse, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty body")
	}

	switch trimmed[0] {
	case '{':
		var obj treeResponse
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, false, err
		}
		if obj.Tree == nil {
			return nil, false, fmt.Errorf("object without tree")
		}
		return *obj.Tree, obj.Truncated, nil
	case '[':
		var list []treeEntryResponse
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, false, err
		}
		return list, false, nil
	default:
		return nil, false, fmt.Errorf("unexpected JSON value starting with %q", trimmed[0])
	}
}

func (c *Client) normalize(repo models.Repository, sha string, r treeEntryResponse) models.TreeEntry {
	entry := models.TreeEntry{
		Path: r.Path,
		Size: r.Size,
		Type: parseObjectType(r.Type),
	}

	if r.Mode != "" {
		if mode, err := filemode.New(r.Mode); err == nil {
			entry.Mode = mode
		}
	}

	switch {
	case r.GitURL != "":
		entry.URL = r.GitURL
	case r.DownloadURL != "":
		entry.URL = r.DownloadURL
	case r.URL != "":
		entry.URL = r.URL
	default:
		entry.URL = c.ContentURL(repo, sha, r.Path)
	}
	return entry
}

// parseObjectType maps git and contents API type names to git object types
func parseObjectType(t string) plumbing.ObjectType {
	switch t {
	case "file", "symlink":
		t = "blob"
	case "dir":
		t = "tree"
	case "submodule":
		t = "commit"
	}
	ot, err := plumbing.ParseObjectType(t)
	if err != nil {
		return plumbing.InvalidObject
	}
	return ot
}
