package remote

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"tessdl/pkg/models"
)

type tagResponse struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

type repositoryResponse struct {
	DefaultBranch string `json:"default_branch"`
}

type refResponse struct {
	Ref    string `json:"ref"`
	Object struct {
		SHA  string `json:"sha"`
		Type string `json:"type"`
	} `json:"object"`
}

// ListTags returns every tag of repo in API order, following pagination
func (c *Client) ListTags(ctx context.Context, repo models.Repository) ([]models.Tag, error) {
	if err := requireKnown(repo); err != nil {
		return nil, err
	}

	var tags []models.Tag
	url := c.repoURL(repo, "tags") + "?per_page=100"
	for url != "" {
		data, header, err := c.getJSON(ctx, url)
		if err != nil {
			return nil, err
		}

		var page []tagResponse
		if err := c.decode(url, data, &page); err != nil {
			return nil, err
		}
		for _, t := range page {
			tags = append(tags, models.Tag{Name: t.Name, CommitSHA: t.Commit.SHA})
		}
		url = nextPage(header)
	}

	c.logger.DebugWithFields("tags listed", map[string]interface{}{
		"repository": repo.String(),
		"count":      len(tags),
	})
	return tags, nil
}

// DefaultBranchHead returns the commit at the head of repo's default branch
func (c *Client) DefaultBranchHead(ctx context.Context, repo models.Repository) (string, error) {
	if err := requireKnown(repo); err != nil {
		return "", err
	}

	url := c.repoURL(repo)
	data, _, err := c.getJSON(ctx, url)
	if err != nil {
		return "", err
	}
	var info repositoryResponse
	if err := c.decode(url, data, &info); err != nil {
		return "", err
	}
	if info.DefaultBranch == "" {
		return "", unexpectedResponse(url, fmt.Errorf("missing default_branch"))
	}

	url = c.repoURL(repo, "git", "ref", "heads", info.DefaultBranch)
	data, _, err = c.getJSON(ctx, url)
	if err != nil {
		return "", err
	}
	var ref refResponse
	if err := c.decode(url, data, &ref); err != nil {
		return "", err
	}
	if !plumbing.IsHash(ref.Object.SHA) {
		return "", unexpectedResponse(url, fmt.Errorf("invalid commit id %q", ref.Object.SHA))
	}

	c.logger.DebugWithFields("default branch resolved", map[string]interface{}{
		"repository": repo.String(),
		"branch":     info.DefaultBranch,
		"sha":        ref.Object.SHA,
	})
	return ref.Object.SHA, nil
}

// ResolveTag maps tag to a commit identifier. The latest sentinel resolves
// to the default branch head. ok is false when no tag has that exact name.
func (c *Client) ResolveTag(ctx context.Context, repo models.Repository, tag string) (sha string, ok bool, err error) {
	if models.IsLatest(tag) {
		sha, err := c.DefaultBranchHead(ctx, repo)
		if err != nil {
			return "", false, err
		}
		return sha, true, nil
	}

	tags, err := c.ListTags(ctx, repo)
	if err != nil {
		return "", false, err
	}
	for _, t := range tags {
		if t.Name != tag {
			continue
		}
		if !plumbing.IsHash(t.CommitSHA) {
			return "", false, unexpectedResponse(c.repoURL(repo, "tags"), fmt.Errorf("invalid commit id %q for tag %s", t.CommitSHA, t.Name))
		}
		return t.CommitSHA, true, nil
	}
	return "", false, nil
}
