// Package downloader runs the user-facing actions: listing repositories, tags
// and files, and downloading the files of one language.
package downloader

import (
	"context"
	"fmt"
	"os"

	"tessdl/internal/fetch"
	"tessdl/internal/match"
	"tessdl/internal/observability"
	"tessdl/internal/ui"
	"tessdl/pkg/errors"
	"tessdl/pkg/models"
)

// API is the part of the GitHub client the service needs
type API interface {
	ListTags(ctx context.Context, repo models.Repository) ([]models.Tag, error)
	ResolveTag(ctx context.Context, repo models.Repository, tag string) (string, bool, error)
	ListTree(ctx context.Context, repo models.Repository, sha string) ([]models.TreeEntry, error)
}

// Fetcher downloads a single entry
type Fetcher interface {
	Fetch(ctx context.Context, entry models.TreeEntry, outputDir string) (fetch.Outcome, error)
}

// Summary counts the outcomes of a language download
type Summary struct {
	Matched      int
	Downloaded   int
	Skipped      int
	SizeMismatch int
	Failed       int
}

// Service runs actions sequentially against one API client
type Service struct {
	api     API
	fetcher Fetcher
	ui      *ui.UI
	logger  *observability.Logger
}

// NewService creates a new downloader service
func NewService(api API, fetcher Fetcher, u *ui.UI) *Service {
	return &Service{
		api:     api,
		fetcher: fetcher,
		ui:      u,
		logger:  observability.GetDefaultLogger(),
	}
}

// ListRepositories prints the known repositories
func (s *Service) ListRepositories() {
	s.ui.Println("Available tesseract traineddata repositories are:")
	names := make([]string, len(models.Repositories))
	for i, r := range models.Repositories {
		names[i] = r.String()
	}
	s.ui.List(names)
}

// ListTags prints the tags of every known repository
func (s *Service) ListTags(ctx context.Context) error {
	for _, repo := range models.Repositories {
		tags, err := s.api.ListTags(ctx, repo)
		if err != nil {
			if errors.IsFatal(err) {
				return err
			}
			s.ui.Warning(err.Error())
			s.ui.Println(fmt.Sprintf("No tag was found for repository %q!", repo))
			continue
		}

		if len(tags) == 0 {
			s.ui.Println(fmt.Sprintf("No tag was found for repository %q!", repo))
			continue
		}

		s.ui.Println(fmt.Sprintf("Following tags were found for repository %q:", repo))
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.Name
		}
		s.ui.List(names)
	}
	return nil
}

// ListFiles prints the file tree of repo at tag
func (s *Service) ListFiles(ctx context.Context, repo models.Repository, tag string) error {
	if !repo.IsKnown() {
		s.ui.Warning(errors.UnknownRepositoryError(repo.String()).Message)
		s.ListRepositories()
		return nil
	}

	entries, ok, err := s.tree(ctx, repo, tag)
	if err != nil || !ok {
		return err
	}
	if len(entries) == 0 {
		s.ui.Println(fmt.Sprintf("No file was found for repository %s and tag %s!", repo, tag))
		return nil
	}

	s.ui.Println(fmt.Sprintf("Following files were found for repository '%s' and tag '%s':", repo, tag))
	ui.RenderTree(s.ui.Out(), entries)
	return nil
}

// DownloadLanguage downloads every file of repo at tag whose language code is
// lang into outputDir
func (s *Service) DownloadLanguage(ctx context.Context, repo models.Repository, tag, lang, outputDir string) (Summary, error) {
	var summary Summary

	if !repo.IsKnown() {
		s.ui.Warning(errors.UnknownRepositoryError(repo.String()).Message)
		s.ListRepositories()
		return summary, nil
	}

	s.ui.Println(fmt.Sprintf("Start of getting information for download of files for %s:", lang))
	if match.CanNeverMatch(lang) {
		s.ui.Warning(fmt.Sprintf("Language code %q contains a '.', only the part of a file name before the first '.' is compared, so it cannot match", lang))
	}
	if models.IsLatest(tag) {
		s.ui.Println(fmt.Sprintf("Retrieving the latest file(s) from repository '%s'", repo))
	} else {
		s.ui.Println(fmt.Sprintf("Retrieving file(s) from repository '%s', tagged as '%s'", repo, tag))
	}

	entries, ok, err := s.tree(ctx, repo, tag)
	if err != nil || !ok {
		return summary, err
	}

	res := match.Match(lang, entries)
	for _, skip := range res.Skipped {
		s.ui.Warning(fmt.Sprintf("Skipping %s: %s", skip.Entry.Path, skip.Reason))
	}
	summary.Matched = len(res.Matches)
	if len(res.Matches) == 0 {
		s.ui.Println(fmt.Sprintf("Could not find any file for %s", lang))
		return summary, nil
	}

	for _, entry := range res.Matches {
		outcome, err := s.fetcher.Fetch(ctx, entry, outputDir)
		if err != nil {
			if errors.IsFatal(err) {
				return summary, err
			}
			summary.Failed++
			s.ui.Warning(err.Error())
			continue
		}

		switch outcome.Status {
		case fetch.StatusDownloaded:
			summary.Downloaded++
		case fetch.StatusSkipped:
			summary.Skipped++
		case fetch.StatusSizeMismatch:
			summary.SizeMismatch++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"repository": repo.String(),
		"tag":        tag,
		"lang":       lang,
	}).InfoWithFields("language download finished", map[string]interface{}{
		"matched":       summary.Matched,
		"downloaded":    summary.Downloaded,
		"skipped":       summary.Skipped,
		"size_mismatch": summary.SizeMismatch,
	})
	return summary, nil
}

// tree resolves tag and lists its files. ok is false when the tag is unknown
// or the listing had an unexpected shape; both are reported here.
func (s *Service) tree(ctx context.Context, repo models.Repository, tag string) ([]models.TreeEntry, bool, error) {
	sha, found, err := s.api.ResolveTag(ctx, repo, tag)
	if err != nil {
		return nil, false, s.reportNonFatal(err, repo, tag)
	}
	if !found {
		s.ui.Warning(errors.UnknownTagError(repo.String(), tag).Message)
		return nil, false, nil
	}
	s.logger.DebugWithFields("tag resolved", map[string]interface{}{
		"repository": repo.String(),
		"tag":        tag,
		"sha":        sha,
	})

	entries, err := s.api.ListTree(ctx, repo, sha)
	if err != nil {
		return nil, false, s.reportNonFatal(err, repo, tag)
	}
	return entries, true, nil
}

func (s *Service) reportNonFatal(err error, repo models.Repository, tag string) error {
	if errors.IsFatal(err) {
		return err
	}
	s.ui.Warning(err.Error())
	s.ui.Println(fmt.Sprintf("No file was found for repository %s and tag %s!", repo, tag))
	return nil
}

// CheckOutputDir fails unless dir is an existing, writable directory
func CheckOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return errors.OutputDirError(dir, "does not exist", err)
	}
	if err != nil {
		return errors.OutputDirError(dir, "cannot be accessed", err)
	}
	if !info.IsDir() {
		return errors.OutputDirError(dir, "is not a directory", nil)
	}

	probe, err := os.CreateTemp(dir, ".tessdl-write-test-*")
	if err != nil {
		return errors.OutputDirError(dir, "is not writable", err)
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return errors.OutputDirError(dir, "is not writable", err)
	}
	return nil
}
