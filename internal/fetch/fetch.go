// Package fetch streams matched tree entries to the output directory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"

	"tessdl/internal/common"
	"tessdl/internal/observability"
	"tessdl/internal/ui"
	"tessdl/pkg/errors"
	"tessdl/pkg/models"
)

// ChunkSize is the size of each read from the response body
const ChunkSize = 4096

// ContentOpener opens the raw content behind a URL
type ContentOpener interface {
	OpenContent(ctx context.Context, url string) (io.ReadCloser, int64, error)
}

// Status is the outcome of one file transfer
type Status string

const (
	StatusDownloaded   Status = "downloaded"
	StatusSkipped      Status = "skipped"
	StatusSizeMismatch Status = "size-mismatch"
)

// Outcome describes what happened to one entry
type Outcome struct {
	Path   string
	Status Status
	Size   int64
}

// Fetcher downloads one entry at a time
type Fetcher struct {
	opener  ContentOpener
	ui      *ui.UI
	confirm ui.Confirmer
	logger  *observability.Logger
}

// NewFetcher creates a Fetcher. confirm is asked before overwriting a local
// file that already has the expected size.
func NewFetcher(opener ContentOpener, u *ui.UI, confirm ui.Confirmer) *Fetcher {
	return &Fetcher{
		opener:  opener,
		ui:      u,
		confirm: confirm,
		logger:  observability.GetDefaultLogger(),
	}
}

// Fetch downloads entry into outputDir under its base name
func (f *Fetcher) Fetch(ctx context.Context, entry models.TreeEntry, outputDir string) (Outcome, error) {
	target, err := common.TargetPath(outputDir, entry.Path)
	if err != nil {
		return Outcome{}, errors.Wrap(err, errors.ErrCodeFileOperation, "Cannot store remote file").
			WithSeverity(errors.SeverityWarning)
	}
	name := entry.Name()
	outcome := Outcome{Path: target}

	proceed, err := f.checkExisting(target, name, entry.Size)
	if err != nil || !proceed {
		outcome.Status = StatusSkipped
		return outcome, err
	}

	body, contentLength, err := f.opener.OpenContent(ctx, entry.URL)
	if err != nil {
		return outcome, err
	}
	defer body.Close()

	expected := entry.Size
	total := expected
	if contentLength > 0 {
		total = contentLength
	}
	if expected <= 0 {
		expected = contentLength
	}

	if err := f.stream(body, target, name, total); err != nil {
		return outcome, err
	}

	info, err := os.Stat(target)
	if err != nil {
		return outcome, errors.Wrap(err, errors.ErrCodeFileOperation, "Downloaded file is missing").
			WithContext("path", target)
	}
	outcome.Size = info.Size()

	if expected > 0 && info.Size() != expected {
		outcome.Status = StatusSizeMismatch
		f.ui.Warning(fmt.Sprintf("Size of %s is %d bytes, expected %d bytes", target, info.Size(), expected))
		f.logger.WarnWithFields("size mismatch", map[string]interface{}{
			"path":     target,
			"size":     info.Size(),
			"expected": expected,
		})
		return outcome, nil
	}

	outcome.Status = StatusDownloaded
	f.ui.Success(fmt.Sprintf("%s downloaded (%d bytes)", target, info.Size()))
	return outcome, nil
}

// checkExisting decides whether a transfer should go ahead over target
func (f *Fetcher) checkExisting(target, name string, expected int64) (bool, error) {
	info, err := os.Stat(target)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeFileOperation, "Cannot inspect local file").
			WithContext("path", target)
	}
	if info.IsDir() {
		return false, errors.New(errors.ErrCodeFileOperation, fmt.Sprintf("%s is a directory", target)).
			WithSeverity(errors.SeverityWarning).
			WithContext("path", target)
	}

	if expected <= 0 {
		f.ui.Info(fmt.Sprintf("%s already exists, skipping", target))
		return false, nil
	}
	if info.Size() != expected {
		f.ui.Info(fmt.Sprintf("%s exists with size %d instead of %d, downloading again", target, info.Size(), expected))
		return true, nil
	}

	again, err := f.confirm.Confirm(fmt.Sprintf("%s already exists with the same size (%d bytes). Download again?", name, expected))
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeUserInput, "Failed to read answer")
	}
	if !again {
		f.ui.Info(fmt.Sprintf("Keeping existing %s", target))
	}
	return again, nil
}

// stream copies body into a temporary file next to target and renames it
// into place once the body is fully read
func (f *Fetcher) stream(body io.Reader, target, name string, total int64) error {
	partial := target + ".part"
	file, err := os.OpenFile(partial, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, common.FilePermissionNormal)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Cannot create file").
			WithContext("path", partial)
	}

	bar := f.ui.NewProgress(name, total)
	reader := io.TeeReader(body, bar)
	buf := make([]byte, ChunkSize)
	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				bar.Finish()
				file.Close()
				os.Remove(partial)
				return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to write file").
					WithContext("path", partial)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			bar.Finish()
			file.Close()
			os.Remove(partial)
			return errors.NetworkError(name, readErr)
		}
	}
	bar.Finish()

	if err := file.Close(); err != nil {
		os.Remove(partial)
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to write file").
			WithContext("path", partial)
	}
	if err := os.Rename(partial, target); err != nil {
		os.Remove(partial)
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to move file into place").
			WithContext("path", target)
	}
	return nil
}
