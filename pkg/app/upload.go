// tgtransfer - Batch media transfer tools for Telegram.
// Copyright (C) 2026 tgtransfer contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"github.com/tgtransfer/tgtransfer/pkg/cli"
	"github.com/tgtransfer/tgtransfer/pkg/sessions"
	"github.com/tgtransfer/tgtransfer/pkg/telegram"
	"github.com/tgtransfer/tgtransfer/pkg/transfer"
)

type uploadJob struct {
	target   telegram.Target
	uploader *telegram.Uploader
	caption  string
}

func (j *uploadJob) send(ctx context.Context, item transfer.Item[string], tracker transfer.Tracker) error {
	return j.uploader.SendFile(ctx, j.target.InputPeer(), item.ID, j.caption, tracker.OnProgress)
}

func (a *App) warnMediaRights(target telegram.Target) {
	if !target.CanSendMedia() {
		a.Term.Info("! Warning: May not have media permissions for %s", target.Title())
	}
}

func (a *App) askCaption(ctx context.Context, prompt string) (string, error) {
	add, err := a.Term.Confirm(ctx, prompt)
	if err != nil || !add {
		return "", err
	}
	return a.Term.Ask(ctx, "Enter caption: ")
}

// Upload runs the interactive upload flow with a connected client.
func (a *App) Upload(ctx context.Context, client *sessions.Client) error {
	log := zerolog.Ctx(ctx).With().Str("component", "upload").Logger()
	ctx = log.WithContext(ctx)

	target, err := a.selectTarget(ctx, client, true)
	if err != nil {
		return err
	}
	a.Term.Info("Selected upload target: %s (ID: %d)", target.Title(), target.ID())
	job := &uploadJob{
		target:   target,
		uploader: telegram.NewUploader(client.API(), a.Config.Telegram.NormalizedPartSize()),
	}

	mode, err := a.Term.Menu(ctx, "Choose upload mode:", []string{"Upload single file", "Upload entire folder"}, "")
	switch {
	case errors.Is(err, cli.ErrInvalidChoice):
		a.Term.Error("Invalid choice! Exiting...")
		return ErrAborted
	case err != nil:
		return err
	case mode == 1:
		return a.uploadSingle(ctx, job)
	default:
		return a.uploadFolder(ctx, job)
	}
}

func (a *App) uploadSingle(ctx context.Context, job *uploadJob) error {
	path, err := a.Term.Ask(ctx, "Enter the file path to upload: ")
	if err != nil {
		return err
	}
	if info, statErr := os.Stat(path); path == "" || statErr != nil || !info.Mode().IsRegular() {
		a.Term.Error("Invalid file path! Exiting...")
		return ErrAborted
	}
	if job.caption, err = a.askCaption(ctx, "Add a caption to the file? (y/n): "); err != nil {
		return err
	}
	name := filepath.Base(path)
	if ok, err := a.Term.Confirm(ctx, fmt.Sprintf("Upload '%s' to %s? (y/n): ", name, job.target.Title())); err != nil {
		return err
	} else if !ok {
		a.Term.Info("Upload cancelled.")
		return nil
	}
	a.warnMediaRights(job.target)

	a.Term.Success("Starting upload...")
	bars := cli.NewProgressBars(ctx, a.Term.Out(), "Uploading")
	runner := &transfer.Runner[string]{BatchSize: 1, Progress: bars}
	summary, runErr := runner.Run(ctx, []transfer.Item[string]{{ID: path, Name: name}}, job.send)
	bars.Wait()
	a.reportFailures(ctx, summary)
	if summary.Succeeded == 1 {
		a.Term.Success("\n+ Upload completed successfully! '%s' uploaded to %s", name, job.target.Title())
	} else if runErr == nil {
		a.Term.Error("\nX Upload failed! '%s' could not be uploaded to %s", name, job.target.Title())
	}
	return runErr
}

func (a *App) chooseCategory(ctx context.Context) (transfer.Category, error) {
	options := make([]string, len(transfer.Categories))
	for i, category := range transfer.Categories {
		options[i] = category.Name
		if category.Extensions != nil {
			exts := make([]string, 0, len(category.Extensions))
			for ext := range category.Extensions {
				exts = append(exts, ext)
			}
			slices.Sort(exts)
			options[i] = fmt.Sprintf("%s (%s)", category.Name, strings.Join(exts, ", "))
		}
	}
	choice, err := a.Term.Menu(ctx, "Choose the type of files to upload:", options, "")
	if errors.Is(err, cli.ErrInvalidChoice) {
		a.Term.Error("Invalid choice! Exiting...")
		return transfer.Category{}, ErrAborted
	} else if err != nil {
		return transfer.Category{}, err
	}
	return transfer.Categories[choice-1], nil
}

func (a *App) uploadFolder(ctx context.Context, job *uploadJob) error {
	folder, err := a.Term.Ask(ctx, "Enter the folder path to upload from: ")
	if err != nil {
		return err
	}
	if info, statErr := os.Stat(folder); folder == "" || statErr != nil || !info.IsDir() {
		a.Term.Error("Invalid folder path! Exiting...")
		return ErrAborted
	}
	category, err := a.chooseCategory(ctx)
	if err != nil {
		return err
	}
	files := transfer.ListFiles(ctx, folder, category.Extensions)
	if len(files) == 0 {
		a.Term.Error("No files found to upload!")
		return nil
	}

	items := make([]transfer.Item[string], len(files))
	for i, file := range files {
		items[i] = transfer.Item[string]{ID: file, Name: filepath.Base(file)}
		if info, err := os.Stat(file); err == nil {
			items[i].Size = info.Size()
		}
	}
	runner := &transfer.Runner[string]{
		BatchSize: a.Config.Transfer.BatchSize,
		Store:     transfer.LoadState[string](ctx, filepath.Join(folder, transfer.UploadStateFile)),
	}
	pending := runner.Pending(items)
	a.Term.Println(fmt.Sprintf("Found %d total files.", len(items)))
	if skipped := len(items) - len(pending); skipped > 0 {
		a.Term.Info("%d files already uploaded (skipping)", skipped)
	}
	a.Term.Success("%d new files to upload", len(pending))
	if len(pending) == 0 {
		a.Term.Info("All files have already been uploaded!")
		return nil
	}

	if job.caption, err = a.askCaption(ctx, "Add a caption to all files? (y/n): "); err != nil {
		return err
	}
	if ok, err := a.Term.Confirm(ctx, fmt.Sprintf("Upload %d files to %s? (y/n): ", len(pending), job.target.Title())); err != nil {
		return err
	} else if !ok {
		a.Term.Info("Upload cancelled.")
		return nil
	}
	a.warnMediaRights(job.target)

	a.Term.Success("Starting upload...")
	bars := cli.NewProgressBars(ctx, a.Term.Out(), "Uploading")
	runner.Progress = bars
	summary, runErr := runner.Run(ctx, items, job.send)
	bars.Wait()
	a.reportSummary(ctx, summary, "uploaded")
	return runErr
}
