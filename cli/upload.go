// Copyright (c) 2025 The ZEDD Project and its Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/danielnrainer/ZEDD/archive"
	"github.com/danielnrainer/ZEDD/journal"
	"github.com/danielnrainer/ZEDD/metadata"
	"github.com/danielnrainer/ZEDD/upload"
	"github.com/danielnrainer/ZEDD/zenodo"
)

var (
	uploadMetadata   metadataFlags
	uploadPublish    bool
	uploadYesPublish bool
	uploadArchive    bool
	uploadChecksum   bool
)

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <path> [path...]",
		Short: "Upload datasets to Zenodo",
		Long: `Upload one or more dataset files to Zenodo, each as its own deposition.
Directories are packed into zip archives first (requires --archive).

Depositions are left as drafts unless --publish is given. Publishing is
irreversible, so --publish must be accompanied by --yes-publish.

Examples:
  zedd upload lysozyme_001.zip --title "Lysozyme microED" \
      --description "Continuous-rotation data at 200 kV" \
      --creator "Doe, Jane;University of Somewhere;0000-0002-1825-0097"
  zedd upload dataset_dir --archive --metadata metadata.json
  zedd upload data.zip --metadata metadata.json --publish --yes-publish`,
		Args: cobra.MinimumNArgs(1),
		RunE: runUpload,
	}

	uploadMetadata.register(cmd)
	cmd.Flags().BoolVar(&uploadPublish, "publish", false,
		"Publish each deposition after upload (irreversible)")
	cmd.Flags().BoolVar(&uploadYesPublish, "yes-publish", false,
		"Confirm that publishing is intended (required with --publish)")
	cmd.Flags().BoolVar(&uploadArchive, "archive", false,
		"Pack directories into zip archives before uploading")
	cmd.Flags().BoolVar(&uploadChecksum, "checksum", false,
		"Print MD5 checksums of the uploaded files")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadPublish && !uploadYesPublish {
		return fmt.Errorf("--publish is irreversible; pass --yes-publish to confirm")
	}

	md, err := uploadMetadata.build()
	if err != nil {
		return err
	}

	// pack directories before anything touches the network
	paths := make([]string, 0, len(args))
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !uploadArchive {
				return fmt.Errorf("%s is a directory; pass --archive to pack it", path)
			}
			zipPath := filepath.Clean(path) + ".zip"
			fmt.Fprintf(os.Stderr, "Packing %s into %s...\n", path, zipPath)
			if err := archive.ZipDirectory(path, zipPath); err != nil {
				return err
			}
			paths = append(paths, zipPath)
		} else {
			paths = append(paths, path)
		}
	}

	if uploadChecksum {
		checksums, err := archive.Checksums(paths)
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Printf("%s  %s\n", checksums[path], path)
		}
	}

	client, err := newRepositoryClient()
	if err != nil {
		return err
	}
	manager := upload.NewManager(client)

	// Ctrl-C requests a cooperative cancellation; the session stops at the
	// next chunk boundary
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		<-interrupts
		fmt.Fprintln(os.Stderr, "\nCancelling upload...")
		manager.Cancel()
	}()

	openJournal()
	defer journal.Finalize()

	failures := 0
	for i, path := range paths {
		if len(paths) > 1 {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", i+1, len(paths), filepath.Base(path))
		}
		if err := uploadOne(manager, md, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			failures++
			if zenodo.IsCancelled(err) {
				break
			}
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d uploads failed", failures, len(paths))
	}
	return nil
}

func uploadOne(manager *upload.Manager, md metadata.DepositionMetadata, path string) error {
	bar := newProgressBar(filepath.Base(path))
	startTime := time.Now()

	deposition, err := manager.Upload(md, path, uploadPublish,
		func(percent int) { bar.Set(percent) },
		func(message string) { bar.Describe(message) })
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	recordUpload(deposition, path, startTime, err)
	if err != nil {
		return err
	}

	if uploadPublish {
		fmt.Printf("Published deposition %d: %s\n", deposition.Id, deposition.Links.Record)
	} else {
		fmt.Printf("Created draft deposition %d: %s\n", deposition.Id, deposition.Links.Html)
	}
	return nil
}

func newProgressBar(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(os.Stderr),
	)
}

// opens the upload journal if a data directory is available
func openJournal() {
	dir := dataDirectory()
	if dir == "" {
		return
	}
	journal.Init(dir)
}

// records the outcome of one upload session in the journal
func recordUpload(deposition zenodo.Deposition, path string, startTime time.Time, uploadErr error) {
	if !journal.IsOpen() {
		return
	}

	status := "succeeded"
	if uploadErr != nil {
		if zenodo.IsCancelled(uploadErr) {
			status = "canceled"
		} else {
			status = "failed"
		}
	}
	var payloadSize int64
	if info, err := os.Stat(path); err == nil {
		payloadSize = info.Size()
	}
	record := journal.Record{
		Id:           uuid.New(),
		Repository:   repositoryName(),
		DepositionId: deposition.Id,
		FileName:     filepath.Base(path),
		PayloadSize:  payloadSize,
		StartTime:    startTime,
		StopTime:     time.Now(),
		Status:       status,
		Published:    uploadErr == nil && uploadPublish,
		RecordURL:    deposition.Links.Record,
	}
	if err := journal.RecordUpload(record); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: couldn't record upload in journal: %s\n", err)
	}
}
