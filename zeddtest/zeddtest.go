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

// This package contains testing utilities for ZEDD.
package zeddtest

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/danielnrainer/ZEDD/metadata"
	"github.com/danielnrainer/ZEDD/zenodo"
)

// Enables DEBUG log messages for ZEDD's structured log (slog).
func EnableDebugLogging() {
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelDebug)
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
}

//---------------------------
// Repository Test Fixture
//---------------------------

// This type implements a scripted stand-in for the Zenodo repository client.
// It records every operation invoked on it, simulates a chunked file
// transfer, and can be told to fail specific operations.
type Repository struct {
	// operations that return the error named here instead of succeeding,
	// keyed by operation name ("create", "upload", "publish")
	FailOn map[string]error
	// the number of progress callbacks to issue during a simulated upload
	ChunkCount int

	mutex sync.Mutex
	// operation names in invocation order
	calls []string
	// metadata passed to the most recent CreateDeposition call
	lastMetadata metadata.DepositionMetadata
	nextId       int64
}

func NewRepository() *Repository {
	return &Repository{
		FailOn:     make(map[string]error),
		ChunkCount: 4,
		nextId:     100,
	}
}

// the operation names recorded so far, in order
func (r *Repository) Calls() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	calls := make([]string, len(r.calls))
	copy(calls, r.calls)
	return calls
}

// the metadata passed to the most recent CreateDeposition call
func (r *Repository) LastMetadata() metadata.DepositionMetadata {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.lastMetadata
}

func (r *Repository) record(operation string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls = append(r.calls, operation)
	if err, found := r.FailOn[operation]; found {
		return err
	}
	return nil
}

func (r *Repository) CreateDeposition(md metadata.DepositionMetadata) (zenodo.Deposition, error) {
	if err := r.record("create"); err != nil {
		return zenodo.Deposition{}, err
	}
	r.mutex.Lock()
	r.lastMetadata = md
	r.nextId++
	id := r.nextId
	r.mutex.Unlock()
	return zenodo.Deposition{
		Id:    id,
		State: "unsubmitted",
		Title: md.Title,
		Links: zenodo.Links{
			Bucket: fmt.Sprintf("https://example.org/api/files/bucket-%d", id),
			Html:   fmt.Sprintf("https://example.org/deposit/%d", id),
		},
	}, nil
}

// Simulates a chunked transfer: issues ChunkCount progress callbacks,
// checking the cancellation predicate before each chunk the way the real
// client's stream wrapper does.
func (r *Repository) UploadFile(depositionId int64, filePath string, progress func(int),
	cancelled func() bool) (zenodo.DepositionFile, error) {
	if err := r.record("upload"); err != nil {
		return zenodo.DepositionFile{}, err
	}
	for chunk := 1; chunk <= r.ChunkCount; chunk++ {
		if cancelled != nil && cancelled() {
			return zenodo.DepositionFile{}, &zenodo.CancelledError{}
		}
		if progress != nil {
			progress(chunk * 100 / r.ChunkCount)
		}
	}
	return zenodo.DepositionFile{
		Id:       fmt.Sprintf("file-%d", depositionId),
		Filename: filePath,
		Filesize: 1024,
		Checksum: "d41d8cd98f00b204e9800998ecf8427e",
	}, nil
}

func (r *Repository) PublishDeposition(depositionId int64) (zenodo.Deposition, error) {
	if err := r.record("publish"); err != nil {
		return zenodo.Deposition{}, err
	}
	return zenodo.Deposition{
		Id:        depositionId,
		State:     "done",
		Submitted: true,
		Links: zenodo.Links{
			Record: fmt.Sprintf("https://example.org/record/%d", depositionId),
		},
	}, nil
}
