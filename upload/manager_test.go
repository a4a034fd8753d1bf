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

package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielnrainer/ZEDD/metadata"
	"github.com/danielnrainer/ZEDD/zeddtest"
	"github.com/danielnrainer/ZEDD/zenodo"
)

// writes a small data file for upload tests and returns its path
func writeTestFile(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "dataset.zip")
	err := os.WriteFile(path, []byte("electron diffraction frames"), 0644)
	assert.Nil(t, err)
	return path
}

func testMetadata() metadata.DepositionMetadata {
	md := metadata.Default()
	md.Title = "Lysozyme microED dataset"
	md.Description = "Continuous-rotation electron diffraction data collected at 200 kV."
	md.Creators = []metadata.Creator{
		{Name: "Doe, Jane", Affiliation: "University of Somewhere"},
	}
	return md
}

func TestUploadDraftEndsCompleted(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	manager := NewManager(repository)

	var percents []int
	var messages []string
	deposition, err := manager.Upload(testMetadata(), writeTestFile(t), false,
		func(percent int) { percents = append(percents, percent) },
		func(message string) { messages = append(messages, message) })

	assert.Nil(err, "draft upload should succeed")
	assert.Equal(Completed, manager.Status())
	assert.Equal([]string{"create", "upload"}, repository.Calls(),
		"a draft upload should not publish")
	assert.Greater(deposition.Id, int64(0))
	assert.NotEmpty(deposition.Links.Html)

	// overall progress is monotone and ends at 100
	assert.NotEmpty(percents)
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(percents[i], percents[i-1])
	}
	assert.Equal(100, percents[len(percents)-1])
	assert.Contains(messages[len(messages)-1], "draft")
}

func TestUploadWithPublish(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	manager := NewManager(repository)

	deposition, err := manager.Upload(testMetadata(), writeTestFile(t), true, nil, nil)
	assert.Nil(err)
	assert.Equal(Completed, manager.Status())
	assert.Equal([]string{"create", "upload", "publish"}, repository.Calls())
	assert.True(deposition.Submitted)
	assert.NotEmpty(deposition.Links.Record)
}

func TestUploadRejectsInvalidFile(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	manager := NewManager(repository)

	_, err := manager.Upload(testMetadata(),
		filepath.Join(t.TempDir(), "missing.zip"), false, nil, nil)
	assert.NotNil(err)
	var uploadErr *UploadError
	assert.ErrorAs(err, &uploadErr)
	assert.Equal(Validating, uploadErr.Phase)
	assert.Contains(uploadErr.Error(), "File validation failed")
	assert.Equal(Failed, manager.Status())
	assert.Empty(repository.Calls(), "no repository call should be made")
}

func TestUploadRejectsInvalidMetadata(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	manager := NewManager(repository)

	md := testMetadata()
	md.Title = "ab"
	md.Creators = nil
	_, err := manager.Upload(md, writeTestFile(t), false, nil, nil)
	assert.NotNil(err)
	assert.Contains(err.Error(), "Metadata validation failed")
	assert.Contains(err.Error(), "Title must be at least 3 characters")
	assert.Contains(err.Error(), "At least one creator is required")
	assert.Equal(Failed, manager.Status())
	assert.Empty(repository.Calls())
}

func TestUploadCancelledMidTransfer(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	repository.ChunkCount = 10
	manager := NewManager(repository)

	// request cancellation from inside the progress callback once the
	// transfer phase is underway
	chunks := 0
	_, err := manager.Upload(testMetadata(), writeTestFile(t), false,
		func(percent int) {
			if percent > progressDepositionMade {
				chunks++
				if chunks == 3 {
					manager.Cancel()
				}
			}
		}, nil)

	assert.NotNil(err)
	assert.True(zenodo.IsCancelled(err))
	assert.Contains(err.Error(), "cancelled")
	assert.Equal(Cancelled, manager.Status())
	assert.Equal([]string{"create", "upload"}, repository.Calls())
	assert.Greater(manager.DepositionId(), int64(0),
		"the orphaned draft should remain identifiable")
}

func TestUploadFailurePreservesPhase(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	repository.FailOn["publish"] = &zenodo.APIError{
		Operation:  "publish deposition",
		StatusCode: 500,
		Message:    "Zenodo server error. The service may be temporarily unavailable.",
	}
	manager := NewManager(repository)

	_, err := manager.Upload(testMetadata(), writeTestFile(t), true, nil, nil)
	assert.NotNil(err)
	var uploadErr *UploadError
	assert.ErrorAs(err, &uploadErr)
	assert.Equal(Publishing, uploadErr.Phase)
	assert.Equal(Failed, manager.Status())

	var apiErr *zenodo.APIError
	assert.ErrorAs(err, &apiErr, "the underlying API error should be unwrappable")
	assert.Equal(500, apiErr.StatusCode)
}

func TestUploadRejectsConcurrentSession(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	manager := NewManager(repository)

	var nested error
	_, err := manager.Upload(testMetadata(), writeTestFile(t), false, nil,
		func(message string) {
			if nested == nil {
				_, nested = manager.Upload(testMetadata(), "other.zip", false, nil, nil)
			}
		})
	assert.Nil(err)
	var inProgress *InProgressError
	assert.ErrorAs(nested, &inProgress)
}

func TestUploadAllowsNewSessionAfterTerminalState(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	manager := NewManager(repository)
	path := writeTestFile(t)

	_, err := manager.Upload(testMetadata(), path, false, nil, nil)
	assert.Nil(err)
	assert.Equal(Completed, manager.Status())

	_, err = manager.Upload(testMetadata(), path, false, nil, nil)
	assert.Nil(err, "a completed manager should accept a new session")
	assert.Equal(Completed, manager.Status())
	assert.Equal([]string{"create", "upload", "create", "upload"}, repository.Calls())
}

func TestUploadSurvivesCallbackPanic(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	manager := NewManager(repository)

	_, err := manager.Upload(testMetadata(), writeTestFile(t), false,
		func(percent int) { panic(fmt.Sprintf("bad callback at %d%%", percent)) },
		func(message string) { panic("bad status callback") })
	assert.Nil(err, "callback panics must not abort the upload")
	assert.Equal(Completed, manager.Status())
}

func TestStatusStrings(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("idle", Idle.String())
	assert.Equal("uploading", Uploading.String())
	assert.Equal("completed", Completed.String())
	assert.Equal("cancelled", Cancelled.String())
	assert.Equal("unknown", Status(42).String())
}
