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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielnrainer/ZEDD/zeddtest"
	"github.com/danielnrainer/ZEDD/zenodo"
)

func TestBatchUploadsEveryItem(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	manager := NewManager(repository)

	items := []Item{
		{FilePath: writeTestFile(t), Metadata: testMetadata()},
		{FilePath: writeTestFile(t), Metadata: testMetadata()},
		{FilePath: writeTestFile(t), Metadata: testMetadata()},
	}
	var percents []int
	results := manager.UploadBatch(items, false,
		func(percent int) { percents = append(percents, percent) }, nil)

	assert.Len(results, 3)
	for _, result := range results {
		assert.Nil(result.Err)
		assert.Greater(result.Deposition.Id, int64(0))
	}
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(percents[i], percents[i-1])
	}
	assert.Equal(100, percents[len(percents)-1])
}

func TestBatchContinuesPastFailure(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	manager := NewManager(repository)

	items := []Item{
		{FilePath: writeTestFile(t), Metadata: testMetadata()},
		{FilePath: filepath.Join(t.TempDir(), "absent.zip"), Metadata: testMetadata()},
		{FilePath: writeTestFile(t), Metadata: testMetadata()},
	}
	var percents []int
	results := manager.UploadBatch(items, false,
		func(percent int) { percents = append(percents, percent) }, nil)

	assert.Len(results, 3)
	assert.Nil(results[0].Err)
	assert.NotNil(results[1].Err, "the missing file should fail its item")
	assert.Nil(results[2].Err, "a failure should not stop later items")
	assert.Equal(100, percents[len(percents)-1],
		"overall progress should still reach 100")
}

func TestBatchCancellationSkipsRemainingItems(t *testing.T) {
	assert := assert.New(t)
	repository := zeddtest.NewRepository()
	manager := NewManager(repository)

	items := []Item{
		{FilePath: writeTestFile(t), Metadata: testMetadata()},
		{FilePath: writeTestFile(t), Metadata: testMetadata()},
		{FilePath: writeTestFile(t), Metadata: testMetadata()},
	}
	// cancel as the second item enters its transfer phase
	results := manager.UploadBatch(items, false, nil,
		func(message string) {
			if message == "[2/3] Uploading dataset.zip..." {
				manager.Cancel()
			}
		})

	assert.Len(results, 3)
	assert.Nil(results[0].Err)
	assert.True(zenodo.IsCancelled(results[1].Err))
	assert.True(zenodo.IsCancelled(results[2].Err),
		"unattempted items should be reported as cancelled")

	// the second item's transfer never reached the repository and the
	// third item was never attempted
	assert.Equal([]string{"create", "upload", "create"}, repository.Calls())
}
