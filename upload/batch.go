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

	"github.com/danielnrainer/ZEDD/metadata"
	"github.com/danielnrainer/ZEDD/zenodo"
)

// one file with its own metadata in a batch upload
type Item struct {
	FilePath string
	Metadata metadata.DepositionMetadata
}

// the outcome for one item of a batch upload
type Result struct {
	FilePath   string
	Deposition zenodo.Deposition
	Err        error
}

// Uploads each item sequentially as its own deposition, continuing past
// failures. Returns one Result per item, in order. The progress callback
// receives the running average over all items, so it ends at 100 even when
// some items fail. Cancellation aborts the in-flight item; the remaining
// items are reported as cancelled without being attempted.
func (m *Manager) UploadBatch(items []Item, publish bool,
	progress ProgressFunc, status StatusFunc) []Result {
	results := make([]Result, 0, len(items))
	n := len(items)
	for i, item := range items {
		index := i
		itemStatus := func(message string) {
			if status != nil {
				status(fmt.Sprintf("[%d/%d] %s", index+1, n, message))
			}
		}
		itemProgress := func(itemPercent int) {
			if progress != nil {
				progress((index*100 + itemPercent) / n)
			}
		}
		deposition, err := m.Upload(item.Metadata, item.FilePath, publish,
			itemProgress, itemStatus)
		results = append(results, Result{
			FilePath:   item.FilePath,
			Deposition: deposition,
			Err:        err,
		})
		if err != nil && zenodo.IsCancelled(err) {
			for _, skipped := range items[i+1:] {
				results = append(results, Result{
					FilePath: skipped.FilePath,
					Err:      &zenodo.CancelledError{},
				})
			}
			return results
		}
	}
	if progress != nil {
		progress(100)
	}
	return results
}
