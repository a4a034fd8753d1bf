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

// This package holds the pre-flight checks run before an upload. Validators
// report problems as (ok, detail) values rather than errors so callers can
// probe speculatively (e.g. behind a "validate" button) and decide for
// themselves whether to proceed.
package validation

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Zenodo's per-file size ceiling (50 GiB)
const MaxFileSize = 50 * 1024 * 1024 * 1024

// Validates a file for upload, returning true if it is acceptable or false
// and the first failing check's message if not. Checks run in order:
// existence, regular file, readability, non-zero size, size ceiling.
func File(path string) (bool, string) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Sprintf("File not found: %s", path)
		}
		return false, fmt.Sprintf("Cannot access file: %s", err)
	}
	if !info.Mode().IsRegular() {
		return false, fmt.Sprintf("Path is not a regular file: %s", path)
	}

	// try to read the first byte to catch permission problems early
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Sprintf("File is not readable: %s", path)
	}
	defer file.Close()
	var one [1]byte
	if _, err := file.Read(one[:]); err != nil && err != io.EOF {
		return false, fmt.Sprintf("Cannot read file: %s", err)
	}

	if info.Size() == 0 {
		return false, fmt.Sprintf("File is empty: %s", path)
	}
	if info.Size() > MaxFileSize {
		return false, fmt.Sprintf("File too large: %.2f GiB (maximum allowed: %d GiB)",
			float64(info.Size())/(1024*1024*1024), MaxFileSize/(1024*1024*1024))
	}
	return true, ""
}
