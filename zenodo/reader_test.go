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

package zenodo

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// writes a file of the given size filled with a repeating pattern and opens
// it for reading
func openTestFile(t *testing.T, size int) *os.File {
	path := filepath.Join(t.TempDir(), "payload.bin")
	err := os.WriteFile(path, bytes.Repeat([]byte{0xED}, size), 0644)
	assert.Nil(t, err)
	file, err := os.Open(path)
	assert.Nil(t, err)
	return file
}

// tests that progress is reported per chunk, monotonically, ending at 100
func TestProgressReaderReportsProgress(t *testing.T) {
	const size = 1000
	file := openTestFile(t, size)

	var reported []int
	reader := newProgressReader(file, size, 100, func(percent int) {
		reported = append(reported, percent)
	}, nil)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	assert.Nil(t, err)
	assert.Equal(t, size, len(data))

	assert.NotEmpty(t, reported)
	last := 0
	for _, percent := range reported {
		assert.GreaterOrEqual(t, percent, last)
		assert.LessOrEqual(t, percent, 100)
		last = percent
	}
	assert.Equal(t, 100, reported[len(reported)-1])
}

// tests that reads are capped at the configured chunk size
func TestProgressReaderCapsChunkSize(t *testing.T) {
	file := openTestFile(t, 1000)
	reader := newProgressReader(file, 1000, 64, nil, nil)
	defer reader.Close()

	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	assert.Nil(t, err)
	assert.Equal(t, 64, n)
}

// tests that cancellation aborts before the Nth chunk is yielded and closes
// the underlying file
func TestProgressReaderCancellation(t *testing.T) {
	const cancelAfter = 3
	file := openTestFile(t, 1000)

	chunksRead := 0
	reader := newProgressReader(file, 1000, 100, func(int) {
		chunksRead++
	}, func() bool {
		return chunksRead >= cancelAfter
	})
	defer reader.Close()

	_, err := io.ReadAll(reader)
	assert.NotNil(t, err)
	assert.True(t, IsCancelled(err))
	assert.Equal(t, cancelAfter, chunksRead)

	// the underlying handle must be closed after cancellation
	var one [1]byte
	_, err = file.Read(one[:])
	assert.True(t, errors.Is(err, os.ErrClosed))
}

// tests that no progress is reported when the total size is unknown
func TestProgressReaderUnknownSize(t *testing.T) {
	file := openTestFile(t, 100)
	called := false
	reader := newProgressReader(file, 0, 100, func(int) { called = true }, nil)
	defer reader.Close()

	_, err := io.ReadAll(reader)
	assert.Nil(t, err)
	assert.False(t, called)
}

// tests that Close is idempotent
func TestProgressReaderCloseIdempotent(t *testing.T) {
	file := openTestFile(t, 10)
	reader := newProgressReader(file, 10, 100, nil, nil)
	assert.Nil(t, reader.Close())
	assert.Nil(t, reader.Close())
}
