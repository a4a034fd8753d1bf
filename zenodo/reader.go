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
	"io"
)

// This type wraps a file opened for reading and reports upload progress as
// the HTTP client consumes it. Before yielding each chunk it checks the
// cancellation predicate; on cancellation it closes the underlying file and
// returns a CancelledError so the client aborts the transfer mid-stream
// instead of completing it.
type progressReader struct {
	source    io.ReadCloser
	totalSize int64
	chunkSize int
	progress  func(percent int)
	cancelled func() bool
	bytesRead int64
	closed    bool
}

func newProgressReader(source io.ReadCloser, totalSize int64, chunkSize int,
	progress func(int), cancelled func() bool) *progressReader {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &progressReader{
		source:    source,
		totalSize: totalSize,
		chunkSize: chunkSize,
		progress:  progress,
		cancelled: cancelled,
	}
}

func (r *progressReader) Read(p []byte) (int, error) {
	if r.cancelled != nil && r.cancelled() {
		r.Close()
		return 0, &CancelledError{}
	}
	if len(p) > r.chunkSize { // cap reads so progress stays chunk-grained
		p = p[:r.chunkSize]
	}
	n, err := r.source.Read(p)
	if n > 0 {
		r.bytesRead += int64(n)
		if r.progress != nil && r.totalSize > 0 {
			percent := int(r.bytesRead * 100 / r.totalSize)
			if percent > 100 {
				percent = 100
			}
			r.progress(percent)
		}
	}
	return n, err
}

// Close is idempotent; the HTTP client and the deferred cleanup both call it.
func (r *progressReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.source.Close()
}
