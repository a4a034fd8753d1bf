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

package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielnrainer/ZEDD/metadata"
)

// returns metadata that passes every check
func validMetadata() metadata.DepositionMetadata {
	md := metadata.Default()
	md.Title = "Lysozyme microED dataset"
	md.Description = "Continuous-rotation electron diffraction data."
	md.Creators = []metadata.Creator{{Name: "Carberry, Josiah"}}
	return md
}

// tests that valid metadata produces no errors
func TestMetadataAcceptsValidInput(t *testing.T) {
	ok, errors := Metadata(validMetadata())
	assert.True(t, ok)
	assert.Empty(t, errors)
}

// tests that an empty creator list is flagged
func TestMetadataRejectsMissingCreators(t *testing.T) {
	md := validMetadata()
	md.Creators = nil
	ok, errors := Metadata(md)
	assert.False(t, ok)
	found := false
	for _, message := range errors {
		if strings.Contains(message, "creator") {
			found = true
		}
	}
	assert.True(t, found, "missing creators didn't produce a creator error")
}

// tests title and description length requirements
func TestMetadataRejectsShortFields(t *testing.T) {
	md := validMetadata()
	md.Title = "ab"
	md.Description = "too short"
	ok, errors := Metadata(md)
	assert.False(t, ok)
	assert.Equal(t, 2, len(errors))

	md.Title = strings.Repeat("x", 251)
	md.Description = "long enough now."
	ok, errors = Metadata(md)
	assert.False(t, ok)
	assert.Contains(t, errors[0], "250")
}

// tests that all violations are reported in one pass
func TestMetadataAggregatesErrors(t *testing.T) {
	md := metadata.DepositionMetadata{
		UploadType:      "datasets",
		AccessRight:     "public",
		PublicationDate: "01/06/2025",
	}
	ok, errors := Metadata(md)
	assert.False(t, ok)
	// empty title, empty description, no creators, bad upload type, bad
	// access right, bad date
	assert.Equal(t, 6, len(errors))
}

// tests the ORCID format check, including the X checksum digit
func TestOrcidFormat(t *testing.T) {
	assert.True(t, ValidOrcid("0000-0002-1825-0097"))
	assert.True(t, ValidOrcid("0000-0002-1694-233X"))
	assert.False(t, ValidOrcid("0000-0002-1825-009"))
	assert.False(t, ValidOrcid("0000-0002-1825-00971"))
	assert.False(t, ValidOrcid("0000:0002:1825:0097"))
	assert.False(t, ValidOrcid("abcd-0002-1825-0097"))

	md := validMetadata()
	md.Creators[0].Orcid = "not-an-orcid"
	ok, errors := Metadata(md)
	assert.False(t, ok)
	assert.Contains(t, errors[0], "ORCID")
}

// tests keyword, community, and date shape checks
func TestMetadataShapeChecks(t *testing.T) {
	md := validMetadata()
	md.Keywords = []string{"microED", "  "}
	md.Communities = []metadata.Community{{Identifier: ""}}
	md.PublicationDate = "2025-13-40"
	ok, errors := Metadata(md)
	assert.False(t, ok)
	assert.Equal(t, 3, len(errors))
}

// tests that the file validator accepts a normal non-empty file
func TestFileAcceptsRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.zip")
	err := os.WriteFile(path, []byte("not actually a zip"), 0644)
	assert.Nil(t, err)

	ok, message := File(path)
	assert.True(t, ok)
	assert.Equal(t, "", message)
}

// tests that a nonexistent path is rejected with a distinct message
func TestFileRejectsMissingFile(t *testing.T) {
	ok, message := File(filepath.Join(t.TempDir(), "no-such-file"))
	assert.False(t, ok)
	assert.Contains(t, message, "File not found")
}

// tests that a directory is rejected
func TestFileRejectsDirectory(t *testing.T) {
	ok, message := File(t.TempDir())
	assert.False(t, ok)
	assert.Contains(t, message, "not a regular file")
}

// tests that an empty file is rejected with a distinct message
func TestFileRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zip")
	err := os.WriteFile(path, nil, 0644)
	assert.Nil(t, err)

	ok, message := File(path)
	assert.False(t, ok)
	assert.Contains(t, message, "File is empty")
}

// tests that a file over the size ceiling is rejected with a distinct
// message (a sparse file keeps the test cheap)
func TestFileRejectsOversizedFile(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "huge.zip")
	file, err := os.Create(path)
	assert.Nil(err)
	err = file.Truncate(MaxFileSize + 1)
	assert.Nil(err)
	err = file.Close()
	assert.Nil(err)

	ok, message := File(path)
	assert.False(ok)
	assert.Contains(message, "File too large")
}
