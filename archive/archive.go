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

// This package packs dataset directories into zip archives and computes
// checksums for upload verification.
package archive

import (
	"archive/zip"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Packs the contents of dir into a zip archive at zipPath using deflate
// compression. Archive entries are named relative to dir's parent, so
// unpacking reproduces the dataset directory itself. Symbolic links are
// skipped. The archive must not be created inside dir.
func ZipDirectory(dir, zipPath string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	absZip, err := filepath.Abs(zipPath)
	if err != nil {
		return err
	}
	if strings.HasPrefix(absZip, absDir+string(os.PathSeparator)) {
		return fmt.Errorf("archive %s would be inside the directory being packed", zipPath)
	}
	parent := filepath.Dir(absDir)

	output, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer output.Close()

	writer := zip.NewWriter(output)
	err = filepath.WalkDir(absDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		relative, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		// zip entry names always use forward slashes
		header.Name = filepath.ToSlash(relative)
		header.Method = zip.Deflate

		target, err := writer.CreateHeader(header)
		if err != nil {
			return err
		}
		source, err := os.Open(path)
		if err != nil {
			return err
		}
		defer source.Close()
		_, err = io.Copy(target, source)
		return err
	})
	if err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

// Computes the MD5 checksum of each given file, returning a map from file
// path to lowercase hex digest. Zenodo reports MD5 checksums for bucket
// uploads, so these can be compared against the server's values.
func Checksums(files []string) (map[string]string, error) {
	checksums := make(map[string]string)
	for _, file := range files {
		source, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		hash := md5.New()
		_, err = io.Copy(hash, source)
		source.Close()
		if err != nil {
			return nil, err
		}
		checksums[file] = hex.EncodeToString(hash.Sum(nil))
	}
	return checksums, nil
}
