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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielnrainer/ZEDD/metadata"
)

// flags shared by commands that accept deposition metadata
type metadataFlags struct {
	metadataFile string
	title        string
	description  string
	license      string
	uploadType   string
	accessRight  string
	creators     []string
	keywords     []string
	communities  []string
}

func (f *metadataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.metadataFile, "metadata", "",
		"Path to a JSON file with deposition metadata")
	cmd.Flags().StringVar(&f.title, "title", "", "Deposition title")
	cmd.Flags().StringVar(&f.description, "description", "", "Deposition description")
	cmd.Flags().StringVar(&f.license, "license", "", "License identifier (e.g. cc-by-4.0)")
	cmd.Flags().StringVar(&f.uploadType, "upload-type", "",
		"Upload type (dataset, publication, ...)")
	cmd.Flags().StringVar(&f.accessRight, "access-right", "",
		"Access right (open, embargoed, restricted, closed)")
	cmd.Flags().StringArrayVar(&f.creators, "creator", nil,
		"Creator as 'Family, Given;Affiliation;ORCID' (repeatable)")
	cmd.Flags().StringSliceVar(&f.keywords, "keyword", nil, "Keyword (repeatable)")
	cmd.Flags().StringSliceVar(&f.communities, "community", nil,
		"Community identifier (repeatable)")
}

// Assembles deposition metadata: defaults, overlaid by the JSON metadata
// file if one was given, overlaid by any inline flags.
func (f *metadataFlags) build() (metadata.DepositionMetadata, error) {
	md := metadata.Default()

	if f.metadataFile != "" {
		data, err := os.ReadFile(f.metadataFile)
		if err != nil {
			return md, fmt.Errorf("couldn't read metadata file %s: %s", f.metadataFile, err)
		}
		if err := json.Unmarshal(data, &md); err != nil {
			return md, fmt.Errorf("couldn't parse metadata file %s: %s", f.metadataFile, err)
		}
	}

	if f.title != "" {
		md.Title = f.title
	}
	if f.description != "" {
		md.Description = f.description
	}
	if f.license != "" {
		md.License = f.license
	}
	if f.uploadType != "" {
		md.UploadType = f.uploadType
	}
	if f.accessRight != "" {
		md.AccessRight = f.accessRight
	}
	for _, spec := range f.creators {
		creator, err := parseCreator(spec)
		if err != nil {
			return md, err
		}
		md.Creators = append(md.Creators, creator)
	}
	md.Keywords = append(md.Keywords, f.keywords...)
	if len(f.communities) > 0 {
		md.Communities = nil
		for _, identifier := range f.communities {
			md.Communities = append(md.Communities, metadata.Community{Identifier: identifier})
		}
	} else if prefs.DefaultCommunity != "" && f.metadataFile == "" {
		md.Communities = []metadata.Community{{Identifier: prefs.DefaultCommunity}}
	}
	return md, nil
}

// parses a creator flag of the form "Family, Given;Affiliation;ORCID"
// (affiliation and ORCID optional)
func parseCreator(spec string) (metadata.Creator, error) {
	parts := strings.Split(spec, ";")
	creator := metadata.Creator{Name: strings.TrimSpace(parts[0])}
	if creator.Name == "" {
		return creator, fmt.Errorf("invalid creator %q: name is required", spec)
	}
	if len(parts) > 1 {
		creator.Affiliation = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		creator.Orcid = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		return creator, fmt.Errorf("invalid creator %q: too many fields", spec)
	}
	return creator, nil
}
