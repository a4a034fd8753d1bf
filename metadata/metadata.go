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

// This package defines the metadata attached to a Zenodo deposition. A
// DepositionMetadata value is built transiently from user input (CLI flags, a
// JSON metadata file, or a saved template) just before an upload and is never
// persisted here.
package metadata

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"
)

// a person credited as an author of the dataset
type Creator struct {
	// name in "Family, Given" form
	Name string `json:"name"`
	// home institution (optional)
	Affiliation string `json:"affiliation,omitempty"`
	// ORCID identifier, e.g. 0000-0002-1825-0097 (optional)
	Orcid string `json:"orcid,omitempty"`
}

// a person who contributed to the dataset in a non-author role
type Contributor struct {
	Name string `json:"name"`
	// a DataCite contributor type, e.g. "DataCollector", "Supervisor"
	Type        string `json:"type"`
	Affiliation string `json:"affiliation,omitempty"`
	Orcid       string `json:"orcid,omitempty"`
}

// a Zenodo community the deposition is submitted to
type Community struct {
	Identifier string `json:"identifier"`
}

// a single measurement parameter (e.g. "Voltage" -> "200 kV"), rendered into
// the deposition description as a row of an HTML table
type Parameter struct {
	Name  string
	Value string
}

// This type describes the metadata for a single deposition. Optional fields
// are plain fields with zero-value defaults rather than dynamically
// synthesized fallbacks.
type DepositionMetadata struct {
	Title       string
	Description string
	// the Zenodo upload type (see KnownUploadType)
	UploadType string
	// the Zenodo access right (see KnownAccessRight)
	AccessRight string
	// license identifier, e.g. "cc-by-4.0" (optional)
	License  string
	Creators []Creator
	// non-author contributors (optional)
	Contributors []Contributor
	Keywords     []string
	Communities  []Community
	// publication date in YYYY-MM-DD form
	PublicationDate string
	// free-form notes (optional)
	Notes string
	// funding that supported the dataset (optional)
	Funding []Funding
	// measurement parameters appended to the description as an HTML table
	Parameters []Parameter
}

// Returns a DepositionMetadata with the defaults used for electron
// diffraction datasets: a dataset deposition, openly accessible, submitted to
// the microED community, dated today.
func Default() DepositionMetadata {
	return DepositionMetadata{
		UploadType:      "dataset",
		AccessRight:     "open",
		Communities:     []Community{{Identifier: "microed"}},
		PublicationDate: time.Now().Format("2006-01-02"),
	}
}

// the fixed set of upload types accepted by Zenodo
var uploadTypes = map[string]struct{}{
	"publication":    {},
	"poster":         {},
	"presentation":   {},
	"dataset":        {},
	"image":          {},
	"video":          {},
	"software":       {},
	"lesson":         {},
	"physicalobject": {},
	"other":          {},
}

// the fixed set of access rights accepted by Zenodo
var accessRights = map[string]struct{}{
	"open":       {},
	"embargoed":  {},
	"restricted": {},
	"closed":     {},
}

// returns true if the given string is a valid Zenodo upload type
func KnownUploadType(uploadType string) bool {
	_, found := uploadTypes[uploadType]
	return found
}

// returns true if the given string is a valid Zenodo access right
func KnownAccessRight(accessRight string) bool {
	_, found := accessRights[accessRight]
	return found
}

// returns the valid upload types in sorted order (for error messages)
func UploadTypes() []string {
	return sortedKeys(uploadTypes)
}

// returns the valid access rights in sorted order (for error messages)
func AccessRights() []string {
	return sortedKeys(accessRights)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	for i := 1; i < len(keys); i++ { // insertion sort, the sets are tiny
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// the wire form of the metadata object expected by the Zenodo deposition API
type wireMetadata struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	UploadType      string        `json:"upload_type"`
	AccessRight     string        `json:"access_right"`
	PublicationDate string        `json:"publication_date"`
	Creators        []Creator     `json:"creators"`
	Contributors    []Contributor `json:"contributors,omitempty"`
	Communities     []Community   `json:"communities,omitempty"`
	License         string        `json:"license,omitempty"`
	Keywords        []string      `json:"keywords,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Grants          []grant       `json:"grants,omitempty"`
}

type grant struct {
	Id string `json:"id"`
}

// Serializes the metadata into the object Zenodo expects inside the
// {"metadata": ...} envelope. Measurement parameters are folded into the
// description as an HTML table, and funding entries become grant identifiers.
func (md DepositionMetadata) MarshalJSON() ([]byte, error) {
	wire := wireMetadata{
		Title:           md.Title,
		Description:     md.Description,
		UploadType:      md.UploadType,
		AccessRight:     md.AccessRight,
		PublicationDate: md.PublicationDate,
		Creators:        md.Creators,
		Contributors:    md.Contributors,
		Communities:     md.Communities,
		License:         md.License,
		Keywords:        md.Keywords,
		Notes:           md.Notes,
	}
	if table := ParameterTable(md.Parameters); table != "" {
		wire.Description = fmt.Sprintf("%s\n\n%s", wire.Description, table)
	}
	for _, funding := range md.Funding {
		wire.Grants = append(wire.Grants, grant{Id: funding.GrantId()})
	}
	return json.Marshal(wire)
}

// Renders the given measurement parameters as an HTML table suitable for a
// Zenodo description. Parameters with empty values are omitted; if none have
// values, the result is empty.
func ParameterTable(parameters []Parameter) string {
	var any bool
	for _, parameter := range parameters {
		if parameter.Value != "" {
			any = true
			break
		}
	}
	if !any {
		return ""
	}

	lines := []string{
		`<p>The table below summarizes the data collection parameters:</p>`,
		`<table border="1" style="border-collapse: collapse; width: 100%;">`,
		`<thead>`,
		`<tr><th style="padding: 8px; background-color: #f2f2f2;">Parameter</th>`,
		`<th style="padding: 8px; background-color: #f2f2f2;">Value</th></tr>`,
		`</thead>`,
		`<tbody>`,
	}
	for _, parameter := range parameters {
		if parameter.Value == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf(
			`<tr><td style="padding: 8px;">%s</td><td style="padding: 8px;">%s</td></tr>`,
			html.EscapeString(parameter.Name), html.EscapeString(parameter.Value)))
	}
	lines = append(lines, `</tbody>`, `</table>`)
	return strings.Join(lines, "\n")
}
