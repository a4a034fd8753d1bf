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

package metadata

import (
	"fmt"
	"strings"
)

// This type describes a single source of funding for a dataset.
type Funding struct {
	// funder name (e.g. "European Commission") or funder DOI prefix
	// (e.g. "10.13039/501100000780")
	Funder string
	// award/grant number, e.g. "283595"
	AwardNumber string
	// award title (optional)
	AwardTitle string
	// award landing page (optional)
	AwardURL string
}

// a mapping from funder names recognized by Zenodo's grant vocabulary to
// their FundRef DOI prefixes
var funderPrefixes = map[string]string{
	"Australian Research Council":                        "10.13039/501100000923",
	"Austrian Science Fund":                              "10.13039/501100002428",
	"Deutsche Forschungsgemeinschaft":                    "10.13039/501100001659",
	"Engineering and Physical Sciences Research Council": "10.13039/501100000266",
	"European Commission":                                "10.13039/501100000780",
	"European Research Council":                          "10.13039/501100000781",
	"National Institutes of Health":                      "10.13039/100000002",
	"National Science Foundation":                        "10.13039/100000001",
	"Netherlands Organisation for Scientific Research":   "10.13039/501100003246",
	"Swiss National Science Foundation":                  "10.13039/501100001711",
	"UK Research and Innovation":                         "10.13039/100014013",
	"Wellcome Trust":                                     "10.13039/100004440",
}

// Serializes the funding entry to the grant identifier string Zenodo's legacy
// grants field understands: "<doi-prefix>::<award-number>" when the funder is
// given as a DOI prefix or is a recognized funder name, and the bare award
// number otherwise (Zenodo then resolves it against the default funder).
func (f Funding) GrantId() string {
	funder := strings.TrimSpace(f.Funder)
	number := strings.TrimSpace(f.AwardNumber)
	if strings.HasPrefix(funder, "10.") {
		return fmt.Sprintf("%s::%s", funder, number)
	}
	if prefix, found := funderPrefixes[funder]; found {
		return fmt.Sprintf("%s::%s", prefix, number)
	}
	return number
}
