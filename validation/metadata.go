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
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/danielnrainer/ZEDD/metadata"
)

// ORCID identifiers are four groups of four digits; the final character is a
// checksum digit that may be "X"
var orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

const (
	minTitleLength       = 3
	maxTitleLength       = 250
	minDescriptionLength = 10
)

// Validates deposition metadata, returning true and an empty list if it is
// acceptable, or false and a message for every violation found. Unlike the
// file validator, this aggregates all problems so a user sees everything in
// one pass. It has no side effects and is safe to call repeatedly.
func Metadata(md metadata.DepositionMetadata) (bool, []string) {
	var errors []string

	title := strings.TrimSpace(md.Title)
	if title == "" {
		errors = append(errors, "Title cannot be empty")
	} else if len(title) < minTitleLength {
		errors = append(errors, fmt.Sprintf("Title must be at least %d characters long", minTitleLength))
	} else if len(md.Title) > maxTitleLength {
		errors = append(errors, fmt.Sprintf("Title cannot exceed %d characters", maxTitleLength))
	}

	description := strings.TrimSpace(md.Description)
	if description == "" {
		errors = append(errors, "Description cannot be empty")
	} else if len(description) < minDescriptionLength {
		errors = append(errors, fmt.Sprintf("Description must be at least %d characters long", minDescriptionLength))
	}

	if len(md.Creators) == 0 {
		errors = append(errors, "At least one creator is required")
	}
	for i, creator := range md.Creators {
		if strings.TrimSpace(creator.Name) == "" {
			errors = append(errors, fmt.Sprintf("Creator %d name cannot be empty", i+1))
		}
		if creator.Orcid != "" && !ValidOrcid(creator.Orcid) {
			errors = append(errors, fmt.Sprintf("Creator %d has invalid ORCID format", i+1))
		}
	}
	for i, contributor := range md.Contributors {
		if strings.TrimSpace(contributor.Name) == "" {
			errors = append(errors, fmt.Sprintf("Contributor %d name cannot be empty", i+1))
		}
		if contributor.Orcid != "" && !ValidOrcid(contributor.Orcid) {
			errors = append(errors, fmt.Sprintf("Contributor %d has invalid ORCID format", i+1))
		}
	}

	if !metadata.KnownUploadType(md.UploadType) {
		errors = append(errors, fmt.Sprintf("Invalid upload type '%s'. Must be one of: %s",
			md.UploadType, strings.Join(metadata.UploadTypes(), ", ")))
	}
	if !metadata.KnownAccessRight(md.AccessRight) {
		errors = append(errors, fmt.Sprintf("Invalid access right '%s'. Must be one of: %s",
			md.AccessRight, strings.Join(metadata.AccessRights(), ", ")))
	}

	for i, keyword := range md.Keywords {
		if strings.TrimSpace(keyword) == "" {
			errors = append(errors, fmt.Sprintf("Keyword %d cannot be empty", i+1))
		}
	}
	for i, community := range md.Communities {
		if strings.TrimSpace(community.Identifier) == "" {
			errors = append(errors, fmt.Sprintf("Community %d identifier cannot be empty", i+1))
		}
	}

	if md.PublicationDate != "" {
		if _, err := time.Parse("2006-01-02", md.PublicationDate); err != nil {
			errors = append(errors, fmt.Sprintf(
				"Invalid publication date format '%s'. Expected format: YYYY-MM-DD", md.PublicationDate))
		}
	}

	return len(errors) == 0, errors
}

// returns true if the given string is a well-formed ORCID identifier
func ValidOrcid(orcid string) bool {
	return orcidPattern.MatchString(orcid)
}
