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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielnrainer/ZEDD/validation"
)

var (
	validateMetadata metadataFlags
	validateDryRun   bool
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate files and metadata without uploading",
		Long: `Check that the given files are uploadable and that the assembled
metadata would be accepted, without creating a deposition. With --dry-run
the metadata is additionally checked against the repository itself by
creating and immediately deleting a test deposition.`,
		RunE: runValidate,
	}

	validateMetadata.register(cmd)
	cmd.Flags().BoolVar(&validateDryRun, "dry-run", false,
		"Also verify the metadata against the repository")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := false

	for _, path := range args {
		if ok, detail := validation.File(path); ok {
			fmt.Printf("%s: ok\n", path)
		} else {
			fmt.Printf("%s: %s\n", path, detail)
			failed = true
		}
	}

	md, err := validateMetadata.build()
	if err != nil {
		return err
	}
	if ok, problems := validation.Metadata(md); ok {
		fmt.Println("Metadata: ok")
	} else {
		fmt.Println("Metadata:")
		for _, problem := range problems {
			fmt.Printf("  - %s\n", problem)
		}
		failed = true
	}

	if validateDryRun && !failed {
		client, err := newRepositoryClient()
		if err != nil {
			return err
		}
		ok, detail, orphanId := client.TestMetadata(md)
		if ok {
			fmt.Printf("Repository (%s): metadata accepted\n", repositoryName())
		} else {
			fmt.Printf("Repository (%s): %s\n", repositoryName(), detail)
			failed = true
		}
		if orphanId != 0 {
			fmt.Printf("Warning: test deposition %d could not be deleted; "+
				"remove it manually\n", orphanId)
		}
	}

	if failed {
		return fmt.Errorf("validation failed")
	}
	return nil
}
