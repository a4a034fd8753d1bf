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
)

func newCommunitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "communities [query]",
		Short: "Search Zenodo communities",
		Long: `Search Zenodo communities by name. With no query, lists communities
the repository considers most relevant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			client, err := newRepositoryClient()
			if err != nil {
				return err
			}
			communities, err := client.SearchCommunities(query)
			if err != nil {
				return err
			}
			if len(communities) == 0 {
				fmt.Println("No communities found.")
				return nil
			}
			for _, community := range communities {
				fmt.Printf("%-24s %s\n", community.Id, community.Title)
			}
			return nil
		},
	}
}
