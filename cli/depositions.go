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
	"strconv"

	"github.com/spf13/cobra"
)

var (
	depositionsPage int
	depositionsSize int
)

func newDepositionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depositions",
		Short: "Manage your depositions",
	}
	cmd.AddCommand(newDepositionsListCmd())
	cmd.AddCommand(newDepositionsDeleteCmd())
	return cmd
}

func newDepositionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your depositions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newRepositoryClient()
			if err != nil {
				return err
			}
			depositions, err := client.ListDepositions(depositionsPage, depositionsSize)
			if err != nil {
				return err
			}
			if len(depositions) == 0 {
				fmt.Println("No depositions found.")
				return nil
			}
			for _, deposition := range depositions {
				state := deposition.State
				if !deposition.Submitted {
					state = "draft"
				}
				fmt.Printf("%-10d %-12s %s\n", deposition.Id, state, deposition.Title)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&depositionsPage, "page", 1, "Result page to fetch")
	cmd.Flags().IntVar(&depositionsSize, "size", 25, "Number of depositions per page")
	return cmd
}

func newDepositionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a draft deposition",
		Long: `Delete an unpublished deposition. Published depositions cannot be
deleted through the API.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid deposition id %q", args[0])
			}
			client, err := newRepositoryClient()
			if err != nil {
				return err
			}
			if err := client.DeleteDeposition(id); err != nil {
				return err
			}
			fmt.Printf("Deleted deposition %d\n", id)
			return nil
		},
	}
}
