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
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/danielnrainer/ZEDD/settings"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage stored access tokens",
	}
	cmd.AddCommand(newTokenSetCmd())
	cmd.AddCommand(newTokenClearCmd())
	return cmd
}

func newTokenSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Store an access token (encrypted at rest)",
		Long: `Prompt for an access token and store it encrypted in the ZEDD
configuration directory. The --sandbox flag selects which repository the
token belongs to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if settingsDir == "" {
				return fmt.Errorf("no settings directory is available")
			}

			fmt.Fprintf(os.Stderr, "Access token for %s: ", repositoryName())
			entered, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}
			token := strings.TrimSpace(string(entered))
			if token == "" {
				return fmt.Errorf("no token entered")
			}

			tokens, err := settings.LoadTokens(settingsDir)
			if err != nil {
				return err
			}
			if sandboxFlag {
				tokens.Sandbox = token
			} else {
				tokens.Production = token
			}
			if err := settings.SaveTokens(settingsDir, tokens); err != nil {
				return err
			}
			fmt.Printf("Stored %s token.\n", repositoryName())
			return nil
		},
	}
}

func newTokenClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if settingsDir == "" {
				return fmt.Errorf("no settings directory is available")
			}
			tokens, err := settings.LoadTokens(settingsDir)
			if err != nil {
				return err
			}
			if sandboxFlag {
				tokens.Sandbox = ""
			} else {
				tokens.Production = ""
			}
			if err := settings.SaveTokens(settingsDir, tokens); err != nil {
				return err
			}
			fmt.Printf("Cleared %s token.\n", repositoryName())
			return nil
		},
	}
}
