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
	"time"

	"github.com/spf13/cobra"

	"github.com/danielnrainer/ZEDD/journal"
)

var historySince time.Duration

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past uploads recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dataDirectory()
			if dir == "" {
				return fmt.Errorf("no data directory is available for the upload journal")
			}
			if err := journal.Init(dir); err != nil {
				return err
			}
			defer journal.Finalize()

			now := time.Now()
			records, err := journal.Records(now.Add(-historySince), now)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No uploads recorded in the selected period.")
				return nil
			}
			for _, record := range records {
				line := fmt.Sprintf("%s  %-10s %-9s %-10d %s",
					record.StartTime.Local().Format("2006-01-02 15:04"),
					record.Repository, record.Status, record.DepositionId,
					record.FileName)
				if record.Published {
					line += "  " + record.RecordURL
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&historySince, "since", 30*24*time.Hour,
		"How far back to look (e.g. 72h)")
	return cmd
}
