package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var activityLimit int

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.Flags().IntVar(&activityLimit, "limit", 20, "Maximum number of entries to show")
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent activity, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		entries := d.activity.Recent(activityLimit)

		if flagJSON {
			return json.NewEncoder(os.Stdout).Encode(entries)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tTYPE\tPROJECT\tMESSAGE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp, e.Type, e.ProjectSlug, e.Message)
		}
		return w.Flush()
	},
}
