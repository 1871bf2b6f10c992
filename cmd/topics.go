package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the theory topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd, true)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		topics := rt.bank.Topics()
		if len(topics) == 0 {
			fmt.Fprintln(out, "No topics loaded.")
			return nil
		}

		fmt.Fprintf(out, "%-32s  %-36s  %-12s  %s\n", "ID", "Name", "Difficulty", "Category")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, t := range topics {
			fmt.Fprintf(out, "%-32s  %-36s  %-12s  %s\n", t.ID, t.Name, t.Difficulty, t.Category)
		}
		return nil
	},
}
