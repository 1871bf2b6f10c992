package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"

	"github.com/abhisek/smartest/internal/problemgen"
)

const wrapWidth = 78

var gradeCmd = &cobra.Command{
	Use:     "grade <domain>",
	Short:   "Grade an answer against a payload produced by generate --json",
	Example: `  smartest grade nash --payload nash.json --answer "1 2"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd, true)
		if err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("payload")
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		var p problemgen.Payload
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		if want := problemgen.Domain(args[0]); p.Domain != want {
			return fmt.Errorf("payload domain is %q, not %q", p.Domain, want)
		}
		if err := problemgen.Check(&p, &problemgen.StructuralValidator{}); err != nil {
			return fmt.Errorf("payload %q: %w", p.ID, err)
		}

		answer, _ := cmd.Flags().GetString("answer")
		res := rt.grader.Grade(cmd.Context(), &p, answer)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Score: %d%%\n", res.Score)
		if res.Method != "" {
			fmt.Fprintf(out, "Method: %s\n", res.Method)
		}
		fmt.Fprintf(out, "\n%s\n", wordwrap.WrapString(res.Feedback, wrapWidth))

		if show, _ := cmd.Flags().GetBool("solution"); show {
			sol := p.Recompute()
			fmt.Fprintf(out, "\nSolution:\n%s\n", wrapLines(sol.Explanation, wrapWidth))
		}
		return nil
	},
}

func init() {
	gradeCmd.Flags().String("payload", "", "Path to the payload JSON")
	gradeCmd.Flags().String("answer", "", "The answer to grade")
	gradeCmd.Flags().Bool("solution", false, "Also print the reference solution")
	_ = gradeCmd.MarkFlagRequired("payload")
	_ = gradeCmd.MarkFlagRequired("answer")
}

// wrapLines wraps each line on its own so tables and trees keep their
// layout.
func wrapLines(s string, width uint) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = wordwrap.WrapString(l, width)
	}
	return strings.Join(lines, "\n")
}
