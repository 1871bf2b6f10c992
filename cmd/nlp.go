package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var nlpCmd = &cobra.Command{
	Use:   "nlp",
	Short: "Inspect the similarity oracle",
}

var nlpStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the similarity backend and its state",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd, true)
		if err != nil {
			return err
		}
		if load, _ := cmd.Flags().GetBool("load"); load {
			// The load error is reported through the status below.
			_ = rt.oracle.Warm(context.Background())
		}

		st := rt.oracle.Status()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Backend:     %s\n", st.Backend)
		fmt.Fprintf(out, "State:       %s\n", st.State)
		if st.Model != "" {
			fmt.Fprintf(out, "Model:       %s\n", st.Model)
		}
		if st.LastError != "" {
			fmt.Fprintf(out, "Last error:  %s\n", st.LastError)
		}
		fmt.Fprintf(out, "Method:      %s\n", st.Method)
		fmt.Fprintf(out, "Fuzzy:       %s\n", availability(st.FuzzyAvailable))
		fmt.Fprintf(out, "Positional:  %s\n", availability(st.PositionalAvailable))
		fmt.Fprintf(out, "Timeout:     %s\n", st.Timeout)
		return nil
	},
}

var nlpSimCmd = &cobra.Command{
	Use:   "sim <a> <b>",
	Short: "Score the similarity of two texts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd, true)
		if err != nil {
			return err
		}
		score := rt.oracle.Compare(cmd.Context(), args[0], args[1])
		fmt.Fprintf(cmd.OutOrStdout(), "%.3f (%s)\n", score.Value, score.Method)
		return nil
	},
}

func init() {
	nlpStatusCmd.Flags().Bool("load", false, "Load the semantic backend before reporting")
	nlpCmd.AddCommand(nlpStatusCmd)
	nlpCmd.AddCommand(nlpSimCmd)
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "unavailable"
}
