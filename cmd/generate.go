package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartest/internal/problemgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate <domain>",
	Short: "Generate a problem (nash, minmax, csp, strategy, theory)",
	Example: "  smartest generate nash --param rows=3 --param cols=3 --seed 7\n" +
		"  smartest generate theory --topic nash_equilibrium_basics --type multiple_choice --json",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd, true)
		if err != nil {
			return err
		}

		var seed *uint64
		if s, _ := cmd.Flags().GetString("seed"); s != "" {
			v, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid --seed %q: %w", s, err)
			}
			seed = &v
		}

		domain := problemgen.Domain(args[0])
		var p problemgen.Payload
		if domain == problemgen.DomainTheory {
			topic, _ := cmd.Flags().GetString("topic")
			qtype, _ := cmd.Flags().GetString("type")
			p, err = rt.bank.Generate(topic, qtype, seed)
		} else {
			params, _ := cmd.Flags().GetStringToString("param")
			p, err = rt.registry.Generate(domain, problemgen.Params(params), seed)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}
		fmt.Fprintf(out, "%s\n\n%s\n", p.ID, p.Text())
		return nil
	},
}

func init() {
	generateCmd.Flags().String("seed", "", "Seed for reproducible output")
	generateCmd.Flags().Bool("json", false, "Print the full payload as JSON")
	generateCmd.Flags().StringToString("param", nil, "Generator parameter, e.g. rows=3 (repeatable)")
	generateCmd.Flags().String("topic", "", "Theory topic id (theory only)")
	generateCmd.Flags().String("type", "", "Theory question type (theory only)")
}
