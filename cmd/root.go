package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/smartest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "smartest",
	Short: "Tutor for game theory, search and constraint problems",
	Long: "SmarTest generates AI exercises (Nash equilibria, MinMax/Alpha-Beta, CSP, search strategies, theory),\n" +
		"grades free-text answers and answers theory questions. Without a subcommand it opens the terminal UI.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SMARTEST_DB env var)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(telegramCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(nlpCmd)
	rootCmd.AddCommand(resetCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SMARTEST_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
