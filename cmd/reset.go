package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartest/internal/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset <session-id>",
	Short: "Drop the pending problem of a chat session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd, true)
		if err != nil {
			return err
		}
		if rt.cfg.Session.Backend == config.SessionMemory {
			return errors.New("the memory session backend lives inside the running server; nothing to reset here")
		}

		sessions, err := rt.openSessions(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer sessions.Close()

		if err := sessions.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("reset session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s reset.\n", args[0])
		return nil
	},
}
