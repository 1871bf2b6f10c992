package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/smartest/internal/app"
	"github.com/abhisek/smartest/internal/scoreboard"
	"github.com/abhisek/smartest/internal/screens/home"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the terminal UI: tutor chat, practice and stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp builds the services and launches the TUI. Pending chat problems
// go to the configured session store; the scoreboard lives in memory.
func runApp(cmd *cobra.Command) error {
	rt, err := loadRuntime(cmd, true)
	if err != nil {
		return err
	}

	sessions, err := rt.openSessions(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer sessions.Close()

	return app.Run(app.Options{
		Home: home.Deps{
			Chat:      rt.chatService(sessions),
			Registry:  rt.registry,
			Grader:    rt.grader,
			Bank:      rt.bank,
			Board:     scoreboard.New(),
			SessionID: "tui:" + uuid.NewString(),
		},
		Status: string(rt.oracle.Status().Method),
	})
}
