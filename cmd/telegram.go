package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartest/internal/telegram"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the tutor as a long-polling Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := loadRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.log.Sync()

		token := rt.cfg.Telegram.Token
		if t, _ := cmd.Flags().GetString("token"); t != "" {
			token = t
		}
		if token == "" {
			return errors.New("telegram token missing: set telegram.token, SMARTEST_TELEGRAM_TOKEN or --token")
		}

		sessions, err := rt.openSessions(ctx, cmd)
		if err != nil {
			return err
		}
		defer sessions.Close()
		go sweepSessions(ctx, sessions, rt.cfg.Session.TTL, rt.log)

		api, err := telegram.Connect(token)
		if err != nil {
			return err
		}
		rt.log.Info("telegram bot authorized", "username", api.Self.UserName)

		bot := telegram.New(api, rt.chatService(sessions), rt.log)
		if rt.cfg.Telegram.PollTimeout > 0 {
			bot.PollTimeout = rt.cfg.Telegram.PollTimeout
		}
		return bot.Run(ctx)
	},
}

func init() {
	telegramCmd.Flags().String("token", "", "Bot token (overrides telegram.token)")
}
