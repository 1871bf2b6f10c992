package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartest/internal/logger"
	"github.com/abhisek/smartest/internal/server"
	"github.com/abhisek/smartest/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (generate, grade, theory, chat)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := loadRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.log.Sync()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			rt.cfg.Server.Addr = addr
		}

		sessions, err := rt.openSessions(ctx, cmd)
		if err != nil {
			return err
		}
		defer sessions.Close()
		go sweepSessions(ctx, sessions, rt.cfg.Session.TTL, rt.log)

		// Load the semantic backend early so the first request does not pay
		// for it. Failures fall back to lexical scoring.
		go func() {
			if err := rt.oracle.Warm(ctx); err != nil {
				rt.log.Warn("semantic similarity unavailable", "error", err)
			}
		}()

		srv := server.New(rt.cfg.Server, server.Deps{
			Registry: rt.registry,
			Bank:     rt.bank,
			Grader:   rt.grader,
			Oracle:   rt.oracle,
			Chat:     rt.chatService(sessions),
			Log:      rt.log,
		})
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}

// sweepSessions drops expired session states from stores that keep them
// until read. Redis and Mongo expire entries themselves.
func sweepSessions(ctx context.Context, sessions session.Store, ttl time.Duration, log *logger.Logger) {
	if ttl <= 0 {
		return
	}
	t := time.NewTicker(max(ttl/4, time.Minute))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		switch s := sessions.(type) {
		case *session.MemoryStore:
			if n := s.Sweep(); n > 0 {
				log.Debug("swept sessions", "count", n)
			}
		case *session.SQLStore:
			n, err := s.Prune(ctx)
			if err != nil {
				log.Warn("prune sessions failed", "error", err)
			} else if n > 0 {
				log.Debug("pruned sessions", "count", n)
			}
		default:
			return
		}
	}
}
