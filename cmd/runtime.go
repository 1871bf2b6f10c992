package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartest/internal/config"
	"github.com/abhisek/smartest/internal/dispatch"
	"github.com/abhisek/smartest/internal/grading"
	"github.com/abhisek/smartest/internal/logger"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/session"
	"github.com/abhisek/smartest/internal/similarity"
	"github.com/abhisek/smartest/internal/theory"
)

// runtime holds the services every command builds from the config.
type runtime struct {
	cfg       config.Config
	log       *logger.Logger
	oracle    *similarity.Oracle
	registry  *problemgen.Registry
	grader    *grading.Grader
	bank      *theory.Bank
	retriever *theory.Retriever
}

// loadRuntime reads --config, validates it and wires the grading and
// theory services. quiet drops log output, for the TUI.
func loadRuntime(cmd *cobra.Command, quiet bool) (*runtime, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logger.Nop()
	if !quiet {
		if log, err = logger.New(cfg.Log.Mode); err != nil {
			return nil, err
		}
	}

	oracle, err := similarity.NewFromConfig(cfg, log)
	if err != nil {
		return nil, err
	}
	topics, err := theory.Load(cfg.Theory.File)
	if err != nil {
		return nil, fmt.Errorf("load theory: %w", err)
	}
	bank, err := theory.LoadBank(cfg.Theory.File)
	if err != nil {
		return nil, fmt.Errorf("load theory bank: %w", err)
	}

	return &runtime{
		cfg:       cfg,
		log:       log,
		oracle:    oracle,
		registry:  problemgen.DefaultRegistry(),
		grader:    grading.New(oracle, log),
		bank:      bank,
		retriever: theory.NewRetriever(topics, oracle, log),
	}, nil
}

// openSessions opens the configured session store. The SQLite backend
// without a DSN uses the --db path.
func (rt *runtime) openSessions(ctx context.Context, cmd *cobra.Command) (session.Store, error) {
	var sqlitePath string
	if rt.cfg.Session.Backend == config.SessionSQLite && rt.cfg.Session.DSN == "" {
		p, err := resolveDBPath(cmd)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		sqlitePath = p
	}

	sessions, err := session.Open(ctx, rt.cfg.Session, sqlitePath, rt.log)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return sessions, nil
}

func (rt *runtime) chatService(sessions session.Store) *dispatch.Service {
	d := dispatch.New(rt.registry, rt.grader, rt.retriever, rt.log)
	return dispatch.NewService(d, sessions, rt.log)
}
