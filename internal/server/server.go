// Package server exposes generation, grading, theory and chat over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/smartest/internal/config"
	"github.com/abhisek/smartest/internal/dispatch"
	"github.com/abhisek/smartest/internal/grading"
	"github.com/abhisek/smartest/internal/logger"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/similarity"
	"github.com/abhisek/smartest/internal/theory"
)

const shutdownTimeout = 10 * time.Second

// StatusReporter reports the state of the similarity backend.
type StatusReporter interface {
	Status() similarity.Status
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Registry *problemgen.Registry
	Bank     *theory.Bank
	Grader   *grading.Grader
	Oracle   StatusReporter
	Chat     *dispatch.Service
	Log      *logger.Logger
}

type Server struct {
	Engine *gin.Engine

	cfg  config.ServerConfig
	deps Deps
	log  *logger.Logger
}

// New builds the gin engine and registers every route.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Registry == nil {
		deps.Registry = problemgen.DefaultRegistry()
	}
	if deps.Grader == nil {
		deps.Grader = grading.New(nil, deps.Log)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	s := &Server{Engine: engine, cfg: cfg, deps: deps, log: deps.Log.With("component", "http")}

	engine.Use(gin.Recovery())
	engine.Use(requestLogger(s.log))
	engine.Use(corsMiddleware(cfg.AllowOrigins))

	engine.GET("/health", s.health)

	for _, d := range []problemgen.Domain{problemgen.DomainNash, problemgen.DomainMinMax, problemgen.DomainCSP, problemgen.DomainStrategy} {
		g := engine.Group("/" + string(d))
		g.GET("/generate", s.generate(d))
		g.POST("/grade", s.grade(d))
	}

	th := engine.Group("/theory")
	{
		th.GET("/topics", s.theoryTopics)
		th.GET("/generate", s.theoryGenerate)
		th.POST("/grade", s.grade(problemgen.DomainTheory))
	}

	engine.GET("/nlp/status", s.nlpStatus)

	chat := engine.Group("/chat", sessionID())
	{
		chat.POST("/ask", s.chatAsk)
		chat.GET("/ws", s.chatWS)
	}

	engine.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not_found", errors.New("no such route"))
	})
	return s
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
