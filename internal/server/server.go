// Package server wires the gin HTTP engine, fx lifecycle, and the
// simulator's route table together.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/llmsim/internal/log"
	"github.com/looplj/llmsim/internal/server/middleware"
)

// New builds the gin engine with the recovery middleware installed. Routes
// are added separately by SetupRoutes.
func New(config Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Trace())
	engine.Use(middleware.AccessLog())

	return &Server{Config: config, Engine: engine}
}

// Server wraps a gin.Engine with the http.Server that actually serves it.
type Server struct {
	*gin.Engine

	Config Config
	server *http.Server
}

// Run blocks serving HTTP until Shutdown is called or ListenAndServe
// otherwise fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)

	log.Info(context.Background(), "starting llmsim server", log.String("addr", addr))

	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.Engine,
		ReadTimeout: s.Config.ReadTimeout,
	}

	err := s.server.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}

	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	return s.server.Shutdown(ctx)
}
