// Package httpapi exposes the assistant over HTTP: a chat endpoint, a
// per-conversation stats endpoint, and a small embedded web UI.
package httpapi

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sandevgo/skyline/internal/config"
	"github.com/sandevgo/skyline/internal/core"
	"github.com/sandevgo/skyline/internal/service/chat"
	"github.com/sandevgo/skyline/pkg/log"
)

//go:embed web
var webFS embed.FS

type Server struct {
	cfg          *config.ServerConfig
	srv          *http.Server
	orchestrator *chat.Orchestrator
	store        core.ConversationStore
}

func NewServer(
	ctx context.Context,
	cfg *config.ServerConfig,
	orchestrator *chat.Orchestrator,
	store core.ConversationStore,
) *Server {
	if !config.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:          cfg,
		orchestrator: orchestrator,
		store:        store,
	}

	router := gin.New()
	router.Use(requestLogger(ctx), recovery(ctx))
	s.routes(router)

	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes(router *gin.Engine) {
	router.POST("/api/chat", s.handleChat)
	router.GET("/api/conversations/:id/stats", s.handleStats)
	router.GET("/healthz", s.handleHealthz)

	web, err := fs.Sub(webFS, "web")
	if err == nil {
		router.StaticFileFS("/", "index.html", http.FS(web))
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("http server listening")
	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests. The parent context is already
// cancelled when this runs, so the drain gets its own deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("http server shutting down")
	drainCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(drainCtx)
}
