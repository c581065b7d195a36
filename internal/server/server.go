package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hannaddev/journal-tracker/internal/config"
	"github.com/hannaddev/journal-tracker/internal/server/middlewares"
)

const apiPrefix = "/api/v1"

// RegisterHandlerFn attaches API handlers to the /api/v1 router group.
type RegisterHandlerFn func(router *gin.RouterGroup)

type Server struct {
	cfg  *config.Configuration
	http *http.Server
	log  *zap.SugaredLogger
}

func NewServer(cfg *config.Configuration, registerHandlers RegisterHandlerFn) (*Server, error) {
	if cfg.Server.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middlewares.Logger())
	router.Use(ginzap.RecoveryWithZap(zap.L().Named("http"), true))

	registerHandlers(router.Group(apiPrefix))

	if cfg.Server.Mode == "prod" && cfg.Server.StaticsFolder != "" {
		registerStatics(router, cfg.Server.StaticsFolder)
	}

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler: router,
		},
		log: zap.S().Named("server"),
	}, nil
}

// registerStatics serves the UI bundle with an SPA fallback; unknown API
// routes still get a JSON 404.
func registerStatics(router *gin.Engine, folder string) {
	router.Static("/static", folder)
	router.StaticFile("/", filepath.Join(folder, "index.html"))
	router.StaticFile("/favicon.ico", filepath.Join(folder, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(filepath.Join(folder, "index.html"))
	})
}

// Start blocks serving requests until Stop or a listener error. TLS is used
// when a certificate pair is configured.
func (s *Server) Start(ctx context.Context) error {
	cert, key := s.cfg.Server.TLSCertFile, s.cfg.Server.TLSKeyFile
	if cert != "" && key != "" {
		s.log.Infow("starting HTTPS server", "addr", s.http.Addr)
		return s.http.ListenAndServeTLS(cert, key)
	}

	s.log.Infow("starting HTTP server", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Stop shuts the server down gracefully, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return s.http.Close()
	}
	return nil
}
