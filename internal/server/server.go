// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package server

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	sloggin "github.com/samber/slog-gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/tablefinder/internal/controller"
	"github.com/quixsi/tablefinder/internal/server/templates"
)

const sessionCookie = "tablefinder_session"

//go:embed all:static
var staticFS embed.FS

func NewServer(
	serviceName string,
	staticDir string,
	mapURL string,
	ctrl *controller.Controller,
) *Server {
	return &Server{
		logger:      slog.Default().WithGroup("http"),
		serviceName: serviceName,
		staticDir:   staticDir,
		mapURL:      mapURL,
		ctrl:        ctrl,
	}
}

type Server struct {
	serviceName string
	staticDir   string
	mapURL      string
	logger      *slog.Logger
	ctrl        *controller.Controller

	once sync.Once
	mux  *gin.Engine
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.once.Do(s.setup)
	s.mux.ServeHTTP(w, r)
}

func (s *Server) setup() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	mux := gin.New()

	middlewares := []gin.HandlerFunc{
		sloggin.NewWithConfig(s.logger,
			sloggin.Config{
				DefaultLevel:     slog.LevelInfo,
				ClientErrorLevel: slog.LevelWarn,
				ServerErrorLevel: slog.LevelError,
			},
		),
		gin.Recovery(), otelgin.Middleware(s.serviceName), slogAddTraceAttributes,
	}

	var staticDir fs.FS
	var err error
	switch {
	case s.staticDir != "":
		staticDir = os.DirFS(s.staticDir)
	default:
		staticDir, err = fs.Sub(staticFS, "static")
		if err != nil {
			panic(err)
		}
	}
	mux.StaticFS("/static", http.FS(staticDir))
	mux.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	lookupHandler := templates.NewLookupHandler(s.ctrl, s.mapURL)

	// the map does not need a session
	assets := mux.Group("/", middlewares...)
	assets.GET("/map", lookupHandler.Map)

	page := mux.Group("/", middlewares...)
	page.Use(withSession(s.logger, s.ctrl))
	page.GET("/", lookupHandler.Render)
	page.POST("/mode", lookupHandler.SelectMode)
	page.POST("/code/input", lookupHandler.NormalizeCode)
	page.POST("/search", lookupHandler.Submit)
	page.POST("/search/code", lookupHandler.SearchCode)
	page.POST("/search/name", lookupHandler.SearchName)

	mux.NoRoute(notFound)
	s.mux = mux
}

// withSession makes sure the request belongs to a stored session and
// (re)issues the cookie when a new one had to be created.
func withSession(logger *slog.Logger, ctrl *controller.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var span trace.Span
		ctx := c.Request.Context()
		ctx, span = tracer.Start(ctx, "Middleware.withSession")
		defer span.End()

		var id uuid.UUID
		if raw, err := c.Cookie(sessionCookie); err == nil {
			id, _ = uuid.Parse(raw)
		}

		session, err := ctrl.Session(ctx, id)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "could not resolve session", "error", err)
			c.String(http.StatusInternalServerError, "could not resolve session")
			c.Abort()
			return
		}
		if session.ID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, session.ID.String(), 0, "/", "", c.Request.TLS != nil, true)
		}
		c.Set(templates.SessionKey, session.ID)
		c.Next()
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"code": "PAGE_NOT_FOUND", "message": "Page not found"})
}

func slogAddTraceAttributes(c *gin.Context) {
	sloggin.AddCustomAttributes(c,
		slog.String("trace-id", trace.SpanFromContext(c.Request.Context()).SpanContext().TraceID().String()),
	)
	sloggin.AddCustomAttributes(c,
		slog.String("span-id", trace.SpanFromContext(c.Request.Context()).SpanContext().SpanID().String()),
	)
	c.Next()
}
