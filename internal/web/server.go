// Package web serves the task board as server-rendered HTML.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"taskboard/pkg/task"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the web front of the task board.
type Server struct {
	svc     task.Service
	locale  string
	wasmDir string
	log     *log.Logger
	router  *gin.Engine
}

// Options configures a Server.
type Options struct {
	// Locale is used when the browser sends no usable Accept-Language.
	Locale string
	// WasmDir holds the WebAssembly build of the Gio client, served at /app.
	// Empty disables the route.
	WasmDir string
	Logger  *log.Logger
}

// New creates a Server backed by svc.
func New(svc task.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	router := gin.New()

	s := &Server{
		svc:     svc,
		locale:  opts.Locale,
		wasmDir: opts.WasmDir,
		log:     logger.WithPrefix("web"),
		router:  router,
	}

	router.Use(gin.Recovery(), s.logRequests())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
	s.routes()
	return s
}

// ModeFor returns the gin mode for a log level. Gin's banner and route dump
// are only printed at debug level.
func ModeFor(level string) string {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("listening", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) routes() {
	s.router.GET("/", s.handleIndex)

	tasks := s.router.Group("/tasks")
	{
		tasks.POST("", s.handleCreate)
		tasks.POST("/:id", s.handleUpdate)
		tasks.GET("/:id/delete", s.handleDeleteConfirm)
		tasks.POST("/:id/delete", s.handleDelete)
	}

	s.router.GET("/health", s.handleHealth)

	// Gio WASM client
	if s.wasmDir != "" {
		s.router.Static("/app", s.wasmDir)
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}
