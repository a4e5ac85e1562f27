// Package api exposes the node store over HTTP. It is a thin adapter: every
// handler translates one store operation and maps the store's error kinds
// onto status codes (not found 404, invalid argument 400, conflict 409).
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prati1/file-tree-render/cache"
	"github.com/prati1/file-tree-render/config"
	"github.com/prati1/file-tree-render/internal/util"
	"github.com/prati1/file-tree-render/store"
)

// Server wires the store (and optional read-through cache) into a gin router.
type Server struct {
	cfg    *config.Config
	store  *store.Store
	cache  *cache.Cache // nil when caching is disabled
	engine *gin.Engine
	logger util.Logger
}

// NewServer builds the router. cache may be nil; node reads then always hit
// the store directly.
func NewServer(cfg *config.Config, s *store.Store, c *cache.Cache) *Server {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = util.NewComponentWriter("gin", util.DebugLevel)

	srv := &Server{
		cfg:    cfg,
		store:  s,
		cache:  c,
		engine: gin.New(),
		logger: util.GetLogger("api"),
	}
	srv.engine.Use(gin.Recovery())
	srv.routes()
	return srv
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/nodes", s.getNode) // root
	r.GET("/nodes/:id", s.getNode)
	r.GET("/search", s.search)
	r.POST("/nodes/:id/files", s.createFile)
	r.POST("/nodes/:id/dirs", s.createDir)
	r.PATCH("/nodes/:id", s.rename)
	r.DELETE("/nodes/:id", s.deleteNode)
	r.GET("/snapshot", s.snapshot)
	r.POST("/reset", s.reset)
	r.GET("/stats", s.stats)
	r.GET("/events", s.events)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("HTTP adapter listening")
	return s.engine.Run(s.cfg.ListenAddr)
}

// statusFor maps store error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortErr(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
