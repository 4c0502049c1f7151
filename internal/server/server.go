// Package server exposes the dataset and its views over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KaramelBytes/cropinsights/internal/dataset"
)

// Config carries the limits and defaults the handlers need.
type Config struct {
	MaxUploadMB       int
	DefaultSheetIndex int
	ChartWidthIn      float64
	ChartHeightIn     float64
}

// Server is the HTTP front end over one dataset store.
type Server struct {
	router *gin.Engine
	store  *dataset.Store
	log    *zap.Logger
	cfg    Config
}

// New builds the router. A nil logger disables request logging.
func New(store *dataset.Store, logger *zap.Logger, cfg Config) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 32
	}
	s := &Server{
		router: gin.New(),
		store:  store,
		log:    logger,
		cfg:    cfg,
	}
	s.router.Use(gin.Recovery(), requestLogger(logger))
	s.RegisterRoutes(s.router.Group("/api"))
	return s
}

// RegisterRoutes registers the API routes on router.
func (s *Server) RegisterRoutes(router *gin.RouterGroup) {
	// dataset upload and metadata
	router.POST("/dataset", s.UploadDataset)
	router.GET("/dataset", s.GetDataset)
	router.DELETE("/dataset", s.ClearDataset)

	// views
	router.GET("/dashboard", s.Dashboard)
	router.GET("/insights", s.Insights)
	router.GET("/assistant", s.Assistant)
	router.GET("/map", s.Map)

	router.POST("/selection/:view", s.Select)
	router.GET("/charts/:kind", s.Chart)
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
