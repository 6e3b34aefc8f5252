// internal/api/server.go

// Package api serves synchronous, non-persisting previews of the scoring
// engines over fasthttp.
package api

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/common/validation"
)

const (
	maxBodySize      = 1 << 20
	readTimeout      = 10 * time.Second
	writeTimeout     = 10 * time.Second
	checklistsPrefix = "/v1/checklists/"
)

type Server struct {
	validator *validation.Validator
	logger    logger.Logger
	server    *fasthttp.Server
}

func NewServer(v *validation.Validator, log logger.Logger) *Server {
	s := &Server{
		validator: v,
		logger:    log.WithFields(map[string]interface{}{"component": "api"}),
	}
	s.server = &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "arthverse-preview",
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		MaxRequestBodySize: maxBodySize,
	}
	return s
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("preview api listening", map[string]interface{}{"addr": addr})
	return s.server.ListenAndServe(addr)
}

func (s *Server) Serve(ln net.Listener) error {
	return s.server.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.ShutdownWithContext(ctx)
}

// Handler routes a request.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := string(ctx.Path())

	switch {
	case path == "/healthz":
		s.only(ctx, fasthttp.MethodGet, s.health)
	case path == "/v1/health-score/preview":
		s.only(ctx, fasthttp.MethodPost, s.previewHealthScore)
	case path == "/v1/protection-gap/preview":
		s.only(ctx, fasthttp.MethodPost, s.previewProtectionGap)
	case strings.HasPrefix(path, checklistsPrefix):
		s.only(ctx, fasthttp.MethodGet, func(ctx *fasthttp.RequestCtx) {
			s.checklist(ctx, strings.TrimPrefix(path, checklistsPrefix))
		})
	default:
		writeError(ctx, fasthttp.StatusNotFound, "NOT_FOUND", "no route for "+path, "")
	}

	s.logger.Debug("request served", map[string]interface{}{
		"method":     string(ctx.Method()),
		"path":       path,
		"status":     ctx.Response.StatusCode(),
		"durationMs": time.Since(start).Milliseconds(),
	})
}

func (s *Server) only(ctx *fasthttp.RequestCtx, method string, next fasthttp.RequestHandler) {
	if string(ctx.Method()) != method {
		ctx.Response.Header.Set("Allow", method)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use "+method, "")
		return
	}
	next(ctx)
}
