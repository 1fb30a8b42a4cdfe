// Package server exposes the benefit cost engine over HTTP. The engine is
// immutable after construction, so one instance serves every request.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rgehrsitz/benefitcost/internal/calculation"
	"github.com/rgehrsitz/benefitcost/internal/compare"
	"github.com/valyala/fasthttp"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// Server wires the engine into fasthttp handlers
type Server struct {
	Engine  *calculation.Engine
	Compare *compare.CompareEngine
	Logger  *slog.Logger
	Version string

	srv *fasthttp.Server
}

// New creates a server for an engine. A nil logger uses slog.Default().
func New(engine *calculation.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Engine:  engine,
		Compare: compare.NewCompareEngine(engine),
		Logger:  logger,
		Version: "dev",
	}
}

// Handler returns the request router
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.withRequestID(func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/healthz":
			s.requireMethod(ctx, fasthttp.MethodGet, s.handleHealth)
		case "/v1/projections":
			s.requireMethod(ctx, fasthttp.MethodPost, s.handleProjections)
		case "/v1/compare":
			s.requireMethod(ctx, fasthttp.MethodPost, s.handleCompare)
		case "/v1/tax-savings":
			s.requireMethod(ctx, fasthttp.MethodPost, s.handleTaxSavings)
		default:
			writeError(ctx, fasthttp.StatusNotFound, "not found: "+string(ctx.Path()))
		}
	})
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv = &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "benefitcost",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.Logger.Info("shutting down server")
		if err := s.srv.Shutdown(); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// ListenAndServe listens on addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.Logger.Info("server listening", "addr", ln.Addr().String())
	err = s.Serve(ctx, ln)
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) withRequestID(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id := string(ctx.Request.Header.Peek(RequestIDHeader))
		if id == "" {
			id = uuid.New().String()
		}
		ctx.SetUserValue("requestID", id)
		ctx.Response.Header.Set(RequestIDHeader, id)

		start := time.Now()
		next(ctx)
		s.Logger.Debug("request",
			"id", id,
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", ctx.Response.StatusCode(),
			"duration", time.Since(start))
	}
}

func (s *Server) requireMethod(ctx *fasthttp.RequestCtx, method string, h fasthttp.RequestHandler) {
	if string(ctx.Method()) != method {
		ctx.Response.Header.Set("Allow", method)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h(ctx)
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to encode response: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	id, _ := ctx.UserValue("requestID").(string)
	data, _ := json.Marshal(ErrorResponse{Status: status, Message: message, RequestID: id})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func decodeBody(ctx *fasthttp.RequestCtx, v any) bool {
	body := ctx.PostBody()
	if len(body) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "request body is required")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
