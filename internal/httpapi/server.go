// Package httpapi exposes the chat engine over HTTP. Chat turns stream
// Server-Sent Events; thread management is plain JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mabhisheksingh/AgenticAI/internal/ai"
)

const userIDHeader = "X-User-Id"

type Options struct {
	Logger *slog.Logger
	Addr   string

	Service *ai.Service
}

type Server struct {
	log *slog.Logger

	addr string
	svc  *ai.Service

	ln  net.Listener
	srv *http.Server
}

func New(opts Options) (*Server, error) {
	if opts.Service == nil {
		return nil, errors.New("missing Service")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, errors.New("missing Addr")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return &Server{
		log:  logger,
		addr: addr,
		svc:  opts.Service,
	}, nil
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if s.srv != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.ln = ln

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server stopped", "error", err)
		}
	}()

	s.log.Info("http api listening", "addr", s.addr)
	return nil
}

func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(ctx)
	}
	if s.ln != nil {
		_ = s.ln.Close()
	}
	s.srv = nil
	s.ln = nil
	return nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Handler builds the route table. Exposed so tests can drive the API via
// httptest without a real listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/agent/chat", s.handleChat)
	mux.HandleFunc("GET /v1/user/threads", s.handleListThreads)
	mux.HandleFunc("GET /v1/user/threads/{threadID}", s.handleGetThread)
	mux.HandleFunc("PATCH /v1/user/threads/{threadID}", s.handleRenameThread)
	mux.HandleFunc("DELETE /v1/user/threads/{threadID}", s.handleDeleteThread)
	mux.HandleFunc("GET /v1/admin/sessions", s.handleListSessions)
	mux.HandleFunc("DELETE /v1/admin/sessions/{sessionID}", s.handleDeleteSession)
	mux.HandleFunc("/", s.handleNotFound)
	return mux
}

type errorResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Error: msg})
}

func sessionID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userIDHeader))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if s == nil || w == nil || r == nil {
		return
	}
	writeError(w, http.StatusNotFound, "not found")
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s == nil || w == nil || r == nil {
		return
	}
	session := sessionID(r)
	if session == "" {
		writeError(w, http.StatusBadRequest, "missing X-User-Id header")
		return
	}

	var req ai.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	turn, err := s.svc.PrepareTurn(r.Context(), session, req)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ai.ErrThreadNotFound):
			writeError(w, http.StatusNotFound, "thread not found")
		default:
			s.log.Error("prepare turn failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	stream := ai.NewTurnStream()
	// Detach the turn from the request context so a client disconnect
	// does not abort in-flight model calls or state persistence.
	go turn.Run(context.WithoutCancel(r.Context()), stream)

	disconnected := r.Context().Done()
	for {
		select {
		case <-disconnected:
			stream.Abandon()
			return
		case frame, ok := <-stream.Frames():
			if !ok {
				fmt.Fprint(w, "data: [DONE]\n\n")
				flusher.Flush()
				return
			}
			b, err := json.Marshal(frame)
			if err != nil {
				s.log.Error("marshal stream frame failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	if s == nil || w == nil || r == nil {
		return
	}
	session := sessionID(r)
	if session == "" {
		writeError(w, http.StatusBadRequest, "missing X-User-Id header")
		return
	}
	threads, err := s.svc.ListThreads(r.Context(), session)
	if err != nil {
		s.log.Error("list threads failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"threads": threads})
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	if s == nil || w == nil || r == nil {
		return
	}
	session := sessionID(r)
	if session == "" {
		writeError(w, http.StatusBadRequest, "missing X-User-Id header")
		return
	}
	view, err := s.svc.GetThreadView(r.Context(), session, r.PathValue("threadID"))
	if err != nil {
		if errors.Is(err, ai.ErrThreadNotFound) {
			writeError(w, http.StatusNotFound, "thread not found")
			return
		}
		s.log.Error("get thread failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type renameReq struct {
	ThreadLabel string `json:"threadLabel"`
}

func (s *Server) handleRenameThread(w http.ResponseWriter, r *http.Request) {
	if s == nil || w == nil || r == nil {
		return
	}
	session := sessionID(r)
	if session == "" {
		writeError(w, http.StatusBadRequest, "missing X-User-Id header")
		return
	}
	var req renameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	affected, err := s.svc.RenameThread(r.Context(), session, r.PathValue("threadID"), req.ThreadLabel)
	if err != nil {
		if errors.Is(err, ai.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error("rename thread failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"affected": affected})
}

func (s *Server) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
	if s == nil || w == nil || r == nil {
		return
	}
	session := sessionID(r)
	if session == "" {
		writeError(w, http.StatusBadRequest, "missing X-User-Id header")
		return
	}
	affected, err := s.svc.DeleteThread(r.Context(), session, r.PathValue("threadID"))
	if err != nil {
		s.log.Error("delete thread failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"affected": affected})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if s == nil || w == nil || r == nil {
		return
	}
	sessions, err := s.svc.ListSessions(r.Context())
	if err != nil {
		s.log.Error("list sessions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if s == nil || w == nil || r == nil {
		return
	}
	affected, err := s.svc.DeleteSession(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		s.log.Error("delete session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"affected": affected})
}
