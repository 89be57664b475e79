// Package server exposes the normalizer and transcription pipeline over a
// local HTTP API, so editors and scripts can use them without a microphone.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"voice-coding/internal/domain"
)

const (
	maxAudioBytes = 10 * 1024 * 1024
	maxTextBytes  = 64 * 1024
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (domain.Dictation, error)
}

type Server struct {
	addr        string
	authToken   string
	transcriber Transcriber
	normalize   func(string) string
	limiter     *RateLimiter
	logger      *slog.Logger
	mux         *http.ServeMux

	mu      sync.Mutex
	server  *http.Server
	running bool
}

type Options struct {
	Addr      string
	AuthToken string
	// RateLimit is requests per minute per client on the POST routes; zero
	// disables limiting.
	RateLimit int
}

func New(opts Options, transcriber Transcriber, normalize func(string) string, logger *slog.Logger) *Server {
	s := &Server{
		addr:        opts.Addr,
		authToken:   opts.AuthToken,
		transcriber: transcriber,
		normalize:   normalize,
		limiter:     NewRateLimiter(opts.RateLimit, time.Minute),
		logger:      logger,
		mux:         http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /normalize", s.limiter.Middleware(s.authorized(s.handleNormalize)))
	s.mux.HandleFunc("POST /transcribe", s.limiter.Middleware(s.authorized(s.handleTranscribe)))
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start binds the listen address and serves in the background until Stop is
// called or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	s.server = &http.Server{
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	srv := s.server

	go func() {
		s.logger.Info("HTTP server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		if err := s.Stop(); err != nil {
			s.logger.Warn("stopping HTTP server", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
		if err := s.server.Close(); err != nil {
			return fmt.Errorf("closing server: %w", err)
		}
	}
	return nil
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				token = bearer
			}
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.logger.Warn("unauthorized request", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTextBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusRequestEntityTooLarge)
		return
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		http.Error(w, "empty text", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, s.normalize(text))
}

type transcribeResponse struct {
	Raw     string `json:"raw"`
	Text    string `json:"text"`
	Skipped string `json:"skipped,omitempty"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusRequestEntityTooLarge)
		return
	}
	if len(data) == 0 {
		http.Error(w, "empty audio", http.StatusBadRequest)
		return
	}

	s.logger.Info("received audio via HTTP", "bytes", len(data))

	result, err := s.transcriber.Transcribe(r.Context(), data)
	if err != nil {
		s.logger.Error("transcribing upload", "error", err)
		http.Error(w, "transcription failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, transcribeResponse{
		Raw:     result.Raw,
		Text:    result.Text,
		Skipped: string(result.Skipped),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
