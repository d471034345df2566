// Package api exposes the cloak transform engine over a small REST surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cloakproject/cloak/internal/logging"
	"github.com/cloakproject/cloak/internal/transform"
)

// Config configures the REST API server.
type Config struct {
	Addr            string
	StaticToken     string
	JWTSecret       []byte
	JWTIssuer       string
	DefaultTokenTTL time.Duration
	RecipesDir      string
	Logger          *logging.AuditLogger
}

// Server exposes REST endpoints for running transforms, detection, and
// recipe management.
type Server struct {
	cfg           Config
	httpServer    *http.Server
	authenticator *Authenticator
	recipeManager *transform.RecipeManager
	staticToken   string
	logger        *logging.AuditLogger
}

// NewServer constructs a REST API server using the provided configuration.
func NewServer(cfg Config) (*Server, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("api address must be provided")
	}
	staticToken := strings.TrimSpace(cfg.StaticToken)
	if staticToken == "" {
		return nil, errors.New("static management token is required")
	}
	auth, err := NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, cfg.DefaultTokenTTL)
	if err != nil {
		return nil, err
	}
	recipeManager := transform.NewRecipeManager(cfg.RecipesDir)
	if err := recipeManager.LoadRecipes(); err != nil {
		return nil, err
	}
	return &Server{
		cfg:           cfg,
		authenticator: auth,
		recipeManager: recipeManager,
		staticToken:   staticToken,
		logger:        cfg.Logger,
	}, nil
}

// Handler returns the configured HTTP handler. Useful for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/api/v1/api-tokens", http.HandlerFunc(s.handleTokenIssue))
	mux.Handle("/api/v1/transform", s.requireJWT(http.HandlerFunc(s.handleTransform)))
	mux.Handle("/api/v1/pipeline", s.requireJWT(http.HandlerFunc(s.handlePipeline)))
	mux.Handle("/api/v1/detect", s.requireJWT(http.HandlerFunc(s.handleDetect)))
	mux.Handle("/api/v1/smart-decode", s.requireJWT(http.HandlerFunc(s.handleSmartDecode)))
	mux.Handle("/api/v1/operations", s.requireJWT(http.HandlerFunc(s.handleListOperations)))
	mux.Handle("/api/v1/recipes", s.requireJWT(http.HandlerFunc(s.handleRecipes)))
	return mux
}

// Run starts the HTTP server and blocks until the provided context is
// cancelled or a fatal error occurs.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleTokenIssue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if token := strings.TrimSpace(r.Header.Get("X-Cloak-Token")); token != s.staticToken {
		s.audit(logging.AuditEvent{
			EventType: logging.EventAPIDenied,
			Decision:  logging.DecisionDeny,
			Reason:    "static token mismatch",
		})
		http.Error(w, "unauthorised", http.StatusUnauthorized)
		return
	}
	var req struct {
		Subject    string  `json:"subject"`
		Audience   string  `json:"audience"`
		TTLSeconds float64 `json:"ttl_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	ttl := time.Duration(req.TTLSeconds * float64(time.Second))
	token, expires, err := s.authenticator.Mint(req.Subject, req.Audience, ttl)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.audit(logging.AuditEvent{
		EventType: logging.EventAPITokenIssued,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"subject": req.Subject},
	})
	resp := map[string]any{
		"token":      token,
		"expires_at": expires.UTC().Format(time.RFC3339),
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requireJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(authHeader[7:])
		if _, err := s.authenticator.Validate(token); err != nil {
			s.audit(logging.AuditEvent{
				EventType: logging.EventAPIDenied,
				Decision:  logging.DecisionDeny,
				Reason:    err.Error(),
			})
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) audit(event logging.AuditEvent) {
	if s.logger == nil {
		return
	}
	_ = s.logger.Emit(event)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.audit(logging.AuditEvent{
			EventType: logging.EventAPIRequest,
			Decision:  logging.DecisionDeny,
			Reason:    err.Error(),
		})
	}
}
