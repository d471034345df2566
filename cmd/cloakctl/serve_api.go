package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cloakproject/cloak/internal/api"
	"github.com/cloakproject/cloak/internal/config"
	"github.com/cloakproject/cloak/internal/logging"
)

func runServeAPI(args []string) int {
	fs := flag.NewFlagSet("serve api", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addrFlag := fs.String("addr", "", "listen address (defaults to the configured api_addr)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "serve api takes no positional arguments")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	addr := strings.TrimSpace(*addrFlag)
	if addr == "" {
		addr = cfg.APIAddr
	}
	token := strings.TrimSpace(cfg.AuthToken)
	if token == "" {
		fmt.Fprintln(os.Stderr, "auth_token is not configured; set it in cloak.yml or via CLOAK_AUTH_TOKEN")
		return 1
	}

	logger := auditLogger()
	defer logger.Close()

	// The JWT signing secret is derived from the management token so a
	// restart with the same token keeps existing sessions valid.
	secret := sha256.Sum256([]byte("cloak-jwt:" + token))

	server, err := api.NewServer(api.Config{
		Addr:            addr,
		StaticToken:     token,
		JWTSecret:       secret[:],
		JWTIssuer:       "cloak-api",
		DefaultTokenTTL: time.Hour,
		RecipesDir:      cfg.RecipesDir,
		Logger:          logger.WithComponent("api"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "configure api server: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stdout, "serving cloak API on %s\n", addr)
	_ = logger.Emit(logging.AuditEvent{
		EventType: logging.EventAPIRequest,
		Decision:  logging.DecisionInfo,
		Metadata:  map[string]any{"addr": addr, "state": "started"},
	})

	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "api server: %v\n", err)
		return 1
	}
	return 0
}
