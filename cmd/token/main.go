package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jpashop/backend/internal/infrastructure/auth"
	"github.com/jpashop/backend/internal/infrastructure/config"
	"github.com/jpashop/backend/internal/infrastructure/logger"
)

func main() {
	var (
		subject string
		scopes  string
		ttl     time.Duration
	)
	flag.StringVar(&subject, "subject", "", "Operator the token is issued to (required)")
	flag.StringVar(&scopes, "scopes", auth.ScopeWrite, "Comma-separated scopes")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (default: auth.token_ttl)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if subject == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Auth.Secret == "" {
		log.Fatal("auth.secret is empty; set JPASHOP_AUTH_SECRET")
	}
	if ttl > 0 {
		cfg.Auth.TokenTTL = ttl
	}

	token, expiresAt, err := auth.NewTokenService(cfg.Auth).IssueToken(subject, splitScopes(scopes)...)
	if err != nil {
		log.Fatal("Failed to issue token", zap.Error(err))
	}
	log.Info("Token issued",
		zap.String("subject", subject),
		zap.String("scopes", scopes),
		zap.Time("expires_at", expiresAt),
	)
	fmt.Println(token)
}

func splitScopes(s string) []string {
	var scopes []string
	for _, scope := range strings.Split(s, ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}
