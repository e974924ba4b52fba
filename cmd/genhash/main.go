package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"mintme-bridge/internal/auth"
	"mintme-bridge/internal/config"
)

func main() {
	fs := flag.NewFlagSet("genhash", flag.ContinueOnError)
	token := fs.String("token", "", "internal token to hash (random when empty)")
	subject := fs.String("jwt-subject", "", "also print a JWT for this subject, signed with JWT_SECRET")
	ttl := fs.Duration("jwt-ttl", auth.DefaultTTL, "JWT lifetime")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if *token == "" {
		t, err := auth.NewInternalToken()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		*token = t
	}
	hash, err := auth.HashToken(*token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Token: %s\nINTERNAL_TOKEN_HASH=%s\n", *token, hash)

	if *subject == "" {
		return
	}
	if err := config.LoadEnvFile(os.Getenv("ENV_FILE")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrMissingEnv) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	jwtToken, err := auth.NewService(cfg.JWTIssuer, []byte(cfg.JWTSecret), *ttl, "").IssueToken(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("JWT (%s, expires %s): %s\n", *subject, time.Now().Add(*ttl).UTC().Format(time.RFC3339), jwtToken)
}
