package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/unireg/registrar/internal/config"
	"github.com/unireg/registrar/internal/logger"
	"github.com/unireg/registrar/internal/service"
	"golang.org/x/term"
)

func main() {
	role := flag.String("role", string(service.RoleInstructor), "Staff role: admin or instructor")
	instructorID := flag.Int("instructor", 0, "Instructor ID (instructor tokens only)")
	expiry := flag.Duration("expiry", 0, "Token lifetime (defaults to JWT_EXPIRY)")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// ─── Secret ────────────────────────────────────────────────────────
	secret := cfg.JWTSecret
	if secret == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			log.Fatal().Msg("JWT_SECRET is not set and stdin is not a terminal")
		}
		fmt.Fprint(os.Stderr, "Enter JWT secret: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr) // Newline after secret input
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read secret")
		}
		secret = strings.TrimSpace(string(raw))
		if secret == "" {
			log.Fatal().Msg("Secret is required")
		}
	}

	lifetime := cfg.JWTExpiry
	if *expiry > 0 {
		lifetime = *expiry
	}

	// ─── Issue ─────────────────────────────────────────────────────────
	tokens := service.NewTokenService(secret, lifetime)
	token, err := tokens.Issue(service.Role(*role), *instructorID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue token")
	}

	log.Info().
		Str("role", *role).
		Int("instructor_id", *instructorID).
		Time("expires_at", time.Now().Add(lifetime)).
		Msg("Token issued")

	fmt.Println(token)
}
