// Command tokengen signs a bearer token for local development and can
// register the matching account so projections show a name.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/YusovID/doubt-desk/internal/auth"
	"github.com/YusovID/doubt-desk/internal/config"
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/YusovID/doubt-desk/internal/repository/postgres"
)

func main() {
	var (
		id       string
		role     string
		ttl      time.Duration
		register bool
		name     string
		email    string
	)

	flag.StringVar(&id, "id", "", "user id to put in the sub claim")
	flag.StringVar(&role, "role", string(domain.RoleStudent), "role claim (student, tutor)")
	flag.DurationVar(&ttl, "ttl", 0, "token lifetime (0 = auth.token_ttl from config)")
	flag.BoolVar(&register, "register", false, "upsert the user into the users table")
	flag.StringVar(&name, "name", "", "display name used with -register")
	flag.StringVar(&email, "email", "", "email used with -register")
	flag.Parse()

	if err := run(id, domain.Role(role), ttl, register, name, email); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(id string, role domain.Role, ttl time.Duration, register bool, name, email string) error {
	if id == "" {
		return fmt.Errorf("-id is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if ttl == 0 {
		ttl = cfg.Auth.TokenTTL
	}

	if register {
		if name == "" || email == "" {
			return fmt.Errorf("-name and -email are required with -register")
		}

		log := slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err := postgres.NewDB(cfg.Postgres, log)
		if err != nil {
			return err
		}
		defer db.DB().Close()

		users := postgres.NewUserRepository(db.DB(), log)
		if err := users.CreateUser(context.Background(), domain.User{ID: id, Name: name, Email: email, Role: role}); err != nil {
			return err
		}
	}

	token, err := auth.NewTokenResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer).Sign(domain.Principal{ID: id, Role: role}, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)

	return nil
}
