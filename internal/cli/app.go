// Package cli implements the interactive console host for the vault. It is a
// thin presentation layer: every operation goes through vault.Service, and no
// key material or repository handle is touched here beyond the session value
// the service returns.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/vkuzmenko/passkeeper/internal/config"
	"github.com/vkuzmenko/passkeeper/internal/logging"
	"github.com/vkuzmenko/passkeeper/internal/policy"
	"github.com/vkuzmenko/passkeeper/internal/repositories/repomanager"
	"github.com/vkuzmenko/passkeeper/internal/storage"
	"github.com/vkuzmenko/passkeeper/internal/vault"
)

type App struct {
	config  *config.Config
	service *vault.Service
	session *vault.Session
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	repos := repomanager.NewSQLiteManager()

	db, err := storage.Open(ctx, cfg.DatabasePath, repos)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	})))

	svc := vault.NewService(db, repos, policy.NewDefault(), logger)

	return &App{
		config:  cfg,
		service: svc,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
	a.Logout(ctx)
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.session.Username()
	}
	return "not logged in"
}
