package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/multichain-wallet/internal/app"
	"github/chapool/multichain-wallet/internal/config"
)

// SetupLogger applies the logger config to the global zerolog logger.
func SetupLogger(cfg config.LoggerConfig) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(cfg.Level)
	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = "15:04:05"
		}))
	}
}

// WithApp assembles the app for cfg and initializes its session provider before running f.
// The session is not logged in.
func WithApp(ctx context.Context, cfg config.Config, f func(ctx context.Context, a *app.App) error) error {
	SetupLogger(cfg.Logger)

	a, cleanup, err := app.InitNewApp(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to initialize app")
	}
	defer cleanup()

	ctx = log.Logger.WithContext(ctx)

	if err := a.Orchestrator.Init(ctx); err != nil {
		return errors.Wrap(err, "failed to initialize session")
	}

	return f(ctx, a)
}

// WithOrchestrator runs f with an authenticated session. The session is logged out once f
// returns, whatever its result.
func WithOrchestrator(ctx context.Context, cfg config.Config, f func(ctx context.Context, a *app.App) error) error {
	return WithApp(ctx, cfg, func(ctx context.Context, a *app.App) error {
		if err := a.Orchestrator.Login(ctx, a.LoginMethod()); err != nil {
			return errors.Wrap(err, "failed to log in")
		}

		defer func() {
			if err := a.Orchestrator.Logout(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to log out")
			}
		}()

		return f(ctx, a)
	})
}

// NewSubcommandGroup returns a command that only groups subCommands and prints its help otherwise.
func NewSubcommandGroup(name string, subCommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <subcommand>", name),
		Short: fmt.Sprintf("%s related subcommands", name),
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Error().Err(err).Msg("Failed to print help")
			}
		},
	}

	cmd.AddCommand(subCommands...)

	return cmd
}

// PrintJSON writes v to w as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(v), "failed to encode output")
}
