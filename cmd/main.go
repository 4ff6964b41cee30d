package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lshigami/pte-scorer/config"
	"github.com/lshigami/pte-scorer/database"
	"github.com/lshigami/pte-scorer/internal/logger"
	"github.com/lshigami/pte-scorer/internal/middleware"
	"github.com/lshigami/pte-scorer/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// @title PTE Response Scoring API
// @version 1.0
// @description Scores spoken and written practice responses with rubric feedback and enforces per-user daily allowances.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pte-scorer",
		Short:        "Response scoring service",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd(), newSetTierCmd())
	return root
}

// loadConfig reads configuration and configures the global logger from it.
func loadConfig() (*config.Config, error) {
	logger.Init("info", false)
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	return cfg, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app := fx.New(
				fx.Supply(cfg),
				fx.NopLogger,
				serverModule,
			)
			if err := app.Start(cmd.Context()); err != nil {
				log.Error().Err(err).Msg("Failed to start application")
				return err
			}

			<-app.Done()
			log.Info().Msg("Application shutting down gracefully...")
			stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return app.Stop(stopCtx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.NewDatabase(cfg)
			if err != nil {
				return err
			}
			return database.AutoMigrate(db)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Sign a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			token, err := middleware.NewAuth(cfg).IssueToken(args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func newSetTierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-tier <user-id> <tier>",
		Short: "Assign a quota tier to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if _, ok := cfg.Quota.TierAllowances[args[1]]; !ok {
				return fmt.Errorf("tier %q has no allowance configured", args[1])
			}
			db, err := database.NewDatabase(cfg)
			if err != nil {
				return err
			}
			if err := repository.NewUserTierRepository(db).SetTier(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			log.Info().Str("user_id", args[0]).Str("tier", args[1]).Msg("Tier assigned")
			return nil
		},
	}
}
