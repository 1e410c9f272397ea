package sync

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/imcbsglobal/rrc-sync/apiclient"
	"github.com/imcbsglobal/rrc-sync/cmd/internal/cmdutil"
	"github.com/imcbsglobal/rrc-sync/config"
	"github.com/imcbsglobal/rrc-sync/dbconn"
	"github.com/imcbsglobal/rrc-sync/extract"
	"github.com/imcbsglobal/rrc-sync/syncer"
	"github.com/imcbsglobal/rrc-sync/tablespec"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var (
		configPath string
		dsn        string
		apiURL     string
		clientCfg  = apiclient.DefaultConfig("")
	)
	cmd := &cobra.Command{
		Use:  "sync",
		Long: `Extracts every configured table from the source database and fully replaces its counterpart on the API server.`,

		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(
				context.Background(), os.Interrupt, syscall.SIGTERM,
			)
			defer stop()

			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			cmdutil.RunMetricsServer(logger)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			// Only the DSN and the API URL may be overridden from outside;
			// everything else is fixed by the deployment.
			if dsn != "" {
				cfg.Database.DSN = dsn
			}
			if apiURL != "" {
				cfg.API.URL = apiURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			tables, err := tablespec.Resolve(cfg.Tables)
			if err != nil {
				return err
			}

			logger.Info().
				Str("dsn", cfg.Database.DSN).
				Str("user", cfg.Database.Username).
				Str("api_url", cfg.API.URL).
				Int("num_tables", len(tables)).
				Msgf("configuration loaded")

			conn, err := dbconn.Connect(ctx, "source", dbconn.Config{
				Driver:   cfg.Database.Driver,
				DSN:      cfg.Database.DSN,
				Username: cfg.Database.Username,
				Password: cfg.Database.Password,
			})
			if err != nil {
				return errors.Wrapf(err, "error connecting to source database")
			}
			defer func() {
				if err := conn.Close(); err != nil {
					logger.Err(err).Msgf("error closing database connection")
				} else {
					logger.Info().Msgf("database connection closed")
				}
			}()
			logger.Info().Str("dialect", conn.Dialect()).Msgf("database connection successful")

			clientCfg.BaseURL = cfg.API.URL
			client, err := apiclient.New(clientCfg, logger)
			if err != nil {
				return err
			}

			summary := syncer.Run(ctx, logger, extract.NewSource(conn, logger), client, tables)
			if !summary.Ok() {
				return errors.Newf(
					"%d of %d tables failed to sync",
					summary.TablesFailed, summary.TablesTotal,
				)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(
		&configPath,
		"config",
		config.DefaultPath,
		"path to the configuration file",
	)
	cmd.PersistentFlags().StringVar(
		&dsn,
		"dsn",
		"",
		"override the source database DSN from the config file",
	)
	cmd.PersistentFlags().StringVar(
		&apiURL,
		"api-url",
		"",
		"override the API base URL from the config file",
	)
	cmd.PersistentFlags().IntVar(
		&clientCfg.Retry.MaxAttempts,
		"sync-attempts",
		clientCfg.Retry.MaxAttempts,
		"delivery attempts per table before the table is marked failed",
	)
	cmd.PersistentFlags().DurationVar(
		&clientCfg.Retry.Backoff,
		"sync-retry-delay",
		clientCfg.Retry.Backoff,
		"pause between delivery attempts",
	)
	cmd.PersistentFlags().DurationVar(
		&clientCfg.RequestTimeout,
		"request-timeout",
		clientCfg.RequestTimeout,
		"bound on a single delivery attempt",
	)

	cmdutil.RegisterLoggerFlags(cmd)
	cmdutil.RegisterMetricsFlags(cmd)
	return cmd
}
