package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"fairdata/internal/config"
	"fairdata/internal/db"
	"fairdata/internal/db/repository"
	"fairdata/internal/domain"
	"fairdata/internal/service"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "fdctl",
		Short:         "Administrative CLI for the data provisioning service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(
		newMigrateCmd(&verbose),
		newProvisionCmd(&verbose),
		newSecureCmd(&verbose),
		newCheckCmd(&verbose),
	)
	return rootCmd
}

// connect opens a pool from DATABASE_URL and builds a logger honoring
// the verbose flag.
func connect(ctx context.Context, verbose bool) (*pgxpool.Pool, *slog.Logger, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, err
	}
	var out io.Writer = io.Discard
	if verbose {
		out = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(out, nil))

	pool, err := db.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pool, logger, nil
}

func newMigrateCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, _, err := connect(cmd.Context(), *verbose)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.RunMigrations(pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newProvisionCmd(verbose *bool) *cobra.Command {
	var (
		table      string
		columns    []string
		identifier string
		namespace  string
	)
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create a data relation and converge its access posture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, logger, err := connect(cmd.Context(), *verbose)
			if err != nil {
				return err
			}
			defer pool.Close()

			runner := db.NewRunner(pool)
			schemaRepo := repository.NewSchemaRepo(pool)
			provision := service.NewProvisionService(runner, logger)
			isolation := service.NewIsolationService(runner, schemaRepo, logger)

			err = provision.Provision(cmd.Context(), domain.ProvisionRequest{
				Namespace:        namespace,
				TableName:        table,
				Columns:          columns,
				IdentifierColumn: identifier,
			})
			if err != nil {
				return err
			}
			if err := isolation.Secure(cmd.Context(), namespace, table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "provisioned and secured %s\n", table)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "relation name (required)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "flexible column names")
	cmd.Flags().StringVar(&identifier, "identifier", "", "record identifier column (required)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "storage namespace (defaults to the reserved one)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("identifier")
	return cmd
}

func newSecureCmd(verbose *bool) *cobra.Command {
	var namespace string
	cmd := &cobra.Command{
		Use:   "secure <table>...",
		Short: "Reapply the isolation posture to existing relations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, logger, err := connect(cmd.Context(), *verbose)
			if err != nil {
				return err
			}
			defer pool.Close()

			isolation := service.NewIsolationService(db.NewRunner(pool), repository.NewSchemaRepo(pool), logger)
			for _, table := range args {
				if err := isolation.Secure(cmd.Context(), namespace, table); err != nil {
					return fmt.Errorf("secure %s: %w", table, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "secured %s\n", table)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&namespace, "namespace", "", "storage namespace (defaults to the reserved one)")
	return cmd
}

func newCheckCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report catalog/schema drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, logger, err := connect(cmd.Context(), *verbose)
			if err != nil {
				return err
			}
			defer pool.Close()

			consistency := service.NewConsistencyService(
				repository.NewSchemaRepo(pool), repository.NewCatalogRepo(pool), logger)
			report, err := consistency.Report(cmd.Context())
			if err != nil {
				return err
			}
			if report.Clean() {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog and schema are consistent")
				return nil
			}
			if len(report.Uncataloged) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "uncataloged relations: %s\n", strings.Join(report.Uncataloged, ", "))
			}
			if len(report.MissingTable) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "cataloged but missing: %s\n", strings.Join(report.MissingTable, ", "))
			}
			return fmt.Errorf("catalog drift detected")
		},
	}
}
