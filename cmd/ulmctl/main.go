package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/server/archive"
	"github.com/dmitrijs2005/ulmg70/internal/server/config"
	"github.com/dmitrijs2005/ulmg70/internal/server/forms"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ulmg70/internal/server/services"
	"github.com/dmitrijs2005/ulmg70/internal/server/shared/db"
	"github.com/dmitrijs2005/ulmg70/internal/timex"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// admin bundles what every subcommand needs. The caller must defer Close().
type admin struct {
	cfg   *config.Config
	db    *sql.DB
	rm    repomanager.RepositoryManager
	clock timex.Clock
	loc   *time.Location
}

func (a *admin) Close() error {
	return a.db.Close()
}

// newAdmin loads the configuration, lets the persistent flags override it
// and opens the database.
func newAdmin(cmd *cobra.Command) (*admin, error) {
	cfg := config.LoadConfig()
	if dsn, _ := cmd.Flags().GetString("dsn"); cmd.Flags().Changed("dsn") {
		cfg.DatabaseDSN = dsn
	}
	if tz, _ := cmd.Flags().GetString("tz"); cmd.Flags().Changed("tz") {
		cfg.TimeZone = tz
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid time zone: %w", err)
	}

	conn, dialect, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	clock := timex.RealClock{}
	return &admin{
		cfg:   cfg,
		db:    conn,
		rm:    repomanager.NewSQLRepositoryManager(dialect, clock),
		clock: clock,
		loc:   loc,
	}, nil
}

var rootCmd = &cobra.Command{
	Use:           "ulmctl",
	Short:         "Administer the ULM G70 co-ownership database",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdmin(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.rm.RunMigrations(cmd.Context(), a.db); err != nil {
			return fmt.Errorf("applying migrations: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdmin(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		statuses, err := a.rm.MigrationStatus(cmd.Context(), a.db)
		if err != nil {
			return fmt.Errorf("reading migration status: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, s := range statuses {
			fmt.Fprintf(w, "%05d\t%s\t%s\n", s.Source.Version, s.State, s.Source.Path)
		}
		return w.Flush()
	},
}

// profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage co-owner profiles",
}

var profileAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create an account and its co-owner profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		share, _ := cmd.Flags().GetString("share")
		licence, _ := cmd.Flags().GetString("licence")

		a, err := newAdmin(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		svc := services.NewProfileService(a.db, a.rm, a.clock)
		p, err := svc.Register(cmd.Context(), forms.ProfileForm{Username: args[0], Share: share, License: licence})
		if err != nil {
			return fmt.Errorf("creating profile: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created profile %d for %s (share %s%%)\n", p.ID, p.Username(), p.OwnershipShare.StringFixed(2))
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List co-owner profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdmin(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := services.NewProfileService(a.db, a.rm, a.clock).List(cmd.Context())
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No profiles.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tSHARE\tLICENCE")
		for _, p := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Username(), p.OwnershipShare.StringFixed(2), p.LicenseNumber.String)
		}
		return w.Flush()
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete an account with its profile, reservations and log entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdmin(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := services.NewProfileService(a.db, a.rm, a.clock).DeleteByUsername(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting %s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

// reservation command
var reservationCmd = &cobra.Command{
	Use:   "reservation",
	Short: "Inspect reservations",
}

var reservationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming reservations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdmin(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := services.NewReservationService(a.db, a.rm, a.clock, a.loc).ListUpcoming(cmd.Context())
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No upcoming reservations.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCO-OWNER\tSTART\tEND\tMOTIVE")
		for _, r := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.OwnerName(),
				r.Start.In(a.loc).Format(services.FeedTimeLayout),
				r.End.In(a.loc).Format(services.FeedTimeLayout),
				r.Motive.String)
		}
		return w.Flush()
	},
}

// logbook command
var logbookCmd = &cobra.Command{
	Use:   "logbook",
	Short: "Logbook maintenance",
}

var logbookExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload the logbook as CSV to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdmin(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if bucket, _ := cmd.Flags().GetString("bucket"); cmd.Flags().Changed("bucket") {
			a.cfg.S3Bucket = bucket
		}

		exporter, err := newExporter(cmd.Context(), a)
		if err != nil {
			return err
		}

		key, err := services.NewLogbookService(a.db, a.rm, a.loc).Archive(cmd.Context(), exporter)
		if err != nil {
			return fmt.Errorf("exporting logbook: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded s3://%s/%s\n", a.cfg.S3Bucket, key)
		return nil
	},
}

// newExporter is a seam for tests.
var newExporter = func(ctx context.Context, a *admin) (services.Archiver, error) {
	return archive.NewS3Exporter(ctx, a.cfg, a.clock, a.loc)
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringP("dsn", "d", "", "Database DSN (postgres://... or sqlite://path)")
	rootCmd.PersistentFlags().StringP("tz", "z", "", "IANA time zone")

	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileAddCmd.Flags().String("share", "", "Ownership share in percent (0-100)")
	profileAddCmd.Flags().String("licence", "", "Pilot licence number")

	rootCmd.AddCommand(reservationCmd)
	reservationCmd.AddCommand(reservationListCmd)

	rootCmd.AddCommand(logbookCmd)
	logbookCmd.AddCommand(logbookExportCmd)
	logbookExportCmd.Flags().StringP("bucket", "b", "", "Target bucket")
}
