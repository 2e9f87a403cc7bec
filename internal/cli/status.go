package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/janhicken/cloud-bigtable-client/internal/infra/grpctransport"
	redisclient "github.com/janhicken/cloud-bigtable-client/internal/infra/redis"
	"github.com/janhicken/cloud-bigtable-client/internal/infra/storage/postgres"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity and show recent operations",
	Run:   runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 20, "number of audit rows to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := grpctransport.Dial(ctx, cfg.Admin.Endpoint)
	if err != nil {
		slog.Error("Admin endpoint unreachable", "endpoint", cfg.Admin.Endpoint, "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = conn.Close()
	}()
	fmt.Printf("Admin endpoint: %s OK\n", cfg.Admin.Endpoint)

	if cfg.Cache.Enabled {
		ttl, err := cfg.Cache.TTLDuration()
		if err != nil {
			slog.Error("Invalid cache config", "error", err)
			os.Exit(1)
		}
		cache, err := redisclient.NewCache(cfg.Redis, ttl)
		if err != nil {
			slog.Error("Redis unreachable", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = cache.Close()
		}()
		fmt.Println("Redis: OK")
	}

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Database unreachable", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()
	fmt.Println("Database: OK")

	rows, err := postgres.NewAuditRepo(db).Recent(ctx, statusLimit)
	if err != nil {
		slog.Error("Failed to query audit log", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tMETHOD\tTABLE\tATTEMPTS\tOUTCOME\tDURATION")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%dms\n",
			r.CreatedAt.Format(time.RFC3339),
			r.Method,
			r.TableID,
			r.Attempts,
			r.Outcome,
			r.DurationMS,
		)
	}
	_ = w.Flush()
}
