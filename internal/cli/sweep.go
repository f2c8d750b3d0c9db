package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/studyquest/studyquest/internal/app/progression"
	"github.com/studyquest/studyquest/internal/infra/registry"
	"github.com/studyquest/studyquest/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().Duration("older-than", 0, "Minimum session age to close (default from config)")
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Close orphaned study sessions",
	Long: `Close unfinished study sessions left behind by a crashed or restarted
server. Orphans are finalized with zero duration and grant no reward. Run this
against a stopped server only: a sweep inside a live process is handled by the
server itself, which knows which sessions are genuinely running.`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	maxAge, _ := cmd.Flags().GetDuration("older-than")
	if maxAge == 0 {
		maxAge, err = time.ParseDuration(cfg.Sweep.MaxAge)
		if err != nil {
			return fmt.Errorf("parse sweep.max_age: %w", err)
		}
	}

	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// An empty registry means every stale session is treated as orphaned,
	// which is exactly right for an offline sweep.
	prog := progression.NewService(db, db, db, db, registry.New())

	closed, err := prog.Sweep(maxAge)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Closed %d orphaned sessions\n", closed)
	return nil
}
