package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyquest/studyquest/internal/app/shop"
	"github.com/studyquest/studyquest/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the equipment catalog",
	Long: `Insert the default equipment catalog into the database. Items that
already exist are left untouched, so re-running is safe.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	catalog := shop.DefaultCatalog()
	if err := db.SeedEquipment(catalog); err != nil {
		return fmt.Errorf("seed equipment catalog: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Seeded %d catalog items into %s\n", len(catalog), cfg.Storage.Path)
	return nil
}
