package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studyquest/studyquest/internal/api"
	"github.com/studyquest/studyquest/internal/app/progression"
	"github.com/studyquest/studyquest/internal/app/shop"
	"github.com/studyquest/studyquest/internal/infra/registry"
	"github.com/studyquest/studyquest/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the StudyQuest API server",
	Long: `Start the HTTP API server. The equipment catalog is seeded on boot and
orphaned study sessions left over from a previous run are closed before the
server accepts requests (configurable under [sweep]).`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.SeedEquipment(shop.DefaultCatalog()); err != nil {
		return fmt.Errorf("seed equipment catalog: %w", err)
	}

	reg := registry.New()
	prog := progression.NewService(db, db, db, db, reg)
	shopSvc := shop.NewService(db, db)

	// A fresh process has an empty registry, so every unfinished session in
	// the database is an orphan from the previous run.
	if cfg.Sweep.OnStartup {
		maxAge, err := time.ParseDuration(cfg.Sweep.MaxAge)
		if err != nil {
			return fmt.Errorf("parse sweep.max_age: %w", err)
		}
		closed, err := prog.Sweep(maxAge)
		if err != nil {
			return fmt.Errorf("startup sweep: %w", err)
		}
		if closed > 0 {
			log.Printf("[serve] closed %d orphaned sessions on startup", closed)
		}
	}

	srv := api.NewServer(db, db, prog, shopSvc)
	if cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.API.Addr()
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[serve] listening on %s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("[serve] received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}
