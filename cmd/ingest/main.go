// Command ingest runs the warehouse data ingestion pipeline: it watches an
// incoming folder (one subfolder per domain) for inventory.json / products.json
// drops and loads them straight into the database.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tiagostutz/demo-warehouse-software/internal/config"
	"github.com/tiagostutz/demo-warehouse-software/internal/infra"
	"github.com/tiagostutz/demo-warehouse-software/internal/ingest"
	"github.com/tiagostutz/demo-warehouse-software/internal/repository"
	"github.com/tiagostutz/demo-warehouse-software/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	incomingDir string
	successDir  string
	failDir     string
)

func main() {
	root := &cobra.Command{
		Use:   "ingest",
		Short: "Watch a folder and ingest warehouse inventory/product files",
		Long: `Watches <incoming-dir>/article and <incoming-dir>/product for JSON data
files. Successfully processed files move to the success folder, rejected
ones to the fail folder. Articles are matched by identification (art_id),
so re-delivering an inventory file is idempotent.`,
		RunE: run,
	}

	root.Flags().StringVar(&incomingDir, "incoming-dir", "", "folder where data files are dropped (default from INGEST_INCOMING_DIR)")
	root.Flags().StringVar(&successDir, "success-dir", "", "folder where processed files are moved (default from INGEST_SUCCESS_DIR)")
	root.Flags().StringVar(&failDir, "fail-dir", "", "folder where rejected files are moved (default from INGEST_FAIL_DIR)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if incomingDir == "" {
		incomingDir = cfg.IngestIncomingDir
	}
	if successDir == "" {
		successDir = cfg.IngestSuccessDir
	}
	if failDir == "" {
		failDir = cfg.IngestFailDir
	}
	if incomingDir == successDir || incomingDir == failDir || successDir == failDir {
		log.Fatal().Msg("incoming, success and fail folders must be three distinct locations")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	articleRepo := repository.NewArticleRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// No Redis here: the cache methods are nil-safe and the API side
	// re-computes availability on its next cache miss.
	articleSvc := service.NewArticleService(articleRepo, movementRepo, nil)
	productSvc := service.NewProductService(productRepo, articleRepo, nil)
	loader := ingest.NewLoader(articleSvc, productSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One pipeline per domain, mirroring the article/product folder layout
	// the upstream warehouse systems deliver into.
	go func() {
		err := ingest.RunPipeline(ctx,
			filepath.Join(incomingDir, "article"),
			filepath.Join(successDir, "article"),
			filepath.Join(failDir, "article"),
			loader.LoadInventory,
		)
		if err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("article ingestion pipeline failed")
		}
	}()
	go func() {
		err := ingest.RunPipeline(ctx,
			filepath.Join(incomingDir, "product"),
			filepath.Join(successDir, "product"),
			filepath.Join(failDir, "product"),
			loader.LoadProducts,
		)
		if err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("product ingestion pipeline failed")
		}
	}()

	log.Info().Str("incoming", incomingDir).Msg("ingestion pipelines started")
	<-ctx.Done()
	log.Info().Msg("shutting down ingestion")
	return nil
}
