package main

import (
	"context"
	"flag"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/repository/source"
)

func main() {
	var (
		filePath string
		table    string
	)
	flag.StringVar(&filePath, "file", "", "Path to a CSV export whose headers are column names")
	flag.StringVar(&table, "table", "", "Catalog source table to import into")
	flag.Parse()

	if filePath == "" || table == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	base, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer base.Sync()
	logger := base.With(zap.String("component", "importer"))

	if !slices.Contains(cfg.CatalogTables, table) {
		logger.Fatal("unknown catalog table", zap.String("table", table), zap.Strings("known", cfg.CatalogTables))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, source.NewPostgres(pool, cfg.CatalogTables, logger), table, logger)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err), zap.Int("imported", res.Imported))
	}

	logger.Info("import finished",
		zap.String("table", table),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
}
