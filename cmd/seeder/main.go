// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ammerola/sweetshop-be/internal/adapters/catalog"
	"github.com/ammerola/sweetshop-be/internal/adapters/filestore"
	"github.com/ammerola/sweetshop-be/internal/adapters/storage"
	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
	"github.com/ammerola/sweetshop-be/internal/core/services"
	"github.com/ammerola/sweetshop-be/internal/handlers"
	"github.com/ammerola/sweetshop-be/internal/pkg/config"
	"github.com/ammerola/sweetshop-be/internal/pkg/logger"
)

// sampleSweets is the starter catalog
var sampleSweets = []domain.NewItem{
	{Name: "Kaju Katli", Category: string(domain.CategoryNutBased), Price: decimal.NewFromInt(50), Quantity: 20},
	{Name: "Gajar Halwa", Category: string(domain.CategoryVegetableBased), Price: decimal.NewFromInt(30), Quantity: 15},
	{Name: "Gulab Jamun", Category: string(domain.CategoryMilkBased), Price: decimal.NewFromInt(10), Quantity: 50},
	{Name: "Rasgulla", Category: string(domain.CategoryMilkBased), Price: decimal.NewFromInt(12), Quantity: 40},
	{Name: "Chocolate Barfi", Category: string(domain.CategoryChocolate), Price: decimal.NewFromInt(25), Quantity: 30},
	{Name: "Jalebi", Category: string(domain.CategorySugarBased), Price: decimal.NewFromInt(8), Quantity: 60},
}

func main() {
	var (
		source   = flag.String("file", "", "Seed from a .json catalog or .xlsx workbook instead of the sample sweets")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun   = flag.Bool("dry-run", false, "Print what would be seeded without writing")
		restore  = flag.Bool("restore", false, "Replace the catalog with the newest S3 backup")
	)
	flag.Parse()

	slogger := logger.SetupLogger(logger.LogConfig{Level: *logLevel, Format: "text"})

	var err error
	if *restore {
		err = restoreLatest(*dryRun, slogger)
	} else {
		err = run(*source, *dryRun, slogger)
	}
	if err != nil {
		slogger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(source string, dryRun bool, slogger *slog.Logger) error {
	rows, err := readSource(source)
	if err != nil {
		return err
	}

	if dryRun {
		for _, row := range rows {
			fmt.Printf("%-24s %-16s %8s %5d\n", row.Name, row.Category, row.Price.StringFixed(2), row.Quantity)
		}
		slogger.Info("dry run complete", slog.Int("rows", len(rows)))
		return nil
	}

	cfg, err := config.Load(slogger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := config.ResolveSecrets(ctx, cfg, slogger); err != nil {
		return err
	}

	backend, err := catalog.Open(ctx, cfg, slogger)
	if err != nil {
		return err
	}
	defer backend.Close()

	service := services.NewInventoryService(services.NewInventoryManager(), backend.Store, slogger)
	if err := service.Load(ctx); err != nil {
		return err
	}

	result, err := service.ImportItems(ctx, rows)
	if err != nil {
		return err
	}
	report(result, slogger)
	return nil
}

// restoreLatest overwrites the configured store with the newest backup,
// keeping the backed up ids
func restoreLatest(dryRun bool, slogger *slog.Logger) error {
	cfg, err := config.Load(slogger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := config.ResolveSecrets(ctx, cfg, slogger); err != nil {
		return err
	}
	if cfg.AWS.S3Bucket == "" {
		return fmt.Errorf("restore needs AWS_S3_BUCKET")
	}

	objects, err := catalog.NewS3Objects(ctx, cfg, slogger)
	if err != nil {
		return err
	}
	records, err := storage.NewBackups(objects, cfg.AWS.BackupPrefix, slogger).Latest(ctx)
	if err != nil {
		return fmt.Errorf("failed to read latest backup: %w", err)
	}

	if dryRun {
		for _, r := range records {
			fmt.Printf("%6d %-24s %-16s %8s %5d\n", r.ID, r.Name, r.Category, r.Price.StringFixed(2), r.Quantity)
		}
		slogger.Info("dry run complete", slog.Int("rows", len(records)))
		return nil
	}

	backend, err := catalog.Open(ctx, cfg, slogger)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.Store.Save(ctx, records); err != nil {
		return fmt.Errorf("failed to write restored catalog: %w", err)
	}

	service := services.NewInventoryService(services.NewInventoryManager(), backend.Store, slogger)
	if err := service.Load(ctx); err != nil {
		return fmt.Errorf("restored catalog does not load: %w", err)
	}
	items, err := service.ListItems(ctx)
	if err != nil {
		return err
	}

	slogger.Info("catalog restored", slog.Int("items", len(items)))
	return nil
}

func readSource(path string) ([]domain.NewItem, error) {
	if path == "" {
		return sampleSweets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		records, err := filestore.Decode(data)
		if err != nil {
			return nil, err
		}
		rows := make([]domain.NewItem, 0, len(records))
		for _, r := range records {
			rows = append(rows, domain.NewItem{Name: r.Name, Category: r.Category, Price: r.Price, Quantity: r.Quantity})
		}
		return rows, nil

	case ".xlsx":
		parsed, err := handlers.DecodeWorkbook(data)
		if err != nil {
			return nil, err
		}
		rows := make([]domain.NewItem, 0, len(parsed))
		for _, p := range parsed {
			if p.Err != nil {
				return nil, fmt.Errorf("%s line %d: %w", path, p.Line, p.Err)
			}
			rows = append(rows, p.Item)
		}
		return rows, nil

	default:
		return nil, fmt.Errorf("unsupported seed file %q: want .json or .xlsx", path)
	}
}

func report(result *ports.ImportResult, slogger *slog.Logger) {
	for _, item := range result.Imported {
		slogger.Info("seeded", slog.Int64("id", item.ID), slog.String("name", item.Name))
	}
	for _, skip := range result.Skipped {
		slogger.Warn("skipped", slog.Int("row", skip.Row), slog.String("name", skip.Name), slog.String("reason", skip.Reason))
	}
	slogger.Info("seeding complete",
		slog.Int("imported", len(result.Imported)),
		slog.Int("skipped", len(result.Skipped)))
}
