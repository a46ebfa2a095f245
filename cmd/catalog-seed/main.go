// Command catalog-seed writes a deterministic catalog document suitable for
// CATALOG_FILE.
//
//	SEED_OUTPUT=data.json SEED_COUNT=1000 go run ./cmd/catalog-seed
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/utafrali/storefront/internal/catalog/seed"
	"github.com/utafrali/storefront/internal/domain"
	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/logger"
)

type config struct {
	Output   string `env:"SEED_OUTPUT" envDefault:"-"`
	Count    int    `env:"SEED_COUNT" envDefault:"500"`
	Seed     int64  `env:"SEED_RANDOM" envDefault:"42"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	if err := pkgconfig.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// The document may go to stdout, so logs go to stderr.
	log := logger.NewWithWriter("catalog-seed", cfg.LogLevel, os.Stderr)

	products := seed.Generate(seed.Options{Count: cfg.Count, Seed: cfg.Seed})

	if cfg.Output == "-" {
		if err := seed.Write(os.Stdout, products); err != nil {
			return err
		}
	} else if err := writeFile(cfg.Output, products); err != nil {
		return err
	}

	log.Info("catalog written",
		slog.String("output", cfg.Output),
		slog.Int("products", len(products)),
		slog.Int64("seed", cfg.Seed),
	)
	return nil
}

func writeFile(path string, products []domain.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := seed.Write(f, products); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
