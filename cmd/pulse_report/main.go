package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pilot-pulse/internal/config"
	"pilot-pulse/internal/db"
	"pilot-pulse/internal/domain"
	"pilot-pulse/internal/repository"
	"pilot-pulse/internal/service"
)

func main() {
	input := flag.String("input", "", "ruta a un export JSON de filas; vacio lee de la base de datos")
	format := flag.String("format", "json", "formato de salida: json o summary")
	flag.Parse()

	if err := run(*input, *format, os.Stdout); err != nil {
		log.Printf("pulse report: %v", err)
		os.Exit(1)
	}
}

func run(input, format string, out io.Writer) error {
	var (
		rows []domain.PulseRow
		err  error
	)
	if input != "" {
		rows, err = loadFile(input)
	} else {
		rows, err = loadDatabase()
	}
	if err != nil {
		return err
	}

	trends := service.BuildTrends(rows)
	switch format {
	case "json":
		return writeJSON(out, trends)
	case "summary":
		return writeSummary(out, trends)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func loadFile(path string) ([]domain.PulseRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()
	return decodeRows(f)
}

func loadDatabase() ([]domain.PulseRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set and no -input given")
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db pool: %w", err)
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return repository.NewPgPulseRepository(pool).ListAll(ctx)
}
