package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"heritage-boutique/internal/config"
	"heritage-boutique/internal/db"
	"heritage-boutique/internal/importer"
	"heritage-boutique/internal/repository/product"
)

func main() {
	var (
		filePath string
		currency string
	)
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV export")
	flag.StringVar(&currency, "currency", "EUR", "Default currency for rows without one")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool), currency)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
