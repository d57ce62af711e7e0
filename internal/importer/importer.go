package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"heritage-boutique/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter loads the boutique catalog from a CSV export. Expected
// columns: key, sku, name, description, price_cents, currency, image_url.
// A row with an empty key continues the previous product and may carry an
// additional image URL.
type CSVImporter struct {
	reader   *csv.Reader
	products ProductWriter
	currency string
}

func NewCSVImporter(r io.Reader, products ProductWriter, defaultCurrency string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		products: products,
		currency: defaultCurrency,
	}
}

type csvRow struct {
	Key       string
	SKU       string
	Name      string
	Desc      string
	Cents     int64
	Currency  string
	ImageURLs []string
}

// Run parses CSV rows and upserts products grouped by product key.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Key != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil && len(row.ImageURLs) > 0 {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Key == "" || row.Name == "" || row.SKU == "" || row.Cents <= 0 {
		return fmt.Errorf("invalid product row (missing required fields) for key %q", row.Key)
	}

	currency := row.Currency
	if currency == "" {
		currency = i.currency
	}

	attrs := map[string]interface{}{}
	if len(row.ImageURLs) > 0 {
		attrs["images"] = row.ImageURLs
	}

	p := domain.Product{
		Key:         row.Key,
		SKU:         row.SKU,
		Name:        row.Name,
		Description: row.Desc,
		PriceCents:  row.Cents,
		Currency:    currency,
		Attributes:  attrs,
	}

	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Key, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	key := pick(record, index, "key")
	imageURL := pick(record, index, "image_url")
	if key == "" && imageURL == "" {
		return nil
	}

	var cents int64
	if centStr := pick(record, index, "price_cents"); centStr != "" {
		cents, _ = strconv.ParseInt(centStr, 10, 64)
	}

	row := &csvRow{
		Key:      key,
		SKU:      pick(record, index, "sku"),
		Name:     pick(record, index, "name"),
		Desc:     pick(record, index, "description"),
		Cents:    cents,
		Currency: pick(record, index, "currency"),
	}
	if imageURL != "" {
		row.ImageURLs = []string{imageURL}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
