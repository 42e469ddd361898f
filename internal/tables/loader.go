// Package tables loads alias tables from their externally curated CSV
// sheets. Each data row holds a canonical name and a pipe-separated list of
// alias strings; row order is preserved because alias resolution is
// first-match-wins.
package tables

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bwatkins/story-index/internal/authors"
	"github.com/bwatkins/story-index/internal/httpx"
)

// Parse reads an alias-table CSV. The first row is a header and is skipped.
// Rows with fewer than two columns or an empty canonical name are skipped
// with a warning rather than failing the whole load.
func Parse(r io.Reader, logger *slog.Logger) (authors.AliasTable, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var table authors.AliasTable
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read alias csv failed: %w", err)
		}

		rowNum++
		if rowNum == 1 {
			continue // header
		}

		if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
			logger.Warn("skipping malformed alias row", "row", rowNum)
			continue
		}

		var aliases []string
		for _, a := range strings.Split(row[1], "|") {
			aliases = append(aliases, strings.TrimSpace(a))
		}

		table = append(table, authors.AliasEntry{
			Canonical: strings.TrimSpace(row[0]),
			Aliases:   aliases,
		})
	}

	return table, nil
}

// Load materializes an alias table from a URL or a local file path.
func Load(ctx context.Context, client *httpx.PoliteClient, pathOrURL string, logger *slog.Logger) (authors.AliasTable, error) {
	var data []byte
	var err error

	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		data, err = client.Get(ctx, pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("fetch alias table %s failed: %w", pathOrURL, err)
		}
	} else {
		data, err = os.ReadFile(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("read alias table %s failed: %w", pathOrURL, err)
		}
	}

	return Parse(bytes.NewReader(data), logger)
}
