package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/catalog"
)

type RowWriter interface {
	Upsert(ctx context.Context, sourceTable string, row catalog.RawRecord) error
}

// CSVImporter reads a CSV export whose header names are column names and
// upserts every row into one catalog source table.
type CSVImporter struct {
	reader *csv.Reader
	rows   RowWriter
	table  string
	logger *zap.Logger
}

func NewCSVImporter(r io.Reader, rows RowWriter, table string, logger *zap.Logger) *CSVImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader: csvr,
		rows:   rows,
		table:  table,
		logger: logger,
	}
}

// Result counts what a run did.
type Result struct {
	Imported int
	// Skipped rows had no id.
	Skipped int
}

// Run parses CSV rows and upserts them. Empty cells are left out so existing
// column values survive a partial export.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	headers = normalizeHeaders(headers)
	if !hasColumn(headers, "id") {
		return res, errors.New("csv has no id column")
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}
		line++

		row := parseRow(record, headers)
		if row == nil {
			continue
		}
		if _, ok := row["id"]; !ok {
			res.Skipped++
			i.logger.Warn("skipped row without id", zap.String("table", i.table), zap.Int("line", line))
			continue
		}
		if err := i.rows.Upsert(ctx, i.table, row); err != nil {
			return res, fmt.Errorf("upsert %s row %v (line %d): %w", i.table, row["id"], line, err)
		}
		res.Imported++
	}
	return res, nil
}

func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimPrefix(h, "\ufeff")
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

func hasColumn(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}

// parseRow maps a record onto its headers. It returns nil for a blank line.
// Cells holding a JSON object or array are passed through as JSON so variant
// tables land in jsonb columns intact.
func parseRow(record []string, headers []string) catalog.RawRecord {
	row := catalog.RawRecord{}
	for pos, h := range headers {
		if h == "" || pos >= len(record) {
			continue
		}
		v := strings.TrimSpace(record[pos])
		if v == "" {
			continue
		}
		if b := []byte(v); (b[0] == '[' || b[0] == '{') && json.Valid(b) {
			row[h] = json.RawMessage(bytes.Clone(b))
			continue
		}
		row[h] = v
	}
	if len(row) == 0 {
		return nil
	}
	return row
}
