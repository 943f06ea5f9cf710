package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source lists raw rows of one catalog table, one bounded page at a time.
type Source interface {
	ListProducts(ctx context.Context, sourceTable string, offset, limit int) ([]RawRecord, error)
}

// Cursor points at the next page to load: a position in the table list and
// a row offset within that table.
type Cursor struct {
	Table  int
	Offset int
}

var errBadCursor = errors.New("malformed cursor")

// String encodes the cursor as "table:offset".
func (c Cursor) String() string {
	return strconv.Itoa(c.Table) + ":" + strconv.Itoa(c.Offset)
}

// ParseCursor decodes a cursor; the empty string is the start.
func ParseCursor(s string) (Cursor, error) {
	if strings.TrimSpace(s) == "" {
		return Cursor{}, nil
	}
	table, offset, ok := strings.Cut(s, ":")
	if !ok {
		return Cursor{}, errBadCursor
	}
	t, err := strconv.Atoi(table)
	if err != nil || t < 0 {
		return Cursor{}, errBadCursor
	}
	o, err := strconv.Atoi(offset)
	if err != nil || o < 0 {
		return Cursor{}, errBadCursor
	}
	return Cursor{Table: t, Offset: o}, nil
}

// Page is the outcome of loading one batch.
type Page struct {
	SourceTable string
	Records     int
	Next        Cursor
	Done        bool
}

// Report summarizes a full load.
type Report struct {
	Tables  int
	Rows    int
	Failed  []string
	Records int
}

// Loader pages through the source tables and feeds the normalized rows into
// an Index.
type Loader struct {
	source      Source
	normalizer  *Normalizer
	tables      []string
	pageSize    int
	concurrency int
	logger      *zap.Logger
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Tables      []string
	PageSize    int
	Concurrency int
}

func NewLoader(source Source, normalizer *Normalizer, opts LoaderOptions, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if normalizer == nil {
		normalizer = NewNormalizer(logger)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Loader{
		source:      source,
		normalizer:  normalizer,
		tables:      append([]string(nil), opts.Tables...),
		pageSize:    opts.PageSize,
		concurrency: opts.Concurrency,
		logger:      logger,
	}
}

// Tables returns the configured source tables in cursor order.
func (l *Loader) Tables() []string {
	return append([]string(nil), l.tables...)
}

// LoadPage fetches the page at cur and merges it into idx. Calling it again
// with the same cursor re-merges the same rows, which the index absorbs.
func (l *Loader) LoadPage(ctx context.Context, cur Cursor, idx *Index) (Page, error) {
	if cur.Table >= len(l.tables) {
		return Page{Next: cur, Done: true}, nil
	}
	table := l.tables[cur.Table]
	rows, err := l.source.ListProducts(ctx, table, cur.Offset, l.pageSize)
	if err != nil {
		return Page{SourceTable: table, Next: cur}, fmt.Errorf("list %s at %d: %w", table, cur.Offset, err)
	}
	records := l.normalizer.NormalizeAll(rows, table)
	idx.Merge(records...)

	next := Cursor{Table: cur.Table, Offset: cur.Offset + len(rows)}
	if len(rows) < l.pageSize {
		next = Cursor{Table: cur.Table + 1}
	}
	return Page{
		SourceTable: table,
		Records:     len(records),
		Next:        next,
		Done:        next.Table >= len(l.tables),
	}, nil
}

// LoadAll drains every table concurrently, one outstanding request per table.
// A failing table is logged and skipped so the rest of the catalog still loads.
func (l *Loader) LoadAll(ctx context.Context, idx *Index) Report {
	var (
		mu     sync.Mutex
		report = Report{Tables: len(l.tables)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, table := range l.tables {
		i, table := i, table
		g.Go(func() error {
			rows, err := l.drainTable(gctx, i, idx)
			mu.Lock()
			defer mu.Unlock()
			report.Rows += rows
			if err != nil {
				report.Failed = append(report.Failed, table)
				l.logger.Warn("catalog table load failed", zap.String("source_table", table), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	report.Records = idx.Len()
	l.logger.Debug("catalog loaded",
		zap.Int("tables", report.Tables),
		zap.Int("rows", report.Rows),
		zap.Int("records", report.Records),
		zap.Strings("failed", report.Failed))
	return report
}

func (l *Loader) drainTable(ctx context.Context, table int, idx *Index) (int, error) {
	cur := Cursor{Table: table}
	rows := 0
	for cur.Table == table {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		page, err := l.LoadPage(ctx, cur, idx)
		if err != nil {
			return rows, err
		}
		rows += page.Records
		cur = page.Next
	}
	return rows, nil
}
