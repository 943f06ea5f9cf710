package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool    *pgxpool.Pool
	tables  map[string]struct{}
	logger  *zap.Logger
	colsMu  sync.Mutex
	columns map[string]map[string]struct{}
}

// NewPostgres returns a Repository restricted to tables.
func NewPostgres(pool *pgxpool.Pool, tables []string, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		allowed[t] = struct{}{}
	}
	return &postgresRepo{
		pool:    pool,
		tables:  allowed,
		logger:  logger,
		columns: make(map[string]map[string]struct{}),
	}
}

func (r *postgresRepo) ident(table string) (string, error) {
	if _, ok := r.tables[table]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return pgx.Identifier{table}.Sanitize(), nil
}

func (r *postgresRepo) ListProducts(ctx context.Context, sourceTable string, offset, limit int) ([]catalog.RawRecord, error) {
	tbl, err := r.ident(sourceTable)
	if err != nil {
		return nil, err
	}
	q := `SELECT row_to_json(t)::jsonb FROM ` + tbl + ` t ORDER BY t.id LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		r.logger.Debug("source repo: list failed", zap.String("table", sourceTable), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []catalog.RawRecord
	for rows.Next() {
		var raw map[string]any
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		result = append(result, catalog.RawRecord(raw))
	}
	if err := rows.Err(); err != nil {
		r.logger.Debug("source repo: list rows failed", zap.String("table", sourceTable), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("source repo: list",
		zap.String("table", sourceTable),
		zap.Int("offset", offset),
		zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, sourceTable, id string) (catalog.RawRecord, error) {
	tbl, err := r.ident(sourceTable)
	if err != nil {
		return nil, err
	}
	q := `SELECT row_to_json(t)::jsonb FROM ` + tbl + ` t WHERE t.id = $1`
	var raw map[string]any
	if err := r.pool.QueryRow(ctx, q, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("source repo: get not found", zap.String("table", sourceTable), zap.String("id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Debug("source repo: get failed", zap.String("table", sourceTable), zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return catalog.RawRecord(raw), nil
}

// Upsert writes the columns of row that exist in the table, keyed by id.
// Values are cast through jsonb_populate_record so strings from CSV land in
// numeric, boolean and timestamp columns.
func (r *postgresRepo) Upsert(ctx context.Context, sourceTable string, row catalog.RawRecord) error {
	tbl, err := r.ident(sourceTable)
	if err != nil {
		return err
	}
	if id, ok := row["id"]; !ok || id == nil || strings.TrimSpace(fmt.Sprint(id)) == "" {
		return domain.ErrMissingID
	}
	known, err := r.tableColumns(ctx, sourceTable)
	if err != nil {
		return err
	}

	cols := make([]string, 0, len(row))
	for k := range row {
		if _, ok := known[k]; ok {
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)

	quoted := make([]string, len(cols))
	updates := make([]string, 0, len(cols)+1)
	touchesUpdatedAt := false
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
		if c == "id" {
			continue
		}
		if c == "updated_at" {
			touchesUpdatedAt = true
		}
		updates = append(updates, quoted[i]+" = EXCLUDED."+quoted[i])
	}
	if !touchesUpdatedAt {
		updates = append(updates, `"updated_at" = now()`)
	}
	list := strings.Join(quoted, ", ")

	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}
	q := `INSERT INTO ` + tbl + ` (` + list + `)
SELECT ` + list + ` FROM jsonb_populate_record(NULL::` + tbl + `, $1::jsonb)
ON CONFLICT (id) DO UPDATE SET ` + strings.Join(updates, ", ")
	if _, err := r.pool.Exec(ctx, q, payload); err != nil {
		r.logger.Debug("source repo: upsert failed", zap.String("table", sourceTable), zap.Any("id", row["id"]), zap.Error(err))
		return err
	}
	r.logger.Debug("source repo: upserted", zap.String("table", sourceTable), zap.Any("id", row["id"]), zap.Int("columns", len(cols)))
	return nil
}

func (r *postgresRepo) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	r.colsMu.Lock()
	defer r.colsMu.Unlock()
	if cols, ok := r.columns[table]; ok {
		return cols, nil
	}
	const q = `
SELECT column_name
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
`
	rows, err := r.pool.Query(ctx, q, table)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %q has no columns", ErrUnknownTable, table)
	}
	cols := make(map[string]struct{}, len(names))
	for _, n := range names {
		cols[n] = struct{}{}
	}
	r.columns[table] = cols
	return cols, nil
}
