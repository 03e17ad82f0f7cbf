package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
)

// SQLWarehouse executes read-only queries against a Postgres-compatible
// warehouse through database/sql.
type SQLWarehouse struct {
	db         *sql.DB
	schemaName string
}

// OpenPostgres opens a pgx-backed connection pool and verifies it.
func OpenPostgres(ctx context.Context, dsn, schemaName string) (*SQLWarehouse, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping warehouse: %w", err)
	}
	log.Info().Str("schema", schemaName).Msg("connected to warehouse")
	return NewSQLWarehouse(db, schemaName), nil
}

// NewSQLWarehouse wraps an existing handle. Used directly by tests.
func NewSQLWarehouse(db *sql.DB, schemaName string) *SQLWarehouse {
	if schemaName == "" {
		schemaName = "public"
	}
	return &SQLWarehouse{db: db, schemaName: schemaName}
}

func (w *SQLWarehouse) Close() error {
	return w.db.Close()
}

// TestConnection verifies warehouse connectivity.
func (w *SQLWarehouse) TestConnection(ctx context.Context) error {
	var one int
	if err := w.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("connection test: %w", err)
	}
	return nil
}

// Execute runs a SQL statement and returns up to maxRows rows plus the
// warehouse-side elapsed time in milliseconds.
func (w *SQLWarehouse) Execute(ctx context.Context, sqlText string, maxRows int) ([]models.Row, float64, error) {
	start := time.Now()

	rows, err := w.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, elapsedMs(start), fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, elapsedMs(start), fmt.Errorf("read columns: %w", err)
	}

	var out []models.Row
	for rows.Next() {
		if len(out) >= maxRows {
			break
		}
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, elapsedMs(start), fmt.Errorf("scan row: %w", err)
		}

		row := make(models.Row, len(cols))
		for i, col := range cols {
			row[col] = models.FromAny(raw[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, elapsedMs(start), fmt.Errorf("iterate rows: %w", err)
	}

	elapsed := elapsedMs(start)
	log.Debug().Int("rows", len(out)).Float64("elapsed_ms", elapsed).Msg("query executed")
	return out, elapsed, nil
}

const tablesQuery = `
SELECT table_name, table_type
FROM information_schema.tables
WHERE table_schema = $1
ORDER BY table_name`

const columnsQuery = `
SELECT column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

// SchemaInfo enumerates tables and columns from information_schema. Called
// once at startup; the result is held read-only by the pipeline.
func (w *SQLWarehouse) SchemaInfo(ctx context.Context) (*models.SchemaSnapshot, error) {
	rows, err := w.db.QueryContext(ctx, tablesQuery, w.schemaName)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	snapshot := &models.SchemaSnapshot{
		Schema: w.schemaName,
		Tables: make(map[string]models.TableSchema),
	}
	var names []string
	for rows.Next() {
		var name, tblType string
		if err := rows.Scan(&name, &tblType); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		snapshot.Tables[name] = models.TableSchema{Type: tblType}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	for _, name := range names {
		cols, err := w.tableColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		tbl := snapshot.Tables[name]
		tbl.Columns = cols
		snapshot.Tables[name] = tbl
	}
	return snapshot, nil
}

func (w *SQLWarehouse) tableColumns(ctx context.Context, table string) ([]models.Column, error) {
	rows, err := w.db.QueryContext(ctx, columnsQuery, w.schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("list columns for %s: %w", table, err)
	}
	defer rows.Close()

	var cols []models.Column
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, models.Column{
			Name:     name,
			Type:     dataType,
			Nullable: nullable == "YES",
		})
	}
	return cols, rows.Err()
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
