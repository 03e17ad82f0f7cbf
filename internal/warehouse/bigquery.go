package warehouse

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
)

// BigQueryWarehouse is the BigQuery execution backend. It satisfies the same
// contract as SQLWarehouse so the pipeline does not care which warehouse is
// configured.
type BigQueryWarehouse struct {
	client   *bigquery.Client
	dataset  string
	location string
}

func OpenBigQuery(ctx context.Context, projectID, credentialsFile, location, dataset string) (*BigQueryWarehouse, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	log.Info().Str("project", projectID).Str("dataset", dataset).Msg("connected to BigQuery warehouse")
	return &BigQueryWarehouse{client: client, dataset: dataset, location: location}, nil
}

func (w *BigQueryWarehouse) Close() error {
	return w.client.Close()
}

// TestConnection verifies BigQuery connectivity.
func (w *BigQueryWarehouse) TestConnection(ctx context.Context) error {
	q := w.client.Query("SELECT 1")
	q.Location = w.location
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("job wait: %w", err)
	}
	return status.Err()
}

// Execute runs a SQL statement and returns up to maxRows rows plus the
// warehouse-side elapsed time in milliseconds.
func (w *BigQueryWarehouse) Execute(ctx context.Context, sqlText string, maxRows int) ([]models.Row, float64, error) {
	start := time.Now()

	q := w.client.Query(sqlText)
	q.Location = w.location
	if w.dataset != "" {
		q.DefaultDatasetID = w.dataset
	}

	job, err := q.Run(ctx)
	if err != nil {
		return nil, elapsedMs(start), fmt.Errorf("query run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, elapsedMs(start), fmt.Errorf("job wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, elapsedMs(start), fmt.Errorf("query execution failed: %w", err)
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, elapsedMs(start), fmt.Errorf("job read: %w", err)
	}

	var out []models.Row
	for {
		if len(out) >= maxRows {
			break
		}
		var raw map[string]bigquery.Value
		err := it.Next(&raw)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, elapsedMs(start), fmt.Errorf("read row: %w", err)
		}

		row := make(models.Row, len(raw))
		for k, v := range raw {
			row[k] = models.FromAny(v)
		}
		out = append(out, row)
	}

	elapsed := elapsedMs(start)
	log.Debug().Int("rows", len(out)).Float64("elapsed_ms", elapsed).Msg("query executed")
	return out, elapsed, nil
}

// SchemaInfo enumerates the configured dataset's tables and columns.
func (w *BigQueryWarehouse) SchemaInfo(ctx context.Context) (*models.SchemaSnapshot, error) {
	snapshot := &models.SchemaSnapshot{
		Schema: w.dataset,
		Tables: make(map[string]models.TableSchema),
	}

	it := w.client.Dataset(w.dataset).Tables(ctx)
	for {
		tbl, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		meta, err := tbl.Metadata(ctx)
		if err != nil {
			log.Warn().Err(err).Str("table", tbl.TableID).Msg("failed to get table metadata")
			continue
		}

		cols := make([]models.Column, 0, len(meta.Schema))
		for _, f := range meta.Schema {
			cols = append(cols, models.Column{
				Name:     f.Name,
				Type:     string(f.Type),
				Nullable: !f.Required,
			})
		}
		snapshot.Tables[tbl.TableID] = models.TableSchema{
			Type:    string(meta.Type),
			Columns: cols,
		}
	}
	return snapshot, nil
}
