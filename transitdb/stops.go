package transitdb

import (
	"context"
	"fmt"
	"strings"

	"traveltime.dev/engine/internal/logging"
)

// maximum number of ids bound into one IN (...) clause
const fetchChunkSize = 500

// InsertStops upserts stops in a single transaction
func (c *Client) InsertStops(ctx context.Context, stops []Stop) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "insert_stops")

	stmt, err := tx.PrepareContext(ctx, c.rebind(`
		INSERT INTO stops (stop_id, stop_name, stop_lat, stop_lon)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (stop_id) DO UPDATE SET
			stop_name = excluded.stop_name,
			stop_lat = excluded.stop_lat,
			stop_lon = excluded.stop_lon
	`))
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(stmt, c.logger, "insert_stops_statement")

	for _, stop := range stops {
		if _, err := stmt.ExecContext(ctx, stop.ID, stop.Name, stop.Lat, stop.Lon); err != nil {
			return fmt.Errorf("error inserting stop %s: %w", stop.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// FetchStops returns the stops with the given ids. Unknown ids are ignored.
func (c *Client) FetchStops(ctx context.Context, ids []string) ([]Stop, error) {
	var stops []Stop
	for start := 0; start < len(ids); start += fetchChunkSize {
		end := min(start+fetchChunkSize, len(ids))
		chunk := ids[start:end]

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		query := "SELECT stop_id, stop_name, stop_lat, stop_lon FROM stops WHERE stop_id IN (" +
			strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",") + ") ORDER BY stop_id"

		batch, err := c.queryStops(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		stops = append(stops, batch...)
	}
	return stops, nil
}

// FetchAllStops returns every stop ordered by id.
func (c *Client) FetchAllStops(ctx context.Context) ([]Stop, error) {
	return c.queryStops(ctx, "SELECT stop_id, stop_name, stop_lat, stop_lon FROM stops ORDER BY stop_id")
}

func (c *Client) queryStops(ctx context.Context, query string, args ...any) (stops []Stop, err error) {
	rows, err := c.DB.QueryContext(ctx, c.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("error querying stops: %w", err)
	}
	defer logging.HandleDeferredError(&err, rows.Close, c.logger, "query_stops")

	for rows.Next() {
		var s Stop
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, fmt.Errorf("error scanning stop: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stops: %w", err)
	}
	return stops, nil
}
