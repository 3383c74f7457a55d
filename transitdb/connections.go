package transitdb

import (
	"context"
	"fmt"

	"traveltime.dev/engine/internal/logging"
)

// InsertConnections stores direct connections. A connection that already
// exists keeps its duration and gains any new departure minutes; departures
// stay sorted and unique.
func (c *Client) InsertConnections(ctx context.Context, connections []DirectConnection) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "insert_connections")

	connStmt, err := tx.PrepareContext(ctx, c.rebind(`
		INSERT INTO connections (origin_id, destination_id, duration_minutes)
		VALUES (?, ?, ?)
		ON CONFLICT (origin_id, destination_id) DO NOTHING
	`))
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(connStmt, c.logger, "insert_connections_statement")

	depStmt, err := tx.PrepareContext(ctx, c.rebind(`
		INSERT INTO departures (origin_id, destination_id, departure_minute)
		VALUES (?, ?, ?)
		ON CONFLICT (origin_id, destination_id, departure_minute) DO NOTHING
	`))
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(depStmt, c.logger, "insert_departures_statement")

	for _, conn := range connections {
		key := conn.Key()
		if _, err := connStmt.ExecContext(ctx, conn.Origin, conn.Destination, conn.DurationMinutes); err != nil {
			return fmt.Errorf("error inserting connection %s: %w", key, err)
		}
		for _, minute := range conn.Departures {
			if minute < 0 || minute >= minutesPerDay {
				return fmt.Errorf("connection %s: departure minute %d out of range", key, minute)
			}
			if _, err := depStmt.ExecContext(ctx, conn.Origin, conn.Destination, minute); err != nil {
				return fmt.Errorf("error inserting departure for %s: %w", key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// FetchAllConnections returns every direct connection with its departures,
// ordered by origin then destination.
func (c *Client) FetchAllConnections(ctx context.Context) (connections []DirectConnection, err error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT c.origin_id, c.destination_id, c.duration_minutes, d.departure_minute
		FROM connections c
		LEFT JOIN departures d
			ON d.origin_id = c.origin_id AND d.destination_id = c.destination_id
		ORDER BY c.origin_id, c.destination_id, d.departure_minute
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying connections: %w", err)
	}
	defer logging.HandleDeferredError(&err, rows.Close, c.logger, "query_connections")

	var lastKey ConnectionKey
	for rows.Next() {
		var (
			conn   DirectConnection
			minute *int64
		)
		if err := rows.Scan(&conn.Origin, &conn.Destination, &conn.DurationMinutes, &minute); err != nil {
			return nil, fmt.Errorf("error scanning connection: %w", err)
		}
		if conn.Key() != lastKey || len(connections) == 0 {
			connections = append(connections, conn)
			lastKey = conn.Key()
		}
		if minute != nil {
			last := &connections[len(connections)-1]
			last.Departures = append(last.Departures, int(*minute))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}
	return connections, nil
}
