package transitdb

import (
	"context"
	"fmt"
)

var tables = []string{"stops", "connections", "departures"}

// TableCounts returns the number of rows in each table.
func (c *Client) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := c.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, fmt.Errorf("error counting %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}
