package transitdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// SeedDocument is the JSON layout accepted by ImportJSON.
type SeedDocument struct {
	Stops       []Stop             `json:"stops"`
	Connections []DirectConnection `json:"connections"`
}

// ImportJSON loads stops and connections from a SeedDocument.
func (c *Client) ImportJSON(ctx context.Context, r io.Reader) error {
	var doc SeedDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("error decoding seed document: %w", err)
	}
	if err := c.InsertStops(ctx, doc.Stops); err != nil {
		return err
	}
	return c.InsertConnections(ctx, doc.Connections)
}
