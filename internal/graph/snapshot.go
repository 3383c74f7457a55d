package graph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

const snapshotVersion = 1

type snapshotEdge struct {
	From       int         `json:"from"`
	To         int         `json:"to"`
	Duration   uint16      `json:"duration"`
	Departures []TimeOfDay `json:"departures,omitempty"`
}

type snapshotDocument struct {
	Version       int            `json:"version"`
	WalkingRadius float64        `json:"walkingRadius"`
	Stations      []Station      `json:"stations"`
	Edges         []snapshotEdge `json:"edges"`
}

// WriteSnapshot serializes the graph as zstd-compressed JSON. Timetables are
// stored as their departure minutes and rebuilt on read.
func (g *Graph) WriteSnapshot(w io.Writer) error {
	doc := snapshotDocument{
		Version:       snapshotVersion,
		WalkingRadius: g.walkingRadius,
		Stations:      g.stations,
		Edges:         make([]snapshotEdge, 0, g.edgeCount),
	}
	for from, edges := range g.adjacency {
		for _, e := range edges {
			doc.Edges = append(doc.Edges, snapshotEdge{
				From:       from,
				To:         e.To,
				Duration:   e.Connection.Duration,
				Departures: e.Connection.Departures(),
			})
		}
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create snapshot encoder: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(doc); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot restores a graph written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Graph, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create snapshot decoder: %w", err)
	}
	defer dec.Close()

	var doc snapshotDocument
	if err := json.NewDecoder(dec).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}

	g := New()
	g.walkingRadius = doc.WalkingRadius
	for _, s := range doc.Stations {
		g.AddStation(s)
	}
	if g.StationCount() != len(doc.Stations) {
		return nil, fmt.Errorf("snapshot contains duplicate station ids")
	}

	for i, e := range doc.Edges {
		if e.From < 0 || e.From >= len(doc.Stations) || e.To < 0 || e.To >= len(doc.Stations) {
			return nil, fmt.Errorf("snapshot edge %d references station out of range", i)
		}
		conn := Connection{Duration: e.Duration}
		if len(e.Departures) > 0 {
			conn, err = NewTimetabledConnection(float64(e.Duration), e.Departures)
			if err != nil {
				return nil, fmt.Errorf("snapshot edge %d: %w", i, err)
			}
		}
		g.AddEdge(e.From, e.To, conn)
	}

	return g, nil
}
