package transitdb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jamespfennell/gtfs"

	"traveltime.dev/engine/internal/logging"
)

const minutesPerDay = 24 * 60

// ImportGTFS parses a static GTFS zip and stores its stops plus the direct
// connections derived from consecutive stop times of every trip.
func (c *Client) ImportGTFS(ctx context.Context, b []byte) error {
	startTime := time.Now()
	defer func() {
		c.importRuntime = time.Since(startTime)
		if c.config.verbose {
			logging.LogOperation(c.logger, "gtfs_import_finished",
				slog.Duration("duration", c.importRuntime))
		}
	}()

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return fmt.Errorf("error parsing GTFS data: %w", err)
	}

	if c.config.verbose {
		logging.LogOperation(c.logger, "retrieved_static_data",
			slog.Int("warnings", len(staticData.Warnings)),
			slog.Int("stops", len(staticData.Stops)),
			slog.Int("trips", len(staticData.Trips)))
	}

	return c.StoreStatic(ctx, staticData)
}

// StoreStatic writes already parsed GTFS data to the store.
func (c *Client) StoreStatic(ctx context.Context, staticData *gtfs.Static) error {
	stops := StopsFromStatic(staticData)
	if err := c.InsertStops(ctx, stops); err != nil {
		return fmt.Errorf("unable to create stops: %w", err)
	}

	connections := ConnectionsFromStatic(staticData)
	if err := c.InsertConnections(ctx, connections); err != nil {
		return fmt.Errorf("unable to create connections: %w", err)
	}

	if c.config.verbose {
		logging.LogOperation(c.logger, "gtfs_data_stored",
			slog.Int("stops", len(stops)),
			slog.Int("connections", len(connections)))
	}
	return nil
}

// StopsFromStatic converts GTFS stops that carry coordinates.
func StopsFromStatic(staticData *gtfs.Static) []Stop {
	stops := make([]Stop, 0, len(staticData.Stops))
	for _, s := range staticData.Stops {
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		stops = append(stops, Stop{
			ID:   s.Id,
			Name: s.Name,
			Lat:  *s.Latitude,
			Lon:  *s.Longitude,
		})
	}
	return stops
}

// ConnectionsFromStatic derives one direct connection per ordered pair of
// consecutive stops. The duration is the first observed ride time between the
// pair; departures are the minute of day at which trips leave the origin.
func ConnectionsFromStatic(staticData *gtfs.Static) []DirectConnection {
	byKey := make(map[ConnectionKey]*DirectConnection)
	var order []ConnectionKey

	for _, trip := range staticData.Trips {
		stopTimes := make([]gtfs.ScheduledStopTime, len(trip.StopTimes))
		copy(stopTimes, trip.StopTimes)
		sort.Slice(stopTimes, func(i, j int) bool {
			return stopTimes[i].StopSequence < stopTimes[j].StopSequence
		})

		for i := 1; i < len(stopTimes); i++ {
			from, to := stopTimes[i-1], stopTimes[i]
			if from.Stop == nil || to.Stop == nil || from.Stop.Id == to.Stop.Id {
				continue
			}

			key := ConnectionKey{Origin: from.Stop.Id, Destination: to.Stop.Id}
			conn, ok := byKey[key]
			if !ok {
				ride := to.ArrivalTime - from.DepartureTime
				if ride < 0 {
					ride = 0
				}
				conn = &DirectConnection{
					Origin:          from.Stop.Id,
					Destination:     to.Stop.Id,
					DurationMinutes: ride.Minutes(),
				}
				byKey[key] = conn
				order = append(order, key)
			}
			conn.Departures = append(conn.Departures, minuteOfDay(from.DepartureTime))
		}
	}

	connections := make([]DirectConnection, 0, len(order))
	for _, key := range order {
		conn := byKey[key]
		conn.Departures = sortedUnique(conn.Departures)
		connections = append(connections, *conn)
	}
	return connections
}

func minuteOfDay(d time.Duration) int {
	m := int(d/time.Minute) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return m
}

func sortedUnique(values []int) []int {
	sort.Ints(values)
	out := values[:0]
	for i, v := range values {
		if i == 0 || v != values[i-1] {
			out = append(out, v)
		}
	}
	return out
}
