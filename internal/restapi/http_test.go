package restapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"traveltime.dev/engine/internal/app"
	"traveltime.dev/engine/internal/appconf"
	"traveltime.dev/engine/internal/engine"
	"traveltime.dev/engine/internal/graph"
	"traveltime.dev/engine/internal/logging"
	"traveltime.dev/engine/internal/models"
)

// testGraph has a train A -> B (5 min, 10:00 and 10:30), a train C -> B
// (5 min, 11:00) and C about 556 m north of A, a 6 minute walk.
func testGraph(t *testing.T) *graph.Graph {
	t.Helper()

	stops := map[string]graph.StopRecord{
		"A": {ID: "A", Name: "Alpha", Lat: 51.5, Lon: -0.1},
		"B": {ID: "B", Name: "Bravo", Lat: 51.55, Lon: -0.1},
		"C": {ID: "C", Name: "Charlie", Lat: 51.505, Lon: -0.1},
	}
	connections := []graph.ConnectionRecord{
		{Origin: "A", Destination: "B", DurationMinutes: 5, Departures: []graph.TimeOfDay{graph.NewTimeOfDay(10, 0), graph.NewTimeOfDay(10, 30)}},
		{Origin: "C", Destination: "B", DurationMinutes: 5, Departures: []graph.TimeOfDay{graph.NewTimeOfDay(11, 0)}},
	}

	g, report := graph.Build(connections, stops, graph.WithLogger(quietLogger()))
	require.Zero(t, report.Skipped)
	return g
}

func quietLogger() *slog.Logger {
	return logging.NewStructuredLogger(&bytes.Buffer{}, slog.LevelError)
}

// createTestApi creates a RestAPI serving testGraph.
func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWithConfig(t, appconf.Config{
		Env:     appconf.EnvFlagToEnvironment("test"),
		ApiKeys: []string{"TEST"},
	})
}

func createTestApiWithConfig(t *testing.T, config appconf.Config) *RestAPI {
	t.Helper()

	manager := engine.NewManagerWithGraph(testGraph(t), engine.Config{Env: appconf.Test, Logger: quietLogger()})
	t.Cleanup(manager.Shutdown)

	application := &app.Application{
		Config:        config,
		Logger:        quietLogger(),
		EngineManager: manager,
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	resp, body := serveApiAndRetrieveBody(t, api, endpoint)

	var response models.ResponseModel
	require.NoError(t, json.Unmarshal(body, &response))

	return resp, response
}

func serveApiAndRetrieveBody(t *testing.T, api *RestAPI, endpoint string) (*http.Response, []byte) {
	t.Helper()

	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp, body.Bytes()
}

// travelTimeList decodes data.list of a travel-time response.
func travelTimeList(t *testing.T, model models.ResponseModel) []models.TravelTime {
	t.Helper()

	raw, err := json.Marshal(model.Data)
	require.NoError(t, err)

	var data struct {
		List []models.TravelTime `json:"list"`
	}
	require.NoError(t, json.Unmarshal(raw, &data))
	return data.List
}

func minutesByID(entries []models.TravelTime) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.Destination.ID] = e.Minutes
	}
	return out
}

// appconfTest is a test configuration without API keys or rate limits.
func appconfTest() appconf.Config {
	return appconf.Config{Env: appconf.Test}
}
