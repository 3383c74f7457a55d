package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTravelTimeHandlerFromStop(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/traveltime/A/09:55?key=TEST")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.StatusOK, model.Code)
	assert.Equal(t, "OK", model.Text)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	entries := travelTimeList(t, model)
	require.Len(t, entries, 3)

	assert.Equal(t, map[string]int{"A": 0, "C": 6, "B": 10}, minutesByID(entries))
	assert.Equal(t, "A", entries[0].Destination.ID, "results are ordered by travel time")
	assert.Equal(t, "C", entries[1].Destination.ID)
	assert.Equal(t, "B", entries[2].Destination.ID)

	bravo := entries[2]
	assert.Equal(t, "Bravo", bravo.Destination.Name)
	assert.Equal(t, 51.55, bravo.Destination.Lat)
	assert.Equal(t, []string{"A", "B"}, bravo.Path)
	require.NotNil(t, bravo.Polyline)
	assert.Equal(t, 2, bravo.Polyline.Length)

	points, err := bravo.Polyline.Coordinates()
	require.NoError(t, err)
	assert.InDelta(t, 51.5, points[0].Lat, 1e-5)
	assert.InDelta(t, 51.55, points[1].Lat, 1e-5)
}

func TestTravelTimeHandlerMissedDeparture(t *testing.T) {
	_, _, model := serveAndRetrieveEndpoint(t, "/traveltime/A/10:01?key=TEST")

	assert.Equal(t, 34, minutesByID(travelTimeList(t, model))["B"])
}

func TestTravelTimeHandlerWithoutPaths(t *testing.T) {
	api := createTestApi(t)
	_, body := serveApiAndRetrieveBody(t, api, "/traveltime/A/09:55?key=TEST&paths=false")

	var decoded struct {
		Data struct {
			List []map[string]interface{} `json:"list"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Len(t, decoded.Data.List, 3)
	for _, entry := range decoded.Data.List {
		assert.Contains(t, entry, "minutes")
		assert.Contains(t, entry, "destination")
		assert.NotContains(t, entry, "path")
		assert.NotContains(t, entry, "polyline")
	}
}

func TestTravelTimeHandlerFromLocation(t *testing.T) {
	api := createTestApi(t)
	before := api.EngineManager.Statistics()

	_, model := serveApiAndRetrieveEndpoint(t, api, "/traveltime/51.5,-0.1/09:55?key=TEST")

	entries := travelTimeList(t, model)
	assert.Equal(t, map[string]int{"A": 0, "C": 6, "B": 10}, minutesByID(entries))
	for _, e := range entries {
		assert.NotEmpty(t, e.Destination.ID, "query points never appear in results")
		assert.NotContains(t, e.Path, "")
	}

	after := api.EngineManager.Statistics()
	assert.Equal(t, before.Stations, after.Stations)
	assert.Equal(t, before.Edges, after.Edges)
}

func TestTravelTimeHandlerFromSeveralLocations(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/traveltime/51.5,-0.1_51.505,-0.1/09:55?key=TEST")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	// Every destination reports the slower of the two origins.
	assert.Equal(t, map[string]int{"A": 6, "C": 6, "B": 40}, minutesByID(travelTimeList(t, model)))
}

func TestTravelTimeHandlerErrors(t *testing.T) {
	tests := []struct {
		name           string
		endpoint       string
		expectedStatus int
		expectedField  string
	}{
		{
			name:           "unknown stop",
			endpoint:       "/traveltime/ZZZ/10:00?key=TEST",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "one malformed coordinate rejects the request",
			endpoint:       "/traveltime/51.5,-0.1_abc,-0.1/10:00?key=TEST",
			expectedStatus: http.StatusBadRequest,
			expectedField:  "origin",
		},
		{
			name:           "latitude out of range",
			endpoint:       "/traveltime/95,-0.1/10:00?key=TEST",
			expectedStatus: http.StatusBadRequest,
			expectedField:  "origin",
		},
		{
			name:           "invalid time",
			endpoint:       "/traveltime/A/25:00?key=TEST",
			expectedStatus: http.StatusBadRequest,
			expectedField:  "time",
		},
		{
			name:           "invalid paths flag",
			endpoint:       "/traveltime/A/10:00?key=TEST&paths=maybe",
			expectedStatus: http.StatusBadRequest,
			expectedField:  "paths",
		},
		{
			name:           "missing API key",
			endpoint:       "/traveltime/A/10:00",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown route",
			endpoint:       "/nowhere?key=TEST",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := createTestApi(t)
			resp, body := serveApiAndRetrieveBody(t, api, tt.endpoint)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			if tt.expectedField != "" {
				var decoded struct {
					FieldErrors map[string][]string `json:"fieldErrors"`
				}
				require.NoError(t, json.Unmarshal(body, &decoded))
				assert.Contains(t, decoded.FieldErrors, tt.expectedField)
			}
		})
	}
}

func TestTravelTimeHandlerOpenWithoutKeys(t *testing.T) {
	api := createTestApiWithConfig(t, appconfTest())
	resp, model := serveApiAndRetrieveEndpoint(t, api, "/traveltime/A/09:55")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, travelTimeList(t, model), 3)
}

func TestTravelTimeHandlerCancelledRequest(t *testing.T) {
	api := createTestApi(t)
	router := httprouter.New()
	api.SetRoutes(router)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/traveltime/A/09:55?key=TEST", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() { router.ServeHTTP(rec, req) })
	assert.NotEqual(t, http.StatusInternalServerError, rec.Code)
}
