package restapi

import (
	"errors"
	"log/slog"
	"net/http"

	"traveltime.dev/engine/internal/engine"
	"traveltime.dev/engine/internal/graph"
	"traveltime.dev/engine/internal/logging"
	"traveltime.dev/engine/internal/models"
	"traveltime.dev/engine/internal/utils"
)

// travelTimeHandler serves GET /traveltime/:origin/:time. The origin is a
// stop id or one or more "lat,lon" pairs; with several pairs every
// destination reports the slowest of the per-origin times.
func (api *RestAPI) travelTimeHandler(w http.ResponseWriter, r *http.Request) {
	origin, fieldErrors := utils.ParseOrigin(utils.ExtractIDFromParams(r, "origin"))
	start, timeErrors := utils.ParseTimeParameter(utils.ExtractIDFromParams(r, "time"))
	for field, problems := range timeErrors {
		if fieldErrors == nil {
			fieldErrors = make(map[string][]string)
		}
		fieldErrors[field] = append(fieldErrors[field], problems...)
	}
	includePaths, fieldErrors := utils.ParseBoolParam(r.URL.Query(), "paths", true, fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if api.EngineManager == nil {
		api.sendResponse(w, r, models.NewResponse(http.StatusServiceUnavailable, nil, "graph not loaded"))
		return
	}

	ctx := r.Context()
	result, err := api.EngineManager.TravelTimes(ctx, engine.Query{
		StopID:       origin.StopID,
		Locations:    origin.Locations,
		Start:        start,
		WithStations: includePaths,
	})
	if err != nil {
		switch {
		case errors.Is(err, graph.ErrStopNotFound):
			api.sendNotFound(w, r)
		case errors.Is(err, graph.ErrInvalidCoordinate):
			api.validationErrorResponse(w, r, map[string][]string{"origin": {err.Error()}})
		case ctx.Err() != nil:
			// The client is gone; nobody is left to read a response.
			logging.FromContext(ctx).Info("travel time request cancelled",
				slog.String("request_id", logging.RequestID(ctx)))
		default:
			api.serverErrorResponse(w, r, err)
		}
		return
	}

	entries := make([]models.TravelTime, 0, len(result.Paths))
	for _, path := range result.Paths {
		entries = append(entries, models.NewTravelTime(path, result.Stations))
	}

	api.sendResponse(w, r, models.NewListResponse(entries))
}
