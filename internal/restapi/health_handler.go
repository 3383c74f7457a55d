package restapi

import (
	"net/http"
	"time"

	"traveltime.dev/engine/internal/models"
)

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	if api.EngineManager == nil {
		health := models.NewHealth("starting", 0, 0, 0, "", time.Time{})
		data := map[string]interface{}{"entry": health}
		api.sendResponse(w, r, models.NewResponse(http.StatusServiceUnavailable, data, "graph not loaded"))
		return
	}

	stats := api.EngineManager.Statistics()
	health := models.NewHealth("ok", stats.Stations, stats.Edges, stats.WalkingEdges, stats.BuiltFrom, stats.LastUpdated)
	api.sendResponse(w, r, models.NewEntryResponse(health))
}
