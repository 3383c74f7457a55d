package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"traveltime.dev/engine/internal/logging"
	"traveltime.dev/engine/internal/models"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// invalidAPIKeyResponse sends a 401 Unauthorized response with the required format
// for invalid API key errors
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	response := errorResponse{
		Code:        http.StatusUnauthorized,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        "permission denied",
		Version:     1,
	}

	api.writeJSON(w, http.StatusUnauthorized, response)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.logger(), "request failed", err,
		slog.String("path", r.URL.Path),
		slog.String("request_id", logging.RequestID(r.Context())))

	response := errorResponse{
		Code:        http.StatusInternalServerError,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        "internal server error",
		Version:     1,
	}

	api.writeJSON(w, http.StatusInternalServerError, response)
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	for field, problems := range fieldErrors {
		api.logger().Warn("invalid request parameter",
			slog.String("field", field),
			slog.Any("problems", problems),
			slog.String("path", r.URL.Path))
	}

	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	api.writeJSON(w, http.StatusBadRequest, response)
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	response := models.ResponseModel{
		Code:        http.StatusNotFound,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        "resource not found",
		Version:     2,
	}

	api.writeJSON(w, http.StatusNotFound, response)
}

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	api.writeJSON(w, response.Code, response)
}

func (api *RestAPI) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.LogError(api.logger(), "failed to encode response", err, slog.Int("status", status))
	}
}

func (api *RestAPI) logger() *slog.Logger {
	if api.Application != nil && api.Logger != nil {
		return api.Logger
	}
	return slog.Default()
}
