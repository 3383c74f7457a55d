package app

import (
	"log/slog"

	"traveltime.dev/engine/internal/appconf"
	"traveltime.dev/engine/internal/engine"
)

// Application holds the dependencies shared by the HTTP handlers, helpers
// and middleware.
type Application struct {
	Config        appconf.Config
	Logger        *slog.Logger
	EngineManager *engine.Manager
}
