package restapi

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"

	"traveltime.dev/engine/internal/appconf"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// rateLimitAndValidateAPIKey checks the API key first so that rejected keys
// do not consume anyone's quota.
func rateLimitAndValidateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	limited := http.Handler(http.HandlerFunc(finalHandler))
	if api.rateLimiter != nil {
		limited = api.rateLimiter.Handler(limited)
	}
	return validateAPIKey(api, limited.ServeHTTP)
}

func registerPprofHandlers(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/pprof/", pprof.Index)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/cmdline", pprof.Cmdline)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/profile", pprof.Profile)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/symbol", pprof.Symbol)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/trace", pprof.Trace)
}

// SetRoutes registers the API endpoints on router
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/traveltime/:origin/:time", rateLimitAndValidateAPIKey(api, api.travelTimeHandler))
	router.HandlerFunc(http.MethodGet, "/health", api.healthHandler)

	router.NotFound = http.HandlerFunc(api.sendNotFound)

	if api.Config.Env == appconf.Development {
		registerPprofHandlers(router)
	}
}

// Handler returns the router wrapped in the server-wide middlewares
func (api *RestAPI) Handler() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)

	var handler http.Handler = router
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.logger())(handler)
	return handler
}
