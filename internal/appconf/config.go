package appconf

import "strings"

// Environment is the operating environment of the application.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag value to an Environment. Unknown
// values fall back to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// Config holds the HTTP-facing settings of the application.
type Config struct {
	Port int
	Env  Environment
	// ApiKeys lists accepted values of the "key" query parameter. An empty
	// list disables key checks.
	ApiKeys []string
	// RateLimit is the number of requests per second allowed per API key.
	// Zero or less disables rate limiting.
	RateLimit int
	// AllowedOrigins lists CORS origins; "*" when empty.
	AllowedOrigins []string
}
