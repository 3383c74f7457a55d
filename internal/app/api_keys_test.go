package app

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"traveltime.dev/engine/internal/appconf"
)

func TestBlankKeyIsInvalid(t *testing.T) {
	app := &Application{
		Config: appconf.Config{
			ApiKeys: []string{"key"},
		},
	}
	assert.True(t, app.IsInvalidAPIKey(""))
}

func TestKeyValidation(t *testing.T) {
	app := &Application{
		Config: appconf.Config{
			ApiKeys: []string{"alpha", "bravo"},
		},
	}

	assert.False(t, app.IsInvalidAPIKey("alpha"))
	assert.False(t, app.IsInvalidAPIKey("bravo"))
	assert.True(t, app.IsInvalidAPIKey("charlie"))
	assert.True(t, app.IsInvalidAPIKey("ALPHA"), "keys are case sensitive")
}

func TestNoConfiguredKeysAcceptsEverything(t *testing.T) {
	app := &Application{}

	assert.False(t, app.IsInvalidAPIKey(""))
	assert.False(t, app.IsInvalidAPIKey("anything"))
}

func TestRequestHasInvalidAPIKey(t *testing.T) {
	app := &Application{
		Config: appconf.Config{
			ApiKeys: []string{"test"},
		},
	}

	assert.False(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/health?key=test", nil)))
	assert.True(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/health?key=nope", nil)))
	assert.True(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/health", nil)))
}
