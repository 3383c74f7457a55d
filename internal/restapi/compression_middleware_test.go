package restapi

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionMiddleware(t *testing.T) {
	largeResponse := strings.Repeat(`{"minutes": 12}`, 1000)
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(largeResponse))
	})

	t.Run("compresses response when gzip accepted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		recorder := httptest.NewRecorder()

		CompressionMiddleware(testHandler).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "gzip", recorder.Header().Get("Content-Encoding"))
		assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

		reader, err := gzip.NewReader(bytes.NewReader(recorder.Body.Bytes()))
		require.NoError(t, err)
		defer func() { _ = reader.Close() }()

		decompressed, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, largeResponse, string(decompressed))
		assert.Less(t, recorder.Body.Len(), len(largeResponse))
	})

	t.Run("does not compress when gzip not accepted", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		CompressionMiddleware(testHandler).ServeHTTP(recorder, httptest.NewRequest("GET", "/test", nil))

		assert.Empty(t, recorder.Header().Get("Content-Encoding"))
		assert.Equal(t, largeResponse, recorder.Body.String())
	})

	t.Run("leaves small responses alone", func(t *testing.T) {
		small := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":200}`))
		})
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		recorder := httptest.NewRecorder()

		CompressionMiddleware(small).ServeHTTP(recorder, req)

		assert.Empty(t, recorder.Header().Get("Content-Encoding"))
		assert.Equal(t, `{"code":200}`, recorder.Body.String())
	})

	t.Run("handles empty responses", func(t *testing.T) {
		empty := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		recorder := httptest.NewRecorder()

		CompressionMiddleware(empty).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})
}

func TestCompressionConfig(t *testing.T) {
	config := DefaultCompressionConfig()
	assert.Equal(t, 1024, config.MinSize)
	assert.Equal(t, 6, config.Level)

	t.Run("invalid level falls back to defaults", func(t *testing.T) {
		handler := NewCompressionMiddleware(CompressionConfig{MinSize: 10, Level: 42})(testResponseHandler())
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "test response", recorder.Body.String())
	})
}

func TestHandlerChain(t *testing.T) {
	api := createTestApi(t)
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL+"/traveltime/A/09:55?key=TEST", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		reader, err := gzip.NewReader(resp.Body)
		require.NoError(t, err)
		defer func() { _ = reader.Close() }()
		body = reader
	}
	decoded, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(decoded), `"code":200`)
}
