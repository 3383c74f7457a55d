package models

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse(t *testing.T) {
	testCode := http.StatusCreated
	testData := map[string]string{"key": "value"}
	testText := "Resource Created"

	currentTimeBeforeCall := time.Now().UnixNano() / int64(time.Millisecond)
	response := NewResponse(testCode, testData, testText)
	currentTimeAfterCall := time.Now().UnixNano() / int64(time.Millisecond)

	assert.Equal(t, testCode, response.Code, "Response code should match input")
	assert.Equal(t, testData, response.Data, "Response data should match input")
	assert.Equal(t, testText, response.Text, "Response text should match input")
	assert.Equal(t, 2, response.Version, "Response version should be 2")
	assert.GreaterOrEqual(t, response.CurrentTime, currentTimeBeforeCall)
	assert.LessOrEqual(t, response.CurrentTime, currentTimeAfterCall)
}

func TestNewEntryResponse(t *testing.T) {
	entry := map[string]string{"status": "ok"}

	response := NewEntryResponse(entry)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "OK", response.Text)
	assert.Equal(t, 2, response.Version)

	responseData, ok := response.Data.(map[string]interface{})
	require.True(t, ok, "Response data should be a map")
	assert.Equal(t, entry, responseData["entry"])
}

func TestNewListResponse(t *testing.T) {
	itemList := []string{"item1", "item2"}

	response := NewListResponse(itemList)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "OK", response.Text)
	assert.InDelta(t, time.Now().UnixNano()/int64(time.Millisecond), response.CurrentTime, 100)

	responseData, ok := response.Data.(map[string]interface{})
	require.True(t, ok, "Response data should be a map")
	assert.Equal(t, itemList, responseData["list"])
	assert.False(t, responseData["limitExceeded"].(bool), "limitExceeded should be false")
}

func TestResponseModelJSON(t *testing.T) {
	response := NewListResponse([]TravelTime{{Minutes: 7, Destination: Stop{ID: "A"}}})
	response.CurrentTime = 1746324484528

	jsonData, err := json.Marshal(response)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonData, &decoded))

	assert.Equal(t, float64(200), decoded["code"])
	assert.Equal(t, float64(1746324484528), decoded["currentTime"])
	assert.Equal(t, "OK", decoded["text"])
	assert.Equal(t, float64(2), decoded["version"])

	list := decoded["data"].(map[string]interface{})["list"].([]interface{})
	require.Len(t, list, 1)
	first := list[0].(map[string]interface{})
	assert.Equal(t, float64(7), first["minutes"])
	assert.NotContains(t, first, "path", "empty paths are omitted")
	assert.NotContains(t, first, "polyline")
}
