package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParlayRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewParlayHandler(nil, nil, nil, logger)

	router := gin.New()
	router.POST("/parlays/calculate", handler.Calculate)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCalculateEndpoint(t *testing.T) {
	router := testParlayRouter()

	body := map[string]interface{}{
		"stake": 10.0,
		"legs": []map[string]interface{}{
			{"game_id": "g1", "pick": "Philadelphia Eagles -3.5", "confidence": 0.60},
			{"game_id": "g2", "pick": "Under 44.5", "confidence": 0.55},
		},
	}

	w := postJSON(t, router, "/parlays/calculate", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			NumLegs        int     `json:"num_legs"`
			Probability    float64 `json:"probability"`
			Multiplier     float64 `json:"multiplier"`
			ExpectedValue  float64 `json:"expected_value"`
			Recommendation string  `json:"recommendation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.NumLegs)
	assert.InDelta(t, 0.33, resp.Data.Probability, 0.0001)
	assert.InDelta(t, 2.64, resp.Data.Multiplier, 0.0001)
	assert.InDelta(t, -2.576, resp.Data.ExpectedValue, 0.001)
	assert.Equal(t, "Negative EV - Not recommended", resp.Data.Recommendation)
}

func TestCalculateEndpointTooManyLegs(t *testing.T) {
	router := testParlayRouter()

	legs := make([]map[string]interface{}, 5)
	for i := range legs {
		legs[i] = map[string]interface{}{
			"game_id":    "g",
			"pick":       "Home -3.0",
			"confidence": 0.60,
		}
	}

	w := postJSON(t, router, "/parlays/calculate", map[string]interface{}{"stake": 10.0, "legs": legs})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Too many legs", resp.Error.Message)
}

func TestCalculateEndpointMissingLegs(t *testing.T) {
	router := testParlayRouter()

	w := postJSON(t, router, "/parlays/calculate", map[string]interface{}{"stake": 10.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
