package handlers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanpicks/edge/internal/services"
)

func TestHandleWebSocket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hub := services.NewWebSocketHub(logger)
	go hub.Run()

	router := gin.New()
	router.GET("/ws", NewWebSocketHandler(hub, logger).HandleWebSocket)

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The welcome is written before the hub knows the connection, so it
	// always arrives first and never races a broadcast.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var welcome struct {
		Type string `json:"type"`
	}
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "welcome", welcome.Type)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastJSON(map[string]string{"type": "bet_settled"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var msg struct {
		Type string `json:"type"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "bet_settled", msg.Type)
}
