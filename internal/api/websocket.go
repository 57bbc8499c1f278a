// websocket.go - Live monitoring feed
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/press-analyzer/backend/internal/models"
)

const (
	monitorInterval = 500 * time.Millisecond
	writeWait       = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Same trust model as the REST surface; CORS is handled there.
		return true
	},
}

// HandleMonitorWS streams machine-health frames over a WebSocket. The
// feed replays the most recent simulation run as sensor readings; until
// a run exists it emits idle frames so dashboards can connect early.
func (h *Handler) HandleMonitorWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Drain client frames so close handshakes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	idx := 0
	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			frame := h.nextMonitorFrame(&idx)
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				log.Debug().Err(err).Msg("monitor socket closed")
				return nil
			}
		}
	}
}

// nextMonitorFrame derives one SensorData frame from the latest run,
// advancing idx cyclically through its series.
func (h *Handler) nextMonitorFrame(idx *int) models.SensorData {
	now := time.Now()
	res := h.LatestResult()
	if res == nil || len(res.Series) == 0 {
		return models.SensorData{Timestamp: now, Status: "idle"}
	}

	s := res.Series[*idx%len(res.Series)]
	*idx++

	flow := s.Flow
	if flow < 0 {
		flow = -flow
	}
	return models.SensorData{
		Timestamp:   now,
		Stroke:      s.Position,
		Pressure:    s.PressureCap,
		Temperature: 40 + 0.05*s.PressureCap,
		Vibration:   0.1 + 0.01*flow,
		Status:      s.PhaseLabel,
	}
}
