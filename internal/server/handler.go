package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/qudata/hostmon/internal/config"
	"github.com/qudata/hostmon/internal/domain"
	"github.com/qudata/hostmon/internal/stats"
)

const wsWriteTimeout = 5 * time.Second

type Handler struct {
	slot     *stats.Slot
	history  *stats.History
	caps     domain.Capabilities
	host     domain.HostInfo
	interval time.Duration
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(
	slot *stats.Slot,
	history *stats.History,
	caps domain.Capabilities,
	host domain.HostInfo,
	interval time.Duration,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		slot:     slot,
		history:  history,
		caps:     caps,
		host:     host,
		interval: interval,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Display clients are local tools and browser widgets on any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ping", h.Ping)
	r.GET("/snapshot", h.Snapshot)
	r.GET("/history", h.History)
	r.GET("/capabilities", h.Capabilities)
	r.GET("/host", h.Host)
	r.GET("/ws", h.Stream)
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "version": config.Version})
}

func (h *Handler) Snapshot(c *gin.Context) {
	snap, ok := h.slot.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "no snapshot yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": snap})
}

func (h *Handler) History(c *gin.Context) {
	var since uint64
	if v := c.Query("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "since must be a snapshot seq"})
			return
		}
		since = n
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": h.history.Since(since)})
}

func (h *Handler) Capabilities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"data": gin.H{
			"capabilities": h.caps,
			"interval_ms":  h.interval.Milliseconds(),
			"history_size": h.history.Cap(),
		},
	})
}

func (h *Handler) Host(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": h.host})
}

// Stream upgrades to a websocket and pushes every new snapshot. A slow
// client skips intermediate snapshots rather than queueing them.
func (h *Handler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	sub := h.slot.Subscribe()
	defer h.slot.Unsubscribe(sub.ID)
	log := h.logger.With("subscriber", sub.ID, "ip", c.ClientIP())
	log.Info("display client connected")

	// The read side only exists to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if snap, ok := h.slot.Latest(); ok {
		if err := writeSnapshot(conn, snap); err != nil {
			log.Info("display client dropped", "err", err)
			return
		}
	}

	for {
		select {
		case <-closed:
			log.Info("display client disconnected")
			return
		case <-c.Request.Context().Done():
			return
		case snap, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeSnapshot(conn, snap); err != nil {
				log.Info("display client dropped", "err", err)
				return
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap domain.Snapshot) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(snap)
}
