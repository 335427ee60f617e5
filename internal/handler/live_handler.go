package handler

import (
	"cora-leaf-be/internal/pkg/logger"
	"cora-leaf-be/internal/pkg/serverutils"
	"cora-leaf-be/internal/service"
	internalWS "cora-leaf-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// LiveHandler upgrades authenticated session requests to the live feed.
type LiveHandler struct {
	sessions service.SessionLocator
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewLiveHandler(sessions service.SessionLocator, hub *internalWS.Hub, log logger.ILogger) *LiveHandler {
	return &LiveHandler{
		sessions: sessions,
		hub:      hub,
		logger:   log,
	}
}

func (h *LiveHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	live := r.Group("/live/v1", auth)
	live.Get("/ws", h.ServeWs)
}

// ServeWs expects the token as a query parameter since browsers cannot set
// headers on a websocket handshake; SessionMiddleware accepts both.
func (h *LiveHandler) ServeWs(c *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(c)
	if err != nil {
		return err
	}
	if _, err := h.sessions.Find(sessionId); err != nil {
		h.logger.Warn("LiveHandler", "Handshake for unknown session", map[string]interface{}{"session_id": sessionId.String()})
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("LiveHandler", "Live feed opened", map[string]interface{}{"session_id": sessionId.String()})
		internalWS.ServeWs(h.hub, conn, sessionId)
		h.logger.Info("LiveHandler", "Live feed closed", map[string]interface{}{"session_id": sessionId.String()})
	})(c)
}
