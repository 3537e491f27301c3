package handlers

import (
	"github.com/campusfound/lostfound-backend/internal/authz"
	"github.com/campusfound/lostfound-backend/internal/dto"
	"github.com/campusfound/lostfound-backend/internal/realtime"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RealtimeHandler exposes the change-notification feed over a websocket.
// Clients subscribe with an optional ?entity=reports|claims filter and
// re-fetch whichever rows the events name.
type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Upgrade validates the session and stashes the actor before the protocol
// switch; websocket handlers cannot touch the original request context.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	actorID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	c.Locals("actor_id", actorID)
	return c.Next()
}

func (h *RealtimeHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		actorID, _ := conn.Locals("actor_id").(uuid.UUID)

		sub := h.hub.Subscribe(realtime.Filter{
			Entity: conn.Query("entity"),
			UserID: actorID,
		})
		defer h.hub.Unsubscribe(sub)

		// Reads only signal disconnect; the feed is one-way.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-sub.C:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	})
}
