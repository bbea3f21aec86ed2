package system

import (
	"context"
	"encoding/json"

	"go-taskhub/internal/config"
	"go-taskhub/internal/realtime"
	"go-taskhub/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WebSocketController struct {
	Bus        realtime.Bus
	Authorizer *realtime.Authorizer
	Config     *config.Config
	Log        *zap.Logger
}

func NewWebSocketController(bus realtime.Bus, authorizer *realtime.Authorizer, cfg *config.Config, log *zap.Logger) *WebSocketController {
	return &WebSocketController{
		Bus:        bus,
		Authorizer: authorizer,
		Config:     cfg,
		Log:        log,
	}
}

// roomFrame is the payload of inbound join/leave/typing frames.
type roomFrame struct {
	Room string `json:"room"`
}

type typingPayload struct {
	Room     string `json:"room"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok || claims == nil {
		c.Close()
		return
	}

	conn := realtime.NewConn(uuid.NewString(), claims.UserID)
	h.Bus.Register(conn)

	// Every authenticated connection listens on its own notification
	// stream without an explicit join.
	h.Bus.Join(conn.ID, realtime.PersonalRoom(claims.UserID))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for frame := range conn.Outbound() {
			if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	}()

	ctx := context.Background()
	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}

		var env realtime.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			h.Log.Debug("dropping malformed frame", zap.String("user", claims.UserID))
			continue
		}

		var frame roomFrame
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &frame); err != nil {
				continue
			}
		}

		switch env.Event {
		case realtime.EventChatJoin:
			// Unauthorized joins are ignored, not answered.
			if h.Authorizer.CanJoin(ctx, claims, frame.Room) {
				h.Bus.Join(conn.ID, frame.Room)
			}
		case realtime.EventChatLeave:
			h.Bus.Leave(conn.ID, frame.Room)
		case realtime.EventChatTyping, realtime.EventChatStopTyping:
			if h.Authorizer.CanJoin(ctx, claims, frame.Room) {
				h.Bus.Publish(frame.Room, env.Event, typingPayload{
					Room:     frame.Room,
					UserID:   claims.UserID,
					UserName: claims.Name,
				})
			}
		}
	}

	// Unregister first: it makes the hub drop every room membership and
	// close the outbound channel, which is what lets the writer goroutine
	// finish. A deferred unregister would deadlock against <-done.
	h.Bus.Unregister(conn.ID)
	c.Close()
	<-done
}
