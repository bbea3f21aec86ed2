package realtime

import (
	"encoding/json"
	"strings"
)

// Client-facing event names. The naming is part of the wire contract with
// the frontend and must not change.
const (
	EventNotificationNew      = "notification:new"
	EventNotificationReminder = "notification:reminder"
	EventChatTeamMessage      = "chat:team:new_message"
	EventChatAdminMessage     = "chat:admin:new_message"
	EventChatMessageUpdated   = "chat:message_updated"
	EventChatTyping           = "chat:typing"
	EventChatStopTyping       = "chat:stop_typing"

	// Inbound control events from clients.
	EventChatJoin  = "chat:join"
	EventChatLeave = "chat:leave"
)

// AdminGeneralRoom is the shared admin/subadmin broadcast channel.
const AdminGeneralRoom = "admin:general"

// PersonalRoom is the per-user notification stream, joined implicitly for
// every authenticated connection.
func PersonalRoom(userID string) string {
	return "notif:" + userID
}

// TeamRoom names a team chat room.
func TeamRoom(teamName string) string {
	return "team:" + teamName
}

// AdminDMRoom names a direct-message room. Rooms are keyed on the
// counterpart's email from the admin's perspective; a subadmin always keys
// on their own email, so both sides resolve to the same room.
func AdminDMRoom(email string) string {
	return "admin:dm:" + email
}

// RoomKind classifies a room name for metrics labels.
func RoomKind(room string) string {
	switch {
	case strings.HasPrefix(room, "notif:"):
		return "notif"
	case strings.HasPrefix(room, "team:"):
		return "team"
	case strings.HasPrefix(room, "admin:"):
		return "admin"
	default:
		return "other"
	}
}

// Envelope is the JSON frame exchanged over the websocket.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Bus is the realtime delivery channel: per-connection room membership plus
// room-addressed publishing. The in-process Hub is the default
// implementation; RedisBus layers a broker on top for multi-process setups.
// Delivery is best effort: a publish to a room with no connected members is
// silently dropped, the persisted record being the durable copy.
type Bus interface {
	Register(c *Conn)
	Unregister(connID string)
	Join(connID, room string)
	Leave(connID, room string)
	Publish(room, event string, payload any)
	Stop()
}

// Conn is one connected client from the bus's point of view. The websocket
// handler pumps Outbound() to the peer.
type Conn struct {
	ID     string
	UserID string
	send   chan []byte
}

func NewConn(id, userID string) *Conn {
	return &Conn{
		ID:     id,
		UserID: userID,
		send:   make(chan []byte, 64),
	}
}

// Outbound returns the channel of frames queued for this connection. It is
// closed when the connection is unregistered.
func (c *Conn) Outbound() <-chan []byte {
	return c.send
}

func encodeEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
