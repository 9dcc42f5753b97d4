package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only message a feed client sends.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

// Registration events are forwarded verbatim as published on Redis; see
// model.RegistrationEvent.

type Event string

const (
	EventSubscribed Event = "subscribed"
	EventError      Event = "error"
	EventPong       Event = "pong"
)

type SubscribedResponse struct {
	Event   Event  `json:"event"`
	Channel string `json:"channel"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
