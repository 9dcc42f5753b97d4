package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/unireg/registrar/internal/config"
	"github.com/unireg/registrar/internal/response"
	ws "github.com/unireg/registrar/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins.
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// Subscriber opens Redis Pub/Sub subscriptions. *redis.Client satisfies it.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// FeedHandler streams registration events to websocket clients.
type FeedHandler struct {
	sub      Subscriber
	resp     *response.Responder
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(sub Subscriber, resp *response.Responder, log zerolog.Logger, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		sub:      sub,
		resp:     resp,
		log:      log.With().Str("component", "feed_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/registrations[?student_id=N]
// Forwards every registration event, or only those of one student. A client
// {"action":"ping"} is answered with {"event":"pong"}.
func (h *FeedHandler) Stream(c *gin.Context) {
	channel := config.ChannelKey.RegistrationEvents()
	if raw := c.Query("student_id"); raw != "" {
		studentID, err := strconv.Atoi(raw)
		if err != nil || studentID <= 0 {
			h.resp.Fail(c, response.ErrInvalidID)
			return
		}
		channel = config.ChannelKey.StudentEvents(studentID)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	wsLog := h.log.With().Str("channel", channel).Logger()

	pubsub := h.sub.Subscribe(ctx, channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Subscribe failed")
		ws.WriteError(conn, "feed unavailable")
		return
	}
	if err := ws.WriteTyped(conn, ws.SubscribedResponse{Event: ws.EventSubscribed, Channel: channel}); err != nil {
		return
	}

	wsLog.Info().Msg("Feed client connected")

	// Only this goroutine writes to conn; the reader hands replies over.
	replies := make(chan interface{}, 4)
	go h.readLoop(ctx, cancel, conn, replies, wsLog)

	events := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Feed client disconnected")
			return
		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}
		case msg, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteRaw(conn, []byte(msg.Payload)); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		}
	}
}

func (h *FeedHandler) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, replies chan<- interface{}, wsLog zerolog.Logger) {
	defer cancel()
	for {
		var req ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var reply interface{}
		switch req.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(req.Action)}
		}

		select {
		case replies <- reply:
		case <-ctx.Done():
			return
		default:
			// Client is pinging faster than it reads; drop the reply.
		}
	}
}
