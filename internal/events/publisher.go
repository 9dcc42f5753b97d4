// Package events publishes registration changes to Redis Pub/Sub.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/unireg/registrar/internal/config"
	"github.com/unireg/registrar/internal/model"
)

const publishTimeout = 2 * time.Second

// RedisPublisher publishes each event to the shared registrations channel and
// to the channel of the student it concerns.
type RedisPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(rdb *redis.Client, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{
		rdb: rdb,
		log: log.With().Str("component", "event_publisher").Logger(),
	}
}

// Publish sends the event. Failures are logged and otherwise ignored; the
// caller's cancellation does not abort a publish already under way.
func (p *RedisPublisher) Publish(ctx context.Context, event model.RegistrationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Msg("Failed to encode registration event")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	pipe := p.rdb.Pipeline()
	pipe.Publish(ctx, config.ChannelKey.RegistrationEvents(), payload)
	if event.StudentID > 0 {
		pipe.Publish(ctx, config.ChannelKey.StudentEvents(event.StudentID), payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		p.log.Warn().Err(err).
			Str("event", string(event.Event)).
			Int("reg_id", event.RegID).
			Msg("Failed to publish registration event")
	}
}

// Nop discards every event. It is used when no Redis URL is configured.
type Nop struct{}

// Publish implements service.EventPublisher.
func (Nop) Publish(context.Context, model.RegistrationEvent) {}
