package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// envelope is the redis wire form of a notice addressed to several students
type envelope struct {
	StudentIDs []int64 `json:"studentIds"`
	Notice     Notice  `json:"notice"`
}

// Relay fans notices out through a redis channel so that every instance
// delivers to the sockets it holds.
type Relay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  zerolog.Logger
}

// NewRelay creates a relay on the given redis channel
func NewRelay(client *redis.Client, channel string, hub *Hub, logger zerolog.Logger) *Relay {
	return &Relay{client: client, channel: channel, hub: hub, logger: logger}
}

// Publish sends a notice to all instances, including this one
func (r *Relay) Publish(ctx context.Context, studentIDs []int64, notice Notice) error {
	payload, err := encodeEnvelope(studentIDs, notice)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notice: %w", err)
	}
	return nil
}

// Run delivers notices received on the channel to the local hub until ctx ends
func (r *Relay) Run(ctx context.Context) {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	r.logger.Info().Str("channel", r.channel).Msg("Notice relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			studentIDs, notice, err := decodeEnvelope([]byte(msg.Payload))
			if err != nil {
				r.logger.Warn().Err(err).Msg("Dropping malformed notice")
				continue
			}
			r.hub.Notify(studentIDs, notice)
		}
	}
}

func encodeEnvelope(studentIDs []int64, notice Notice) ([]byte, error) {
	data, err := json.Marshal(envelope{StudentIDs: studentIDs, Notice: notice})
	if err != nil {
		return nil, fmt.Errorf("failed to encode notice: %w", err)
	}
	return data, nil
}

func decodeEnvelope(data []byte) ([]int64, Notice, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, Notice{}, fmt.Errorf("failed to decode notice: %w", err)
	}
	if env.Notice.Type == "" {
		return nil, Notice{}, fmt.Errorf("notice without type")
	}
	return env.StudentIDs, env.Notice, nil
}
