package realtime

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisChannelPrefix = "taskhub:room:"

// RedisBus fans events out through Redis pub/sub so that clients connected
// to different processes still receive room traffic. Membership stays local:
// each process subscribes to all room channels and delivers only to its own
// connections.
type RedisBus struct {
	local *Hub
	rdb   *redis.Client
	log   *zap.Logger
}

func NewRedisBus(rdb *redis.Client, local *Hub, log *zap.Logger) *RedisBus {
	return &RedisBus{
		local: local,
		rdb:   rdb,
		log:   log,
	}
}

// Run consumes broker messages until ctx is cancelled. It must run alongside
// the local hub's Run loop.
func (b *RedisBus) Run(ctx context.Context) {
	pubsub := b.rdb.PSubscribe(ctx, redisChannelPrefix+"*")
	defer pubsub.Close()

	for {
		select {
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			room := strings.TrimPrefix(msg.Channel, redisChannelPrefix)
			b.local.deliver(room, []byte(msg.Payload))
		case <-ctx.Done():
			return
		}
	}
}

func (b *RedisBus) Register(c *Conn)          { b.local.Register(c) }
func (b *RedisBus) Unregister(connID string)  { b.local.Unregister(connID) }
func (b *RedisBus) Join(connID, room string)  { b.local.Join(connID, room) }
func (b *RedisBus) Leave(connID, room string) { b.local.Leave(connID, room) }
func (b *RedisBus) Stop()                     { b.local.Stop() }

func (b *RedisBus) Publish(room, event string, payload any) {
	msg, err := encodeEnvelope(event, payload)
	if err != nil {
		b.log.Warn("dropping unencodable event", zap.String("event", event), zap.Error(err))
		return
	}
	if err := b.rdb.Publish(context.Background(), redisChannelPrefix+room, msg).Err(); err != nil {
		// Fall back to local delivery so single-process setups keep working
		// through a broker hiccup.
		b.log.Warn("redis publish failed, delivering locally", zap.Error(err))
		b.local.deliver(room, msg)
	}
	if m := b.local.metrics; m != nil {
		m.BusPublishes.WithLabelValues(RoomKind(room)).Inc()
	}
}
