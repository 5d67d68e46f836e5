// Package realtime tracks how many devices a user is actively playing on.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/swiftprep/swiftprep/pkg/logger"
	storage "github.com/swiftprep/swiftprep/pkg/redis"
)

const (
	ActionPlay  = "play"
	ActionPause = "pause"
)

// DeviceCounter is the store behind the per-user active-device count.
type DeviceCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Decr(ctx context.Context, key string) (int64, error)
	Current(ctx context.Context, key string) (int64, error)
}

// redisCounter backs DeviceCounter with atomic Redis INCR/DECR; concurrent
// play/pause events from multiple tabs cannot lose updates.
type redisCounter struct {
	rclient *storage.RedisClient
}

func (r redisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return r.rclient.Incr(ctx, key).Result()
}

func (r redisCounter) Decr(ctx context.Context, key string) (int64, error) {
	return r.rclient.Decr(ctx, key).Result()
}

func (r redisCounter) Current(ctx context.Context, key string) (int64, error) {
	count, err := r.rclient.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Tracker moves the per-user active-device counter in response to play/pause
// events.
type Tracker struct {
	Counter DeviceCounter
	Logger  *logger.Logger
}

func NewTracker(rclient *storage.RedisClient, log *logger.Logger) *Tracker {
	return &Tracker{Counter: redisCounter{rclient: rclient}, Logger: log}
}

// DeviceEvent is a play/pause notification from a client.
type DeviceEvent struct {
	Action string `json:"action"`
}

// DeviceCount is echoed back after each event.
type DeviceCount struct {
	Action  string `json:"action"`
	Devices int64  `json:"devices"`
}

func deviceKey(userID string) string {
	return "devices:user:" + userID
}

// Upgrade gates the endpoint to WebSocket upgrade requests.
func (t *Tracker) Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Handler runs the per-connection event loop.
func (t *Tracker) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()
		userID, _ := conn.Locals("user_id").(string)
		if userID == "" {
			conn.Close()
			return
		}

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var event DeviceEvent
			if err := json.Unmarshal(msg, &event); err != nil {
				t.Logger.Warn(ctx).WithFields("user_id", userID).Logs("Malformed device event")
				continue
			}

			count, err := t.Apply(ctx, userID, event.Action)
			if err != nil {
				t.Logger.Error(ctx).WithFields("user_id", userID, "error", err.Error()).Logs("Failed to update device counter")
				continue
			}

			reply, _ := json.Marshal(DeviceCount{Action: event.Action, Devices: count})
			if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
				return
			}
		}
	})
}

// Apply moves the counter for one event and returns the new count.
func (t *Tracker) Apply(ctx context.Context, userID, action string) (int64, error) {
	key := deviceKey(userID)
	switch action {
	case ActionPlay:
		return t.Counter.Incr(ctx, key)
	case ActionPause:
		count, err := t.Counter.Decr(ctx, key)
		if err != nil {
			return 0, err
		}
		// A pause without a matching play must not drive the counter negative.
		if count < 0 {
			return t.Counter.Incr(ctx, key)
		}
		return count, nil
	default:
		return t.ActiveDevices(ctx, userID)
	}
}

// ActiveDevices reads the current counter without modifying it.
func (t *Tracker) ActiveDevices(ctx context.Context, userID string) (int64, error) {
	return t.Counter.Current(ctx, deviceKey(userID))
}
